package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatures covers codepoints that do not decompose to base letter plus
// combining mark and so survive the NFD pass.
var ligatures = strings.NewReplacer(
	"ß", "ss",
	"ẞ", "SS",
	"æ", "ae",
	"Æ", "AE",
	"œ", "oe",
	"Œ", "OE",
	"ø", "o",
	"Ø", "O",
	"đ", "d",
	"Đ", "D",
	"ł", "l",
	"Ł", "L",
)

// Transliterate folds diacritics to their base letters (Fríbourg → Fribourg)
// and expands common ligatures. Input that fails to transform is returned
// unchanged rather than partially folded.
func Transliterate(s string) string {
	if s == "" {
		return s
	}
	folded := ligatures.Replace(s)
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, folded)
	if err != nil {
		return s
	}
	return out
}
