// Package similarity implements the Jaro-Winkler string similarity used by
// the matching engine, plus a pluggable Scorer interface so runs can delegate
// scoring to an external implementation instead.
//
// The metric is deliberately un-normalized: case, whitespace, and diacritics
// compare codepoint-exact. Transliteration, when enabled, happens at label
// projection time in the engine, never here.
package similarity
