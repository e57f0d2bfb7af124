package similarity

// winklerPrefixCap bounds the common-prefix length credited by the Winkler
// boost.
const winklerPrefixCap = 4

// winklerBoostFactor is the standard Winkler scaling factor p.
const winklerBoostFactor = 0.1

// Jaro returns the Jaro similarity of two strings in [0, 1]. Comparison is
// codepoint-exact; callers that want case folding or transliteration apply it
// before scoring. Either string being empty scores 0.
func Jaro(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	la := len(ra)
	lb := len(rb)
	if la == 0 || lb == 0 {
		return 0
	}

	window := la
	if lb > window {
		window = lb
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, la)
	bMatched := make([]bool, lb)
	matches := 0

	for i := 0; i < la; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > lb {
			hi = lb
		}
		for j := lo; j < hi; j++ {
			if bMatched[j] || ra[i] != rb[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	// Count half-transpositions over the matched subsequences in order.
	halfTranspositions := 0
	j := 0
	for i := 0; i < la; i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if ra[i] != rb[j] {
			halfTranspositions++
		}
		j++
	}
	transpositions := float64(halfTranspositions) / 2

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-transpositions)/m) / 3
}

// JaroWinkler returns the Jaro similarity boosted for a shared prefix of up
// to four codepoints. Total over all string inputs and never outside [0, 1].
func JaroWinkler(a, b string) float64 {
	jaro := Jaro(a, b)
	if jaro == 0 {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < winklerPrefixCap {
		if ra[prefix] != rb[prefix] {
			break
		}
		prefix++
	}

	return jaro + float64(prefix)*winklerBoostFactor*(1-jaro)
}
