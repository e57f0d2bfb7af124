package similarity

import (
	"fmt"

	"github.com/hbollon/go-edlib"
)

// Scorer scores the similarity of two strings in [0, 1]. Implementations must
// be pure and total: any pair of strings scores without error or side effect.
type Scorer interface {
	Score(a, b string) float64
}

// Func adapts a plain function to the Scorer interface.
type Func func(a, b string) float64

func (f Func) Score(a, b string) float64 { return f(a, b) }

// ForName resolves a scorer implementation by its configuration name.
// "jarowinkler" is the in-process reference metric; "edlib" delegates to
// github.com/hbollon/go-edlib.
func ForName(name string) (Scorer, error) {
	switch name {
	case "", "jarowinkler":
		return Func(JaroWinkler), nil
	case "edlib":
		return Func(edlibJaroWinkler), nil
	default:
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
}

// edlibJaroWinkler wraps the library call behind the same empty-string rule
// as the reference metric.
func edlibJaroWinkler(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return float64(edlib.JaroWinklerSimilarity(a, b))
}
