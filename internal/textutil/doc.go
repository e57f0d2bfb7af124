// Package textutil provides the transliteration step applied to labels before
// scoring when matching.transliterate is enabled.
//
// Folding happens at projection time so the similarity metric itself stays
// comparison-exact.
package textutil
