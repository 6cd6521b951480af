// Package harmonize matches free-text statement descriptions against the
// curated canonical mapping tables. Matching is best-effort: below the
// cutoff the input text passes through unchanged, it is never an error.
package harmonize

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Mapping is a curated raw-description → canonical-name lookup table.
// Mappings are loaded once from configuration and only consulted, never
// mutated, by the pipeline.
type Mapping map[string]string

// Ratio returns the sequence-matcher similarity of a and b in [0, 1]:
// 2*M/T where M is the total size of the longest matching blocks and T the
// combined length. This is deliberately not an edit distance; the two
// metrics diverge materially on reordered text.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

func chars(s string) []string {
	return strings.Split(s, "")
}

// Harmonize returns the canonical value of the mapping key most similar to
// text when the best score is at least cutoff, otherwise text unchanged.
//
// Keys are scanned in sorted order and a candidate replaces the running best
// only on a strictly greater score, so equally scored keys resolve to the
// lexicographically smallest one. The tie-break is part of the contract:
// results must be identical on every run and every map iteration order.
func Harmonize(text string, mapping Mapping, cutoff float64) string {
	if len(mapping) == 0 {
		return text
	}

	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bestKey := ""
	bestScore := -1.0
	for _, k := range keys {
		if score := Ratio(text, k); score > bestScore {
			bestKey = k
			bestScore = score
		}
	}

	if bestScore < cutoff {
		return text
	}
	return mapping[bestKey]
}
