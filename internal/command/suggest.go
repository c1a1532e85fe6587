package command

import "github.com/agnivade/levenshtein"

// maxSuggestDistance bounds how far a name may be from a candidate before a
// suggestion stops being helpful.
const maxSuggestDistance = 2

// Suggest returns the closest candidate within edit distance 2 of name, used
// for "did you mean" hints on unknown parameter names. Returns "" when
// nothing is close enough.
func Suggest(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			bestDist = d
			best = candidate
		}
	}
	return best
}
