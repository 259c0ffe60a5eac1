// Package linker pairs up player names across two runs of the same
// leaderboard, tolerating small differences in spelling.
package linker

import (
	"github.com/antzucaro/matchr"
)

// DefaultMinCorrelation is the lowest Jaro-Winkler similarity at which two
// different names are still considered the same player.
const DefaultMinCorrelation = 0.85

type ImplicitLink struct {
	Left        string
	Right       string
	Correlation float64
}

// CreateImplicitLinks links every name in leftList to at most one name in
// rightList. Exact matches are linked first, then each remaining left name is
// linked to its most similar remaining right name if the similarity is at
// least minCorrelation.
func CreateImplicitLinks(leftList, rightList []string, minCorrelation float64) []ImplicitLink {
	swapped := false
	if len(rightList) < len(leftList) {
		leftList, rightList = rightList, leftList
		swapped = true
	}

	var result []ImplicitLink
	matchedLeft := make(map[string]struct{})
	matchedRight := make(map[string]struct{})

	link := func(left, right string, correlation float64) {
		l := ImplicitLink{Left: left, Right: right, Correlation: correlation}
		if swapped {
			l.Left, l.Right = right, left
		}
		result = append(result, l)
		matchedLeft[left] = struct{}{}
		matchedRight[right] = struct{}{}
	}

	for _, left := range leftList {
		for _, right := range rightList {
			_, isMatchedRight := matchedRight[right]
			if isMatchedRight {
				continue
			}
			if left == right {
				link(left, right, 1)
				break
			}
		}
	}

	for _, left := range leftList {
		_, isMatchedLeft := matchedLeft[left]
		if isMatchedLeft {
			continue
		}

		var mostSimilarity float64
		var mostSimilarRight string

		for _, right := range rightList {
			_, isMatchedRight := matchedRight[right]
			if isMatchedRight {
				continue
			}

			similarity := matchr.JaroWinkler(left, right, false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilarRight = right
			}
		}

		if mostSimilarity > 0 && mostSimilarity >= minCorrelation {
			link(left, mostSimilarRight, mostSimilarity)
		}
	}

	return result
}
