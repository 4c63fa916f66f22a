package revset

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// suggest returns up to three candidates close to name. A candidate
// qualifies when it contains name as a subsequence or is within a small
// edit distance of it; closer candidates come first.
func suggest(name string, candidates []string) []string {
	type scored struct {
		name     string
		distance int
		rank     int
	}

	limit := len(name) / 3
	if limit < 1 {
		limit = 1
	}
	fuzzyRank := make(map[string]int)
	for i, match := range fuzzy.Find(name, candidates) {
		fuzzyRank[match.Str] = i
	}

	var found []scored
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] || c == name {
			continue
		}
		seen[c] = true
		d := editDistance(name, c)
		rank, matched := fuzzyRank[c]
		if !matched {
			if d > limit {
				continue
			}
			rank = len(candidates)
		}
		found = append(found, scored{name: c, distance: d, rank: rank})
	}

	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.name < b.name
	})

	var out []string
	for _, s := range found {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, s.name)
	}
	return out
}

// editDistance is the optimal string alignment distance between a and b:
// insertions, deletions, substitutions and adjacent transpositions each
// cost one.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(rb)]
}
