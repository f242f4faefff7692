package utils

import "sort"

// RankByFrequency merges several lists of ids into one, ordered by how many
// lists each id appears in. Ids hit by more match sources rank first; ties
// keep the order of first appearance.
func RankByFrequency[T comparable](groups ...[]T) []T {
	counts := make(map[T]int)
	firstSeen := make(map[T]int)
	order := 0

	for _, group := range groups {
		seen := make(map[T]bool)
		for _, id := range group {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, ok := firstSeen[id]; !ok {
				firstSeen[id] = order
				order++
			}
			counts[id]++
		}
	}

	result := make([]T, 0, len(counts))
	for id := range counts {
		result = append(result, id)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if counts[result[i]] != counts[result[j]] {
			return counts[result[i]] > counts[result[j]]
		}
		return firstSeen[result[i]] < firstSeen[result[j]]
	})

	return result
}
