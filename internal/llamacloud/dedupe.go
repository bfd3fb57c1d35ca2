package llamacloud

import "sort"

// DedupeAndRank drops repeated source files and orders the survivors by
// descending relevance score. The first occurrence of each non-empty
// FileName wins; candidates without a file name are never deduplicated
// against each other. The sort is stable so equal scores keep their
// original relative order.
func DedupeAndRank(candidates []*CandidateMatch) []*CandidateMatch {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]*CandidateMatch, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate.FileName != "" {
			if _, dup := seen[candidate.FileName]; dup {
				continue
			}
			seen[candidate.FileName] = struct{}{}
		}
		unique = append(unique, candidate)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score > unique[j].Score
	})

	return unique
}
