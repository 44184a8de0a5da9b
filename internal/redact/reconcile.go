// Package redact implements the core of the engine: reconciliation of
// overlapping candidate matches into a single authoritative set,
// position-stable redaction of the source text, and summary aggregation.
package redact

import (
	"sort"

	"github.com/shroud-io/shroud/internal/entity"
)

// Merge reconciles candidate matches from all detectors into one
// non-overlapping sequence sorted ascending by Start.
//
// The sweep is a sequential-replace policy, not optimal interval
// scheduling: each candidate is compared only against the most recently
// accepted entry. On overlap, strictly higher confidence replaces the
// accepted entry; equal confidence with a strictly longer span replaces
// it; otherwise the candidate is discarded. A discarded candidate is never
// reconsidered, even if it would have beaten a later-overlapping match.
// The sort is stable, so candidates with equal Start keep input order.
func Merge(candidates []entity.Match) entity.MatchSet {
	if len(candidates) == 0 {
		return entity.MatchSet{}
	}

	sorted := make([]entity.Match, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := entity.MatchSet{sorted[0]}
	for _, cand := range sorted[1:] {
		last := merged[len(merged)-1]
		if cand.Start >= last.End {
			merged = append(merged, cand)
			continue
		}
		if cand.Confidence > last.Confidence ||
			(cand.Confidence == last.Confidence && cand.Len() > last.Len()) {
			merged[len(merged)-1] = cand
		}
	}

	return merged
}
