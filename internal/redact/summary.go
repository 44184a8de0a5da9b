package redact

import (
	"github.com/shroud-io/shroud/internal/entity"
)

// Summary is a read-only aggregate over a MatchSet, computed on demand.
type Summary struct {
	Total      int                     `json:"total"`
	ByCategory map[entity.Category]int `json:"by_type"`
	BySource   map[string]int          `json:"by_source"`
	Confidence ConfidenceStats         `json:"confidence"`
}

// ConfidenceStats holds confidence statistics over all matches. For an
// empty set, Min is 1.0 and Max is 0.0: a zero Min would falsely suggest
// a zero-confidence match exists.
type ConfidenceStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Summarize aggregates counts and confidence statistics over set.
func Summarize(set entity.MatchSet) Summary {
	s := Summary{
		Total:      len(set),
		ByCategory: make(map[entity.Category]int),
		BySource:   make(map[string]int),
		Confidence: ConfidenceStats{Average: 0.0, Min: 1.0, Max: 0.0},
	}
	if len(set) == 0 {
		return s
	}

	sum := 0.0
	s.Confidence.Min = set[0].Confidence
	s.Confidence.Max = set[0].Confidence
	for _, m := range set {
		s.ByCategory[m.Category]++
		s.BySource[m.Source]++
		sum += m.Confidence
		if m.Confidence < s.Confidence.Min {
			s.Confidence.Min = m.Confidence
		}
		if m.Confidence > s.Confidence.Max {
			s.Confidence.Max = m.Confidence
		}
	}
	s.Confidence.Average = sum / float64(len(set))

	return s
}
