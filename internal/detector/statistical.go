package detector

import (
	"net/http"

	"github.com/shroud-io/shroud/internal/entity"
)

// statisticalLabels maps the statistical model's label vocabulary into the
// entity taxonomy. Labels without an entry are dropped. GPE (geopolitical
// entity) folds into ADDRESS; CARDINAL folds into FINANCIAL since bare
// numbers in financial documents are most often amounts.
var statisticalLabels = map[string]entity.Category{
	"PERSON":   entity.CategoryPerson,
	"ORG":      entity.CategoryOrganization,
	"GPE":      entity.CategoryAddress,
	"DATE":     entity.CategoryDate,
	"MONEY":    entity.CategoryFinancial,
	"CARDINAL": entity.CategoryFinancial,
}

// NewStatisticalDetector returns a detector backed by the statistical NER
// service at baseURL. The backend reports no per-entity confidence, so
// every match carries StatisticalConfidence. An empty baseURL yields a
// disabled detector: model unavailability degrades, it never fails the
// pipeline.
func NewStatisticalDetector(baseURL string) Detector {
	if baseURL == "" {
		return Disabled(SourceStatistical)
	}
	return &nerDetector{
		name:       SourceStatistical,
		client:     &nerClient{baseURL: baseURL, httpClient: &http.Client{}},
		labels:     statisticalLabels,
		confidence: func(nerEntity) float64 { return StatisticalConfidence },
	}
}
