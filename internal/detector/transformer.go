package detector

import (
	"net/http"

	"github.com/shroud-io/shroud/internal/entity"
)

// transformerLabels maps CoNLL-style labels from the transformer NER
// backend into the entity taxonomy. MISC spans are treated as
// organizations, the least sensitive mapped category.
var transformerLabels = map[string]entity.Category{
	"PER":  entity.CategoryPerson,
	"ORG":  entity.CategoryOrganization,
	"LOC":  entity.CategoryAddress,
	"MISC": entity.CategoryOrganization,
}

// NewTransformerDetector returns a detector backed by the transformer NER
// service at baseURL. The backend reports a native per-entity score, which
// is clamped into [0,1]. An empty baseURL yields a disabled detector.
func NewTransformerDetector(baseURL string) Detector {
	if baseURL == "" {
		return Disabled(SourceTransformer)
	}
	return &nerDetector{
		name:   SourceTransformer,
		client: &nerClient{baseURL: baseURL, httpClient: &http.Client{}},
		labels: transformerLabels,
		confidence: func(e nerEntity) float64 {
			switch {
			case e.Score < 0:
				return 0
			case e.Score > 1:
				return 1
			default:
				return e.Score
			}
		},
	}
}
