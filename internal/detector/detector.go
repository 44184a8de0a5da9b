// Package detector provides the pluggable match producers for the
// redaction pipeline: a regex pattern detector backed by a YAML recognizer
// registry, and HTTP clients for external NER model backends.
//
// Detectors are independent and side-effect free: each reads the input
// text and emits candidate matches, leaving overlap resolution to the
// reconciler. A detector that cannot reach its backend returns an error;
// the pipeline contains such errors as "zero matches contributed".
package detector

import (
	"context"
	"errors"

	"github.com/shroud-io/shroud/internal/entity"
)

// Source tags identifying which detector produced a match.
const (
	SourcePattern     = "pattern"
	SourceStatistical = "statistical"
	SourceTransformer = "transformer"
)

// Confidence policy values. Neither has statistical grounding; they encode
// "high-precision rules" and "model without native scores" respectively
// and are kept as named constants so they can be tuned without touching
// detection code.
const (
	// PatternConfidence is assigned to regex matches, which carry no
	// native score.
	PatternConfidence = 0.9

	// StatisticalConfidence is assigned to statistical-model entities;
	// that backend does not report per-entity scores.
	StatisticalConfidence = 0.8
)

// ErrBackendUnavailable marks a detector whose external backend could not
// be reached or returned a malformed response.
var ErrBackendUnavailable = errors.New("detector backend unavailable")

// Detector produces candidate matches for a text. Implementations must be
// safe for concurrent use and must not retain the input.
type Detector interface {
	// Name returns the source tag stamped on every emitted match.
	Name() string
	// Detect scans text and returns candidate matches with rune offsets.
	Detect(ctx context.Context, text string) ([]entity.Match, error)
}

// disabled is a no-op detector standing in for a backend that was not
// configured or failed to initialize. Detector unavailability is a
// degraded-mode condition, never fatal, so absence is a first-class value
// rather than a nil check at every call site.
type disabled struct {
	name string
}

// Disabled returns a no-op detector carrying the given source tag.
func Disabled(name string) Detector {
	return disabled{name: name}
}

func (d disabled) Name() string { return d.name }

func (d disabled) Detect(ctx context.Context, text string) ([]entity.Match, error) {
	return nil, nil
}
