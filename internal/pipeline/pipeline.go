// Package pipeline composes the detectors, reconciler, redactor, and
// summary builder into the engine exposed to callers (HTTP API, CLI).
//
// A pipeline run is a pure function of the input text and the configured
// detector set: no component holds state across calls.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/shroud-io/shroud/internal/detector"
	"github.com/shroud-io/shroud/internal/entity"
	shroudotel "github.com/shroud-io/shroud/internal/otel"
	"github.com/shroud-io/shroud/internal/redact"
)

var tracer = shroudotel.Tracer("github.com/shroud-io/shroud/internal/pipeline")

// Engine runs an ordered collection of detectors and reconciles their
// output. Detectors are added at construction; the engine itself never
// needs to change when one is added or removed.
type Engine struct {
	detectors []detector.Detector
}

// NewEngine builds an engine over the given detectors. Order determines
// input order into reconciliation, which matters only for candidates with
// equal start offsets (stable sort).
func NewEngine(detectors ...detector.Detector) *Engine {
	return &Engine{detectors: detectors}
}

// Analyze runs all detectors over text and returns the reconciled,
// non-overlapping match set. Empty input is valid and yields an empty set.
//
// Detectors run concurrently, each reading only the shared immutable
// text. A detector failure or timeout degrades to "that detector
// contributed zero matches" and is logged; it never fails the call.
// A malformed match surviving into reconciliation is a programmer error
// and fails the whole call with no output.
func (e *Engine) Analyze(ctx context.Context, text string) (entity.MatchSet, error) {
	ctx, span := tracer.Start(ctx, "pipeline.analyze")
	defer span.End()

	if text == "" {
		return entity.MatchSet{}, nil
	}

	results := make([][]entity.Match, len(e.detectors))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range e.detectors {
		i, d := i, d
		g.Go(func() error {
			matches, err := d.Detect(gctx, text)
			if err != nil {
				log.Warn().
					Err(err).
					Str("detector", d.Name()).
					Func(shroudotel.LogTraceFields(gctx)).
					Msg("detector_failed")
				return nil
			}
			results[i] = matches
			return nil
		})
	}
	// Goroutines never return errors; Wait is only a join point.
	_ = g.Wait()

	var candidates []entity.Match
	for _, r := range results {
		candidates = append(candidates, r...)
	}

	runes := []rune(text)
	for _, m := range candidates {
		if err := m.Validate(runes); err != nil {
			return nil, fmt.Errorf("detector %s produced malformed match %s: %w", m.Source, m, err)
		}
	}

	merged := redact.Merge(candidates)

	span.SetAttributes(
		attribute.Int("pipeline.candidate_count", len(candidates)),
		attribute.Int("pipeline.match_count", len(merged)),
	)
	return merged, nil
}

// Redact analyzes text and rewrites every reconciled span with fill,
// preserving rune length and all unmatched characters. Returns the
// redacted text and the reconciled set used for the rewrite.
func (e *Engine) Redact(ctx context.Context, text string, fill rune) (string, entity.MatchSet, error) {
	ctx, span := tracer.Start(ctx, "pipeline.redact")
	defer span.End()

	matches, err := e.Analyze(ctx, text)
	if err != nil {
		return "", nil, err
	}
	return redact.Redact(text, matches, fill)
}

// Summarize aggregates counts and confidence statistics over a match set.
func (e *Engine) Summarize(set entity.MatchSet) redact.Summary {
	return redact.Summarize(set)
}
