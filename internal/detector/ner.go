package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shroud-io/shroud/internal/entity"
)

// TimeoutNERCall bounds a single backend invocation. Model inference is
// the dominant latency source in the pipeline, so the timeout lives here
// rather than at the HTTP transport.
const TimeoutNERCall = 30 * time.Second

// nerClient is a thin HTTP client for an external NER model backend
// exposing POST {base}/recognize.
type nerClient struct {
	baseURL    string
	httpClient *http.Client
}

type nerRequest struct {
	Text string `json:"text"`
}

// nerEntity is one span as reported by the backend. Offsets are character
// (rune) offsets into the submitted text; Score is absent for backends
// without native per-entity confidence.
type nerEntity struct {
	Text  string  `json:"text"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Label string  `json:"label"`
	Score float64 `json:"score,omitempty"`
}

type nerResponse struct {
	Entities []nerEntity `json:"entities"`
}

func (c *nerClient) recognize(ctx context.Context, text string) ([]nerEntity, error) {
	ctx, cancel := context.WithTimeout(ctx, TimeoutNERCall)
	defer cancel()

	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshalling recognize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recognize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating recognize request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: backend returned %d", ErrBackendUnavailable, resp.StatusCode)
	}

	var apiResp nerResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrBackendUnavailable, err)
	}

	return apiResp.Entities, nil
}

// nerDetector adapts an external NER backend to the Detector interface:
// it maps the backend's native label vocabulary into the entity taxonomy
// and stamps its source tag on every match. Unmapped labels are dropped,
// not errored; so are entities whose offsets fall outside the text.
type nerDetector struct {
	name       string
	client     *nerClient
	labels     map[string]entity.Category
	confidence func(nerEntity) float64
}

// Name returns the detector's source tag.
func (d *nerDetector) Name() string { return d.name }

// Detect invokes the backend and converts its spans to matches. Match text
// is taken from the source span, not the backend's echo, so offsets and
// text stay consistent by construction.
func (d *nerDetector) Detect(ctx context.Context, text string) ([]entity.Match, error) {
	ctx, span := tracer.Start(ctx, "detector."+d.name)
	defer span.End()

	native, err := d.client.recognize(ctx, text)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	runes := []rune(text)
	var out []entity.Match
	dropped := 0
	for _, e := range native {
		category, ok := d.labels[e.Label]
		if !ok {
			dropped++
			continue
		}
		if e.Start < 0 || e.End <= e.Start || e.End > len(runes) {
			dropped++
			continue
		}
		out = append(out, entity.Match{
			Text:       string(runes[e.Start:e.End]),
			Start:      e.Start,
			End:        e.End,
			Category:   category,
			Confidence: d.confidence(e),
			Source:     d.name,
		})
	}

	span.SetAttributes(
		attribute.Int("detector.match_count", len(out)),
		attribute.Int("detector.dropped_count", dropped),
	)
	return out, nil
}
