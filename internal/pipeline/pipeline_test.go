package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shroud-io/shroud/internal/detector"
	"github.com/shroud-io/shroud/internal/entity"
)

// fakeDetector returns canned matches or a canned error.
type fakeDetector struct {
	name    string
	matches []entity.Match
	err     error
}

func (f *fakeDetector) Name() string { return f.name }

func (f *fakeDetector) Detect(ctx context.Context, text string) ([]entity.Match, error) {
	return f.matches, f.err
}

func TestAnalyzeEmptyText(t *testing.T) {
	engine := NewEngine(detector.MustNewPatternDetector())

	matches, err := engine.Analyze(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestAnalyzeNoDetectors(t *testing.T) {
	engine := NewEngine()

	matches, err := engine.Analyze(context.Background(), "SSN: 123-45-6789")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestAnalyzeReconcilesAcrossDetectors(t *testing.T) {
	text := "Jane Doe lives here"
	low := &fakeDetector{name: "statistical", matches: []entity.Match{
		{Text: "Jane Doe", Start: 0, End: 8, Category: entity.CategoryPerson, Confidence: 0.8, Source: "statistical"},
	}}
	high := &fakeDetector{name: "transformer", matches: []entity.Match{
		{Text: "Jane Doe", Start: 0, End: 8, Category: entity.CategoryPerson, Confidence: 0.95, Source: "transformer"},
	}}

	engine := NewEngine(low, high)
	matches, err := engine.Analyze(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, matches, 1, "overlapping mentions must reconcile to one match")
	assert.Equal(t, 0.95, matches[0].Confidence)
	assert.Equal(t, "transformer", matches[0].Source)
}

func TestAnalyzeDetectorFailureDegrades(t *testing.T) {
	text := "mail jane@example.org"
	failing := &fakeDetector{name: "statistical", err: errors.New("backend down")}

	engine := NewEngine(detector.MustNewPatternDetector(), failing)
	matches, err := engine.Analyze(context.Background(), text)
	require.NoError(t, err, "a failing detector must not fail the call")

	require.Len(t, matches, 1)
	assert.Equal(t, entity.CategoryEmail, matches[0].Category)
}

func TestAnalyzeAllDetectorsFailing(t *testing.T) {
	engine := NewEngine(
		&fakeDetector{name: "statistical", err: errors.New("down")},
		&fakeDetector{name: "transformer", err: errors.New("down")},
	)

	matches, err := engine.Analyze(context.Background(), "SSN: 123-45-6789")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestAnalyzeMalformedMatchIsFatal(t *testing.T) {
	bad := &fakeDetector{name: "statistical", matches: []entity.Match{
		{Text: "ghost", Start: 90, End: 95, Category: entity.CategoryPerson, Confidence: 0.8, Source: "statistical"},
	}}

	engine := NewEngine(bad)
	_, err := engine.Analyze(context.Background(), "short text")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidRange)
}

func TestRedactEndToEnd(t *testing.T) {
	text := "Contact me at jane@example.org or call 555.987.6543"
	engine := NewEngine(detector.MustNewPatternDetector())

	redacted, matches, err := engine.Redact(context.Background(), text, '█')
	require.NoError(t, err)

	want := "Contact me at " + strings.Repeat("█", 16) + " or call " + strings.Repeat("█", 12)
	assert.Equal(t, want, redacted)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, detector.SourcePattern, m.Source)
		assert.Equal(t, detector.PatternConfidence, m.Confidence)
	}
}

func TestRedactScenarioNationalIDAndCard(t *testing.T) {
	text := "SSN: 123-45-6789, Credit Card: 4532-1234-5678-9012"
	engine := NewEngine(detector.MustNewPatternDetector())

	matches, err := engine.Analyze(context.Background(), text)
	require.NoError(t, err)

	summary := engine.Summarize(matches)
	assert.Equal(t, 1, summary.ByCategory[entity.CategoryNationalID])
	assert.Equal(t, 1, summary.ByCategory[entity.CategoryCreditCard])

	for i := 0; i < len(matches)-1; i++ {
		assert.LessOrEqual(t, matches[i].End, matches[i+1].Start)
	}
}

func TestSummarizeDelegates(t *testing.T) {
	engine := NewEngine()
	s := engine.Summarize(entity.MatchSet{})
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 1.0, s.Confidence.Min)
	assert.Equal(t, 0.0, s.Confidence.Max)
}
