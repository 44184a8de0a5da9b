package redact

import (
	"strings"

	"github.com/shroud-io/shroud/internal/entity"
)

// DefaultFillRune is the fill character used when the caller does not
// choose one.
const DefaultFillRune = '█'

// Redact rewrites text by replacing each matched span with fill repeated
// over the span's rune length, preserving total rune count and every
// unmatched rune verbatim. The returned MatchSet is the input set,
// untouched, so callers can report on what was redacted.
//
// Every match is validated against the original text before any rewrite;
// a malformed match fails the whole call with no partial output.
// Replacements are applied in descending Start order so earlier offsets
// stay valid while later spans are rewritten.
func Redact(text string, set entity.MatchSet, fill rune) (string, entity.MatchSet, error) {
	runes := []rune(text)
	for _, m := range set {
		if err := m.Validate(runes); err != nil {
			return "", nil, err
		}
	}

	redacted := runes
	for i := len(set) - 1; i >= 0; i-- {
		m := set[i]
		fillSpan := []rune(strings.Repeat(string(fill), m.Len()))
		redacted = append(redacted[:m.Start], append(fillSpan, redacted[m.End:]...)...)
	}

	return string(redacted), set, nil
}
