// Package entity defines the shared taxonomy and match value types exchanged
// between detectors, the reconciler, and the redactor.
//
// Offsets are rune offsets into the original text (0-indexed, half-open).
// Rune offsets rather than byte offsets so that positions survive the
// multi-byte fill characters used during redaction and line up with the
// character offsets returned by external NER backends.
package entity

import (
	"errors"
	"fmt"
)

// Category classifies a sensitive span. The set is closed; extending it
// requires a new constant here plus a mapping-table entry per detector.
type Category string

const (
	CategoryPerson       Category = "PERSON"
	CategoryEmail        Category = "EMAIL"
	CategoryPhone        Category = "PHONE"
	CategoryNationalID   Category = "NATIONAL_ID"
	CategoryCreditCard   Category = "CREDIT_CARD"
	CategoryAddress      Category = "ADDRESS"
	CategoryDate         Category = "DATE"
	CategoryOrganization Category = "ORGANIZATION"
	CategoryFinancial    Category = "FINANCIAL"
	CategoryMedical      Category = "MEDICAL"
)

// Categories returns all known categories in declaration order.
func Categories() []Category {
	return []Category{
		CategoryPerson,
		CategoryEmail,
		CategoryPhone,
		CategoryNationalID,
		CategoryCreditCard,
		CategoryAddress,
		CategoryDate,
		CategoryOrganization,
		CategoryFinancial,
		CategoryMedical,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ErrInvalidRange marks a match whose offsets do not address a valid span
// of the source text. Such matches are programmer errors and must be
// rejected before reconciliation.
var ErrInvalidRange = errors.New("match offsets out of range")

// Match is a single detection result. The JSON field names are the stable
// contract consumed by the API layer and CLI output.
type Match struct {
	Text       string   `json:"text"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Source     string   `json:"source"`
}

// Len returns the span length in runes.
func (m Match) Len() int {
	return m.End - m.Start
}

// String returns a debug representation, e.g. EMAIL("a@b.com")[14:21].
func (m Match) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", m.Category, m.Text, m.Start, m.End)
}

// Validate checks the offset invariants of m against the source text,
// given as runes. Text equality is included so a match derived from a
// different text cannot slip into reconciliation.
func (m Match) Validate(source []rune) error {
	if m.Start < 0 || m.End <= m.Start || m.End > len(source) {
		return fmt.Errorf("%w: [%d:%d) in text of %d runes", ErrInvalidRange, m.Start, m.End, len(source))
	}
	if span := string(source[m.Start:m.End]); span != m.Text {
		return fmt.Errorf("%w: text %q does not equal source span %q", ErrInvalidRange, m.Text, span)
	}
	return nil
}

// MatchSet is a reconciled match sequence: sorted ascending by Start with
// no two entries overlapping. Produced by redact.Merge; callers must not
// assume these invariants hold for arbitrary []Match values.
type MatchSet []Match
