package detector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shroud-io/shroud/internal/entity"
)

func findByCategory(matches []entity.Match, c entity.Category) []entity.Match {
	var out []entity.Match
	for _, m := range matches {
		if m.Category == c {
			out = append(out, m)
		}
	}
	return out
}

func TestPatternDetection(t *testing.T) {
	d := MustNewPatternDetector()
	ctx := context.Background()

	tests := []struct {
		name           string
		text           string
		wantCategories []entity.Category
	}{
		{
			name: "no sensitive content",
			text: "The quick brown fox jumps over the lazy dog",
		},
		{
			name:           "email",
			text:           "Contact me at jane@example.org",
			wantCategories: []entity.Category{entity.CategoryEmail},
		},
		{
			name:           "phone dotted",
			text:           "call 555.987.6543",
			wantCategories: []entity.Category{entity.CategoryPhone},
		},
		{
			name:           "phone with country code",
			text:           "call 1-555-987-6543 today",
			wantCategories: []entity.Category{entity.CategoryPhone},
		},
		{
			name:           "phone parenthesized",
			text:           "office: (415) 555-0123",
			wantCategories: []entity.Category{entity.CategoryPhone},
		},
		{
			name:           "national id grouped",
			text:           "SSN: 123-45-6789",
			wantCategories: []entity.Category{entity.CategoryNationalID},
		},
		{
			name:           "national id bare digits",
			text:           "id 123456789 on record",
			wantCategories: []entity.Category{entity.CategoryNationalID},
		},
		{
			name:           "credit card visa contiguous",
			text:           "card 4111111111111111",
			wantCategories: []entity.Category{entity.CategoryCreditCard},
		},
		{
			name:           "credit card grouped",
			text:           "card 4532-1234-5678-9012",
			wantCategories: []entity.Category{entity.CategoryCreditCard},
		},
		{
			name:           "date numeric",
			text:           "born 3/15/1985",
			wantCategories: []entity.Category{entity.CategoryDate},
		},
		{
			name:           "date textual",
			text:           "signed March 5, 2024",
			wantCategories: []entity.Category{entity.CategoryDate},
		},
		{
			name:           "currency amount",
			text:           "paid $1,250.00 up front",
			wantCategories: []entity.Category{entity.CategoryFinancial},
		},
		{
			name:           "amount with suffix",
			text:           "wired 500 USD yesterday",
			wantCategories: []entity.Category{entity.CategoryFinancial},
		},
		{
			name:           "account number",
			text:           "account #12345678",
			wantCategories: []entity.Category{entity.CategoryFinancial},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := d.Detect(ctx, tt.text)
			require.NoError(t, err)

			if len(tt.wantCategories) == 0 {
				assert.Empty(t, matches)
				return
			}

			got := make(map[entity.Category]bool)
			for _, m := range matches {
				got[m.Category] = true
			}
			for _, want := range tt.wantCategories {
				assert.True(t, got[want], "expected a %s match in %v", want, matches)
			}
		})
	}
}

// Every pattern match must carry valid rune offsets, the pattern source
// tag, and the fixed pattern confidence.
func TestPatternMatchInvariants(t *testing.T) {
	d := MustNewPatternDetector()

	text := "Mail naïve café jane@example.org, SSN 123-45-6789, pay $42.50 on 3/15/1985"
	matches, err := d.Detect(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	runes := []rune(text)
	for _, m := range matches {
		assert.NoError(t, m.Validate(runes), "match %s", m)
		assert.Equal(t, SourcePattern, m.Source)
		assert.Equal(t, PatternConfidence, m.Confidence)
	}
}

func TestPatternRuneOffsetsMultibyte(t *testing.T) {
	d := MustNewPatternDetector()

	// 11-rune prefix with multi-byte characters before the email.
	text := "naïve café jane@example.org"
	matches, err := d.Detect(context.Background(), text)
	require.NoError(t, err)

	emails := findByCategory(matches, entity.CategoryEmail)
	require.Len(t, emails, 1)
	assert.Equal(t, 11, emails[0].Start)
	assert.Equal(t, 27, emails[0].End)
	assert.Equal(t, "jane@example.org", emails[0].Text)
}

func TestPatternScenarioContact(t *testing.T) {
	d := MustNewPatternDetector()

	text := "Contact me at jane@example.org or call 555.987.6543"
	matches, err := d.Detect(context.Background(), text)
	require.NoError(t, err)

	emails := findByCategory(matches, entity.CategoryEmail)
	require.Len(t, emails, 1)
	assert.Equal(t, "jane@example.org", emails[0].Text)
	assert.Equal(t, 14, emails[0].Start)
	assert.Equal(t, 30, emails[0].End)

	phones := findByCategory(matches, entity.CategoryPhone)
	require.Len(t, phones, 1)
	assert.Equal(t, "555.987.6543", phones[0].Text)
	assert.Equal(t, 39, phones[0].Start)
	assert.Equal(t, 51, phones[0].End)
}

func TestPatternEmptyText(t *testing.T) {
	d := MustNewPatternDetector()
	matches, err := d.Detect(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPatternName(t *testing.T) {
	assert.Equal(t, SourcePattern, MustNewPatternDetector().Name())
}
