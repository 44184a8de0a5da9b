package redact

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shroud-io/shroud/internal/entity"
)

func TestRedactReplacesSpans(t *testing.T) {
	text := "Contact me at jane@example.org or call 555.987.6543"
	set := entity.MatchSet{
		{Text: "jane@example.org", Start: 14, End: 30, Category: entity.CategoryEmail, Confidence: 0.9, Source: "pattern"},
		{Text: "555.987.6543", Start: 39, End: 51, Category: entity.CategoryPhone, Confidence: 0.9, Source: "pattern"},
	}

	redacted, returned, err := Redact(text, set, '█')
	require.NoError(t, err)

	want := "Contact me at " + strings.Repeat("█", 16) + " or call " + strings.Repeat("█", 12)
	assert.Equal(t, want, redacted)
	assert.Equal(t, set, returned, "returned set must be the input set, unmodified")
}

func TestRedactPreservesLength(t *testing.T) {
	text := "SSN: 123-45-6789, Credit Card: 4532-1234-5678-9012"
	set := entity.MatchSet{
		{Text: "123-45-6789", Start: 5, End: 16, Category: entity.CategoryNationalID, Confidence: 0.9, Source: "pattern"},
		{Text: "4532-1234-5678-9012", Start: 31, End: 50, Category: entity.CategoryCreditCard, Confidence: 0.9, Source: "pattern"},
	}

	redacted, _, err := Redact(text, set, '█')
	require.NoError(t, err)
	assert.Equal(t, utf8.RuneCountInString(text), utf8.RuneCountInString(redacted))
}

func TestRedactPreservesUnmatchedRunes(t *testing.T) {
	text := "SSN: 123-45-6789 on file"
	set := entity.MatchSet{
		{Text: "123-45-6789", Start: 5, End: 16, Category: entity.CategoryNationalID, Confidence: 0.9, Source: "pattern"},
	}

	redacted, _, err := Redact(text, set, '█')
	require.NoError(t, err)

	original := []rune(text)
	result := []rune(redacted)
	require.Len(t, result, len(original))
	for i := range original {
		covered := i >= 5 && i < 16
		if covered {
			assert.Equal(t, '█', result[i], "rune %d should be redacted", i)
		} else {
			assert.Equal(t, original[i], result[i], "rune %d should be untouched", i)
		}
	}
}

func TestRedactCustomFill(t *testing.T) {
	text := "call 555.987.6543"
	set := entity.MatchSet{
		{Text: "555.987.6543", Start: 5, End: 17, Category: entity.CategoryPhone, Confidence: 0.9, Source: "pattern"},
	}

	redacted, _, err := Redact(text, set, '*')
	require.NoError(t, err)
	assert.Equal(t, "call ************", redacted)
}

func TestRedactEmptySet(t *testing.T) {
	text := "nothing sensitive here"
	redacted, returned, err := Redact(text, entity.MatchSet{}, '█')
	require.NoError(t, err)
	assert.Equal(t, text, redacted)
	assert.Empty(t, returned)
}

func TestRedactMultibyteText(t *testing.T) {
	text := "büro: jane@example.org"
	set := entity.MatchSet{
		{Text: "jane@example.org", Start: 6, End: 22, Category: entity.CategoryEmail, Confidence: 0.9, Source: "pattern"},
	}

	redacted, _, err := Redact(text, set, '█')
	require.NoError(t, err)
	assert.Equal(t, "büro: "+strings.Repeat("█", 16), redacted)
}

func TestRedactMalformedMatchFailsWithoutOutput(t *testing.T) {
	text := "short"
	set := entity.MatchSet{
		{Text: "shortish", Start: 0, End: 8, Category: entity.CategoryPerson, Confidence: 0.5, Source: "statistical"},
	}

	redacted, returned, err := Redact(text, set, '█')
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidRange)
	assert.Empty(t, redacted, "no partial output on a failed call")
	assert.Nil(t, returned)
}
