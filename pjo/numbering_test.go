package pjo_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

func TestRomanMonth_FullTable(t *testing.T) {
	expected := []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}
	for m := 1; m <= 12; m++ {
		assert.Equal(t, expected[m-1], pjo.RomanMonth(m), "month %d", m)
	}
}

func TestRomanMonth_OutOfRange_Empty(t *testing.T) {
	// Invalid months yield the empty string rather than panicking.
	assert.Equal(t, "", pjo.RomanMonth(0))
	assert.Equal(t, "", pjo.RomanMonth(13))
	assert.Equal(t, "", pjo.RomanMonth(-3))
}

func TestFormatSequence_ZeroPadding(t *testing.T) {
	assert.Equal(t, "0001", pjo.FormatSequence(1))
	assert.Equal(t, "0042", pjo.FormatSequence(42))
	assert.Equal(t, "0100", pjo.FormatSequence(100))
	assert.Equal(t, "9999", pjo.FormatSequence(9999))
}

func TestGeneratePJONumber(t *testing.T) {
	date := time.Date(2025, time.December, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "0001/CARGO/XII/2025", pjo.GeneratePJONumber(1, date))

	june := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "0100/CARGO/VI/2025", pjo.GeneratePJONumber(100, june))
}

func TestGenerateJONumber(t *testing.T) {
	date := time.Date(2025, time.December, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "JO-0001/CARGO/XII/2025", pjo.GenerateJONumber(1, date))

	june := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "JO-0100/CARGO/VI/2025", pjo.GenerateJONumber(100, june))
}

func TestGeneratePJONumber_MatchesWireFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{4}/CARGO/(I|II|III|IV|V|VI|VII|VIII|IX|X|XI|XII)/\d{4}$`)
	joPattern := regexp.MustCompile(`^JO-\d{4}/CARGO/(I|II|III|IV|V|VI|VII|VIII|IX|X|XI|XII)/\d{4}$`)

	for m := time.January; m <= time.December; m++ {
		date := time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC)
		assert.Regexp(t, pattern, pjo.GeneratePJONumber(7, date))
		assert.Regexp(t, joPattern, pjo.GenerateJONumber(7, date))
	}
}

func TestGenerateNumbers_Deterministic(t *testing.T) {
	date := time.Date(2026, time.March, 3, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, pjo.GeneratePJONumber(55, date), pjo.GeneratePJONumber(55, date))
	assert.Equal(t, pjo.GenerateJONumber(55, date), pjo.GenerateJONumber(55, date))
}
