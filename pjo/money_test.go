package pjo_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestFormatIDR(t *testing.T) {
	cases := []struct {
		amount   float64
		expected string
	}{
		{0, "Rp 0"},
		{1, "Rp 1"},
		{999, "Rp 999"},
		{1000, "Rp 1.000"},
		{-1000, "-Rp 1.000"},
		{15000, "Rp 15.000"},
		{1500000, "Rp 1.500.000"},
		{1234567890, "Rp 1.234.567.890"},
		{-25500000, "-Rp 25.500.000"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, pjo.FormatIDR(dec(tc.amount)), "amount %v", tc.amount)
	}
}

func TestFormatIDR_RoundsFractions(t *testing.T) {
	// Rupiah display has no minor unit; fractions round to whole rupiah.
	assert.Equal(t, "Rp 1.000", pjo.FormatIDR(dec(999.5)))
	assert.Equal(t, "Rp 999", pjo.FormatIDR(dec(999.4)))
}

func TestRoundIDR(t *testing.T) {
	assert.True(t, dec(10.12).Equal(pjo.RoundIDR(dec(10.1234))))
	assert.True(t, dec(10.13).Equal(pjo.RoundIDR(dec(10.125))))
}
