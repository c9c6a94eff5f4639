/*
money.go - Currency formatting helpers

PURPOSE:
  Renders decimal amounts as Indonesian Rupiah display strings for DTOs
  and user-facing messages. Arithmetic stays in decimal.Decimal; these
  helpers are presentation only.

FORMAT:
  Non-negative: "Rp 1.000.000"  (dot-separated thousands groups)
  Negative:     "-Rp 1.000.000"

  Rupiah has no commonly used minor unit in invoicing, so amounts are
  rounded to whole rupiah before grouping.
*/
package pjo

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatIDR renders an amount as an Indonesian Rupiah display string.
func FormatIDR(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	digits := amount.Abs().Round(0).BigInt().String()

	var b strings.Builder
	if neg {
		b.WriteString("-Rp ")
	} else {
		b.WriteString("Rp ")
	}
	b.WriteString(groupThousands(digits))
	return b.String()
}

// groupThousands inserts '.' separators into a plain digit string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// RoundIDR rounds an amount to the currency's minor unit (2 decimals).
// Classification and equality checks round through this first so that
// floating-point noise from upstream inputs cannot flip a comparison.
func RoundIDR(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
