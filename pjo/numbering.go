/*
numbering.go - Deterministic PJO/JO document number construction

PURPOSE:
  Builds document numbers from a caller-supplied sequence and a date.
  The generator allocates nothing: sequence numbers come from the store
  (monotonic per kind and year), so the same inputs always produce the
  same number.

FORMATS:
  PJO: NNNN/CARGO/<ROMAN-MONTH>/YYYY      e.g. 0012/CARGO/VII/2025
  JO:  JO-NNNN/CARGO/<ROMAN-MONTH>/YYYY   e.g. JO-0012/CARGO/VII/2025

  NNNN is the sequence zero-padded to 4 digits. ROMAN-MONTH maps the
  calendar month 1-12 through a fixed table I..XII.
*/
package pjo

import (
	"fmt"
	"time"
)

// romanMonths maps month 1..12 to its Roman numeral, index 0 unused.
var romanMonths = [13]string{
	"", "I", "II", "III", "IV", "V", "VI",
	"VII", "VIII", "IX", "X", "XI", "XII",
}

// RomanMonth returns the Roman numeral for a 1-12 month.
// Out-of-range months yield the empty string rather than panicking.
func RomanMonth(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return romanMonths[month]
}

// FormatSequence zero-pads a sequence number to 4 digits.
func FormatSequence(seq int) string {
	return fmt.Sprintf("%04d", seq)
}

// GeneratePJONumber builds a proforma job order number from a sequence
// and issue date. Pure function, fully deterministic.
func GeneratePJONumber(seq int, date time.Time) string {
	return fmt.Sprintf("%s/CARGO/%s/%04d",
		FormatSequence(seq), RomanMonth(int(date.Month())), date.Year())
}

// GenerateJONumber builds a job order number. Same shape as the PJO
// number with a "JO-" prefix, so the two series are never confusable.
func GenerateJONumber(seq int, date time.Time) string {
	return "JO-" + GeneratePJONumber(seq, date)
}
