/*
aggregate.go - Line-item summation

PURPOSE:
  Sums revenue and cost line items into totals. This is the read path
  feeding reconciliation and the conversion gate: items -> aggregator ->
  budget report -> gate.

SUBTOTAL TRUST:
  A revenue item's stored subtotal is a cached projection. The aggregator
  does not silently accept a stored subtotal that disagrees with
  quantity * unit_price by more than a rounding epsilon (0.01): it sums
  the derived value instead. An unset subtotal is likewise derived.

PARTIAL ACTUALS:
  Summing actual costs treats an absent actual as 0, not as missing data.
  A half-confirmed PJO still yields a meaningful actual-to-date total.
*/
package pjo

import "github.com/shopspring/decimal"

// subtotalEpsilon is the tolerated drift between a stored subtotal and
// the value derived from quantity * unit_price.
var subtotalEpsilon = decimal.NewFromFloat(0.01)

// CostBasis selects which cost figure SumCost aggregates.
type CostBasis string

const (
	CostBasisEstimated CostBasis = "estimated"
	CostBasisActual    CostBasis = "actual"
)

// SumRevenue sums revenue item subtotals. Empty input yields 0.
// Stored subtotals within epsilon of quantity*unit_price are used as-is;
// anything else (including an unset subtotal) is derived.
func SumRevenue(items []RevenueItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		derived := it.ComputedSubtotal()
		if it.Subtotal.Sub(derived).Abs().GreaterThan(subtotalEpsilon) {
			total = total.Add(derived)
		} else {
			total = total.Add(it.Subtotal)
		}
	}
	return total.Round(2)
}

// SumCost sums cost items on the requested basis. Empty input yields 0.
// On the actual basis, items without a recorded actual contribute 0.
func SumCost(items []CostItem, basis CostBasis) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		switch basis {
		case CostBasisActual:
			if it.ActualAmount != nil {
				total = total.Add(*it.ActualAmount)
			}
		default:
			total = total.Add(it.EstimatedAmount)
		}
	}
	return total.Round(2)
}
