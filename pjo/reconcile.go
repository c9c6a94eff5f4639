/*
reconcile.go - Cost reconciliation and budget reporting

PURPOSE:
  Classifies each cost item against its estimate once an actual amount is
  recorded, and aggregates the item population into a BudgetReport - the
  input the conversion gate uses to decide whether a PJO is ready to
  become a JO.

CLASSIFICATION:
  actual > estimated  -> exceeded
  actual < estimated  -> under_budget
  actual == estimated -> confirmed
  Comparison happens after rounding both sides to the currency's minor
  unit, so upstream float noise cannot flip a classification.

EMPTY-LIST POLICY:
  all_confirmed is vacuously FALSE for an empty cost-item list. A PJO
  with no costed items must never slip through the conversion gate on a
  technicality. This is intentional, not a bug.
*/
package pjo

import "github.com/shopspring/decimal"

// warningBandFloor is the lower bound of the near-miss band: an actual
// at or above 90% of the estimate (but not over it) is a warning.
var warningBandFloor = decimal.NewFromFloat(0.9)

// Classify derives a cost item's sub-state from estimated vs. actual.
// Both sides are rounded to the minor unit before comparing.
func Classify(estimated, actual decimal.Decimal) CostStatus {
	e := RoundIDR(estimated)
	a := RoundIDR(actual)
	switch {
	case a.GreaterThan(e):
		return CostExceeded
	case a.LessThan(e):
		return CostUnderBudget
	default:
		return CostConfirmed
	}
}

// BudgetReport is the derived reconciliation summary of a PJO's cost
// items. It is computed on demand and never persisted.
type BudgetReport struct {
	TotalEstimated decimal.Decimal
	TotalActual    decimal.Decimal
	TotalVariance  decimal.Decimal

	ItemsConfirmed   int // items with a recorded actual (any classification)
	ItemsPending     int // items still awaiting an actual
	ItemsOverBudget  int
	ItemsUnderBudget int

	AllConfirmed bool // non-empty list AND every item has an actual
	HasOverruns  bool // any item classified exceeded
}

// AnalyzeBudget computes the aggregate reconciliation state in one pass.
// Classification is re-derived from amounts rather than trusting the
// stored item status.
func AnalyzeBudget(items []CostItem) BudgetReport {
	r := BudgetReport{
		TotalEstimated: decimal.Zero,
		TotalActual:    decimal.Zero,
		TotalVariance:  decimal.Zero,
	}

	for _, it := range items {
		r.TotalEstimated = r.TotalEstimated.Add(it.EstimatedAmount)
		if it.ActualAmount == nil {
			r.ItemsPending++
			continue
		}
		r.ItemsConfirmed++
		r.TotalActual = r.TotalActual.Add(*it.ActualAmount)
		switch Classify(it.EstimatedAmount, *it.ActualAmount) {
		case CostExceeded:
			r.ItemsOverBudget++
			r.HasOverruns = true
		case CostUnderBudget:
			r.ItemsUnderBudget++
		}
	}

	r.TotalEstimated = r.TotalEstimated.Round(2)
	r.TotalActual = r.TotalActual.Round(2)
	r.TotalVariance = r.TotalActual.Sub(r.TotalEstimated)

	// An empty list is deliberately NOT all-confirmed.
	r.AllConfirmed = len(items) > 0 && r.ItemsPending == 0

	return r
}

// WarningLevel is the three-way budget banding surfaced to reviewers.
type WarningLevel string

const (
	WarningSafe     WarningLevel = "safe"
	WarningNearMiss WarningLevel = "warning"
	WarningExceeded WarningLevel = "exceeded"
)

// BudgetWarningLevel bands an actual against its estimate: exceeded when
// over, warning when within [90% of estimate, estimate] inclusive, safe
// below that. The warning band surfaces near-miss budgets before they
// become overruns.
func BudgetWarningLevel(estimated, actual decimal.Decimal) WarningLevel {
	e := RoundIDR(estimated)
	a := RoundIDR(actual)
	if a.GreaterThan(e) {
		return WarningExceeded
	}
	if a.GreaterThanOrEqual(e.Mul(warningBandFloor)) {
		return WarningNearMiss
	}
	return WarningSafe
}
