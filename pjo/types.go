/*
Package pjo implements the Proforma Job Order financial and lifecycle engine.

PURPOSE:
  This package contains the core domain types and algorithms for the PJO
  subsystem: estimated vs. actual cost tracking, revenue line items,
  profit/margin derivation, the approval status machine, and the gated
  conversion of an approved proforma into a billable Job Order (JO).

KEY CONCEPTS IN THIS FILE (types.go):
  - ProformaJobOrder: the pre-approval financial estimate for a logistics job
  - RevenueItem / CostItem: line items owned exclusively by one PJO
  - JobOrder: the billable unit created once a PJO is fully reconciled
  - Totals: the derived financial rollup (revenue, cost, profit, margin)

DESIGN PRINCIPLES:
  1. Precision: all money uses decimal.Decimal, rounded to 2 decimals at
     the currency boundary - never float64 arithmetic
  2. Derived values: a PJO's cached totals are projections recomputable
     from its items; the items are the source of truth
  3. Type safety: status values are typed enums with an explicit
     transition table (see status.go), not ad-hoc string comparisons
  4. Purity: every computation here is a function over a snapshot of
     PJO + items; nothing in this package performs I/O

SEE ALSO:
  - aggregate.go:   line-item summation
  - reconcile.go:   budget classification and reporting
  - status.go:      the PJO status machine
  - validate.go:    field-tagged validation
  - numbering.go:   PJO/JO document number generation
  - convert.go:     the PJO -> JO conversion gate
  - service.go:     lifecycle orchestration against a Store
*/
package pjo

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PJOID string
type JOID string
type ItemID string

// =============================================================================
// STATUS ENUMS
// =============================================================================

// Status is the PJO approval status. Legal transitions are defined by the
// transition table in status.go; everything else is an InvalidTransitionError.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

// CostStatus is the confirmation sub-state of a single cost item. It is
// independent of the PJO Status: a PJO can be approved while cost items
// remain estimated. Only the conversion gate requires full confirmation.
type CostStatus string

const (
	CostEstimated   CostStatus = "estimated"
	CostUnderBudget CostStatus = "under_budget"
	CostExceeded    CostStatus = "exceeded"
	CostConfirmed   CostStatus = "confirmed"
)

// CostCategory classifies what a cost item pays for.
type CostCategory string

const (
	CategoryTrucking      CostCategory = "trucking"
	CategoryPortCharges   CostCategory = "port_charges"
	CategoryDocumentation CostCategory = "documentation"
	CategoryCustoms       CostCategory = "customs_clearance"
	CategoryHandling      CostCategory = "handling"
	CategoryStorage       CostCategory = "storage"
	CategoryOther         CostCategory = "other"
)

// =============================================================================
// LINE ITEMS
// =============================================================================

// RevenueItem is a billable line on the proforma.
// Invariant: Subtotal == Quantity * UnitPrice rounded to 2 decimals.
type RevenueItem struct {
	ID          ItemID
	PJOID       PJOID
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ComputedSubtotal derives the subtotal from quantity and unit price.
// This is the source of truth; the stored Subtotal is a cached projection.
func (ri RevenueItem) ComputedSubtotal() decimal.Decimal {
	return ri.Quantity.Mul(ri.UnitPrice).Round(2)
}

// CostItem is an expected expense on the proforma. ActualAmount stays nil
// until the cost is confirmed; Variance, VariancePct and Status are derived
// from comparing actual to estimated once actual is set.
type CostItem struct {
	ID              ItemID
	PJOID           PJOID
	Category        CostCategory
	Description     string
	EstimatedAmount decimal.Decimal
	ActualAmount    *decimal.Decimal
	Variance        decimal.Decimal
	VariancePct     decimal.Decimal
	Status          CostStatus
	ConfirmedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsConfirmed reports whether an actual amount has been recorded.
// Note this is about ActualAmount presence, not Status == CostConfirmed:
// under_budget and exceeded items are also confirmed in this sense.
func (ci CostItem) IsConfirmed() bool {
	return ci.ActualAmount != nil
}

// Confirm records the actual amount and derives variance and status.
// Re-confirming overwrites the previous actual; the derived fields follow.
func (ci *CostItem) Confirm(actual decimal.Decimal, at time.Time) {
	rounded := actual.Round(2)
	ci.ActualAmount = &rounded
	ci.Variance = rounded.Sub(ci.EstimatedAmount.Round(2))
	if ci.EstimatedAmount.IsZero() {
		ci.VariancePct = decimal.Zero
	} else {
		ci.VariancePct = ci.Variance.Div(ci.EstimatedAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	ci.Status = Classify(ci.EstimatedAmount, rounded)
	ci.ConfirmedAt = &at
	ci.UpdatedAt = at
}

// =============================================================================
// PROFORMA JOB ORDER
// =============================================================================

// ProformaJobOrder is the aggregate root of the engine. The monetary totals
// and budget flags are cached projections maintained by RefreshTotals; the
// line items are always the source of truth.
type ProformaJobOrder struct {
	ID     PJOID
	Number string

	CustomerID  string
	ProjectID   string
	Origin      string
	Destination string
	Commodity   string

	Status Status

	RevenueItems []RevenueItem
	CostItems    []CostItem

	// Cached projections - recomputed from items on every mutation.
	TotalRevenue       decimal.Decimal
	TotalCostEstimated decimal.Decimal
	TotalCostActual    decimal.Decimal
	Profit             decimal.Decimal
	MarginPct          decimal.Decimal
	AllCostsConfirmed  bool
	HasCostOverruns    bool

	// One-way latch: set by the conversion gate, never cleared.
	ConvertedToJO bool
	JOID          *JOID

	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	ApprovedBy      string
	RejectedAt      *time.Time
	RejectedBy      string
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Totals is the derived financial summary of a PJO.
type Totals struct {
	Revenue       decimal.Decimal
	CostEstimated decimal.Decimal
	CostActual    decimal.Decimal
	Profit        decimal.Decimal
	MarginPct     decimal.Decimal
}

// ComputeTotals derives the financial summary from line items.
// Profit and margin are computed against the estimated cost (the actual
// cost determines the JO's opening snapshot at conversion time instead).
// Zero revenue yields a zero margin rather than a division error.
func ComputeTotals(revenue []RevenueItem, costs []CostItem) Totals {
	t := Totals{
		Revenue:       SumRevenue(revenue),
		CostEstimated: SumCost(costs, CostBasisEstimated),
		CostActual:    SumCost(costs, CostBasisActual),
	}
	t.Profit = t.Revenue.Sub(t.CostEstimated)
	t.MarginPct = MarginPct(t.Revenue, t.CostEstimated)
	return t
}

// MarginPct computes profit as a percentage of revenue, 0 when revenue is 0.
func MarginPct(revenue, cost decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return revenue.Sub(cost).Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}

// RefreshTotals recomputes the cached projections from the current items.
// Callers mutate items, call RefreshTotals, then persist.
func (p *ProformaJobOrder) RefreshTotals() {
	t := ComputeTotals(p.RevenueItems, p.CostItems)
	p.TotalRevenue = t.Revenue
	p.TotalCostEstimated = t.CostEstimated
	p.TotalCostActual = t.CostActual
	p.Profit = t.Profit
	p.MarginPct = t.MarginPct

	report := AnalyzeBudget(p.CostItems)
	p.AllCostsConfirmed = report.AllConfirmed
	p.HasCostOverruns = report.HasOverruns
}

// =============================================================================
// JOB ORDER
// =============================================================================

// JobOrder is the billable unit created by the conversion gate. Its opening
// financial snapshot is frozen from the PJO's reconciled figures at the
// moment of conversion.
type JobOrder struct {
	ID         JOID
	Number     string
	PJOID      PJOID
	PJONumber  string
	CustomerID string
	ProjectID  string

	TotalRevenue decimal.Decimal
	TotalCost    decimal.Decimal
	Profit       decimal.Decimal
	MarginPct    decimal.Decimal

	CreatedAt time.Time
}
