/*
validate.go - Field-tagged validation

PURPOSE:
  Validates PJOs, line items, and shipping documents before lifecycle
  transitions. Every validator ACCUMULATES violations into a list rather
  than short-circuiting, so a form can show all problems at once. Each
  violation carries a field tag the UI can attach to a specific control.

VALIDATORS:
  ValidateRevenueItem / ValidateCostItem  - per-item field checks
  ValidatePositiveMargin                  - cost strictly below revenue
  ValidateDateOrder                       - end not before start
  ValidateShippingDocument                - customs document fields
  ValidateForSubmission                   - the submit-for-approval guard

MARGIN POLICY:
  Break-even (cost == revenue) is INVALID. Submission requires a strictly
  positive margin; a proforma that merely covers its costs is not worth
  approving.
*/
package pjo

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// FieldError is a single violation tagged with the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult accumulates field errors. The zero value is valid.
type ValidationResult struct {
	Errors []FieldError
}

// Valid reports whether no violations were recorded.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r ValidationResult) Error() string {
	if r.Valid() {
		return "valid"
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Merge appends another result's violations onto this one.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
}

func (r *ValidationResult) addf(field, format string, args ...any) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// =============================================================================
// ITEM VALIDATION
// =============================================================================

// ValidateRevenueItem checks a revenue line. Both the description and the
// price violation can fire simultaneously for one item.
func ValidateRevenueItem(it RevenueItem) ValidationResult {
	var r ValidationResult
	if strings.TrimSpace(it.Description) == "" {
		r.addf("description", "description is required")
	}
	if !it.Quantity.IsPositive() {
		r.addf("quantity", "quantity must be greater than zero")
	}
	if !it.UnitPrice.IsPositive() {
		r.addf("unit_price", "unit price must be greater than zero")
	}
	return r
}

// ValidateCostItem checks a cost line.
func ValidateCostItem(it CostItem) ValidationResult {
	var r ValidationResult
	if strings.TrimSpace(it.Description) == "" {
		r.addf("description", "description is required")
	}
	if !it.EstimatedAmount.IsPositive() {
		r.addf("estimated_amount", "estimated amount must be greater than zero")
	}
	return r
}

// =============================================================================
// MARGIN AND DATE CHECKS
// =============================================================================

// ValidatePositiveMargin requires cost strictly below revenue.
// Break-even counts as invalid.
func ValidatePositiveMargin(revenue, cost decimal.Decimal) ValidationResult {
	var r ValidationResult
	if cost.GreaterThanOrEqual(revenue) {
		r.addf("margin", "total cost (%s) must be less than total revenue (%s)",
			FormatIDR(cost), FormatIDR(revenue))
	}
	return r
}

// ValidateDateOrder accepts any pair where either bound is absent;
// otherwise end must not precede start.
func ValidateDateOrder(start, end *time.Time) ValidationResult {
	var r ValidationResult
	if start == nil || end == nil {
		return r
	}
	if end.Before(*start) {
		r.addf("end_date", "end date must not be before start date")
	}
	return r
}

// =============================================================================
// SHIPPING DOCUMENT VALIDATION
// =============================================================================

// ShippingDocument carries the customs document fields the back office
// captures alongside a PJO. The engine only validates it; rendering and
// persistence belong to collaborators.
type ShippingDocument struct {
	ExporterName     string
	CargoDescription string
	Origin           string
	Destination      string
	GrossWeightKg    decimal.Decimal
	NetWeightKg      decimal.Decimal
	VolumeM3         decimal.Decimal
}

// ValidateShippingDocument checks required text fields (trimmed) and
// non-negative measurements.
func ValidateShippingDocument(doc ShippingDocument) ValidationResult {
	var r ValidationResult
	if strings.TrimSpace(doc.ExporterName) == "" {
		r.addf("exporter_name", "exporter name is required")
	}
	if strings.TrimSpace(doc.CargoDescription) == "" {
		r.addf("cargo_description", "cargo description is required")
	}
	if strings.TrimSpace(doc.Origin) == "" {
		r.addf("origin", "origin is required")
	}
	if strings.TrimSpace(doc.Destination) == "" {
		r.addf("destination", "destination is required")
	}
	if doc.GrossWeightKg.IsNegative() {
		r.addf("gross_weight_kg", "gross weight must not be negative")
	}
	if doc.NetWeightKg.IsNegative() {
		r.addf("net_weight_kg", "net weight must not be negative")
	}
	if doc.VolumeM3.IsNegative() {
		r.addf("volume_m3", "volume must not be negative")
	}
	return r
}

// =============================================================================
// SUBMISSION GUARD
// =============================================================================

// ValidateForSubmission is the gate in front of submit-for-approval:
// required header fields, per-item checks, and a strictly positive
// estimated margin. All violations accumulate.
func ValidateForSubmission(p *ProformaJobOrder) ValidationResult {
	var r ValidationResult

	if strings.TrimSpace(p.CustomerID) == "" {
		r.addf("customer_id", "customer is required")
	}
	if strings.TrimSpace(p.Origin) == "" {
		r.addf("origin", "origin is required")
	}
	if strings.TrimSpace(p.Destination) == "" {
		r.addf("destination", "destination is required")
	}
	if strings.TrimSpace(p.Commodity) == "" {
		r.addf("commodity", "commodity is required")
	}
	if len(p.RevenueItems) == 0 {
		r.addf("revenue_items", "at least one revenue item is required")
	}
	if len(p.CostItems) == 0 {
		r.addf("cost_items", "at least one cost item is required")
	}

	for i, it := range p.RevenueItems {
		for _, fe := range ValidateRevenueItem(it).Errors {
			r.addf(fmt.Sprintf("revenue_items[%d].%s", i, fe.Field), "%s", fe.Message)
		}
	}
	for i, it := range p.CostItems {
		for _, fe := range ValidateCostItem(it).Errors {
			r.addf(fmt.Sprintf("cost_items[%d].%s", i, fe.Field), "%s", fe.Message)
		}
	}

	revenue := SumRevenue(p.RevenueItems)
	cost := SumCost(p.CostItems, CostBasisEstimated)
	r.Merge(ValidatePositiveMargin(revenue, cost))

	return r
}
