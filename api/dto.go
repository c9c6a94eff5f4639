/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts are carried twice: as exact decimal strings for machine
  consumers ("1500000.00") and as display strings for humans
  ("Rp 1.500.000"). Clients never have to re-implement rupiah grouping.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreatePJORequest is the request to open a new draft proforma.
type CreatePJORequest struct {
	CustomerID  string `json:"customer_id"`
	ProjectID   string `json:"project_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Commodity   string `json:"commodity"`
}

// AddRevenueItemRequest adds a revenue line to a draft PJO.
type AddRevenueItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// AddCostItemRequest adds a cost line to a draft PJO.
type AddCostItemRequest struct {
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
}

// ConfirmCostRequest records a cost item's actual amount.
type ConfirmCostRequest struct {
	ActualAmount decimal.Decimal `json:"actual_amount"`
}

// ApproveRequest identifies the approver.
type ApproveRequest struct {
	ApprovedBy string `json:"approved_by"`
}

// RejectRequest identifies the rejecter and carries the mandatory reason.
type RejectRequest struct {
	RejectedBy string `json:"rejected_by"`
	Reason     string `json:"reason"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// MoneyDTO carries an amount as both an exact decimal string and a
// rupiah display string.
type MoneyDTO struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func money(d decimal.Decimal) MoneyDTO {
	return MoneyDTO{Amount: d.String(), Display: pjo.FormatIDR(d)}
}

// RevenueItemDTO represents a revenue line in API responses.
type RevenueItemDTO struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Quantity    string   `json:"quantity"`
	Unit        string   `json:"unit"`
	UnitPrice   MoneyDTO `json:"unit_price"`
	Subtotal    MoneyDTO `json:"subtotal"`
}

// CostItemDTO represents a cost line in API responses.
type CostItemDTO struct {
	ID              string    `json:"id"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	EstimatedAmount MoneyDTO  `json:"estimated_amount"`
	ActualAmount    *MoneyDTO `json:"actual_amount,omitempty"`
	Variance        MoneyDTO  `json:"variance"`
	VariancePct     string    `json:"variance_pct"`
	Status          string    `json:"status"`
	WarningLevel    string    `json:"warning_level,omitempty"`
}

// PJODTO represents a proforma job order in API responses.
type PJODTO struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	CustomerID  string `json:"customer_id"`
	ProjectID   string `json:"project_id,omitempty"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Commodity   string `json:"commodity"`
	Status      string `json:"status"`

	TotalRevenue       MoneyDTO `json:"total_revenue"`
	TotalCostEstimated MoneyDTO `json:"total_cost_estimated"`
	TotalCostActual    MoneyDTO `json:"total_cost_actual"`
	Profit             MoneyDTO `json:"profit"`
	MarginPct          string   `json:"margin_pct"`

	AllCostsConfirmed bool    `json:"all_costs_confirmed"`
	HasCostOverruns   bool    `json:"has_cost_overruns"`
	ConvertedToJO     bool    `json:"converted_to_jo"`
	JOID              *string `json:"jo_id,omitempty"`

	RejectionReason string `json:"rejection_reason,omitempty"`

	RevenueItems []RevenueItemDTO `json:"revenue_items"`
	CostItems    []CostItemDTO    `json:"cost_items"`
}

// BudgetReportDTO is the reconciliation summary in API responses.
type BudgetReportDTO struct {
	TotalEstimated   MoneyDTO `json:"total_estimated"`
	TotalActual      MoneyDTO `json:"total_actual"`
	TotalVariance    MoneyDTO `json:"total_variance"`
	ItemsConfirmed   int      `json:"items_confirmed"`
	ItemsPending     int      `json:"items_pending"`
	ItemsOverBudget  int      `json:"items_over_budget"`
	ItemsUnderBudget int      `json:"items_under_budget"`
	AllConfirmed     bool     `json:"all_confirmed"`
	HasOverruns      bool     `json:"has_overruns"`
}

// JODTO represents a job order in API responses.
type JODTO struct {
	ID           string   `json:"id"`
	Number       string   `json:"number"`
	PJOID        string   `json:"pjo_id"`
	PJONumber    string   `json:"pjo_number"`
	CustomerID   string   `json:"customer_id"`
	ProjectID    string   `json:"project_id,omitempty"`
	TotalRevenue MoneyDTO `json:"total_revenue"`
	TotalCost    MoneyDTO `json:"total_cost"`
	Profit       MoneyDTO `json:"profit"`
	MarginPct    string   `json:"margin_pct"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error  string           `json:"error"`
	Detail string           `json:"detail,omitempty"`
	Fields []pjo.FieldError `json:"fields,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toPJODTO(p *pjo.ProformaJobOrder) PJODTO {
	dto := PJODTO{
		ID:          string(p.ID),
		Number:      p.Number,
		CustomerID:  p.CustomerID,
		ProjectID:   p.ProjectID,
		Origin:      p.Origin,
		Destination: p.Destination,
		Commodity:   p.Commodity,
		Status:      string(p.Status),

		TotalRevenue:       money(p.TotalRevenue),
		TotalCostEstimated: money(p.TotalCostEstimated),
		TotalCostActual:    money(p.TotalCostActual),
		Profit:             money(p.Profit),
		MarginPct:          p.MarginPct.String(),

		AllCostsConfirmed: p.AllCostsConfirmed,
		HasCostOverruns:   p.HasCostOverruns,
		ConvertedToJO:     p.ConvertedToJO,
		RejectionReason:   p.RejectionReason,

		RevenueItems: make([]RevenueItemDTO, 0, len(p.RevenueItems)),
		CostItems:    make([]CostItemDTO, 0, len(p.CostItems)),
	}
	if p.JOID != nil {
		id := string(*p.JOID)
		dto.JOID = &id
	}
	for _, it := range p.RevenueItems {
		dto.RevenueItems = append(dto.RevenueItems, toRevenueItemDTO(it))
	}
	for _, it := range p.CostItems {
		dto.CostItems = append(dto.CostItems, toCostItemDTO(it))
	}
	return dto
}

func toRevenueItemDTO(it pjo.RevenueItem) RevenueItemDTO {
	return RevenueItemDTO{
		ID:          string(it.ID),
		Description: it.Description,
		Quantity:    it.Quantity.String(),
		Unit:        it.Unit,
		UnitPrice:   money(it.UnitPrice),
		Subtotal:    money(it.Subtotal),
	}
}

func toCostItemDTO(it pjo.CostItem) CostItemDTO {
	dto := CostItemDTO{
		ID:              string(it.ID),
		Category:        string(it.Category),
		Description:     it.Description,
		EstimatedAmount: money(it.EstimatedAmount),
		Variance:        money(it.Variance),
		VariancePct:     it.VariancePct.String(),
		Status:          string(it.Status),
	}
	if it.ActualAmount != nil {
		m := money(*it.ActualAmount)
		dto.ActualAmount = &m
		dto.WarningLevel = string(pjo.BudgetWarningLevel(it.EstimatedAmount, *it.ActualAmount))
	}
	return dto
}

func toBudgetReportDTO(r pjo.BudgetReport) BudgetReportDTO {
	return BudgetReportDTO{
		TotalEstimated:   money(r.TotalEstimated),
		TotalActual:      money(r.TotalActual),
		TotalVariance:    money(r.TotalVariance),
		ItemsConfirmed:   r.ItemsConfirmed,
		ItemsPending:     r.ItemsPending,
		ItemsOverBudget:  r.ItemsOverBudget,
		ItemsUnderBudget: r.ItemsUnderBudget,
		AllConfirmed:     r.AllConfirmed,
		HasOverruns:      r.HasOverruns,
	}
}

func toJODTO(jo *pjo.JobOrder) JODTO {
	return JODTO{
		ID:           string(jo.ID),
		Number:       jo.Number,
		PJOID:        string(jo.PJOID),
		PJONumber:    jo.PJONumber,
		CustomerID:   jo.CustomerID,
		ProjectID:    jo.ProjectID,
		TotalRevenue: money(jo.TotalRevenue),
		TotalCost:    money(jo.TotalCost),
		Profit:       money(jo.Profit),
		MarginPct:    jo.MarginPct.String(),
	}
}
