/*
handlers.go - HTTP handlers for the PJO lifecycle

PURPOSE:
  Exposes the PJO engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates everything else to pjo.Service.

ENDPOINTS:
  PJOs:
    GET    /api/pjos                          List
    POST   /api/pjos                          Create draft
    GET    /api/pjos/{id}                     Get with items
    DELETE /api/pjos/{id}                     Delete (draft housekeeping)
    GET    /api/pjos/{id}/budget              Budget report

  Line items:
    POST   /api/pjos/{id}/revenue-items               Add revenue line
    DELETE /api/pjos/{id}/revenue-items/{itemID}      Remove revenue line
    POST   /api/pjos/{id}/cost-items                  Add cost line
    DELETE /api/pjos/{id}/cost-items/{itemID}         Remove cost line
    POST   /api/pjos/{id}/cost-items/{itemID}/confirm Record actual

  Lifecycle:
    POST   /api/pjos/{id}/submit              draft -> pending_approval
    POST   /api/pjos/{id}/approve             pending -> approved
    POST   /api/pjos/{id}/reject              pending -> rejected
    POST   /api/pjos/{id}/convert             approved -> JO

  Job orders:
    GET    /api/job-orders                    List
    GET    /api/job-orders/{id}               Get

ERROR HANDLING:
  - 400: validation failures (field list in body), malformed JSON
  - 404: missing PJO/JO/item
  - 409: illegal transition, lost CAS race, tripped conversion latch
  - 422: conversion precondition failures
  - 500: everything else

SECURITY NOTE:
  No authentication middleware. Role resolution is a collaborator's job;
  the engine receives already-authenticated input.

SEE ALSO:
  - dto.go:    request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *pjo.Service
	Logger  *zap.Logger
}

// NewHandler creates a handler around the lifecycle service.
func NewHandler(svc *pjo.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Logger: logger}
}

// =============================================================================
// PJO HANDLERS
// =============================================================================

// ListPJOs returns all proforma job orders.
func (h *Handler) ListPJOs(w http.ResponseWriter, r *http.Request) {
	pjos, err := h.Service.ListPJOs(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]PJODTO, 0, len(pjos))
	for _, p := range pjos {
		dtos = append(dtos, toPJODTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePJO opens a new draft proforma.
func (h *Handler) CreatePJO(w http.ResponseWriter, r *http.Request) {
	var req CreatePJORequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.Service.CreatePJO(r.Context(), pjo.CreatePJOInput{
		CustomerID:  req.CustomerID,
		ProjectID:   req.ProjectID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Commodity:   req.Commodity,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPJODTO(p))
}

// GetPJO returns one proforma with its items.
func (h *Handler) GetPJO(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetPJO(r.Context(), pjo.PJOID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPJODTO(p))
}

// DeletePJO removes a draft proforma.
func (h *Handler) DeletePJO(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePJO(r.Context(), pjo.PJOID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBudgetReport returns the reconciliation summary.
func (h *Handler) GetBudgetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.BudgetReport(r.Context(), pjo.PJOID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetReportDTO(report))
}

// =============================================================================
// LINE-ITEM HANDLERS
// =============================================================================

// AddRevenueItem appends a revenue line to a draft PJO.
func (h *Handler) AddRevenueItem(w http.ResponseWriter, r *http.Request) {
	var req AddRevenueItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.Service.AddRevenueItem(r.Context(), pjo.PJOID(chi.URLParam(r, "id")), pjo.RevenueItemInput{
		Description: req.Description,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRevenueItemDTO(*item))
}

// RemoveRevenueItem deletes a revenue line from a draft PJO.
func (h *Handler) RemoveRevenueItem(w http.ResponseWriter, r *http.Request) {
	err := h.Service.RemoveRevenueItem(r.Context(),
		pjo.PJOID(chi.URLParam(r, "id")), pjo.ItemID(chi.URLParam(r, "itemID")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCostItem appends a cost line to a draft PJO.
func (h *Handler) AddCostItem(w http.ResponseWriter, r *http.Request) {
	var req AddCostItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.Service.AddCostItem(r.Context(), pjo.PJOID(chi.URLParam(r, "id")), pjo.CostItemInput{
		Category:        pjo.CostCategory(req.Category),
		Description:     req.Description,
		EstimatedAmount: req.EstimatedAmount,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCostItemDTO(*item))
}

// RemoveCostItem deletes a cost line from a draft PJO.
func (h *Handler) RemoveCostItem(w http.ResponseWriter, r *http.Request) {
	err := h.Service.RemoveCostItem(r.Context(),
		pjo.PJOID(chi.URLParam(r, "id")), pjo.ItemID(chi.URLParam(r, "itemID")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmCostItem records a cost item's actual amount.
func (h *Handler) ConfirmCostItem(w http.ResponseWriter, r *http.Request) {
	var req ConfirmCostRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.Service.ConfirmCostActual(r.Context(),
		pjo.PJOID(chi.URLParam(r, "id")), pjo.ItemID(chi.URLParam(r, "itemID")), req.ActualAmount)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCostItemDTO(*item))
}

// =============================================================================
// LIFECYCLE HANDLERS
// =============================================================================

// SubmitPJO moves a draft to pending_approval.
func (h *Handler) SubmitPJO(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.SubmitForApproval(r.Context(), pjo.PJOID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPJODTO(p))
}

// ApprovePJO moves a pending PJO to approved.
func (h *Handler) ApprovePJO(w http.ResponseWriter, r *http.Request) {
	var req ApproveRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.Service.Approve(r.Context(), pjo.PJOID(chi.URLParam(r, "id")), req.ApprovedBy)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPJODTO(p))
}

// RejectPJO moves a pending PJO to rejected. Reason is mandatory.
func (h *Handler) RejectPJO(w http.ResponseWriter, r *http.Request) {
	var req RejectRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.Service.Reject(r.Context(), pjo.PJOID(chi.URLParam(r, "id")), req.RejectedBy, req.Reason)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPJODTO(p))
}

// ConvertPJO runs the conversion gate and returns the new job order.
func (h *Handler) ConvertPJO(w http.ResponseWriter, r *http.Request) {
	jo, err := h.Service.ConvertToJO(r.Context(), pjo.PJOID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJODTO(jo))
}

// =============================================================================
// JOB ORDER HANDLERS
// =============================================================================

// ListJOs returns all job orders.
func (h *Handler) ListJOs(w http.ResponseWriter, r *http.Request) {
	jos, err := h.Service.ListJOs(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]JODTO, 0, len(jos))
	for _, jo := range jos {
		dtos = append(dtos, toJODTO(jo))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetJO returns one job order.
func (h *Handler) GetJO(w http.ResponseWriter, r *http.Request) {
	jo, err := h.Service.GetJO(r.Context(), pjo.JOID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJODTO(jo))
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// writeDomainError maps engine errors onto HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var vr pjo.ValidationResult
	if errors.As(err, &vr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Fields: vr.Errors,
		})
		return
	}

	// The conflict check runs before the precondition cast so a tripped
	// conversion latch maps to 409, not 422.
	switch {
	case pjo.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found", err)
	case pjo.IsConflict(err):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, pjo.ErrNotEditable):
		writeError(w, http.StatusConflict, "not editable", err)
	default:
		var pre *pjo.PreconditionError
		if errors.As(err, &pre) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  "conversion precondition failed",
				Detail: pre.Message,
			})
			return
		}
		h.Logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}
