/*
service.go - Lifecycle orchestration

PURPOSE:
  The Service wires the pure engine functions to a Store. It owns the
  write path: a transition request passes through validation, then
  mutates status via a compare-and-swap keyed on the expected current
  status, then may trigger the conversion gate.

RACE-SAFETY CONTRACT:
  Every status transition re-reads the PJO, validates against the freshly
  read state, and asks the store to apply the write only if the status is
  still what was read. A concurrent submit/approve/reject on the same PJO
  loses the race cleanly with ErrConcurrentModification instead of
  clobbering the winner. The conversion latch uses the same pattern on
  the converted_to_jo flag.

EDITABILITY:
  Line items are mutable only while the PJO is in draft: approval
  authorizes a specific estimate, so the estimate cannot drift after
  submission. Confirming a cost item's ACTUAL amount is the exception -
  actuals arrive while the job runs, after approval - and is allowed in
  pending_approval and approved, but not on rejected or converted PJOs.

SEE ALSO:
  - store/memory.go:        in-memory Store for tests
  - ../store/sqlite:        production Store
*/
package pjo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Sequence kinds for NextSequence. Each kind advances independently
// per calendar year.
const (
	SeqKindPJO = "pjo"
	SeqKindJO  = "jo"
)

// Store is the persistence collaborator. Implementations must make
// TransitionStatus and MarkConverted conditional writes: apply only if
// the stored state still matches the expected state, otherwise return
// ErrConcurrentModification / ErrAlreadyConverted.
type Store interface {
	CreatePJO(ctx context.Context, p *ProformaJobOrder) error
	GetPJO(ctx context.Context, id PJOID) (*ProformaJobOrder, error)
	ListPJOs(ctx context.Context) ([]*ProformaJobOrder, error)
	// UpdatePJO rewrites header fields and cached totals. Status and the
	// conversion latch are NOT written here; they have dedicated
	// conditional operations below.
	UpdatePJO(ctx context.Context, p *ProformaJobOrder) error
	// DeletePJO removes the PJO and, by exclusive ownership, its items.
	DeletePJO(ctx context.Context, id PJOID) error

	// TransitionStatus applies p's status and transition metadata with a
	// compare-and-swap on expected.
	TransitionStatus(ctx context.Context, p *ProformaJobOrder, expected Status) error
	// MarkConverted sets the conversion latch iff it is still unset.
	MarkConverted(ctx context.Context, id PJOID, joID JOID, at time.Time) error

	PutRevenueItem(ctx context.Context, item RevenueItem) error
	DeleteRevenueItem(ctx context.Context, pjoID PJOID, itemID ItemID) error
	PutCostItem(ctx context.Context, item CostItem) error
	DeleteCostItem(ctx context.Context, pjoID PJOID, itemID ItemID) error

	CreateJO(ctx context.Context, jo *JobOrder) error
	GetJO(ctx context.Context, id JOID) (*JobOrder, error)
	ListJOs(ctx context.Context) ([]*JobOrder, error)

	// NextSequence allocates the next monotonic sequence number for a
	// document kind within a calendar year.
	NextSequence(ctx context.Context, kind string, year int) (int, error)
}

// =============================================================================
// SERVICE
// =============================================================================

// Service orchestrates the PJO lifecycle.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds a Service. A nil logger is replaced with a no-op.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// =============================================================================
// CREATION AND READS
// =============================================================================

// CreatePJOInput carries the header fields for a new proforma.
type CreatePJOInput struct {
	CustomerID  string
	ProjectID   string
	Origin      string
	Destination string
	Commodity   string
}

// CreatePJO allocates a document number and persists a draft PJO.
func (s *Service) CreatePJO(ctx context.Context, in CreatePJOInput) (*ProformaJobOrder, error) {
	now := s.now()
	seq, err := s.store.NextSequence(ctx, SeqKindPJO, now.Year())
	if err != nil {
		return nil, fmt.Errorf("allocating pjo sequence: %w", err)
	}

	p := &ProformaJobOrder{
		ID:          PJOID(uuid.NewString()),
		Number:      GeneratePJONumber(seq, now),
		CustomerID:  strings.TrimSpace(in.CustomerID),
		ProjectID:   strings.TrimSpace(in.ProjectID),
		Origin:      strings.TrimSpace(in.Origin),
		Destination: strings.TrimSpace(in.Destination),
		Commodity:   strings.TrimSpace(in.Commodity),
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.RefreshTotals()

	if err := s.store.CreatePJO(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("pjo created",
		zap.String("pjo_id", string(p.ID)),
		zap.String("number", p.Number))
	return p, nil
}

// GetPJO loads a PJO with its items and freshly recomputed totals.
func (s *Service) GetPJO(ctx context.Context, id PJOID) (*ProformaJobOrder, error) {
	p, err := s.store.GetPJO(ctx, id)
	if err != nil {
		return nil, err
	}
	p.RefreshTotals()
	return p, nil
}

// ListPJOs returns all PJOs with recomputed totals.
func (s *Service) ListPJOs(ctx context.Context) ([]*ProformaJobOrder, error) {
	pjos, err := s.store.ListPJOs(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pjos {
		p.RefreshTotals()
	}
	return pjos, nil
}

// BudgetReport recomputes the reconciliation summary for a PJO.
func (s *Service) BudgetReport(ctx context.Context, id PJOID) (BudgetReport, error) {
	p, err := s.store.GetPJO(ctx, id)
	if err != nil {
		return BudgetReport{}, err
	}
	return AnalyzeBudget(p.CostItems), nil
}

// DeletePJO removes a PJO and its items. Only drafts may be deleted;
// anything past submission is part of the approval record.
func (s *Service) DeletePJO(ctx context.Context, id PJOID) error {
	p, err := s.store.GetPJO(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != StatusDraft {
		return ErrNotEditable
	}
	if err := s.store.DeletePJO(ctx, id); err != nil {
		return err
	}
	s.logger.Info("pjo deleted", zap.String("pjo_id", string(id)))
	return nil
}

// =============================================================================
// LINE-ITEM MUTATIONS (draft only)
// =============================================================================

// RevenueItemInput carries the fields for a new revenue line.
type RevenueItemInput struct {
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
}

// AddRevenueItem validates and appends a revenue line to a draft PJO.
func (s *Service) AddRevenueItem(ctx context.Context, pjoID PJOID, in RevenueItemInput) (*RevenueItem, error) {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusDraft {
		return nil, ErrNotEditable
	}

	now := s.now()
	item := RevenueItem{
		ID:          ItemID(uuid.NewString()),
		PJOID:       pjoID,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		UnitPrice:   in.UnitPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	item.Subtotal = item.ComputedSubtotal()

	if res := ValidateRevenueItem(item); !res.Valid() {
		return nil, res
	}
	if err := s.store.PutRevenueItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.refreshAndSave(ctx, pjoID); err != nil {
		return nil, err
	}
	return &item, nil
}

// CostItemInput carries the fields for a new cost line.
type CostItemInput struct {
	Category        CostCategory
	Description     string
	EstimatedAmount decimal.Decimal
}

// AddCostItem validates and appends a cost line to a draft PJO.
func (s *Service) AddCostItem(ctx context.Context, pjoID PJOID, in CostItemInput) (*CostItem, error) {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusDraft {
		return nil, ErrNotEditable
	}

	now := s.now()
	category := in.Category
	if category == "" {
		category = CategoryOther
	}
	item := CostItem{
		ID:              ItemID(uuid.NewString()),
		PJOID:           pjoID,
		Category:        category,
		Description:     strings.TrimSpace(in.Description),
		EstimatedAmount: in.EstimatedAmount.Round(2),
		Status:          CostEstimated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if res := ValidateCostItem(item); !res.Valid() {
		return nil, res
	}
	if err := s.store.PutCostItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.refreshAndSave(ctx, pjoID); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveRevenueItem deletes a revenue line from a draft PJO.
func (s *Service) RemoveRevenueItem(ctx context.Context, pjoID PJOID, itemID ItemID) error {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return err
	}
	if p.Status != StatusDraft {
		return ErrNotEditable
	}
	if err := s.store.DeleteRevenueItem(ctx, pjoID, itemID); err != nil {
		return err
	}
	return s.refreshAndSave(ctx, pjoID)
}

// RemoveCostItem deletes a cost line from a draft PJO.
func (s *Service) RemoveCostItem(ctx context.Context, pjoID PJOID, itemID ItemID) error {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return err
	}
	if p.Status != StatusDraft {
		return ErrNotEditable
	}
	if err := s.store.DeleteCostItem(ctx, pjoID, itemID); err != nil {
		return err
	}
	return s.refreshAndSave(ctx, pjoID)
}

// ConfirmCostActual records a cost item's actual amount and re-derives
// its variance and sub-state. Allowed while the PJO is pending or
// approved; rejected and converted PJOs are frozen.
func (s *Service) ConfirmCostActual(ctx context.Context, pjoID PJOID, itemID ItemID, actual decimal.Decimal) (*CostItem, error) {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return nil, err
	}
	if p.Status == StatusRejected || p.ConvertedToJO {
		return nil, ErrNotEditable
	}
	if actual.IsNegative() {
		var res ValidationResult
		res.addf("actual_amount", "actual amount must not be negative")
		return nil, res
	}

	var item *CostItem
	for i := range p.CostItems {
		if p.CostItems[i].ID == itemID {
			item = &p.CostItems[i]
			break
		}
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	item.Confirm(actual, s.now())
	if err := s.store.PutCostItem(ctx, *item); err != nil {
		return nil, err
	}
	if err := s.refreshAndSave(ctx, pjoID); err != nil {
		return nil, err
	}

	s.logger.Info("cost item confirmed",
		zap.String("pjo_id", string(pjoID)),
		zap.String("item_id", string(itemID)),
		zap.String("status", string(item.Status)),
		zap.String("variance", item.Variance.String()))
	return item, nil
}

// refreshAndSave re-reads the PJO, recomputes cached totals from its
// items, and persists the projection.
func (s *Service) refreshAndSave(ctx context.Context, pjoID PJOID) error {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return err
	}
	p.RefreshTotals()
	p.UpdatedAt = s.now()
	return s.store.UpdatePJO(ctx, p)
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

// SubmitForApproval moves a draft PJO to pending_approval. Refused when
// required fields are missing or the estimated margin is not strictly
// positive. The write is conditional on the PJO still being draft.
func (s *Service) SubmitForApproval(ctx context.Context, pjoID PJOID) (*ProformaJobOrder, error) {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return nil, err
	}
	if err := GuardTransition(p.Status, StatusPendingApproval); err != nil {
		return nil, err
	}
	if res := ValidateForSubmission(p); !res.Valid() {
		return nil, res
	}

	expected := p.Status
	now := s.now()
	p.Status = StatusPendingApproval
	p.SubmittedAt = &now
	p.UpdatedAt = now
	p.RefreshTotals()

	if err := s.store.TransitionStatus(ctx, p, expected); err != nil {
		return nil, err
	}
	s.logger.Info("pjo submitted for approval", zap.String("pjo_id", string(p.ID)))
	return p, nil
}

// Approve moves a pending PJO to approved. Approval authorizes the
// estimate; it does NOT require cost confirmation - that is the
// conversion gate's job.
func (s *Service) Approve(ctx context.Context, pjoID PJOID, approver string) (*ProformaJobOrder, error) {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return nil, err
	}
	if err := GuardTransition(p.Status, StatusApproved); err != nil {
		return nil, err
	}

	expected := p.Status
	now := s.now()
	p.Status = StatusApproved
	p.ApprovedAt = &now
	p.ApprovedBy = approver
	p.UpdatedAt = now

	if err := s.store.TransitionStatus(ctx, p, expected); err != nil {
		return nil, err
	}
	s.logger.Info("pjo approved",
		zap.String("pjo_id", string(p.ID)),
		zap.String("approved_by", approver))
	return p, nil
}

// Reject moves a pending PJO to rejected. The reason is mandatory
// (non-empty after trim) and stored verbatim.
func (s *Service) Reject(ctx context.Context, pjoID PJOID, rejecter, reason string) (*ProformaJobOrder, error) {
	if strings.TrimSpace(reason) == "" {
		var res ValidationResult
		res.addf("reason", "rejection reason is required")
		return nil, res
	}

	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return nil, err
	}
	if err := GuardTransition(p.Status, StatusRejected); err != nil {
		return nil, err
	}

	expected := p.Status
	now := s.now()
	p.Status = StatusRejected
	p.RejectedAt = &now
	p.RejectedBy = rejecter
	p.RejectionReason = reason
	p.UpdatedAt = now

	if err := s.store.TransitionStatus(ctx, p, expected); err != nil {
		return nil, err
	}
	s.logger.Info("pjo rejected",
		zap.String("pjo_id", string(p.ID)),
		zap.String("rejected_by", rejecter))
	return p, nil
}

// =============================================================================
// CONVERSION
// =============================================================================

// ConvertToJO runs the conversion gate against a fresh snapshot and, on
// success, persists the JO and flips the PJO's conversion latch. The
// latch write is conditional, so two racing conversions produce exactly
// one JO.
func (s *Service) ConvertToJO(ctx context.Context, pjoID PJOID) (*JobOrder, error) {
	p, err := s.store.GetPJO(ctx, pjoID)
	if err != nil {
		return nil, err
	}

	report := AnalyzeBudget(p.CostItems)
	now := s.now()

	seq, err := s.store.NextSequence(ctx, SeqKindJO, now.Year())
	if err != nil {
		return nil, fmt.Errorf("allocating jo sequence: %w", err)
	}

	jo, err := ConvertToJO(p, report, JOID(uuid.NewString()), GenerateJONumber(seq, now), now)
	if err != nil {
		return nil, err
	}

	if err := s.store.MarkConverted(ctx, p.ID, jo.ID, now); err != nil {
		return nil, err
	}
	if err := s.store.CreateJO(ctx, jo); err != nil {
		return nil, err
	}

	s.logger.Info("pjo converted to jo",
		zap.String("pjo_id", string(p.ID)),
		zap.String("jo_number", jo.Number),
		zap.String("profit", jo.Profit.String()))
	return jo, nil
}

// GetJO loads a job order.
func (s *Service) GetJO(ctx context.Context, id JOID) (*JobOrder, error) {
	return s.store.GetJO(ctx, id)
}

// ListJOs returns all job orders.
func (s *Service) ListJOs(ctx context.Context) ([]*JobOrder, error) {
	return s.store.ListJOs(ctx)
}
