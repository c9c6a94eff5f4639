/*
sqlite_test.go - Store tests against an in-memory SQLite database

Exercises CRUD round trips, cascade deletes, the conditional writes
behind status transitions and the conversion latch, and per-year
sequence allocation.
*/
package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var baseTime = time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)

func testPJO(id string) *pjo.ProformaJobOrder {
	p := &pjo.ProformaJobOrder{
		ID:          pjo.PJOID(id),
		Number:      "0001/CARGO/VII/2025",
		CustomerID:  "cust-1",
		ProjectID:   "proj-1",
		Origin:      "Jakarta",
		Destination: "Surabaya",
		Commodity:   "machinery",
		Status:      pjo.StatusDraft,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	}
	p.RefreshTotals()
	return p
}

// =============================================================================
// PJO ROUND TRIP
// =============================================================================

func TestStore_PJORoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPJO("pjo-1")
	require.NoError(t, s.CreatePJO(ctx, p))

	got, err := s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)

	assert.Equal(t, p.Number, got.Number)
	assert.Equal(t, p.CustomerID, got.CustomerID)
	assert.Equal(t, pjo.StatusDraft, got.Status)
	assert.False(t, got.ConvertedToJO)
	assert.Nil(t, got.JOID)
	assert.Nil(t, got.SubmittedAt)
	assert.True(t, got.CreatedAt.Equal(baseTime))
}

func TestStore_GetPJO_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPJO(context.Background(), "missing")
	assert.True(t, errors.Is(err, pjo.ErrPJONotFound))
}

func TestStore_UpdatePJO_PersistsTotals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPJO("pjo-1")
	require.NoError(t, s.CreatePJO(ctx, p))

	p.TotalRevenue = decimal.RequireFromString("16500000")
	p.TotalCostEstimated = decimal.RequireFromString("3000000.50")
	p.Profit = decimal.RequireFromString("13499999.50")
	p.MarginPct = decimal.RequireFromString("81.82")
	p.HasCostOverruns = true
	require.NoError(t, s.UpdatePJO(ctx, p))

	got, err := s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3000000.50").Equal(got.TotalCostEstimated),
		"decimal text round trip must not lose precision, got %s", got.TotalCostEstimated)
	assert.True(t, decimal.RequireFromString("81.82").Equal(got.MarginPct))
	assert.True(t, got.HasCostOverruns)
}

func TestStore_UpdatePJO_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdatePJO(context.Background(), testPJO("missing"))
	assert.True(t, errors.Is(err, pjo.ErrPJONotFound))
}

// =============================================================================
// LINE ITEMS
// =============================================================================

func TestStore_ItemsLoadWithPJO(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPJO("pjo-1")
	require.NoError(t, s.CreatePJO(ctx, p))

	rev := pjo.RevenueItem{
		ID: "rev-1", PJOID: "pjo-1", Description: "ocean freight",
		Quantity: dec(2), Unit: "container", UnitPrice: dec(7500000), Subtotal: dec(15000000),
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}
	require.NoError(t, s.PutRevenueItem(ctx, rev))

	actual := decimal.RequireFromString("2100000")
	confirmedAt := baseTime.Add(time.Hour)
	cost := pjo.CostItem{
		ID: "cost-1", PJOID: "pjo-1", Category: pjo.CategoryTrucking, Description: "trucking",
		EstimatedAmount: dec(2000000), ActualAmount: &actual,
		Variance: dec(100000), VariancePct: dec(5),
		Status: pjo.CostExceeded, ConfirmedAt: &confirmedAt,
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}
	require.NoError(t, s.PutCostItem(ctx, cost))

	got, err := s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)

	require.Len(t, got.RevenueItems, 1)
	assert.True(t, dec(15000000).Equal(got.RevenueItems[0].Subtotal))

	require.Len(t, got.CostItems, 1)
	it := got.CostItems[0]
	require.NotNil(t, it.ActualAmount)
	assert.True(t, actual.Equal(*it.ActualAmount))
	assert.Equal(t, pjo.CostExceeded, it.Status)
	require.NotNil(t, it.ConfirmedAt)
	assert.True(t, it.ConfirmedAt.Equal(confirmedAt))
}

func TestStore_PutCostItem_UpsertsOnConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePJO(ctx, testPJO("pjo-1")))

	item := pjo.CostItem{
		ID: "cost-1", PJOID: "pjo-1", Category: pjo.CategoryPortCharges, Description: "THC",
		EstimatedAmount: dec(1000000), Status: pjo.CostEstimated,
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}
	require.NoError(t, s.PutCostItem(ctx, item))

	// Confirm and re-put under the same id.
	item.Confirm(dec(950000), baseTime.Add(time.Hour))
	require.NoError(t, s.PutCostItem(ctx, item))

	got, err := s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)
	require.Len(t, got.CostItems, 1, "upsert must not duplicate the row")
	assert.Equal(t, pjo.CostUnderBudget, got.CostItems[0].Status)
}

func TestStore_DeleteItem_ScopedToPJO(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePJO(ctx, testPJO("pjo-1")))
	rev := pjo.RevenueItem{
		ID: "rev-1", PJOID: "pjo-1", Description: "freight",
		Quantity: dec(1), UnitPrice: dec(100), Subtotal: dec(100),
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}
	require.NoError(t, s.PutRevenueItem(ctx, rev))

	// Wrong parent PJO does not match.
	err := s.DeleteRevenueItem(ctx, "pjo-other", "rev-1")
	assert.True(t, errors.Is(err, pjo.ErrItemNotFound))

	require.NoError(t, s.DeleteRevenueItem(ctx, "pjo-1", "rev-1"))

	got, err := s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)
	assert.Empty(t, got.RevenueItems)
}

func TestStore_DeletePJO_CascadesItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePJO(ctx, testPJO("pjo-1")))
	require.NoError(t, s.PutRevenueItem(ctx, pjo.RevenueItem{
		ID: "rev-1", PJOID: "pjo-1", Description: "freight",
		Quantity: dec(1), UnitPrice: dec(100), Subtotal: dec(100),
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
	require.NoError(t, s.PutCostItem(ctx, pjo.CostItem{
		ID: "cost-1", PJOID: "pjo-1", Category: pjo.CategoryOther, Description: "misc",
		EstimatedAmount: dec(50), Status: pjo.CostEstimated,
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}))

	require.NoError(t, s.DeletePJO(ctx, "pjo-1"))

	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM revenue_items`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
	err = s.db.QueryRow(`SELECT COUNT(1) FROM cost_items`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// =============================================================================
// CONDITIONAL WRITES
// =============================================================================

func TestStore_TransitionStatus_CAS(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPJO("pjo-1")
	require.NoError(t, s.CreatePJO(ctx, p))

	now := baseTime.Add(time.Hour)
	p.Status = pjo.StatusPendingApproval
	p.SubmittedAt = &now
	p.UpdatedAt = now
	require.NoError(t, s.TransitionStatus(ctx, p, pjo.StatusDraft))

	got, err := s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)
	assert.Equal(t, pjo.StatusPendingApproval, got.Status)
	require.NotNil(t, got.SubmittedAt)
	assert.True(t, got.SubmittedAt.Equal(now))

	// The same expected-draft write now loses.
	err = s.TransitionStatus(ctx, p, pjo.StatusDraft)
	assert.True(t, errors.Is(err, pjo.ErrConcurrentModification))

	// Status did not move.
	got, err = s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)
	assert.Equal(t, pjo.StatusPendingApproval, got.Status)
}

func TestStore_TransitionStatus_NotFound(t *testing.T) {
	s := newTestStore(t)

	p := testPJO("missing")
	p.Status = pjo.StatusPendingApproval
	err := s.TransitionStatus(context.Background(), p, pjo.StatusDraft)
	assert.True(t, errors.Is(err, pjo.ErrPJONotFound))
}

func TestStore_MarkConverted_Latch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePJO(ctx, testPJO("pjo-1")))

	at := baseTime.Add(2 * time.Hour)
	require.NoError(t, s.MarkConverted(ctx, "pjo-1", "jo-1", at))

	got, err := s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)
	assert.True(t, got.ConvertedToJO)
	require.NotNil(t, got.JOID)
	assert.Equal(t, pjo.JOID("jo-1"), *got.JOID)

	// Second flip loses, and the original JO link survives.
	err = s.MarkConverted(ctx, "pjo-1", "jo-2", at)
	assert.True(t, errors.Is(err, pjo.ErrAlreadyConverted))

	got, err = s.GetPJO(ctx, "pjo-1")
	require.NoError(t, err)
	assert.Equal(t, pjo.JOID("jo-1"), *got.JOID)
}

func TestStore_MarkConverted_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.MarkConverted(context.Background(), "missing", "jo-1", baseTime)
	assert.True(t, errors.Is(err, pjo.ErrPJONotFound))
}

// =============================================================================
// JOB ORDERS
// =============================================================================

func TestStore_JORoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jo := &pjo.JobOrder{
		ID:           "jo-1",
		Number:       "JO-0001/CARGO/VII/2025",
		PJOID:        "pjo-1",
		PJONumber:    "0001/CARGO/VII/2025",
		CustomerID:   "cust-1",
		ProjectID:    "proj-1",
		TotalRevenue: dec(16500000),
		TotalCost:    dec(3100000),
		Profit:       dec(13400000),
		MarginPct:    decimal.RequireFromString("81.21"),
		CreatedAt:    baseTime,
	}
	require.NoError(t, s.CreateJO(ctx, jo))

	got, err := s.GetJO(ctx, "jo-1")
	require.NoError(t, err)
	assert.Equal(t, jo.Number, got.Number)
	assert.True(t, jo.Profit.Equal(got.Profit))
	assert.True(t, jo.MarginPct.Equal(got.MarginPct))

	jos, err := s.ListJOs(ctx)
	require.NoError(t, err)
	assert.Len(t, jos, 1)
}

func TestStore_GetJO_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetJO(context.Background(), "missing")
	assert.True(t, errors.Is(err, pjo.ErrJONotFound))
}

// =============================================================================
// SEQUENCES
// =============================================================================

func TestStore_NextSequence_PerKindPerYear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := s.NextSequence(ctx, pjo.SeqKindPJO, 2025)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Other kinds and other years advance independently.
	got, err := s.NextSequence(ctx, pjo.SeqKindJO, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = s.NextSequence(ctx, pjo.SeqKindPJO, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

// =============================================================================
// RESET
// =============================================================================

func TestStore_Reset_EmptiesEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePJO(ctx, testPJO("pjo-1")))
	_, err := s.NextSequence(ctx, pjo.SeqKindPJO, 2025)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	pjos, err := s.ListPJOs(ctx)
	require.NoError(t, err)
	assert.Empty(t, pjos)

	// Sequences restart after a reset.
	got, err := s.NextSequence(ctx, pjo.SeqKindPJO, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}
