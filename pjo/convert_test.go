package pjo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

// approvedPJO builds a fully reconciled, approved PJO:
// revenue 16.5M, actual cost 3.1M.
func approvedPJO() *pjo.ProformaJobOrder {
	p := completeDraft()
	p.ID = "pjo-1"
	p.Number = "0001/CARGO/VII/2025"
	p.Status = pjo.StatusApproved
	p.CostItems = []pjo.CostItem{
		confirmedCostItem("trucking", 2000000, 2100000),
		confirmedCostItem("port charges", 1000000, 1000000),
	}
	return p
}

func TestConvertToJO_Success(t *testing.T) {
	p := approvedPJO()
	report := pjo.AnalyzeBudget(p.CostItems)
	require.True(t, report.AllConfirmed)

	jo, err := pjo.ConvertToJO(p, report, "jo-1", "JO-0001/CARGO/VII/2025", fixedNow())
	require.NoError(t, err)

	// Opening snapshot: final revenue, final ACTUAL cost.
	assert.True(t, dec(16500000).Equal(jo.TotalRevenue), "revenue %s", jo.TotalRevenue)
	assert.True(t, dec(3100000).Equal(jo.TotalCost), "cost %s", jo.TotalCost)
	assert.True(t, dec(13400000).Equal(jo.Profit), "profit %s", jo.Profit)
	assert.True(t, dec(81.21).Equal(jo.MarginPct), "margin %s", jo.MarginPct)
	assert.Equal(t, p.ID, jo.PJOID)
	assert.Equal(t, p.Number, jo.PJONumber)

	// The latch flips.
	assert.True(t, p.ConvertedToJO)
	require.NotNil(t, p.JOID)
	assert.Equal(t, pjo.JOID("jo-1"), *p.JOID)
}

func TestConvertToJO_NotApproved(t *testing.T) {
	p := approvedPJO()
	p.Status = pjo.StatusPendingApproval

	_, err := pjo.ConvertToJO(p, pjo.AnalyzeBudget(p.CostItems), "jo-1", "JO-0001/CARGO/VII/2025", fixedNow())

	require.Error(t, err)
	assert.True(t, errors.Is(err, pjo.ErrNotApproved))
	var pre *pjo.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "status", pre.Precondition)
	assert.False(t, p.ConvertedToJO, "latch must stay unset on refusal")
}

func TestConvertToJO_UnconfirmedCosts_NamesPendingCount(t *testing.T) {
	// GIVEN: approved status but two cost items still unconfirmed
	p := approvedPJO()
	p.CostItems = []pjo.CostItem{
		costItem("trucking", 2000000),
		costItem("port charges", 1000000),
	}

	// WHEN
	_, err := pjo.ConvertToJO(p, pjo.AnalyzeBudget(p.CostItems), "jo-1", "JO-0001/CARGO/VII/2025", fixedNow())

	// THEN: refused with the pending count, even though status is approved
	require.Error(t, err)
	assert.True(t, errors.Is(err, pjo.ErrCostsUnconfirmed))
	var pre *pjo.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "costs_confirmed", pre.Precondition)
	assert.Contains(t, pre.Message, "2 cost item(s) still unconfirmed")
}

func TestConvertToJO_EmptyCostList_Refused(t *testing.T) {
	p := approvedPJO()
	p.CostItems = nil

	_, err := pjo.ConvertToJO(p, pjo.AnalyzeBudget(p.CostItems), "jo-1", "JO-0001/CARGO/VII/2025", fixedNow())

	require.Error(t, err)
	assert.True(t, errors.Is(err, pjo.ErrCostsUnconfirmed))
}

func TestConvertToJO_AlreadyConverted(t *testing.T) {
	p := approvedPJO()
	report := pjo.AnalyzeBudget(p.CostItems)

	_, err := pjo.ConvertToJO(p, report, "jo-1", "JO-0001/CARGO/VII/2025", fixedNow())
	require.NoError(t, err)

	// Second attempt trips the latch.
	_, err = pjo.ConvertToJO(p, report, "jo-2", "JO-0002/CARGO/VII/2025", fixedNow())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pjo.ErrAlreadyConverted))
	var pre *pjo.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "already_converted", pre.Precondition)
}

func TestConvertToJO_ZeroRevenue_ZeroMargin(t *testing.T) {
	// Zero revenue yields margin 0, never a division error.
	p := approvedPJO()
	p.RevenueItems = nil

	jo, err := pjo.ConvertToJO(p, pjo.AnalyzeBudget(p.CostItems), "jo-1", "JO-0001/CARGO/VII/2025", fixedNow())
	require.NoError(t, err)

	assert.True(t, jo.TotalRevenue.IsZero())
	assert.True(t, jo.MarginPct.IsZero())
	assert.True(t, dec(-3100000).Equal(jo.Profit))
}

func TestMarginPct_ZeroRevenue(t *testing.T) {
	assert.True(t, pjo.MarginPct(dec(0), dec(100)).IsZero())
	assert.True(t, dec(25).Equal(pjo.MarginPct(dec(1000), dec(750))))
}

func TestRefreshTotals_RecomputesFromItems(t *testing.T) {
	p := completeDraft()
	// Poison the cached projections; items are the source of truth.
	p.TotalRevenue = dec(1)
	p.Profit = dec(-99)

	p.RefreshTotals()

	assert.True(t, dec(16500000).Equal(p.TotalRevenue))
	assert.True(t, dec(3000000).Equal(p.TotalCostEstimated))
	assert.True(t, dec(13500000).Equal(p.Profit))
	assert.True(t, dec(81.82).Equal(p.MarginPct), "margin %s", p.MarginPct)
	assert.False(t, p.AllCostsConfirmed)
	assert.False(t, p.HasCostOverruns)
}
