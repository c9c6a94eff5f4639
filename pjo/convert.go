/*
convert.go - The PJO -> JO conversion gate

PURPOSE:
  Turns an approved, fully-reconciled PJO into a billable Job Order.
  This is the one irreversible operation in the engine: once converted,
  the PJO's ConvertedToJO latch is set and can never be cleared.

PRECONDITIONS (each failure names its gate):
  1. status == approved            -> otherwise ErrNotApproved
  2. budget report all_confirmed   -> otherwise ErrCostsUnconfirmed,
     with the pending-item count in the message
  3. not already converted         -> otherwise ErrAlreadyConverted

OPENING SNAPSHOT:
  The JO inherits final revenue (aggregated from revenue items) and final
  ACTUAL cost (sum of confirmed actuals). Profit and margin are frozen at
  conversion time; zero revenue yields a zero margin, never a division
  error.
*/
package pjo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConvertToJO applies the conversion gate to a PJO snapshot and, when all
// preconditions hold, emits the Job Order and flips the PJO's one-way
// conversion latch. The caller persists both records; the store's
// MarkConverted CAS makes the latch race-safe across concurrent attempts.
func ConvertToJO(p *ProformaJobOrder, report BudgetReport, joID JOID, joNumber string, now time.Time) (*JobOrder, error) {
	if p.ConvertedToJO {
		return nil, &PreconditionError{
			Precondition: "already_converted",
			Message:      fmt.Sprintf("%s was already converted to a job order", p.Number),
			err:          ErrAlreadyConverted,
		}
	}
	if p.Status != StatusApproved {
		return nil, &PreconditionError{
			Precondition: "status",
			Message:      fmt.Sprintf("status is %s, conversion requires approved", p.Status),
			err:          ErrNotApproved,
		}
	}
	if !report.AllConfirmed {
		msg := "no cost items to reconcile"
		if report.ItemsPending > 0 {
			msg = fmt.Sprintf("%d cost item(s) still unconfirmed", report.ItemsPending)
		}
		return nil, &PreconditionError{
			Precondition: "costs_confirmed",
			Message:      msg,
			err:          ErrCostsUnconfirmed,
		}
	}

	revenue := SumRevenue(p.RevenueItems)
	cost := SumCost(p.CostItems, CostBasisActual)
	profit := revenue.Sub(cost)

	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	jo := &JobOrder{
		ID:           joID,
		Number:       joNumber,
		PJOID:        p.ID,
		PJONumber:    p.Number,
		CustomerID:   p.CustomerID,
		ProjectID:    p.ProjectID,
		TotalRevenue: revenue,
		TotalCost:    cost,
		Profit:       profit,
		MarginPct:    margin,
		CreatedAt:    now,
	}

	p.ConvertedToJO = true
	p.JOID = &jo.ID
	p.UpdatedAt = now

	return jo, nil
}
