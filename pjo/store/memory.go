// Package store provides pjo.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	pjos      map[pjo.PJOID]*pjo.ProformaJobOrder
	jos       map[pjo.JOID]*pjo.JobOrder
	sequences map[seqKey]int
}

type seqKey struct {
	Kind string
	Year int
}

func NewMemory() *Memory {
	return &Memory{
		pjos:      make(map[pjo.PJOID]*pjo.ProformaJobOrder),
		jos:       make(map[pjo.JOID]*pjo.JobOrder),
		sequences: make(map[seqKey]int),
	}
}

var _ pjo.Store = (*Memory)(nil)

// clonePJO deep-copies a PJO so callers can't mutate stored state
// without going through the store.
func clonePJO(p *pjo.ProformaJobOrder) *pjo.ProformaJobOrder {
	cp := *p
	cp.RevenueItems = append([]pjo.RevenueItem(nil), p.RevenueItems...)
	cp.CostItems = append([]pjo.CostItem(nil), p.CostItems...)
	for i := range cp.CostItems {
		if a := cp.CostItems[i].ActualAmount; a != nil {
			v := *a
			cp.CostItems[i].ActualAmount = &v
		}
	}
	if p.JOID != nil {
		id := *p.JOID
		cp.JOID = &id
	}
	return &cp
}

func (m *Memory) CreatePJO(_ context.Context, p *pjo.ProformaJobOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pjos[p.ID] = clonePJO(p)
	return nil
}

func (m *Memory) GetPJO(_ context.Context, id pjo.PJOID) (*pjo.ProformaJobOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pjos[id]
	if !ok {
		return nil, pjo.ErrPJONotFound
	}
	return clonePJO(p), nil
}

func (m *Memory) ListPJOs(_ context.Context) ([]*pjo.ProformaJobOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*pjo.ProformaJobOrder, 0, len(m.pjos))
	for _, p := range m.pjos {
		out = append(out, clonePJO(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdatePJO(_ context.Context, p *pjo.ProformaJobOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.pjos[p.ID]
	if !ok {
		return pjo.ErrPJONotFound
	}
	// Header and cached projections only. Status and the conversion
	// latch are written by their conditional operations.
	cur.CustomerID = p.CustomerID
	cur.ProjectID = p.ProjectID
	cur.Origin = p.Origin
	cur.Destination = p.Destination
	cur.Commodity = p.Commodity
	cur.TotalRevenue = p.TotalRevenue
	cur.TotalCostEstimated = p.TotalCostEstimated
	cur.TotalCostActual = p.TotalCostActual
	cur.Profit = p.Profit
	cur.MarginPct = p.MarginPct
	cur.AllCostsConfirmed = p.AllCostsConfirmed
	cur.HasCostOverruns = p.HasCostOverruns
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (m *Memory) DeletePJO(_ context.Context, id pjo.PJOID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pjos[id]; !ok {
		return pjo.ErrPJONotFound
	}
	// Items live inside the PJO record here, so exclusive ownership is
	// automatic: removing the PJO removes its items.
	delete(m.pjos, id)
	return nil
}

func (m *Memory) TransitionStatus(_ context.Context, p *pjo.ProformaJobOrder, expected pjo.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.pjos[p.ID]
	if !ok {
		return pjo.ErrPJONotFound
	}
	if cur.Status != expected {
		return pjo.ErrConcurrentModification
	}
	cur.Status = p.Status
	cur.SubmittedAt = p.SubmittedAt
	cur.ApprovedAt = p.ApprovedAt
	cur.ApprovedBy = p.ApprovedBy
	cur.RejectedAt = p.RejectedAt
	cur.RejectedBy = p.RejectedBy
	cur.RejectionReason = p.RejectionReason
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (m *Memory) MarkConverted(_ context.Context, id pjo.PJOID, joID pjo.JOID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.pjos[id]
	if !ok {
		return pjo.ErrPJONotFound
	}
	if cur.ConvertedToJO {
		return pjo.ErrAlreadyConverted
	}
	cur.ConvertedToJO = true
	cur.JOID = &joID
	cur.UpdatedAt = at
	return nil
}

func (m *Memory) PutRevenueItem(_ context.Context, item pjo.RevenueItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.pjos[item.PJOID]
	if !ok {
		return pjo.ErrPJONotFound
	}
	for i := range cur.RevenueItems {
		if cur.RevenueItems[i].ID == item.ID {
			cur.RevenueItems[i] = item
			return nil
		}
	}
	cur.RevenueItems = append(cur.RevenueItems, item)
	return nil
}

func (m *Memory) DeleteRevenueItem(_ context.Context, pjoID pjo.PJOID, itemID pjo.ItemID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.pjos[pjoID]
	if !ok {
		return pjo.ErrPJONotFound
	}
	for i := range cur.RevenueItems {
		if cur.RevenueItems[i].ID == itemID {
			cur.RevenueItems = append(cur.RevenueItems[:i], cur.RevenueItems[i+1:]...)
			return nil
		}
	}
	return pjo.ErrItemNotFound
}

func (m *Memory) PutCostItem(_ context.Context, item pjo.CostItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.pjos[item.PJOID]
	if !ok {
		return pjo.ErrPJONotFound
	}
	for i := range cur.CostItems {
		if cur.CostItems[i].ID == item.ID {
			cur.CostItems[i] = item
			return nil
		}
	}
	cur.CostItems = append(cur.CostItems, item)
	return nil
}

func (m *Memory) DeleteCostItem(_ context.Context, pjoID pjo.PJOID, itemID pjo.ItemID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.pjos[pjoID]
	if !ok {
		return pjo.ErrPJONotFound
	}
	for i := range cur.CostItems {
		if cur.CostItems[i].ID == itemID {
			cur.CostItems = append(cur.CostItems[:i], cur.CostItems[i+1:]...)
			return nil
		}
	}
	return pjo.ErrItemNotFound
}

func (m *Memory) CreateJO(_ context.Context, jo *pjo.JobOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *jo
	m.jos[jo.ID] = &cp
	return nil
}

func (m *Memory) GetJO(_ context.Context, id pjo.JOID) (*pjo.JobOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jo, ok := m.jos[id]
	if !ok {
		return nil, pjo.ErrJONotFound
	}
	cp := *jo
	return &cp, nil
}

func (m *Memory) ListJOs(_ context.Context) ([]*pjo.JobOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*pjo.JobOrder, 0, len(m.jos))
	for _, jo := range m.jos {
		cp := *jo
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) NextSequence(_ context.Context, kind string, year int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := seqKey{Kind: kind, Year: year}
	m.sequences[k]++
	return m.sequences[k], nil
}
