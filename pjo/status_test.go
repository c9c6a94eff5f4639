package pjo_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

func fixedNow() time.Time {
	return time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)
}

var allStatuses = []pjo.Status{
	pjo.StatusDraft,
	pjo.StatusPendingApproval,
	pjo.StatusApproved,
	pjo.StatusRejected,
}

func TestStatusMachine_CompleteEdgeSet(t *testing.T) {
	// The ONLY legal edges: draft -> pending, pending -> approved,
	// pending -> rejected. Every other pair is illegal.
	legal := map[[2]pjo.Status]bool{
		{pjo.StatusDraft, pjo.StatusPendingApproval}:    true,
		{pjo.StatusPendingApproval, pjo.StatusApproved}: true,
		{pjo.StatusPendingApproval, pjo.StatusRejected}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			expected := legal[[2]pjo.Status{from, to}]
			assert.Equal(t, expected, pjo.CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestStatusMachine_TerminalStates(t *testing.T) {
	assert.False(t, pjo.IsTerminal(pjo.StatusDraft))
	assert.False(t, pjo.IsTerminal(pjo.StatusPendingApproval))
	assert.True(t, pjo.IsTerminal(pjo.StatusApproved))
	assert.True(t, pjo.IsTerminal(pjo.StatusRejected))
}

func TestStatusMachine_NoReturnToDraft(t *testing.T) {
	// A PJO never re-enters draft once submitted.
	for _, from := range allStatuses {
		assert.False(t, pjo.CanTransition(from, pjo.StatusDraft),
			"%s must not transition back to draft", from)
	}
}

func TestGuardTransition_IllegalEdge(t *testing.T) {
	err := pjo.GuardTransition(pjo.StatusDraft, pjo.StatusApproved)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, pjo.ErrInvalidTransition))

	var ite *pjo.InvalidTransitionError
	assert.ErrorAs(t, err, &ite)
	assert.Equal(t, pjo.StatusDraft, ite.From)
	assert.Equal(t, pjo.StatusApproved, ite.To)
}

func TestGuardTransition_LegalEdge(t *testing.T) {
	assert.NoError(t, pjo.GuardTransition(pjo.StatusDraft, pjo.StatusPendingApproval))
	assert.NoError(t, pjo.GuardTransition(pjo.StatusPendingApproval, pjo.StatusApproved))
	assert.NoError(t, pjo.GuardTransition(pjo.StatusPendingApproval, pjo.StatusRejected))
}

func TestValidStatus(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, pjo.ValidStatus(s))
	}
	assert.False(t, pjo.ValidStatus(pjo.Status("cancelled")))
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t, []pjo.Status{pjo.StatusPendingApproval}, pjo.NextStatuses(pjo.StatusDraft))
	assert.ElementsMatch(t,
		[]pjo.Status{pjo.StatusApproved, pjo.StatusRejected},
		pjo.NextStatuses(pjo.StatusPendingApproval))
	assert.Empty(t, pjo.NextStatuses(pjo.StatusApproved))
	assert.Empty(t, pjo.NextStatuses(pjo.StatusRejected))
}
