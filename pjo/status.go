/*
status.go - The PJO approval status machine

PURPOSE:
  Defines the finite-state machine governing a PJO's approval status and
  the guard helpers the lifecycle service uses before mutating anything.

STATE MACHINE:

  draft ──▶ pending_approval ──▶ approved   (terminal)
                    │
                    └──────────▶ rejected   (terminal)

  No other edges exist. A PJO never re-enters draft once submitted, and
  nothing leaves a terminal state. Transitions are monotonic.

RACE SAFETY:
  The engine itself never mutates shared state; callers pass the expected
  current status explicitly, and the store applies the transition with a
  compare-and-swap keyed on that status. A lost race surfaces as
  ErrConcurrentModification, never as silent overwrite.

COST SUB-STATES:
  Cost items carry their own tiny machine (estimated -> under_budget |
  confirmed | exceeded), derived in reconcile.go. It is independent of
  the PJO status: approval does not require confirmation, only the
  conversion gate does.
*/
package pjo

// transitions is the complete edge set of the PJO status machine.
// Terminal states map to an empty slice.
var transitions = map[Status][]Status{
	StatusDraft:           {StatusPendingApproval},
	StatusPendingApproval: {StatusApproved, StatusRejected},
	StatusApproved:        {},
	StatusRejected:        {},
}

// ValidStatus reports whether s is a known PJO status.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from -> to is an edge of the machine.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal successor states of s.
func NextStatuses(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no further transitions are possible from s.
func IsTerminal(s Status) bool {
	return ValidStatus(s) && len(transitions[s]) == 0
}

// GuardTransition validates from -> to and returns an
// InvalidTransitionError for any edge not in the table.
func GuardTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}
