/*
errors.go - Centralized error types for the PJO engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calling layer (HTTP handlers, CLI) maps these onto status codes.

ERROR CATEGORIES:
  1. Validation errors  - field-tagged, accumulated, returned as a list
  2. Transition errors  - status change not permitted by the state machine
  3. Precondition errors - conversion gate refusals, naming the unmet gate
  4. Store errors       - not-found and optimistic-concurrency conflicts

USAGE:
  Callers match categories with errors.Is():

    if errors.Is(err, pjo.ErrInvalidTransition) {
        // 409 Conflict
    }

SEE ALSO:
  - validate.go: FieldError and ValidationResult
  - status.go:   InvalidTransitionError construction
  - convert.go:  PreconditionError construction
*/
package pjo

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTransition is returned when a status change is not an edge
	// of the PJO state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification is returned when a compare-and-swap status
	// update finds the PJO no longer in the expected state.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrPJONotFound is returned when a referenced PJO doesn't exist.
	ErrPJONotFound = errors.New("proforma job order not found")

	// ErrJONotFound is returned when a referenced JO doesn't exist.
	ErrJONotFound = errors.New("job order not found")

	// ErrItemNotFound is returned when a referenced line item doesn't exist.
	ErrItemNotFound = errors.New("line item not found")

	// ErrNotApproved is the conversion gate's refusal when the PJO has not
	// reached approved status.
	ErrNotApproved = errors.New("proforma job order is not approved")

	// ErrCostsUnconfirmed is the conversion gate's refusal when one or more
	// cost items still lack an actual amount.
	ErrCostsUnconfirmed = errors.New("cost items not fully confirmed")

	// ErrAlreadyConverted is the conversion gate's refusal when the PJO has
	// already been converted. Conversion is a one-way latch.
	ErrAlreadyConverted = errors.New("proforma job order already converted")

	// ErrNotEditable is returned when a line-item mutation is attempted on
	// a PJO that has left draft status.
	ErrNotEditable = errors.New("proforma job order is no longer editable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidTransitionError reports an illegal edge in the status machine.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PreconditionError names the specific conversion-gate precondition that
// failed, so the caller can render an actionable message instead of a
// generic "cannot convert".
type PreconditionError struct {
	Precondition string // "status", "costs_confirmed", "already_converted"
	Message      string
	err          error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("conversion precondition failed (%s): %s", e.Precondition, e.Message)
}

func (e *PreconditionError) Unwrap() error {
	return e.err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPJONotFound) ||
		errors.Is(err, ErrJONotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsConflict returns true if the error should surface as a conflict
// (illegal transition, lost CAS race, or a tripped conversion latch).
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrConcurrentModification) ||
		errors.Is(err, ErrAlreadyConverted)
}

// IsRetryable returns true if the operation might succeed when replayed
// against a fresh read of the PJO.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
