package models

import "fmt"

// Status is the lifecycle state of an Inventory.
type Status string

const (
	// StatusDraft is the initial state. Rows are attached and counted here.
	StatusDraft Status = "draft"
	// StatusValidated means counts are confirmed, pending approval.
	// The row structure is frozen but the inventory can still be canceled.
	StatusValidated Status = "validated"
	// StatusCanceled voids the inventory. Terminal.
	StatusCanceled Status = "canceled"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusValidated, StatusCanceled:
		return true
	default:
		return false
	}
}

// Frozen reports whether rows of an inventory in this state may still be
// created or mutated. Leaving draft ends the counting phase.
func (s Status) Frozen() bool {
	return s != StatusDraft
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCanceled
}

// allowedTransitions is the finite edge table of the status state machine.
// Anything not listed here is rejected, including reviving a canceled
// inventory back to draft. A post-approval "applied" state would slot in as
// a new edge from validated.
var allowedTransitions = map[Status][]Status{
	StatusDraft:     {StatusValidated, StatusCanceled},
	StatusValidated: {StatusCanceled},
	StatusCanceled:  {},
}

// CanTransition reports whether the edge current -> next exists.
func CanTransition(current, next Status) bool {
	for _, s := range allowedTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Transition validates the edge current -> next and returns the new state.
func Transition(current, next Status) (Status, error) {
	if !next.IsValid() {
		return current, fmt.Errorf("unknown status %q", next)
	}
	if !CanTransition(current, next) {
		return current, fmt.Errorf("illegal status transition %q -> %q", current, next)
	}
	return next, nil
}
