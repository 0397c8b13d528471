package inventory

import (
	"fmt"

	"inventory-manager/feature/inventory/models"
)

// Kind classifies an engine failure. Callers match on kinds via errors.Is
// against the exported Err* values below.
type Kind string

const (
	KindNotFound               Kind = "not_found"
	KindDuplicateReference     Kind = "duplicate_reference"
	KindDuplicateRow           Kind = "duplicate_row"
	KindNegativeQuantity       Kind = "negative_quantity"
	KindInvalidState           Kind = "invalid_state"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindImmutableField         Kind = "immutable_field"
	KindUnknownWard            Kind = "unknown_ward"
	KindUnknownMedical         Kind = "unknown_medical"
	KindUnknownLot             Kind = "unknown_lot"
	KindStorageFailure         Kind = "storage_failure"
)

// Failure is the error type returned by every engine operation. It carries
// the classification kind plus enough identifying context (reference, ids)
// for the caller to build a precise message.
type Failure struct {
	Kind Kind
	msg  string
	err  error
}

func (f *Failure) Error() string {
	if f.err != nil {
		return fmt.Sprintf("%s: %v", f.msg, f.err)
	}
	return f.msg
}

func (f *Failure) Unwrap() error {
	return f.err
}

// Is matches any Failure of the same kind, so
// errors.Is(err, ErrNotFound) works regardless of the carried context.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Kind == f.Kind
}

// Sentinel failures for errors.Is matching.
var (
	ErrNotFound               = &Failure{Kind: KindNotFound, msg: "not found"}
	ErrDuplicateReference     = &Failure{Kind: KindDuplicateReference, msg: "duplicate reference"}
	ErrDuplicateRow           = &Failure{Kind: KindDuplicateRow, msg: "duplicate row"}
	ErrNegativeQuantity       = &Failure{Kind: KindNegativeQuantity, msg: "negative quantity"}
	ErrInvalidState           = &Failure{Kind: KindInvalidState, msg: "invalid state"}
	ErrInvalidStateTransition = &Failure{Kind: KindInvalidStateTransition, msg: "invalid state transition"}
	ErrImmutableField         = &Failure{Kind: KindImmutableField, msg: "immutable field"}
	ErrUnknownWard            = &Failure{Kind: KindUnknownWard, msg: "unknown ward"}
	ErrUnknownMedical         = &Failure{Kind: KindUnknownMedical, msg: "unknown medical"}
	ErrUnknownLot             = &Failure{Kind: KindUnknownLot, msg: "unknown lot"}
	ErrStorageFailure         = &Failure{Kind: KindStorageFailure, msg: "storage failure"}
)

func notFound(what string, id any) *Failure {
	return &Failure{Kind: KindNotFound, msg: fmt.Sprintf("%s %v not found", what, id)}
}

func duplicateReference(reference string) *Failure {
	return &Failure{Kind: KindDuplicateReference, msg: fmt.Sprintf("inventory reference %q already taken", reference)}
}

func duplicateRow(inventoryID, medicalID int, lot models.LotRef) *Failure {
	return &Failure{
		Kind: KindDuplicateRow,
		msg:  fmt.Sprintf("inventory %d already counts medical %d lot %s", inventoryID, medicalID, lot),
	}
}

func negativeQuantity(qty fmt.Stringer) *Failure {
	return &Failure{Kind: KindNegativeQuantity, msg: fmt.Sprintf("real quantity %s is negative", qty)}
}

func invalidState(inventoryID int, status models.Status) *Failure {
	return &Failure{
		Kind: KindInvalidState,
		msg:  fmt.Sprintf("inventory %d is %s and no longer accepts row changes", inventoryID, status),
	}
}

func invalidTransition(inventoryID int, current, next models.Status) *Failure {
	return &Failure{
		Kind: KindInvalidStateTransition,
		msg:  fmt.Sprintf("inventory %d cannot move from %s to %s", inventoryID, current, next),
	}
}

func immutableField(rowID int, field string) *Failure {
	return &Failure{Kind: KindImmutableField, msg: fmt.Sprintf("row %d field %s is immutable", rowID, field)}
}

func unknownWard(code string) *Failure {
	return &Failure{Kind: KindUnknownWard, msg: fmt.Sprintf("ward %q does not exist", code)}
}

func unknownMedical(id int) *Failure {
	return &Failure{Kind: KindUnknownMedical, msg: fmt.Sprintf("medical %d does not exist", id)}
}

func unknownLot(code string) *Failure {
	return &Failure{Kind: KindUnknownLot, msg: fmt.Sprintf("lot %q does not exist", code)}
}

func storageFailure(op string, err error) *Failure {
	return &Failure{Kind: KindStorageFailure, msg: fmt.Sprintf("store operation %s failed", op), err: err}
}
