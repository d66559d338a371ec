package pantry

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("food item not found")
	ErrInvalidName   = errors.New("name must not be empty")
	ErrInvalidAmount = errors.New("amount must be a finite positive number")
	ErrInvalidMethod = errors.New("method must be increment or decrement")
	ErrInvalidField  = errors.New("field is not editable")
)

// Operation names carried by OpError.
const (
	OpCreate       = "create"
	OpFindByCode   = "find by code"
	OpFindAll      = "find all"
	OpEditField    = "edit field"
	OpAdjustAmount = "adjust amount"
	OpDeleteByCode = "delete by code"
)

// Developer-facing messages logged by Controller when an operation fails.
const (
	MsgCreateFailed       = "Could not create the food item. Check the store logs or the request payload and try again"
	MsgFindAllFailed      = "Could not load the food items. Check the store connection and the query"
	MsgEditFailed         = "Could not edit the food item. Check that the code exists and the field and value are valid"
	MsgChangeAmountFailed = "Could not change the food amount. Check that the code exists and the method and amount are valid"
	MsgDeleteFailed       = "Could not delete the food item. Check that the item exists and the code is correct"
)

// OpError ties a failure to the repository operation and food code it came from.
type OpError struct {
	Op   string
	Code int
	Err  error
}

func (e *OpError) Error() string {
	if e.Op == OpFindAll {
		return fmt.Sprintf("pantry: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pantry: %s %d: %v", e.Op, e.Code, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// FailureReason classifies an error returned by Repository.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonNotFound
	ReasonInvalid
	ReasonStore
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotFound:
		return "not found"
	case ReasonInvalid:
		return "invalid"
	default:
		return "store"
	}
}

// Reason reports why err happened. Anything that is not a lookup miss or
// rejected input is a store failure.
func Reason(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidMethod),
		errors.Is(err, ErrInvalidField):
		return ReasonInvalid
	default:
		return ReasonStore
	}
}
