package game

import (
	"errors"
	"fmt"

	"github.com/verdantloop/garden/internal/store"
)

// Error is a typed command failure returned synchronously to the caller.
//
// Commands never use panics or untyped errors for game-rule violations;
// the HTTP layer switches on Code to pick a response. AlreadyTransitioned
// is the one benign member: it means the caller lost a delete race and the
// entity was consumed by another actor, which surfaces as "already
// collected/expired" rather than a hard failure.
type Error struct {
	// Code identifies the failure category.
	Code Code

	// Message is a human-readable description.
	Message string

	// UserID and FieldIndex identify the affected field slot.
	UserID     string
	FieldIndex int
}

// Code categorizes command failures.
type Code string

const (
	// CodeFieldOccupied indicates a create attempted on a filled slot.
	CodeFieldOccupied Code = "FIELD_OCCUPIED"

	// CodeInvalidFieldKind indicates an operation on the wrong field
	// category, e.g. feeding on a grass field.
	CodeInvalidFieldKind Code = "INVALID_FIELD_KIND"

	// CodeInsufficientInventory indicates a debit of more than is owned.
	CodeInsufficientInventory Code = "INSUFFICIENT_INVENTORY"

	// CodeNotFound indicates a collect or feed targeting a field with no
	// matching entity.
	CodeNotFound Code = "NOT_FOUND"

	// CodeAlreadyTransitioned indicates a lost delete race. Benign.
	CodeAlreadyTransitioned Code = "ALREADY_TRANSITIONED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("%s: %s (user=%s, field=%d)", e.Code, e.Message, e.UserID, e.FieldIndex)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the failure code from an error.
// Returns an empty code for non-game errors. Uses errors.As to handle
// wrapped errors.
func CodeOf(err error) Code {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsFieldOccupied reports whether err is a FieldOccupied failure.
func IsFieldOccupied(err error) bool { return CodeOf(err) == CodeFieldOccupied }

// IsInvalidFieldKind reports whether err is an InvalidFieldKind failure.
func IsInvalidFieldKind(err error) bool { return CodeOf(err) == CodeInvalidFieldKind }

// IsInsufficientInventory reports whether err is an InsufficientInventory failure.
func IsInsufficientInventory(err error) bool { return CodeOf(err) == CodeInsufficientInventory }

// IsNotFound reports whether err is a NotFound failure.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsAlreadyTransitioned reports whether err marks a lost delete race.
func IsAlreadyTransitioned(err error) bool { return CodeOf(err) == CodeAlreadyTransitioned }

func newError(code Code, userID string, fieldIndex int, format string, args ...any) *Error {
	return &Error{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		UserID:     userID,
		FieldIndex: fieldIndex,
	}
}

// storeCommandError translates store sentinels into typed command failures.
// Errors outside the taxonomy pass through unchanged.
func storeCommandError(err error, userID string, fieldIndex int) error {
	switch {
	case errors.Is(err, store.ErrOccupied):
		return newError(CodeFieldOccupied, userID, fieldIndex, "field already occupied")
	case errors.Is(err, store.ErrWrongFieldKind):
		return newError(CodeInvalidFieldKind, userID, fieldIndex, "not allowed on this field kind")
	case errors.Is(err, store.ErrNoSuchField):
		return newError(CodeNotFound, userID, fieldIndex, "no such field")
	case errors.Is(err, store.ErrInsufficientQuantity):
		return newError(CodeInsufficientInventory, userID, fieldIndex, "not enough items")
	}
	return err
}
