package order

import (
	"errors"
	"fmt"
)

// Sentinel errors for the transition taxonomy. Callers distinguish
// "wrong order state" (conflict semantics) from "wrong actor" (forbidden
// semantics) and from a failed delivery proof with errors.Is.
var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrForbiddenTransition    = errors.New("transition forbidden for actor")
	ErrVerificationFailed     = errors.New("delivery verification failed")
)

// InvalidTransitionError indicates the requested from->to edge does not exist
// in the static transition table. The order is never mutated.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given edge.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidStateTransition, e.From, e.To)
}

// Unwrap returns ErrInvalidStateTransition for errors.Is matching.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// ForbiddenTransitionError indicates a structurally valid transition that the
// requesting actor is not authorized to perform.
type ForbiddenTransitionError struct {
	Role   Role
	From   Status
	To     Status
	Reason string
}

// NewForbiddenTransitionError creates a ForbiddenTransitionError with an
// actor-facing reason.
func NewForbiddenTransitionError(role Role, from, to Status, reason string) *ForbiddenTransitionError {
	return &ForbiddenTransitionError{Role: role, From: from, To: to, Reason: reason}
}

func (e *ForbiddenTransitionError) Error() string {
	return fmt.Sprintf("%s: role %s may not perform %s -> %s (%s)",
		ErrForbiddenTransition, e.Role, e.From, e.To, e.Reason)
}

// Unwrap returns ErrForbiddenTransition for errors.Is matching.
func (e *ForbiddenTransitionError) Unwrap() error {
	return ErrForbiddenTransition
}

// VerificationError indicates a missing, expired, or mismatched delivery
// verification code. The order is never mutated.
type VerificationError struct {
	Reason string
}

// NewVerificationError creates a VerificationError with an actor-facing reason.
func NewVerificationError(reason string) *VerificationError {
	return &VerificationError{Reason: reason}
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrVerificationFailed, e.Reason)
}

// Unwrap returns ErrVerificationFailed for errors.Is matching.
func (e *VerificationError) Unwrap() error {
	return ErrVerificationFailed
}
