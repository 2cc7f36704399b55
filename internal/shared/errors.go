package shared

import (
	"errors"
	"strings"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing or expired session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the actor lacks the required permission.
	ErrForbidden = errors.New("forbidden")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")

	// ErrInvalidStatus indicates an illegal document status transition.
	ErrInvalidStatus = errors.New("invalid status transition")
	// ErrAlreadyConverted indicates the quotation was converted by a
	// concurrent or earlier request; callers must reload state.
	ErrAlreadyConverted = errors.New("quotation already converted")
	// ErrOverpayment indicates a payment exceeding the outstanding balance.
	ErrOverpayment = errors.New("payment exceeds amount due")
	// ErrInvalidAmount re-exports the money sentinel so handlers can map
	// pricing failures without importing the money package.
	ErrInvalidAmount = money.ErrInvalidAmount
)

// ValidationError carries the structured error/warning lists produced by the
// quotation validator. Warnings never block a transition; errors do.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// HasErrors reports whether the validation result blocks the transition.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}
