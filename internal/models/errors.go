package models

import "errors"

// Sentinel errors returned by the ledger core. Callers match them with
// errors.Is; wrapped variants carry operation context.
var (
	// ErrInvalidOdds signals zero American odds.
	ErrInvalidOdds = errors.New("invalid odds")
	// ErrInvalidAmount signals a non-positive stake or a negative upsert delta.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidStatus signals an unrecognized status value or an illegal
	// status transition.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrNotFound signals an edit, update, or delete referencing an unknown identity.
	ErrNotFound = errors.New("not found")
	// ErrStorage signals that the underlying persistence is unavailable or corrupt.
	ErrStorage = errors.New("storage failure")
)
