package workflow

import "errors"

// ErrQuotaExceeded rejects a generation attempt before any outbound call is
// made when the caller's credit balance is zero or below.
var ErrQuotaExceeded = errors.New("out of credits: acquire more credits to keep generating")

// ErrGenerationInFlight rejects a second concurrent attempt for the same
// user. Attempts are rejected, never queued.
var ErrGenerationInFlight = errors.New("a generation is already in progress for this account")

// ErrProfileNotFound means the authenticated user has no profile row, so no
// quota can be checked.
var ErrProfileNotFound = errors.New("profile not found")

// PersistenceError marks a failed project write after a successful
// generation. The generated script is discarded; the credit balance is left
// untouched.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to save generated script: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
