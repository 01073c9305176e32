package domain

import "errors"

// Sentinel errors for the booking domain. Use errors.Is() to check these.
var (
	// ErrValidation indicates the draft failed precondition checks; no
	// backend call was made.
	ErrValidation = errors.New("booking validation failed")

	// ErrSubmitInFlight indicates a submission is already in progress for
	// this form.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrControllerDisposed indicates the form was unmounted; its controller
	// no longer accepts operations.
	ErrControllerDisposed = errors.New("booking form is no longer active")
)
