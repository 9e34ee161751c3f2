package errs

import (
	"errors"
)

// Validation errors: the request is rejected and nothing is mutated.
var (
	ErrPatronNotFound    = errors.New("patron not found")
	ErrPatronInactive    = errors.New("patron is inactive")
	ErrCopyNotFound      = errors.New("item copy not found")
	ErrCopyNotReservable = errors.New("item copy is not reservable")
	ErrAlreadyReserved   = errors.New("patron already holds an active reservation for this copy")
	ErrInvalidEmailType  = errors.New("unknown email type")
	ErrInvalidRequest    = errors.New("invalid request")
)

// Conflict errors: the target is not in a state that allows the operation.
var (
	ErrConflict         = errors.New("reservation is not active")
	ErrNotQueueHead     = errors.New("reservation is not at the head of the queue")
	ErrCopyNotAvailable = errors.New("item copy is not available")
	ErrNotRetryable     = errors.New("only failed notifications can be retried")
)

var ErrNotFound = errors.New("not found")

func IsValidation(err error) bool {
	for _, target := range []error{
		ErrPatronNotFound, ErrPatronInactive, ErrCopyNotFound,
		ErrCopyNotReservable, ErrAlreadyReserved, ErrInvalidEmailType, ErrInvalidRequest,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotQueueHead) ||
		errors.Is(err, ErrCopyNotAvailable) ||
		errors.Is(err, ErrNotRetryable)
}

type ErrorResponse struct {
	Message string `json:"message"`
}
