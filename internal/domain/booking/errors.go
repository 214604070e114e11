package booking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInterval  = errors.New("end time must be after start time")
	ErrStartInPast      = errors.New("cannot book in the past")
	ErrSpaceUnavailable = errors.New("space not found or not bookable")
	ErrSpaceConflict    = errors.New("space is not available during the requested time")
	ErrUserConflict     = errors.New("user already has a booking during this time")
	ErrNotFound         = errors.New("booking not found")
	ErrNotOwner         = errors.New("not authorized to access this booking")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrCancelTooLate    = errors.New("cannot cancel a booking that has already started")
)

// ConflictError carries the interval of an existing booking that blocked a
// request. Which booking is reported is unspecified when several overlap.
type ConflictError struct {
	kind     error // ErrSpaceConflict or ErrUserConflict
	Conflict Interval
}

func NewConflictError(kind error, conflict Interval) *ConflictError {
	return &ConflictError{kind: kind, Conflict: conflict}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (taken %s - %s)", e.kind.Error(),
		e.Conflict.Start.Format("2006-01-02T15:04:05Z07:00"),
		e.Conflict.End.Format("2006-01-02T15:04:05Z07:00"))
}

func (e *ConflictError) Unwrap() error { return e.kind }
