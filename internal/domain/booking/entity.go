package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking lifecycle state. Cancelled is terminal.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking represents a reservation of a space for a time window
type Booking struct {
	ID      uuid.UUID `db:"id" json:"id"`
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	SpaceID uuid.UUID `db:"space_id" json:"space_id"`

	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`

	Status      Status         `db:"status" json:"status"`
	CancelledAt sql.NullTime   `db:"cancelled_at" json:"cancelled_at,omitempty"`
	Notes       sql.NullString `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Interval returns the booking's time window
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsConfirmed returns true while the booking has not been cancelled
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// Filter narrows admin booking listings
type Filter struct {
	Status  *Status
	SpaceID *uuid.UUID
	UserID  *uuid.UUID
	From    *time.Time // start_time >= From
	To      *time.Time // start_time <= To
	Limit   int
	Offset  int
}
