package booking

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	SpaceID   uuid.UUID `json:"space_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Notes     string    `json:"notes" validate:"omitempty,max=500"`
}

// Response represents booking data returned to clients
type Response struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	SpaceID     uuid.UUID `json:"space_id"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      string    `json:"status"`
	CancelledAt string    `json:"cancelled_at,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// ToResponse converts entity to response
func ToResponse(b *Booking) *Response {
	resp := &Response{
		ID:        b.ID,
		UserID:    b.UserID,
		SpaceID:   b.SpaceID,
		StartTime: b.StartTime.Format(time.RFC3339),
		EndTime:   b.EndTime.Format(time.RFC3339),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
	if b.CancelledAt.Valid {
		resp.CancelledAt = b.CancelledAt.Time.Format(time.RFC3339)
	}
	if b.Notes.Valid {
		resp.Notes = b.Notes.String
	}
	return resp
}

// SlotResponse represents a free time slot
type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ToSlotResponses converts free-slot intervals to responses
func ToSlotResponses(slots []Interval) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{
			StartTime: s.Start.Format(time.RFC3339),
			EndTime:   s.End.Format(time.RFC3339),
		}
	}
	return out
}
