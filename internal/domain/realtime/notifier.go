package realtime

import (
	"github.com/google/uuid"

	"github.com/deskly/deskly-api/internal/domain/booking"
)

// BookingNotifier pushes booking lifecycle events to the hub.
// Satisfies the booking service's notifier; must not block, and the hub's
// buffered fan-out guarantees that.
type BookingNotifier struct {
	hub *Hub
}

// NewBookingNotifier creates the notifier
func NewBookingNotifier(hub *Hub) *BookingNotifier {
	return &BookingNotifier{hub: hub}
}

func (n *BookingNotifier) BookingCreated(b *booking.Booking, floorID uuid.UUID) {
	n.hub.Broadcast(&Event{
		Type:      EventBookingCreated,
		FloorID:   floorID,
		SpaceID:   b.SpaceID,
		BookingID: b.ID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	})
}

func (n *BookingNotifier) BookingCancelled(b *booking.Booking, floorID uuid.UUID) {
	n.hub.Broadcast(&Event{
		Type:      EventBookingCancelled,
		FloorID:   floorID,
		SpaceID:   b.SpaceID,
		BookingID: b.ID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	})
}
