package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memLedger is an in-memory Repository with the same conflict semantics as
// the Postgres ledger: Insert atomically rejects overlaps among confirmed
// bookings per space and per user.
type memLedger struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
}

func newMemLedger() *memLedger {
	return &memLedger{bookings: make(map[uuid.UUID]*Booking)}
}

func (m *memLedger) Insert(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	iv := b.Interval()
	for _, existing := range m.bookings {
		if !existing.IsConfirmed() || !existing.Interval().Overlaps(iv) {
			continue
		}
		if existing.SpaceID == b.SpaceID {
			return NewConflictError(ErrSpaceConflict, existing.Interval())
		}
		if existing.UserID == b.UserID {
			return NewConflictError(ErrUserConflict, existing.Interval())
		}
	}

	clone := *b
	m.bookings[b.ID] = &clone
	return nil
}

func (m *memLedger) Cancel(_ context.Context, id uuid.UUID, at time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	b.Status = StatusCancelled
	b.CancelledAt.Time = at
	b.CancelledAt.Valid = true
	b.UpdatedAt = at

	clone := *b
	return &clone, nil
}

func (m *memLedger) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (m *memLedger) FindOverlapping(_ context.Context, spaceID uuid.UUID, iv Interval) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if b.SpaceID == spaceID && b.IsConfirmed() && b.Interval().Overlaps(iv) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memLedger) FindOverlappingForUser(_ context.Context, userID uuid.UUID, iv Interval) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if b.UserID == userID && b.IsConfirmed() && b.Interval().Overlaps(iv) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memLedger) ListByUser(_ context.Context, userID uuid.UUID, status *Status, limit, offset int) ([]*Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memLedger) ListBySpace(_ context.Context, spaceID uuid.UUID, dayStart, dayEnd time.Time) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if b.SpaceID != spaceID || !b.IsConfirmed() {
			continue
		}
		if b.StartTime.Before(dayStart) || b.StartTime.After(dayEnd) {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memLedger) ListAll(_ context.Context, filter Filter) ([]*Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.SpaceID != nil && b.SpaceID != *filter.SpaceID {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

// fixedClock always returns the same instant
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// stubDirectory serves a fixed set of spaces
type stubDirectory struct {
	spaces map[uuid.UUID]*SpaceInfo
}

func newStubDirectory(infos ...*SpaceInfo) *stubDirectory {
	d := &stubDirectory{spaces: make(map[uuid.UUID]*SpaceInfo)}
	for _, info := range infos {
		d.spaces[info.ID] = info
	}
	return d
}

func (d *stubDirectory) GetSpace(_ context.Context, id uuid.UUID) (*SpaceInfo, error) {
	return d.spaces[id], nil
}

// recordingNotifier captures emitted events
type recordingNotifier struct {
	mu        sync.Mutex
	created   []uuid.UUID
	cancelled []uuid.UUID
}

func (n *recordingNotifier) BookingCreated(b *Booking, _ uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b.ID)
}

func (n *recordingNotifier) BookingCancelled(b *Booking, _ uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b.ID)
}
