package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func seedBooking(t *testing.T, ledger *memLedger, spaceID uuid.UUID, start, end time.Time) {
	t.Helper()
	err := ledger.Insert(context.Background(), &Booking{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		SpaceID:   spaceID,
		StartTime: start,
		EndTime:   end,
		Status:    StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
}

func TestFreeSlotsEmptyDay(t *testing.T) {
	ledger := newMemLedger()
	avail := NewAvailability(ledger, BusinessHours{Start: 8, End: 18}, nil, 0)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	slots, err := avail.FreeSlots(context.Background(), uuid.New(), day, 1)
	if err != nil {
		t.Fatalf("FreeSlots() error = %v", err)
	}

	// hourly slots 8-9 through 17-18
	if len(slots) != 10 {
		t.Fatalf("len(slots) = %d, want 10", len(slots))
	}
	if slots[0].Start.Hour() != 8 || slots[0].End.Hour() != 9 {
		t.Errorf("first slot = %v-%v, want 08:00-09:00", slots[0].Start, slots[0].End)
	}
	if slots[9].Start.Hour() != 17 || slots[9].End.Hour() != 18 {
		t.Errorf("last slot = %v-%v, want 17:00-18:00", slots[9].Start, slots[9].End)
	}
}

func TestFreeSlotsSkipBooked(t *testing.T) {
	ledger := newMemLedger()
	avail := NewAvailability(ledger, BusinessHours{Start: 8, End: 18}, nil, 0)
	spaceID := uuid.New()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	seedBooking(t, ledger, spaceID, at(9, 0), at(10, 0))

	slots, err := avail.FreeSlots(context.Background(), spaceID, day, 1)
	if err != nil {
		t.Fatalf("FreeSlots() error = %v", err)
	}

	if len(slots) != 9 {
		t.Fatalf("len(slots) = %d, want 9", len(slots))
	}
	for _, s := range slots {
		if s.Start.Hour() == 9 {
			t.Errorf("booked hour 9 should not be offered")
		}
	}
}

func TestFreeSlotsWiderDuration(t *testing.T) {
	ledger := newMemLedger()
	avail := NewAvailability(ledger, BusinessHours{Start: 8, End: 18}, nil, 0)
	spaceID := uuid.New()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Candidates for 2h slots: 8-10 .. 16-18, nine of them.
	// A booking 12:00-13:00 kills candidates starting at 11 and 12.
	seedBooking(t, ledger, spaceID, at(12, 0), at(13, 0))

	slots, err := avail.FreeSlots(context.Background(), spaceID, day, 2)
	if err != nil {
		t.Fatalf("FreeSlots() error = %v", err)
	}

	if len(slots) != 7 {
		t.Fatalf("len(slots) = %d, want 7", len(slots))
	}
	for _, s := range slots {
		if s.Duration() != 2*time.Hour {
			t.Errorf("slot %v has duration %v, want 2h", s, s.Duration())
		}
		if s.Overlaps(NewInterval(at(12, 0), at(13, 0))) {
			t.Errorf("slot %v overlaps the booking", s)
		}
	}
}

func TestFreeSlotsPartialHourBooking(t *testing.T) {
	ledger := newMemLedger()
	avail := NewAvailability(ledger, BusinessHours{Start: 8, End: 18}, nil, 0)
	spaceID := uuid.New()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// 10:30-11:30 blocks both the 10-11 and 11-12 candidates
	seedBooking(t, ledger, spaceID, at(10, 30), at(11, 30))

	slots, err := avail.FreeSlots(context.Background(), spaceID, day, 1)
	if err != nil {
		t.Fatalf("FreeSlots() error = %v", err)
	}

	if len(slots) != 8 {
		t.Fatalf("len(slots) = %d, want 8", len(slots))
	}
	for _, s := range slots {
		if s.Start.Hour() == 10 || s.Start.Hour() == 11 {
			t.Errorf("hour %d should be blocked", s.Start.Hour())
		}
	}
}

func TestFreeSlotsIgnoresCancelled(t *testing.T) {
	ledger := newMemLedger()
	avail := NewAvailability(ledger, BusinessHours{Start: 8, End: 18}, nil, 0)
	spaceID := uuid.New()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	b := &Booking{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		SpaceID:   spaceID,
		StartTime: at(9, 0),
		EndTime:   at(10, 0),
		Status:    StatusConfirmed,
	}
	if err := ledger.Insert(context.Background(), b); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := ledger.Cancel(context.Background(), b.ID, at(8, 30)); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	slots, err := avail.FreeSlots(context.Background(), spaceID, day, 1)
	if err != nil {
		t.Fatalf("FreeSlots() error = %v", err)
	}
	if len(slots) != 10 {
		t.Errorf("len(slots) = %d, want 10: cancelled bookings must not block", len(slots))
	}
}

func TestFlags(t *testing.T) {
	ledger := newMemLedger()
	avail := NewAvailability(ledger, DefaultBusinessHours, nil, 0)

	busy := uuid.New()
	free := uuid.New()
	seedBooking(t, ledger, busy, at(10, 0), at(12, 0))

	flags, err := avail.Flags(context.Background(), []uuid.UUID{busy, free}, NewInterval(at(11, 0), at(13, 0)))
	if err != nil {
		t.Fatalf("Flags() error = %v", err)
	}

	if flags[busy] {
		t.Error("busy space flagged available")
	}
	if !flags[free] {
		t.Error("free space flagged unavailable")
	}
}

func TestNewAvailabilityRejectsBadHours(t *testing.T) {
	a := NewAvailability(newMemLedger(), BusinessHours{Start: 18, End: 8}, nil, 0)
	if a.hours != DefaultBusinessHours {
		t.Errorf("hours = %+v, want defaults", a.hours)
	}
}
