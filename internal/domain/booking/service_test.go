package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService(t *testing.T, now time.Time) (*Service, *memLedger, *SpaceInfo, *recordingNotifier) {
	t.Helper()

	space := &SpaceInfo{
		ID:       uuid.New(),
		FloorID:  uuid.New(),
		Active:   true,
		Bookable: true,
	}
	ledger := newMemLedger()
	notifier := &recordingNotifier{}
	svc := NewService(ledger, newStubDirectory(space), CancellationPolicy{}, fixedClock{now: now}, notifier)
	return svc, ledger, space, notifier
}

func TestRequestBookingSuccess(t *testing.T) {
	now := at(8, 0)
	svc, _, space, notifier := newTestService(t, now)
	userID := uuid.New()

	b, err := svc.RequestBooking(context.Background(), userID, &CreateBookingRequest{
		SpaceID:   space.ID,
		StartTime: at(10, 0),
		EndTime:   at(12, 0),
		Notes:     "  sprint planning  ",
	})
	if err != nil {
		t.Fatalf("RequestBooking() error = %v", err)
	}

	if b.Status != StatusConfirmed {
		t.Errorf("status = %q, want confirmed", b.Status)
	}
	if b.UserID != userID || b.SpaceID != space.ID {
		t.Error("booking does not carry requester and space")
	}
	if !b.Notes.Valid || b.Notes.String != "sprint planning" {
		t.Errorf("notes = %+v, want trimmed value", b.Notes)
	}
	if len(notifier.created) != 1 || notifier.created[0] != b.ID {
		t.Error("created event not emitted")
	}
}

func TestRequestBookingValidation(t *testing.T) {
	now := at(8, 0)
	svc, _, space, _ := newTestService(t, now)
	userID := uuid.New()

	tests := []struct {
		name    string
		spaceID uuid.UUID
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"inverted interval", space.ID, at(12, 0), at(10, 0), ErrInvalidInterval},
		{"zero length", space.ID, at(10, 0), at(10, 0), ErrInvalidInterval},
		{"start in past", space.ID, at(7, 0), at(9, 0), ErrStartInPast},
		{"start is now", space.ID, at(8, 0), at(9, 0), ErrStartInPast},
		{"unknown space", uuid.New(), at(10, 0), at(11, 0), ErrSpaceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RequestBooking(context.Background(), userID, &CreateBookingRequest{
				SpaceID:   tt.spaceID,
				StartTime: tt.start,
				EndTime:   tt.end,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RequestBooking() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequestBookingInactiveSpace(t *testing.T) {
	now := at(8, 0)
	inactive := &SpaceInfo{ID: uuid.New(), FloorID: uuid.New(), Active: false, Bookable: true}
	unbookable := &SpaceInfo{ID: uuid.New(), FloorID: uuid.New(), Active: true, Bookable: false}

	svc := NewService(newMemLedger(), newStubDirectory(inactive, unbookable), CancellationPolicy{}, fixedClock{now: now}, nil)

	for _, id := range []uuid.UUID{inactive.ID, unbookable.ID} {
		_, err := svc.RequestBooking(context.Background(), uuid.New(), &CreateBookingRequest{
			SpaceID:   id,
			StartTime: at(10, 0),
			EndTime:   at(11, 0),
		})
		if !errors.Is(err, ErrSpaceUnavailable) {
			t.Errorf("error = %v, want ErrSpaceUnavailable", err)
		}
	}
}

func TestRequestBookingSpaceConflict(t *testing.T) {
	now := at(8, 0)
	svc, _, space, _ := newTestService(t, now)

	first, err := svc.RequestBooking(context.Background(), uuid.New(), &CreateBookingRequest{
		SpaceID:   space.ID,
		StartTime: at(10, 0),
		EndTime:   at(12, 0),
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	_, err = svc.RequestBooking(context.Background(), uuid.New(), &CreateBookingRequest{
		SpaceID:   space.ID,
		StartTime: at(11, 0),
		EndTime:   at(13, 0),
	})
	if !errors.Is(err, ErrSpaceConflict) {
		t.Fatalf("error = %v, want ErrSpaceConflict", err)
	}

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatal("error should carry the conflicting interval")
	}
	if !conflict.Conflict.Start.Equal(first.StartTime) || !conflict.Conflict.End.Equal(first.EndTime) {
		t.Errorf("conflict interval = %v, want %v-%v", conflict.Conflict, first.StartTime, first.EndTime)
	}
}

func TestRequestBookingBackToBack(t *testing.T) {
	now := at(8, 0)
	svc, _, space, _ := newTestService(t, now)

	if _, err := svc.RequestBooking(context.Background(), uuid.New(), &CreateBookingRequest{
		SpaceID: space.ID, StartTime: at(10, 0), EndTime: at(12, 0),
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// [12,14) starts exactly where [10,12) ends
	if _, err := svc.RequestBooking(context.Background(), uuid.New(), &CreateBookingRequest{
		SpaceID: space.ID, StartTime: at(12, 0), EndTime: at(14, 0),
	}); err != nil {
		t.Fatalf("back-to-back booking failed: %v", err)
	}
}

func TestRequestBookingUserConflictAcrossSpaces(t *testing.T) {
	now := at(8, 0)
	spaceA := &SpaceInfo{ID: uuid.New(), FloorID: uuid.New(), Active: true, Bookable: true}
	spaceB := &SpaceInfo{ID: uuid.New(), FloorID: uuid.New(), Active: true, Bookable: true}
	svc := NewService(newMemLedger(), newStubDirectory(spaceA, spaceB), CancellationPolicy{}, fixedClock{now: now}, nil)
	userID := uuid.New()

	if _, err := svc.RequestBooking(context.Background(), userID, &CreateBookingRequest{
		SpaceID: spaceA.ID, StartTime: at(10, 0), EndTime: at(12, 0),
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := svc.RequestBooking(context.Background(), userID, &CreateBookingRequest{
		SpaceID: spaceB.ID, StartTime: at(11, 0), EndTime: at(13, 0),
	})
	if !errors.Is(err, ErrUserConflict) {
		t.Errorf("error = %v, want ErrUserConflict", err)
	}
}

func TestRequestBookingConcurrentSameSlot(t *testing.T) {
	now := at(8, 0)
	svc, _, space, _ := newTestService(t, now)

	const n = 32
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RequestBooking(context.Background(), uuid.New(), &CreateBookingRequest{
				SpaceID:   space.ID,
				StartTime: at(10, 0),
				EndTime:   at(12, 0),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSpaceConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if conflicts != n-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, n-1)
	}
}

func TestCancelBooking(t *testing.T) {
	now := at(8, 0)
	svc, _, space, notifier := newTestService(t, now)
	userID := uuid.New()

	b, err := svc.RequestBooking(context.Background(), userID, &CreateBookingRequest{
		SpaceID: space.ID, StartTime: at(10, 0), EndTime: at(12, 0),
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	t.Run("not found", func(t *testing.T) {
		_, err := svc.CancelBooking(context.Background(), uuid.New(), userID, false)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		_, err := svc.CancelBooking(context.Background(), b.ID, uuid.New(), false)
		if !errors.Is(err, ErrNotOwner) {
			t.Errorf("error = %v, want ErrNotOwner", err)
		}
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelled, err := svc.CancelBooking(context.Background(), b.ID, userID, false)
		if err != nil {
			t.Fatalf("CancelBooking() error = %v", err)
		}
		if cancelled.Status != StatusCancelled {
			t.Errorf("status = %q, want cancelled", cancelled.Status)
		}
		if !cancelled.CancelledAt.Valid {
			t.Error("cancelled_at not set")
		}
		if len(notifier.cancelled) != 1 {
			t.Error("cancelled event not emitted")
		}
	})

	t.Run("already cancelled", func(t *testing.T) {
		_, err := svc.CancelBooking(context.Background(), b.ID, userID, false)
		if !errors.Is(err, ErrAlreadyCancelled) {
			t.Errorf("error = %v, want ErrAlreadyCancelled", err)
		}
	})
}

func TestCancelFreesTheSlot(t *testing.T) {
	now := at(8, 0)
	svc, _, space, _ := newTestService(t, now)
	userID := uuid.New()

	b, err := svc.RequestBooking(context.Background(), userID, &CreateBookingRequest{
		SpaceID: space.ID, StartTime: at(10, 0), EndTime: at(12, 0),
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	if _, err := svc.CancelBooking(context.Background(), b.ID, userID, false); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := svc.RequestBooking(context.Background(), uuid.New(), &CreateBookingRequest{
		SpaceID: space.ID, StartTime: at(10, 0), EndTime: at(12, 0),
	}); err != nil {
		t.Errorf("slot should be free after cancellation, got %v", err)
	}
}

func TestCancelByAdmin(t *testing.T) {
	now := at(8, 0)
	svc, _, space, _ := newTestService(t, now)

	b, err := svc.RequestBooking(context.Background(), uuid.New(), &CreateBookingRequest{
		SpaceID: space.ID, StartTime: at(10, 0), EndTime: at(12, 0),
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	if _, err := svc.CancelBooking(context.Background(), b.ID, uuid.New(), true); err != nil {
		t.Errorf("admin cancel failed: %v", err)
	}
}

func TestCancelTooLate(t *testing.T) {
	space := &SpaceInfo{ID: uuid.New(), FloorID: uuid.New(), Active: true, Bookable: true}
	ledger := newMemLedger()
	userID := uuid.New()

	// book at 8:00 for 10:00, then try to cancel at 10:30
	early := NewService(ledger, newStubDirectory(space), CancellationPolicy{}, fixedClock{now: at(8, 0)}, nil)
	b, err := early.RequestBooking(context.Background(), userID, &CreateBookingRequest{
		SpaceID: space.ID, StartTime: at(10, 0), EndTime: at(12, 0),
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	late := NewService(ledger, newStubDirectory(space), CancellationPolicy{}, fixedClock{now: at(10, 30)}, nil)
	if _, err := late.CancelBooking(context.Background(), b.ID, userID, false); !errors.Is(err, ErrCancelTooLate) {
		t.Errorf("error = %v, want ErrCancelTooLate", err)
	}
}

func TestGetBookingVisibility(t *testing.T) {
	now := at(8, 0)
	svc, _, space, _ := newTestService(t, now)
	userID := uuid.New()

	b, err := svc.RequestBooking(context.Background(), userID, &CreateBookingRequest{
		SpaceID: space.ID, StartTime: at(10, 0), EndTime: at(12, 0),
	})
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	if _, err := svc.GetBooking(context.Background(), b.ID, userID, false); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.GetBooking(context.Background(), b.ID, uuid.New(), true); err != nil {
		t.Errorf("admin read failed: %v", err)
	}
	if _, err := svc.GetBooking(context.Background(), b.ID, uuid.New(), false); !errors.Is(err, ErrNotOwner) {
		t.Errorf("error = %v, want ErrNotOwner", err)
	}
	if _, err := svc.GetBooking(context.Background(), uuid.New(), userID, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
