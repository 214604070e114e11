package booking

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

// SpaceInfo is the slice of the space directory the booking engine needs
type SpaceInfo struct {
	ID       uuid.UUID
	FloorID  uuid.UUID
	Active   bool
	Bookable bool
}

// SpaceDirectory looks up spaces. Implemented by an adapter over the space
// repository; returns nil (no error) when the space does not exist.
type SpaceDirectory interface {
	GetSpace(ctx context.Context, id uuid.UUID) (*SpaceInfo, error)
}

// Notifier receives booking lifecycle events (floor-map live updates).
// Implementations must not block.
type Notifier interface {
	BookingCreated(b *Booking, floorID uuid.UUID)
	BookingCancelled(b *Booking, floorID uuid.UUID)
}

// Service is the only entry point that creates or cancels bookings.
// It validates requests, resolves conflicts against the ledger and commits
// atomically: the pre-checks give friendly errors, while the ledger's
// exclusion constraints decide races between concurrent requests.
type Service struct {
	repo     Repository
	spaces   SpaceDirectory
	policy   CancellationPolicy
	clock    Clock
	notifier Notifier // optional
}

// NewService creates the booking service
func NewService(repo Repository, spaces SpaceDirectory, policy CancellationPolicy, clock Clock, notifier Notifier) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{
		repo:     repo,
		spaces:   spaces,
		policy:   policy,
		clock:    clock,
		notifier: notifier,
	}
}

// RequestBooking validates and commits a new booking
func (s *Service) RequestBooking(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*Booking, error) {
	iv := NewInterval(req.StartTime, req.EndTime)
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !iv.Start.After(now) {
		return nil, ErrStartInPast
	}

	space, err := s.spaces.GetSpace(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}
	if space == nil || !space.Active || !space.Bookable {
		return nil, ErrSpaceUnavailable
	}

	conflicts, err := s.repo.FindOverlapping(ctx, req.SpaceID, iv)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, NewConflictError(ErrSpaceConflict, conflicts[0].Interval())
	}

	userConflicts, err := s.repo.FindOverlappingForUser(ctx, userID, iv)
	if err != nil {
		return nil, err
	}
	if len(userConflicts) > 0 {
		return nil, NewConflictError(ErrUserConflict, userConflicts[0].Interval())
	}

	b := &Booking{
		ID:        uuid.New(),
		UserID:    userID,
		SpaceID:   req.SpaceID,
		StartTime: iv.Start,
		EndTime:   iv.End,
		Status:    StatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		b.Notes = sql.NullString{String: notes, Valid: true}
	}

	// The insert is the authority: a concurrent writer that slipped past
	// the checks above surfaces here as the same conflict error.
	if err := s.repo.Insert(ctx, b); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BookingCreated(b, space.FloorID)
	}

	return b, nil
}

// CancelBooking cancels a confirmed booking on behalf of its owner or an admin
func (s *Service) CancelBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	if b.UserID != requesterID && !isAdmin {
		return nil, ErrNotOwner
	}

	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	now := s.clock.Now()
	if !s.policy.CanCancel(b, now) {
		return nil, ErrCancelTooLate
	}

	cancelled, err := s.repo.Cancel(ctx, bookingID, now)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		floorID := uuid.Nil
		if space, err := s.spaces.GetSpace(ctx, cancelled.SpaceID); err == nil && space != nil {
			floorID = space.FloorID
		}
		s.notifier.BookingCancelled(cancelled, floorID)
	}

	return cancelled, nil
}

// GetBooking returns a booking visible to its owner or an admin
func (s *Service) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if b.UserID != requesterID && !isAdmin {
		return nil, ErrNotOwner
	}
	return b, nil
}

// ListMyBookings returns the requester's bookings, optionally filtered by status
func (s *Service) ListMyBookings(ctx context.Context, userID uuid.UUID, status *Status, limit, offset int) ([]*Booking, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, status, limit, offset)
}

// ListAllBookings returns bookings across all users for admin views
func (s *Service) ListAllBookings(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListAll(ctx, filter)
}
