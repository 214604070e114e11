package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/deskly/deskly-api/internal/middleware"
)

// Repository is the booking ledger: the single source of truth for
// conflict checks. All confirmed-booking overlap invariants are enforced
// here (and, for the Postgres implementation, by exclusion constraints
// at insert time).
type Repository interface {
	Insert(ctx context.Context, b *Booking) error
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) (*Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindOverlapping(ctx context.Context, spaceID uuid.UUID, iv Interval) ([]*Booking, error)
	FindOverlappingForUser(ctx context.Context, userID uuid.UUID, iv Interval) ([]*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *Status, limit, offset int) ([]*Booking, int, error)
	ListBySpace(ctx context.Context, spaceID uuid.UUID, dayStart, dayEnd time.Time) ([]*Booking, error)
	ListAll(ctx context.Context, filter Filter) ([]*Booking, int, error)
}

// Postgres exclusion constraints guarding the ledger (see migrations).
// Their names are matched when translating insert failures.
const (
	constraintSpaceNoOverlap = "bookings_space_no_overlap"
	constraintUserNoOverlap  = "bookings_user_no_overlap"
)

type repository struct {
	db *sqlx.DB
}

// NewRepository creates the Postgres-backed booking ledger
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, space_id,
			start_time, end_time,
			status, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5,
			$6, $7,
			$8, $9
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.SpaceID,
		b.StartTime, b.EndTime,
		b.Status, b.Notes,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		evt := log.Error().
			Str("request_id", middleware.GetRequestID(ctx)).
			Str("query", "bookings.insert").
			Str("booking_id", b.ID.String()).
			Str("space_id", b.SpaceID.String()).
			Str("user_id", b.UserID.String()).
			Err(err)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			evt = evt.
				Str("pg_code", string(pqErr.Code)).
				Str("pg_constraint", pqErr.Constraint)
		}

		evt.Msg("booking insert failed")
		return mapInsertError(err)
	}

	return nil
}

// mapInsertError translates storage-level constraint failures into domain
// errors. An exclusion violation means a concurrent writer won the slot:
// the race is reported as the same conflict the pre-check would have found.
func mapInsertError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	constraint := strings.ToLower(pqErr.Constraint)
	switch pqErr.Code {
	case "23P01": // exclusion_violation
		if constraint == constraintUserNoOverlap {
			return fmt.Errorf("%w: %w", ErrUserConflict, err)
		}
		return fmt.Errorf("%w: %w", ErrSpaceConflict, err)
	case "23514": // check_violation
		if strings.Contains(constraint, "valid_interval") {
			return fmt.Errorf("%w: %w", ErrInvalidInterval, err)
		}
		return err
	case "23503": // foreign_key_violation
		if strings.Contains(constraint, "space_id") {
			return fmt.Errorf("%w: %w", ErrSpaceUnavailable, err)
		}
		return err
	default:
		return err
	}
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (*Booking, error) {
	query := `
		UPDATE bookings SET
			status = 'cancelled',
			cancelled_at = $2,
			updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed'
		RETURNING *
	`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id, at)
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// No confirmed row matched: missing id or already cancelled
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	return nil, ErrAlreadyCancelled
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT * FROM bookings WHERE id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindOverlapping(ctx context.Context, spaceID uuid.UUID, iv Interval) ([]*Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE space_id = $1
		  AND status = 'confirmed'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time ASC
	`
	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, spaceID, iv.Start, iv.End); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) FindOverlappingForUser(ctx context.Context, userID uuid.UUID, iv Interval) ([]*Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE user_id = $1
		  AND status = 'confirmed'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time ASC
	`
	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID, iv.Start, iv.End); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, status *Status, limit, offset int) ([]*Booking, int, error) {
	var args []interface{}
	where := " WHERE user_id = $1"
	args = append(args, userID)
	argIdx := 2

	if status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM bookings" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM bookings" + where +
		fmt.Sprintf(" ORDER BY start_time DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *repository) ListBySpace(ctx context.Context, spaceID uuid.UUID, dayStart, dayEnd time.Time) ([]*Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE space_id = $1
		  AND status = 'confirmed'
		  AND start_time >= $2
		  AND start_time <= $3
		ORDER BY start_time ASC
	`
	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, spaceID, dayStart, dayEnd); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListAll(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	var args []interface{}
	var conds []string
	argIdx := 1

	add := func(cond string, value interface{}) {
		conds = append(conds, fmt.Sprintf(cond, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.SpaceID != nil {
		add("space_id = $%d", *filter.SpaceID)
	}
	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.From != nil {
		add("start_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("start_time <= $%d", *filter.To)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM bookings" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM bookings" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
