package space

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const constraintSpaceNameUnique = "spaces_floor_name_unique"

// Repository defines space data access
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Space, error)
	List(ctx context.Context, filter Filter) ([]*Space, error)
	Create(ctx context.Context, s *Space) error
	Update(ctx context.Context, s *Space) error

	ListTypes(ctx context.Context) ([]*SpaceType, error)
	GetType(ctx context.Context, id uuid.UUID) (*SpaceType, error)
	CreateType(ctx context.Context, t *SpaceType) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates space repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Space, error) {
	var s Space
	err := r.db.GetContext(ctx, &s, `SELECT * FROM spaces WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get space: %w", err)
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Space, error) {
	query := `SELECT * FROM spaces WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.FloorID != nil {
		query += fmt.Sprintf(" AND floor_id = $%d", argIdx)
		args = append(args, *filter.FloorID)
		argIdx++
	}
	if filter.SpaceTypeID != nil {
		query += fmt.Sprintf(" AND space_type_id = $%d", argIdx)
		args = append(args, *filter.SpaceTypeID)
		argIdx++
	}
	if filter.MinCapacity > 0 {
		query += fmt.Sprintf(" AND capacity >= $%d", argIdx)
		args = append(args, filter.MinCapacity)
		argIdx++
	}
	if filter.BookableOnly {
		query += " AND is_bookable = true"
	}
	if filter.ActiveOnly {
		query += " AND is_active = true"
	}

	query += " ORDER BY name"

	spaces := []*Space{}
	if err := r.db.SelectContext(ctx, &spaces, query, args...); err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	return spaces, nil
}

func (r *repository) Create(ctx context.Context, s *Space) error {
	query := `
		INSERT INTO spaces (floor_id, space_type_id, name, capacity, coordinates, features, is_bookable, is_active)
		VALUES (:floor_id, :space_type_id, :name, :capacity, :coordinates, :features, :is_bookable, :is_active)
		RETURNING id, created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, s)
	if err != nil {
		return mapSpaceError(err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return fmt.Errorf("scan space: %w", err)
		}
	}
	return nil
}

func (r *repository) Update(ctx context.Context, s *Space) error {
	query := `
		UPDATE spaces
		SET name = :name, capacity = :capacity, coordinates = :coordinates,
		    features = :features, is_bookable = :is_bookable, is_active = :is_active,
		    space_type_id = :space_type_id, updated_at = NOW()
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		return mapSpaceError(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListTypes(ctx context.Context) ([]*SpaceType, error) {
	types := []*SpaceType{}
	if err := r.db.SelectContext(ctx, &types, `SELECT * FROM space_types ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list space types: %w", err)
	}
	return types, nil
}

func (r *repository) GetType(ctx context.Context, id uuid.UUID) (*SpaceType, error) {
	var t SpaceType
	err := r.db.GetContext(ctx, &t, `SELECT * FROM space_types WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get space type: %w", err)
	}
	return &t, nil
}

func (r *repository) CreateType(ctx context.Context, t *SpaceType) error {
	query := `
		INSERT INTO space_types (name, description)
		VALUES (:name, :description)
		RETURNING id, created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("create space type: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&t.ID, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan space type: %w", err)
		}
	}
	return nil
}

func mapSpaceError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == constraintSpaceNameUnique {
				return ErrNameTaken
			}
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrTypeNotFound, pqErr.Constraint)
		}
	}
	return fmt.Errorf("space write: %w", err)
}
