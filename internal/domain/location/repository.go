package location

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines location data access
type Repository interface {
	ListLocations(ctx context.Context, activeOnly bool) ([]*Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*Location, error)
	CreateLocation(ctx context.Context, loc *Location) error
	UpdateLocation(ctx context.Context, loc *Location) error

	ListBuildings(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]*Building, error)
	GetBuilding(ctx context.Context, id uuid.UUID) (*Building, error)
	CreateBuilding(ctx context.Context, b *Building) error

	ListFloors(ctx context.Context, buildingID uuid.UUID, activeOnly bool) ([]*Floor, error)
	GetFloor(ctx context.Context, id uuid.UUID) (*Floor, error)
	CreateFloor(ctx context.Context, f *Floor) error
	UpdateFloorLayout(ctx context.Context, floorID uuid.UUID, layoutData json.RawMessage) error
	SetFloorLayoutImage(ctx context.Context, floorID uuid.UUID, imageURL, thumbURL string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates location repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListLocations(ctx context.Context, activeOnly bool) ([]*Location, error) {
	query := `SELECT * FROM locations`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	locations := []*Location{}
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

func (r *repository) GetLocation(ctx context.Context, id uuid.UUID) (*Location, error) {
	var loc Location
	err := r.db.GetContext(ctx, &loc, `SELECT * FROM locations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

func (r *repository) CreateLocation(ctx context.Context, loc *Location) error {
	query := `
		INSERT INTO locations (name, address, city, is_active)
		VALUES (:name, :address, :city, :is_active)
		RETURNING id, created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, loc)
	if err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&loc.ID, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
			return fmt.Errorf("scan location: %w", err)
		}
	}
	return nil
}

func (r *repository) UpdateLocation(ctx context.Context, loc *Location) error {
	query := `
		UPDATE locations
		SET name = :name, address = :address, city = :city, is_active = :is_active, updated_at = NOW()
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, loc)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func (r *repository) ListBuildings(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]*Building, error) {
	query := `SELECT * FROM buildings WHERE location_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY name`

	buildings := []*Building{}
	if err := r.db.SelectContext(ctx, &buildings, query, locationID); err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}

func (r *repository) GetBuilding(ctx context.Context, id uuid.UUID) (*Building, error) {
	var b Building
	err := r.db.GetContext(ctx, &b, `SELECT * FROM buildings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuildingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get building: %w", err)
	}
	return &b, nil
}

func (r *repository) CreateBuilding(ctx context.Context, b *Building) error {
	query := `
		INSERT INTO buildings (location_id, name, address, is_active)
		VALUES (:location_id, :name, :address, :is_active)
		RETURNING id, created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, b)
	if err != nil {
		return fmt.Errorf("create building: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return fmt.Errorf("scan building: %w", err)
		}
	}
	return nil
}

func (r *repository) ListFloors(ctx context.Context, buildingID uuid.UUID, activeOnly bool) ([]*Floor, error) {
	query := `SELECT * FROM floors WHERE building_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY floor_number`

	floors := []*Floor{}
	if err := r.db.SelectContext(ctx, &floors, query, buildingID); err != nil {
		return nil, fmt.Errorf("list floors: %w", err)
	}
	return floors, nil
}

func (r *repository) GetFloor(ctx context.Context, id uuid.UUID) (*Floor, error) {
	var f Floor
	err := r.db.GetContext(ctx, &f, `SELECT * FROM floors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFloorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get floor: %w", err)
	}
	return &f, nil
}

func (r *repository) CreateFloor(ctx context.Context, f *Floor) error {
	query := `
		INSERT INTO floors (building_id, name, floor_number, layout_data, is_active)
		VALUES (:building_id, :name, :floor_number, :layout_data, :is_active)
		RETURNING id, created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, f)
	if err != nil {
		return fmt.Errorf("create floor: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return fmt.Errorf("scan floor: %w", err)
		}
	}
	return nil
}

func (r *repository) UpdateFloorLayout(ctx context.Context, floorID uuid.UUID, layoutData json.RawMessage) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE floors SET layout_data = $1, updated_at = NOW() WHERE id = $2`,
		layoutData, floorID)
	if err != nil {
		return fmt.Errorf("update floor layout: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrFloorNotFound
	}
	return nil
}

func (r *repository) SetFloorLayoutImage(ctx context.Context, floorID uuid.UUID, imageURL, thumbURL string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE floors SET layout_image_url = $1, layout_thumb_url = $2, updated_at = NOW() WHERE id = $3`,
		imageURL, thumbURL, floorID)
	if err != nil {
		return fmt.Errorf("set floor layout image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrFloorNotFound
	}
	return nil
}
