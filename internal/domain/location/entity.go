package location

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Location is a top-level site (an office campus or city branch)
type Location struct {
	ID       uuid.UUID      `db:"id" json:"id"`
	Name     string         `db:"name" json:"name"`
	Address  sql.NullString `db:"address" json:"address,omitempty"`
	City     sql.NullString `db:"city" json:"city,omitempty"`
	IsActive bool           `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Building belongs to a Location
type Building struct {
	ID         uuid.UUID      `db:"id" json:"id"`
	LocationID uuid.UUID      `db:"location_id" json:"location_id"`
	Name       string         `db:"name" json:"name"`
	Address    sql.NullString `db:"address" json:"address,omitempty"`
	IsActive   bool           `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Floor belongs to a Building and carries the floor-map layout
type Floor struct {
	ID          uuid.UUID `db:"id" json:"id"`
	BuildingID  uuid.UUID `db:"building_id" json:"building_id"`
	Name        string    `db:"name" json:"name"`
	FloorNumber int       `db:"floor_number" json:"floor_number"`

	LayoutData     json.RawMessage `db:"layout_data" json:"layout_data,omitempty"`
	LayoutImageURL sql.NullString  `db:"layout_image_url" json:"layout_image_url,omitempty"`
	LayoutThumbURL sql.NullString  `db:"layout_thumb_url" json:"layout_thumb_url,omitempty"`

	IsActive bool `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
