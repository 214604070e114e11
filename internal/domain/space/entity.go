package space

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SpaceType categorizes spaces (desk, meeting room, phone booth)
type SpaceType struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Space is a bookable unit on a floor
type Space struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FloorID     uuid.UUID `db:"floor_id" json:"floor_id"`
	SpaceTypeID uuid.UUID `db:"space_type_id" json:"space_type_id"`
	Name        string    `db:"name" json:"name"`
	Capacity    int       `db:"capacity" json:"capacity"`

	// Coordinates positions the space on the floor-map layout
	Coordinates json.RawMessage `db:"coordinates" json:"coordinates,omitempty"`
	Features    json.RawMessage `db:"features" json:"features,omitempty"`

	IsBookable bool `db:"is_bookable" json:"is_bookable"`
	IsActive   bool `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Filter narrows space listings
type Filter struct {
	FloorID      *uuid.UUID
	SpaceTypeID  *uuid.UUID
	MinCapacity  int
	BookableOnly bool
	ActiveOnly   bool
}
