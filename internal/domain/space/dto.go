package space

import (
	"encoding/json"

	"github.com/google/uuid"
)

// CreateSpaceRequest represents a space creation request
type CreateSpaceRequest struct {
	FloorID     uuid.UUID       `json:"floor_id" validate:"required"`
	SpaceTypeID uuid.UUID       `json:"space_type_id" validate:"required"`
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Capacity    int             `json:"capacity" validate:"required,min=1,max=500"`
	Coordinates json.RawMessage `json:"coordinates"`
	Features    json.RawMessage `json:"features"`
	IsBookable  *bool           `json:"is_bookable"`
}

// UpdateSpaceRequest represents a space update
type UpdateSpaceRequest struct {
	SpaceTypeID *uuid.UUID      `json:"space_type_id"`
	Name        *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Capacity    *int            `json:"capacity" validate:"omitempty,min=1,max=500"`
	Coordinates json.RawMessage `json:"coordinates"`
	Features    json.RawMessage `json:"features"`
	IsBookable  *bool           `json:"is_bookable"`
	IsActive    *bool           `json:"is_active"`
}

// CreateTypeRequest represents a space type creation request
type CreateTypeRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// WithAvailability decorates a space with a free/busy flag for a window
type WithAvailability struct {
	*Space
	Available *bool `json:"available,omitempty"`
}
