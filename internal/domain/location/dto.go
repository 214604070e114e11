package location

import (
	"database/sql"
	"encoding/json"
)

// CreateLocationRequest represents a location creation request
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Address string `json:"address" validate:"omitempty,max=500"`
	City    string `json:"city" validate:"omitempty,max=100"`
}

// UpdateLocationRequest represents a location update
type UpdateLocationRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=200"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	City     *string `json:"city" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}

// CreateBuildingRequest represents a building creation request
type CreateBuildingRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// CreateFloorRequest represents a floor creation request
type CreateFloorRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	FloorNumber int             `json:"floor_number"`
	LayoutData  json.RawMessage `json:"layout_data"`
}

// UpdateFloorLayoutRequest carries the floor-map layout document
type UpdateFloorLayoutRequest struct {
	LayoutData json.RawMessage `json:"layout_data" validate:"required"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// BuildingWithFloors nests floors under their building for tree listings
type BuildingWithFloors struct {
	*Building
	Floors []*Floor `json:"floors"`
}

// LocationTree nests buildings and floors under a location
type LocationTree struct {
	*Location
	Buildings []*BuildingWithFloors `json:"buildings"`
}
