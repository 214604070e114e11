package location

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrBuildingNotFound = errors.New("building not found")
	ErrFloorNotFound    = errors.New("floor not found")
)
