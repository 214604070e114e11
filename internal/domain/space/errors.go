package space

import "errors"

var (
	ErrNotFound     = errors.New("space not found")
	ErrTypeNotFound = errors.New("space type not found")
	ErrNameTaken    = errors.New("space name already used on this floor")
)
