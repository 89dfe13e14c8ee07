package domain

import "errors"

// ErrNotFound is returned when an entity is not found in the database.
var ErrNotFound = errors.New("entity not found")

// ErrDuplicate is returned when a unique constraint would be violated.
var ErrDuplicate = errors.New("entity already exists")
