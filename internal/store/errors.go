package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint, e.g. registering an email that already has an account.
var ErrDuplicate = errors.New("already exists")
