package repository

import "errors"

var (
	// Common errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Teacher errors
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrEmailExists     = errors.New("email already exists")
)
