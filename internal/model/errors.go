package model

import "errors"

// Domain error categories. Repositories and services wrap these so handlers
// can map them to HTTP status codes without string matching.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)
