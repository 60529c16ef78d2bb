package service

import "errors"

// Error taxonomy shared by all services. Handlers map these to HTTP status
// codes with errors.Is, so every service error wraps one of them.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("store conflict")
)
