package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and handlers. Callers wrap these with
// fmt.Errorf("...: %w") and match with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrAuth          = errors.New("invalid email or password")
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage failure")
	ErrUpstream      = errors.New("upstream failure")
	ErrStoreNotReady = errors.New("store not connected")
)

// Auth errors
var (
	ErrEmailExists     = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrSessionNotFound = fmt.Errorf("%w: session not found", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrNotFound)
)

// Epaper errors
var (
	ErrEpaperNotFound = fmt.Errorf("%w: epaper not found", ErrNotFound)
)
