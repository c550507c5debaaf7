package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrRunInProgress = errors.New("a send run is already active for this campaign")
)
