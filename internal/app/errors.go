package service

import "errors"

// Sentinel kinds returned by the service. Store errors (repository.ErrNotFound,
// repository.ErrInvalidSeasonID) pass through wrapped.
var (
	ErrUnknownEvent  = errors.New("unknown event")
	ErrUnknownDriver = errors.New("unknown driver")
	ErrUnknownTeam   = errors.New("unknown team")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotStarted    = errors.New("service not started")
)
