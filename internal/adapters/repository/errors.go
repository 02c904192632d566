package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("season not found")
	ErrInvalidSeasonID = errors.New("invalid season id")
)
