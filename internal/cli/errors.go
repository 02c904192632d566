package cli

import "errors"

var (
	// ErrUnknownFormat is returned for an output format other than table, csv or markdown.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrInvalidSeed is returned when seed sizes are out of range.
	ErrInvalidSeed = errors.New("invalid seed options")
	// ErrRemote is returned when the server answers with an unexpected status.
	ErrRemote = errors.New("unexpected server response")
	// ErrMismatch is returned when remote standings differ from the local computation.
	ErrMismatch = errors.New("remote standings do not match local computation")
)
