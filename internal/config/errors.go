package config

import "errors"

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the config file or environment.
	ErrLoadConfig = errors.New("load config failed")
	// ErrUnknownStoreDriver is returned for a store_driver other than memory or sqlite.
	ErrUnknownStoreDriver = errors.New("unknown store driver")
)
