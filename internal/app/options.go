package service

import (
	repository "github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the season store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStoreName labels the configured store in GetStats.
func WithStoreName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.storeName = name
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClassifiedOnly counts wins and podiums only for Finished results.
func WithClassifiedOnly(enabled bool) Option {
	return func(s *Service) {
		s.classifiedOnly = enabled
	}
}

// WithChartSize sets the trend chart dimensions.
func WithChartSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.chart.Width = width
			s.chart.Height = height
		}
	}
}
