// Package repository persists seasons behind a small Store interface.
package repository

import (
	"context"
	"strings"

	"github.com/okian/podium/internal/domain/model"
)

// Store provides read/write access to stored seasons.
type Store interface {
	// Load returns a copy of the season. Returns ErrNotFound if the season is unknown.
	Load(ctx context.Context, seasonID string) (model.Season, error)

	// Save creates or overwrites the season.
	Save(ctx context.Context, seasonID string, season model.Season) error

	// ReplaceEventResults atomically swaps every result of eventID for entries.
	// Entries must already be normalized.
	ReplaceEventResults(ctx context.Context, seasonID, eventID string, entries []model.ResultEntry) (model.Season, error)

	// Delete removes the season. Returns ErrNotFound if the season is unknown.
	Delete(ctx context.Context, seasonID string) error

	// List returns the stored season ids in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

func validID(seasonID string) error {
	if strings.TrimSpace(seasonID) == "" {
		return ErrInvalidSeasonID
	}
	return nil
}
