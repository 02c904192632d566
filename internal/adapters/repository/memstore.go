package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/normalize"
	"github.com/okian/podium/pkg/metrics"
)

// MemoryStore keeps seasons in process memory. Values are copied on the way
// in and out so callers never share slices with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	seasons map[string]model.Season
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seasons: make(map[string]model.Season)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, seasonID string) (model.Season, error) {
	if err := validID(seasonID); err != nil {
		return model.Season{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Season{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	season, ok := s.seasons[seasonID]
	if !ok {
		return model.Season{}, fmt.Errorf("%w: %s", ErrNotFound, seasonID)
	}
	return season.Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, seasonID string, season model.Season) error {
	if err := validID(seasonID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.seasons[seasonID] = season.Clone()
	n := len(s.seasons)
	s.mu.Unlock()
	metrics.UpdateSeasonsTotal(n)
	return nil
}

// ReplaceEventResults implements Store.
func (s *MemoryStore) ReplaceEventResults(ctx context.Context, seasonID, eventID string, entries []model.ResultEntry) (model.Season, error) {
	if err := validID(seasonID); err != nil {
		return model.Season{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Season{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	season, ok := s.seasons[seasonID]
	if !ok {
		return model.Season{}, fmt.Errorf("%w: %s", ErrNotFound, seasonID)
	}
	next := season.ReplaceEventResults(eventID, entries)
	normalize.Sort(next.Results)
	s.seasons[seasonID] = next
	return next.Clone(), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, seasonID string) error {
	if err := validID(seasonID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	_, ok := s.seasons[seasonID]
	delete(s.seasons, seasonID)
	n := len(s.seasons)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, seasonID)
	}
	metrics.UpdateSeasonsTotal(n)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	ids := make([]string, 0, len(s.seasons))
	for id := range s.seasons {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
