package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps races in process, in the order they were saved.
type MemoryStore struct {
	mu    sync.RWMutex
	races map[uuid.UUID]*Record
	order []uuid.UUID
}

func NewMemory() *MemoryStore {
	return &MemoryStore{races: make(map[uuid.UUID]*Record)}
}

func (s *MemoryStore) SaveRace(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("failed to save race: nil record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.races[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.races[rec.ID] = rec.Copy()
	return nil
}

func (s *MemoryStore) LoadRace(ctx context.Context, id uuid.UUID) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.races[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec.Copy(), nil
}

func (s *MemoryStore) ListRaces(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]uuid.UUID(nil), s.order...), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
