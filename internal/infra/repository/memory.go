package repository

import (
	"context"
	"sync"

	Irepository "astro-connector/internal/domain/interfaces/repository"
)

// MemoryStore is the default keyed store when no MongoDB is configured.
// State is process-lifetime only.
type MemoryStore[T any] struct {
	mu       sync.RWMutex
	entities map[string]T
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{entities: make(map[string]T)}
}

func (s *MemoryStore[T]) Find(ctx context.Context, key string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[key]
	if !ok {
		var zero T
		return zero, Irepository.ErrNotFound
	}
	return entity, nil
}

func (s *MemoryStore[T]) Save(ctx context.Context, key string, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities[key] = entity
	return nil
}

func (s *MemoryStore[T]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entities, key)
	return nil
}

func (s *MemoryStore[T]) FindAll(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.entities))
	for _, entity := range s.entities {
		result = append(result, entity)
	}
	return result, nil
}
