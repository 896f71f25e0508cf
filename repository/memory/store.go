package memory

import (
	"context"
	"sync"

	"github.com/taskmock/backend/domain"
)

// Store keeps the task collection in memory. It backs tests and any setup
// that does not want a file on disk; semantics match the durable store
// (whole-collection load and save).
type Store struct {
	mu    sync.RWMutex
	tasks []domain.Task
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Seed returns a store pre-populated with the given tasks.
func Seed(tasks []domain.Task) *Store {
	s := New()
	s.tasks = append(s.tasks, tasks...)
	return s
}

// Load returns a copy of the current collection.
func (s *Store) Load(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// Save replaces the collection with a copy of tasks.
func (s *Store) Save(ctx context.Context, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make([]domain.Task, len(tasks))
	copy(s.tasks, tasks)
	return nil
}
