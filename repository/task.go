package repository

import (
	"context"

	"github.com/taskmock/backend/domain"
)

// TaskStore owns the durable task collection. The collection is persisted as
// a single unit: Load returns the whole sequence and Save overwrites it.
// There is no per-task partial write.
type TaskStore interface {
	// Load returns the persisted collection, or an empty sequence when
	// nothing has been saved yet. A missing store is not an error.
	Load(ctx context.Context) ([]domain.Task, error)

	// Save overwrites the entire persisted collection. A failed write leaves
	// the previous state in place and is reported to the caller.
	Save(ctx context.Context, tasks []domain.Task) error
}
