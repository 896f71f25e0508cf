package bolt

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/taskmock/backend/domain"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.db")
	store, err := Open(path, "tasks")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func sampleTasks() []domain.Task {
	due := time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)
	return []domain.Task{
		{
			ID:        "a",
			Title:     "Buy milk",
			Priority:  domain.PriorityLow,
			DueDate:   &due,
			CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "b",
			Title:     "Walk the dog",
			Priority:  domain.PriorityHigh,
			Completed: true,
			CreatedAt: time.Date(2024, 3, 1, 12, 1, 0, 0, time.UTC),
		},
	}
}

func TestLoadEmptyStore(t *testing.T) {
	store, _ := openTestStore(t)

	tasks, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load on fresh store must not fail: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("fresh store must be empty, got %d tasks", len(tasks))
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	want := sampleTasks()

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("roundtrip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSaveOverwritesWholeCollection(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	if err := store.Save(ctx, sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("save must replace the whole collection, got %d tasks", len(got))
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)
	want := sampleTasks()

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, "tasks")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatal("collection lost across reopen")
	}
}

func TestSize(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	if err := store.Save(ctx, sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}
	size, err := store.Size(ctx)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size != 2 {
		t.Fatalf("size: got %d, want 2", size)
	}
}
