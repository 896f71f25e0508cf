package tasks

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/taskmock/backend/api/transport"
	"github.com/taskmock/backend/domain"
	"github.com/taskmock/backend/repository/memory"
)

func newTestService(store *memory.Store, opts ...Option) *Service {
	return New(store, nil, nil, opts...)
}

func listData(t *testing.T, resp *transport.Response) []domain.Task {
	t.Helper()
	data, ok := resp.Data.([]domain.Task)
	if !ok {
		t.Fatalf("response data is %T, want []domain.Task", resp.Data)
	}
	return data
}

func taskData(t *testing.T, resp *transport.Response) domain.Task {
	t.Helper()
	task, ok := resp.Data.(domain.Task)
	if !ok {
		t.Fatalf("response data is %T, want domain.Task", resp.Data)
	}
	return task
}

func TestServiceCreateToggleListDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.New())

	created, err := svc.Do(ctx, CreateRequest{Body: transport.CreateTaskRequest{
		Title:    "Buy milk",
		Priority: "low",
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	task := taskData(t, created)
	if task.ID == "" {
		t.Error("created task must have an id")
	}
	if task.Completed {
		t.Error("created task must start incomplete")
	}
	if task.CreatedAt.IsZero() {
		t.Error("created task must have createdAt set")
	}
	if task.Title != "Buy milk" {
		t.Errorf("title: got %q", task.Title)
	}

	toggled, err := svc.Do(ctx, ToggleRequest{ID: task.ID})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !taskData(t, toggled).Completed {
		t.Fatal("toggle must flip completed to true")
	}

	completedList, err := svc.Do(ctx, ListRequest{Completion: domain.CompletionCompleted})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if ids := taskIDs(listData(t, completedList)); len(ids) != 1 || ids[0] != task.ID {
		t.Fatalf("completed listing: got %v, want [%s]", ids, task.ID)
	}

	if _, err := svc.Do(ctx, DeleteRequest{ID: task.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	finalList, err := svc.Do(ctx, ListRequest{})
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if got := listData(t, finalList); len(got) != 0 {
		t.Fatalf("task still listed after delete: %v", taskIDs(got))
	}
}

func TestServiceListPagination(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.Seed(manyTasks(25)))

	resp, err := svc.Do(ctx, ListRequest{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if resp.Meta == nil {
		t.Fatal("list response must carry meta")
	}
	if resp.Meta.Total != 25 || resp.Meta.Page != 2 || resp.Meta.Limit != 10 {
		t.Fatalf("meta: got %+v, want total=25 page=2 limit=10", *resp.Meta)
	}

	got := listData(t, resp)
	if len(got) != 10 {
		t.Fatalf("page length: got %d, want 10", len(got))
	}
	// Default sort is date descending: page 2 holds items 15 down to 6.
	if got[0].ID != "id-15" || got[9].ID != "id-06" {
		t.Fatalf("page contents: got %s..%s, want id-15..id-06", got[0].ID, got[9].ID)
	}
}

func TestServiceListDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.Seed(manyTasks(15)))

	resp, err := svc.Do(ctx, ListRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Meta.Page != 1 || resp.Meta.Limit != 10 {
		t.Fatalf("defaults: got page=%d limit=%d, want 1/10", resp.Meta.Page, resp.Meta.Limit)
	}
	if got := listData(t, resp); len(got) != 10 {
		t.Fatalf("default page length: got %d, want 10", len(got))
	}
}

func TestServiceListOutOfRangePage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.Seed(manyTasks(5)))

	resp, err := svc.Do(ctx, ListRequest{Page: 9, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := listData(t, resp); len(got) != 0 {
		t.Fatalf("out-of-range page: got %d tasks, want 0", len(got))
	}
	if resp.Meta.Total != 5 {
		t.Fatalf("total: got %d, want 5", resp.Meta.Total)
	}
}

func TestServiceCreateValidationFailure(t *testing.T) {
	svc := newTestService(memory.New())

	_, err := svc.Do(context.Background(), CreateRequest{Body: transport.CreateTaskRequest{Title: "ab"}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := domain.AsError(err)
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Kind != domain.KindValidation {
		t.Fatalf("got %d %q, want 422 ValidationError", apiErr.StatusCode, apiErr.Kind)
	}
}

func TestServiceCreatePrependsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTestService(store)

	for _, title := range []string{"first task", "second task"} {
		if _, err := svc.Do(ctx, CreateRequest{Body: transport.CreateTaskRequest{Title: title, Priority: "low"}}); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}

	stored, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored[0].Title != "second task" {
		t.Fatalf("newest task must be stored first, got %q", stored[0].Title)
	}
}

func TestServiceCreatedAtMonotonic(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(memory.New(), WithClock(func() time.Time { return frozen }))

	first, err := svc.Do(ctx, CreateRequest{Body: transport.CreateTaskRequest{Title: "first task", Priority: "low"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Do(ctx, CreateRequest{Body: transport.CreateTaskRequest{Title: "second task", Priority: "low"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !taskData(t, second).CreatedAt.After(taskData(t, first).CreatedAt) {
		t.Fatal("createdAt must strictly increase across successive creations")
	}
}

func TestServiceUpdateMergesShallow(t *testing.T) {
	ctx := context.Background()
	seed := manyTasks(1)
	svc := newTestService(memory.Seed(seed))

	newTitle := "Renamed task"
	newPriority := domain.PriorityHigh
	resp, err := svc.Do(ctx, UpdateRequest{
		ID:    seed[0].ID,
		Patch: transport.TaskPatch{Title: &newTitle, Priority: &newPriority},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got := taskData(t, resp)
	if got.Title != newTitle || got.Priority != newPriority {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if got.ID != seed[0].ID || !got.CreatedAt.Equal(seed[0].CreatedAt) {
		t.Fatal("id and createdAt must be preserved on update")
	}
	if got.Completed != seed[0].Completed {
		t.Fatal("unpatched fields must be untouched")
	}
}

func TestServiceUpdateMissingTaskIsNotFound(t *testing.T) {
	svc := newTestService(memory.New())

	title := "anything goes"
	_, err := svc.Do(context.Background(), UpdateRequest{ID: "ghost", Patch: transport.TaskPatch{Title: &title}})
	if !domain.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("got %v, want 404", err)
	}
}

func TestServiceToggleMissingTaskIsNotFound(t *testing.T) {
	svc := newTestService(memory.New())

	_, err := svc.Do(context.Background(), ToggleRequest{ID: "ghost"})
	if !domain.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("got %v, want 404", err)
	}
}

func TestServiceDeleteMissingTaskSucceeds(t *testing.T) {
	svc := newTestService(memory.Seed(manyTasks(2)))

	resp, err := svc.Do(context.Background(), DeleteRequest{ID: "ghost"})
	if err != nil {
		t.Fatalf("delete of missing id must be a no-op success, got %v", err)
	}
	if resp.Data != nil {
		t.Fatalf("delete must return null data, got %v", resp.Data)
	}
}

type brokenStore struct{ err error }

func (b brokenStore) Load(ctx context.Context) ([]domain.Task, error) { return nil, b.err }
func (b brokenStore) Save(ctx context.Context, tasks []domain.Task) error {
	return b.err
}

func TestServiceStorageFaultSurfacesAsInternal(t *testing.T) {
	svc := New(brokenStore{err: errors.New("disk gone")}, nil, nil)

	_, err := svc.Do(context.Background(), ListRequest{})
	if !domain.IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("got %v, want 500", err)
	}
}
