package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskmock/backend/api/transport"
	"github.com/taskmock/backend/domain"
	"github.com/taskmock/backend/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Network simulates the transport between the caller and the router: a
// bounded delay followed by a possible transient fault, once per attempt.
type Network interface {
	Delay(ctx context.Context) error
	MaybeFail() error
}

// Service routes task requests to their handlers. Every request loads the
// full collection, mutates it in memory and saves it back as one logical
// step; overlapping mutations from independent callers are last-writer-wins.
type Service struct {
	store   repository.TaskStore
	network Network
	logger  *zap.Logger

	mu          sync.Mutex
	lastCreated time.Time
	now         func() time.Time
	newID       func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock substitutes the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator substitutes the task id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// New builds a Service. network may be nil to bypass fault simulation.
func New(store repository.TaskStore, network Network, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:   store,
		network: network,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do runs one attempt of a request through the simulated network and the
// router. It never retries; retry policy lives with the caller.
func (s *Service) Do(ctx context.Context, req Request) (*transport.Response, error) {
	if s.network != nil {
		if err := s.network.Delay(ctx); err != nil {
			return nil, err
		}
		if err := s.network.MaybeFail(); err != nil {
			s.logger.Debug("injected fault", zap.Error(err))
			return nil, err
		}
	}

	switch r := req.(type) {
	case ListRequest:
		return s.list(ctx, r)
	case CreateRequest:
		return s.create(ctx, r)
	case UpdateRequest:
		return s.update(ctx, r)
	case ToggleRequest:
		return s.toggle(ctx, r)
	case DeleteRequest:
		return s.remove(ctx, r)
	default:
		return nil, domain.NotFound("endpoint not found")
	}
}

func (s *Service) list(ctx context.Context, req ListRequest) (*transport.Response, error) {
	if req.Page < 1 {
		req.Page = defaultPage
	}
	if req.Limit < 1 {
		req.Limit = defaultLimit
	}
	if req.Completion == "" {
		req.Completion = domain.CompletionAll
	}
	if req.SortBy == "" {
		req.SortBy = domain.SortByDate
	}

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := SortTasks(FilterTasks(all, req.Completion, req.Search), req.SortBy)
	paged := PaginateTasks(filtered, req.Page, req.Limit)

	return transport.NewListResponse(paged, transport.Meta{
		Total: len(filtered),
		Page:  req.Page,
		Limit: req.Limit,
	}), nil
}

func (s *Service) create(ctx context.Context, req CreateRequest) (*transport.Response, error) {
	draft, vErr := ValidateCreate(req.Body)
	if vErr != nil {
		return nil, vErr
	}

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	task := domain.Task{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		Completed:   false,
		CreatedAt:   s.creationTime(),
	}

	if err := s.save(ctx, append([]domain.Task{task}, all...)); err != nil {
		return nil, err
	}

	s.logger.Info("task created", zap.String("task_id", task.ID))
	return transport.NewResponse(task), nil
}

func (s *Service) update(ctx context.Context, req UpdateRequest) (*transport.Response, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexByID(all, req.ID)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}

	all[idx] = mergePatch(all[idx], req.Patch)
	if err := s.save(ctx, all); err != nil {
		return nil, err
	}
	return transport.NewResponse(all[idx]), nil
}

func (s *Service) toggle(ctx context.Context, req ToggleRequest) (*transport.Response, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexByID(all, req.ID)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}

	all[idx].Completed = !all[idx].Completed
	if err := s.save(ctx, all); err != nil {
		return nil, err
	}
	return transport.NewResponse(all[idx]), nil
}

// remove deletes the task with the given id. Deleting an absent id is a
// no-op success, matching the idempotent delete contract.
func (s *Service) remove(ctx context.Context, req DeleteRequest) (*transport.Response, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.Task, 0, len(all))
	for _, t := range all {
		if t.ID != req.ID {
			kept = append(kept, t)
		}
	}

	if err := s.save(ctx, kept); err != nil {
		return nil, err
	}
	return transport.NewResponse(nil), nil
}

func (s *Service) load(ctx context.Context) ([]domain.Task, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load tasks", zap.Error(err))
		return nil, domain.Internal("failed to load tasks")
	}
	return all, nil
}

func (s *Service) save(ctx context.Context, tasks []domain.Task) error {
	if err := s.store.Save(ctx, tasks); err != nil {
		s.logger.Error("failed to save tasks", zap.Error(err))
		return domain.Internal("failed to save tasks")
	}
	return nil
}

// creationTime assigns monotonically increasing creation timestamps within
// this process; a clock collision is nudged forward by a nanosecond.
func (s *Service) creationTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Nanosecond)
	}
	s.lastCreated = now
	return now
}

func indexByID(tasks []domain.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// mergePatch applies a shallow merge: only fields present in the patch
// overwrite, and id/createdAt are preserved.
func mergePatch(task domain.Task, patch transport.TaskPatch) domain.Task {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	return task
}
