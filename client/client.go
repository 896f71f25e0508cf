// Package client is the in-process task API consumed by the presentation
// layer. It wraps the task service with the retry policy: transient failures
// are retried with rising backoff, non-retryable failures bail out at once,
// and non-idempotent mutations are never retried.
package client

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taskmock/backend/api/transport"
	"github.com/taskmock/backend/domain"
	"github.com/taskmock/backend/usecase/tasks"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 300 * time.Millisecond
)

// RetryPolicy bounds how transient failures are retried. Backoff doubles on
// every further attempt, so later attempts never fire faster than earlier
// ones.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.Backoff
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// Client issues requests against the task service.
type Client struct {
	svc    *tasks.Service
	logger *zap.Logger
	policy RetryPolicy
	sleep  func(context.Context, time.Duration) error
}

// Option customizes a Client.
type Option func(*Client)

// WithRetryPolicy overrides the default retry budget for reads and toggles.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		if policy.MaxRetries >= 0 {
			c.policy.MaxRetries = policy.MaxRetries
		}
		if policy.Backoff > 0 {
			c.policy.Backoff = policy.Backoff
		}
	}
}

// WithSleep substitutes the backoff sleep function.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// New builds a Client around the given service.
func New(svc *tasks.Service, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		svc:    svc,
		logger: logger,
		policy: RetryPolicy{MaxRetries: defaultMaxRetries, Backoff: defaultBackoff},
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTasks returns one page of the filtered, sorted collection together
// with pagination meta. Transient failures are retried.
func (c *Client) ListTasks(ctx context.Context, params transport.ListParams) ([]domain.Task, *transport.Meta, error) {
	resp, err := c.do(ctx, tasks.ListRequest{
		Completion: params.Completion,
		Search:     params.Search,
		SortBy:     params.SortBy,
		Page:       params.Page,
		Limit:      params.Limit,
	}, c.policy)
	if err != nil {
		return nil, nil, err
	}
	data, _ := resp.Data.([]domain.Task)
	return data, resp.Meta, nil
}

// CreateTask validates and stores a new task. Never retried: a blind retry
// of a non-idempotent write could duplicate the task.
func (c *Client) CreateTask(ctx context.Context, body transport.CreateTaskRequest) (*domain.Task, error) {
	return c.taskResult(c.do(ctx, tasks.CreateRequest{Body: body}, noRetry()))
}

// UpdateTask shallow-merges a patch into the task with the given id. Never
// retried.
func (c *Client) UpdateTask(ctx context.Context, id string, patch transport.TaskPatch) (*domain.Task, error) {
	return c.taskResult(c.do(ctx, tasks.UpdateRequest{ID: id, Patch: patch}, noRetry()))
}

// ToggleTask flips the completed flag of the task with the given id. Toggle
// keeps the default retry budget, matching the observed design.
func (c *Client) ToggleTask(ctx context.Context, id string) (*domain.Task, error) {
	return c.taskResult(c.do(ctx, tasks.ToggleRequest{ID: id}, c.policy))
}

// DeleteTask removes the task with the given id. Never retried.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, tasks.DeleteRequest{ID: id}, noRetry())
	return err
}

// Do issues a raw request under the policy appropriate for its variant. The
// HTTP facade uses it to avoid re-shaping responses.
func (c *Client) Do(ctx context.Context, req tasks.Request) (*transport.Response, error) {
	return c.do(ctx, req, c.policyFor(req))
}

func (c *Client) policyFor(req tasks.Request) RetryPolicy {
	switch req.(type) {
	case tasks.CreateRequest, tasks.UpdateRequest, tasks.DeleteRequest:
		return noRetry()
	default:
		return c.policy
	}
}

func (c *Client) do(ctx context.Context, req tasks.Request, policy RetryPolicy) (*transport.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, policy.delay(attempt)); err != nil {
				return nil, err
			}
			c.logger.Debug("retrying request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
		}

		resp, err := c.svc.Do(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, err
		}
		if !retryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) taskResult(resp *transport.Response, err error) (*domain.Task, error) {
	if err != nil {
		return nil, err
	}
	task, ok := resp.Data.(domain.Task)
	if !ok {
		return nil, domain.Internal("unexpected response payload")
	}
	return &task, nil
}

func noRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 0}
}

// retryable reports whether a failure may change outcome on retry. Client
// errors (400), unmatched routes (404) and validation failures (422) are
// final; everything else is considered transient.
func retryable(err error) bool {
	switch domain.AsError(err).StatusCode {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return false
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
