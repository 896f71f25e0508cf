package transport

import (
	"time"

	"github.com/taskmock/backend/domain"
)

// CreateTaskRequest is the payload accepted when creating a task. DueDate is
// kept as a raw string so validation can report an unparseable date as a
// field error. Unknown JSON fields are dropped during decoding, not rejected.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// TaskPatch is a partial task update. Nil fields are left untouched; the
// task's id and createdAt are never patched.
type TaskPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Priority    *domain.Priority `json:"priority,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
}

// ListParams selects, orders and pages a task listing. Zero values fall back
// to the service defaults (all, date, page 1, limit 10).
type ListParams struct {
	Completion domain.Completion
	Search     string
	SortBy     domain.SortBy
	Page       int
	Limit      int
}
