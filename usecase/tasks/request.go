package tasks

import (
	"github.com/taskmock/backend/api/transport"
	"github.com/taskmock/backend/domain"
)

// Request is the closed set of operations the service dispatches on. Each
// variant carries exactly the inputs its handler needs; dispatch is a single
// exhaustive type switch rather than string path matching.
type Request interface {
	isRequest()
}

// ListRequest fetches a filtered, sorted, paginated task listing.
type ListRequest struct {
	Completion domain.Completion
	Search     string
	SortBy     domain.SortBy
	Page       int
	Limit      int
}

// CreateRequest creates a task from an unvalidated payload.
type CreateRequest struct {
	Body transport.CreateTaskRequest
}

// UpdateRequest shallow-merges a patch into the task with the given id.
type UpdateRequest struct {
	ID    string
	Patch transport.TaskPatch
}

// ToggleRequest flips the completed flag of the task with the given id.
type ToggleRequest struct {
	ID string
}

// DeleteRequest removes the task with the given id.
type DeleteRequest struct {
	ID string
}

func (ListRequest) isRequest()   {}
func (CreateRequest) isRequest() {}
func (UpdateRequest) isRequest() {}
func (ToggleRequest) isRequest() {}
func (DeleteRequest) isRequest() {}
