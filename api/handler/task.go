package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmock/backend/api/transport"
	"github.com/taskmock/backend/client"
	"github.com/taskmock/backend/domain"
	"github.com/taskmock/backend/pkg/httpcontext"
	"github.com/taskmock/backend/usecase/tasks"
)

// TaskHandler exposes the five task operations over HTTP. It is a thin shell
// over the in-process client; retry and fault behavior live below it.
type TaskHandler struct {
	baseHandler
	client *client.Client
}

func NewTaskHandler(c *client.Client, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		client:      c,
	}
}

func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	req := tasks.ListRequest{
		Completion: domain.Completion(ctx.QueryArgs().Peek("completion")),
		Search:     string(ctx.QueryArgs().Peek("search")),
		SortBy:     domain.SortBy(ctx.QueryArgs().Peek("sortBy")),
		Page:       parseInt(string(ctx.QueryArgs().Peek("page")), 0),
		Limit:      parseInt(string(ctx.QueryArgs().Peek("limit")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	resp, err := h.client.Do(stdCtx, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var body transport.CreateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &body); err != nil {
		h.respondError(ctx, domain.BadRequest("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	resp, err := h.client.Do(stdCtx, tasks.CreateRequest{Body: body})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, resp)
}

func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var patch transport.TaskPatch
	if err := json.Unmarshal(ctx.PostBody(), &patch); err != nil {
		h.respondError(ctx, domain.BadRequest("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	resp, err := h.client.Do(stdCtx, tasks.UpdateRequest{ID: id, Patch: patch})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	resp, err := h.client.Do(stdCtx, tasks.ToggleRequest{ID: id})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	resp, err := h.client.Do(stdCtx, tasks.DeleteRequest{ID: id})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, resp)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondError(ctx, domain.BadRequest("missing task id"))
		return "", false
	}
	return id, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
