package router

import (
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskmock/backend/api/handler"
	"github.com/taskmock/backend/domain"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// New wires the HTTP facade routes. Unmatched paths receive the Not Found
// envelope rather than fasthttp's default plain-text 404.
func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/tasks", handlers.Task.ListTasks)
	r.POST("/api/v1/tasks", handlers.Task.CreateTask)
	r.PUT("/api/v1/tasks/{id}", handlers.Task.UpdateTask)
	r.PATCH("/api/v1/tasks/{id}/toggle", handlers.Task.ToggleTask)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)

	r.NotFound = notFound

	return r
}

func notFound(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusNotFound)
	body := `{"error":"` + domain.KindNotFound + `","message":"Endpoint not found","statusCode":404}`
	ctx.SetBodyString(body)
}
