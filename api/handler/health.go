package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmock/backend/api/transport"
	"github.com/taskmock/backend/internal/config"
	"github.com/taskmock/backend/pkg/httpcontext"
)

// StorageStatus reports the size of the persisted collection.
type StorageStatus interface {
	Size(ctx context.Context) (int, error)
}

type healthStatus struct {
	Status     string  `json:"status"`
	Tasks      int     `json:"tasks"`
	ErrorRate  float64 `json:"error_rate"`
	MinDelayMS int64   `json:"min_delay_ms"`
	MaxDelayMS int64   `json:"max_delay_ms"`
	CheckedAt  string  `json:"checked_at"`
}

type HealthHandler struct {
	baseHandler
	storage StorageStatus
	sim     config.SimulationConfig
}

func NewHealthHandler(storage StorageStatus, sim config.SimulationConfig, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		storage:     storage,
		sim:         sim,
	}
}

// Check reports storage reachability and echoes the simulation tuning.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status := healthStatus{
		Status:     "ok",
		ErrorRate:  h.sim.ErrorRate,
		MinDelayMS: h.sim.MinDelay.Milliseconds(),
		MaxDelayMS: h.sim.MaxDelay.Milliseconds(),
		CheckedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	if h.storage != nil {
		size, err := h.storage.Size(stdCtx)
		if err != nil {
			h.logger.Warn("storage size check failed", zap.Error(err))
			status.Status = "degraded"
		} else {
			status.Tasks = size
		}
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	h.respondSuccess(ctx, code, transport.NewResponse(status))
}
