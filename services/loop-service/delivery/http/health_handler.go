package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"loop/pkg/api"
	"loop/pkg/logger"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler handles HTTP requests for health check operations
type HealthHandler struct {
	handler
	checks map[string]HealthCheck
}

// NewHealthHandler creates a new instance of HealthHandler. checks are keyed by the name
// reported in the response.
func NewHealthHandler(appLogger logger.LoggerInterface, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		handler: newHandler(appLogger),
		checks:  checks,
	}
}

// HealthCheckHandler answers 200 when every check passes and 503 listing the failed
// checks otherwise
func (h *HealthHandler) HealthCheckHandler(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	var failed []api.ErrorDetail
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.Logger.WarnContext(ctx, "Health check failed", "check", name, "error", err)
			failed = append(failed, api.ErrorDetail{Field: name, Message: err.Error()})
			continue
		}
		results[name] = "ok"
	}

	if len(failed) > 0 {
		sort.Slice(failed, func(i, j int) bool { return failed[i].Field < failed[j].Field })
		h.API.Error(ctx, w, http.StatusServiceUnavailable, &api.Error{
			Code:    "SERVICE_UNAVAILABLE",
			Message: "degraded",
			Details: failed,
		})
		return
	}
	h.API.Success(ctx, w, map[string]any{
		"status": "healthy",
		"checks": results,
	})
}
