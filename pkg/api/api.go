package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"loop/pkg/logger"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response represents the standard API response format
type Response struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	Meta      *Meta  `json:"meta,omitempty"`
}

// Meta contains metadata for list responses
type Meta struct {
	Total int `json:"total"`
}

// Error represents the standard error format
type Error struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail contains detailed error information for specific fields
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Api writes responses in the standard envelope
type Api interface {
	Success(ctx context.Context, w http.ResponseWriter, data any)
	List(ctx context.Context, w http.ResponseWriter, data any, total int)
	Created(ctx context.Context, w http.ResponseWriter, data any)
	NoContent(w http.ResponseWriter)
	Error(ctx context.Context, w http.ResponseWriter, statusCode int, apiErr *Error)
	BadRequest(ctx context.Context, w http.ResponseWriter, message string)
	Unauthorized(ctx context.Context, w http.ResponseWriter, message string)
	Forbidden(ctx context.Context, w http.ResponseWriter, message string)
	NotFound(ctx context.Context, w http.ResponseWriter, message string)
	Conflict(ctx context.Context, w http.ResponseWriter, message string)
	ServiceUnavailable(ctx context.Context, w http.ResponseWriter, message string)
	InternalServerError(ctx context.Context, w http.ResponseWriter, message string)
	ValidationError(ctx context.Context, w http.ResponseWriter, details []ErrorDetail)
}

type api struct {
	logger logger.LoggerInterface
}

// New creates a response writer. Encoding failures are reported to l, which may be nil.
func New(l logger.LoggerInterface) Api {
	if l == nil {
		l = logger.NoOpLogger()
	}
	return &api{logger: l}
}

func (a *api) write(ctx context.Context, w http.ResponseWriter, statusCode int, response Response) {
	response.RequestID = middleware.GetReqID(ctx)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		a.logger.ErrorContext(ctx, "Failed to encode response", "error", err)
	}
}

func (a *api) Success(ctx context.Context, w http.ResponseWriter, data any) {
	a.write(ctx, w, http.StatusOK, Response{Status: StatusSuccess, Data: data})
}

// List sends a collection together with its size
func (a *api) List(ctx context.Context, w http.ResponseWriter, data any, total int) {
	a.write(ctx, w, http.StatusOK, Response{Status: StatusSuccess, Data: data, Meta: &Meta{Total: total}})
}

func (a *api) Created(ctx context.Context, w http.ResponseWriter, data any) {
	a.write(ctx, w, http.StatusCreated, Response{Status: StatusSuccess, Data: data})
}

func (a *api) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends an error response with specific HTTP status code and error details
func (a *api) Error(ctx context.Context, w http.ResponseWriter, statusCode int, apiErr *Error) {
	a.write(ctx, w, statusCode, Response{Status: StatusError, Error: apiErr})
}

func (a *api) fail(ctx context.Context, w http.ResponseWriter, statusCode int, code, message string) {
	a.Error(ctx, w, statusCode, &Error{Code: code, Message: message})
}

func (a *api) BadRequest(ctx context.Context, w http.ResponseWriter, message string) {
	a.fail(ctx, w, http.StatusBadRequest, "BAD_REQUEST", message)
}

func (a *api) Unauthorized(ctx context.Context, w http.ResponseWriter, message string) {
	a.fail(ctx, w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func (a *api) Forbidden(ctx context.Context, w http.ResponseWriter, message string) {
	a.fail(ctx, w, http.StatusForbidden, "FORBIDDEN", message)
}

func (a *api) NotFound(ctx context.Context, w http.ResponseWriter, message string) {
	a.fail(ctx, w, http.StatusNotFound, "NOT_FOUND", message)
}

func (a *api) Conflict(ctx context.Context, w http.ResponseWriter, message string) {
	a.fail(ctx, w, http.StatusConflict, "CONFLICT", message)
}

func (a *api) ServiceUnavailable(ctx context.Context, w http.ResponseWriter, message string) {
	a.fail(ctx, w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message)
}

func (a *api) InternalServerError(ctx context.Context, w http.ResponseWriter, message string) {
	a.fail(ctx, w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

// ValidationError sends a 422 Unprocessable Entity response with validation details
func (a *api) ValidationError(ctx context.Context, w http.ResponseWriter, details []ErrorDetail) {
	a.Error(ctx, w, http.StatusUnprocessableEntity, &Error{
		Code:    "VALIDATION_ERROR",
		Message: "Validation failed",
		Details: details,
	})
}
