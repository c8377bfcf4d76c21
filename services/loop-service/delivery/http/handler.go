// Package http contains HTTP delivery implementations for the application
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"loop/pkg/api"
	"loop/pkg/logger"
	"loop/pkg/validator"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// handler holds what every resource handler needs
type handler struct {
	// API provides standardized API response patterns
	API api.Api
	// Validator checks request payloads against their validate tags
	Validator validator.Validator
	// Logger is used for logging operations within the handler
	Logger logger.LoggerInterface
}

func newHandler(appLogger logger.LoggerInterface) handler {
	return handler{
		API:       api.New(appLogger),
		Validator: validator.NewValidator(),
		Logger:    appLogger,
	}
}

// decode reads a JSON body into dst and validates it. On failure the response is written
// and false is returned.
func (h handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Logger.WarnContext(ctx, "Invalid request body", "path", r.URL.Path, "error", err)
		h.API.BadRequest(ctx, w, "Invalid request body")
		return false
	}

	if errs := h.Validator.ValidateStruct(dst); errs != nil {
		h.Logger.WarnContext(ctx, "Validation failed", "path", r.URL.Path, "errors", errs)
		h.API.ValidationError(ctx, w, convertValidationErrors(errs))
		return false
	}
	return true
}

// convertValidationErrors converts validator output into API error details, sorted by field
func convertValidationErrors(errs map[string]string) []api.ErrorDetail {
	details := make([]api.ErrorDetail, 0, len(errs))
	for field, message := range errs {
		details = append(details, api.ErrorDetail{Field: field, Message: message})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
	return details
}

// pathID parses the {name} URL parameter as a positive record ID
func (h handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.Logger.WarnContext(r.Context(), "Invalid ID in path", "param", name, "value", raw)
		h.API.BadRequest(r.Context(), w, domain.ErrInvalidID.Message)
		return 0, false
	}
	return id, true
}

// fail writes err. Application errors keep their message and status; anything else is
// logged and reported as a 500 with fallback as message.
func (h handler) fail(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	appErr, ok := domain.AsAppError(err)
	if !ok {
		h.Logger.ErrorContext(ctx, "Unexpected error", "error", err)
		h.API.InternalServerError(ctx, w, fallback)
		return
	}

	switch appErr.Code {
	case http.StatusBadRequest:
		h.API.BadRequest(ctx, w, appErr.Message)
	case http.StatusUnauthorized:
		h.API.Unauthorized(ctx, w, appErr.Message)
	case http.StatusForbidden:
		h.API.Forbidden(ctx, w, appErr.Message)
	case http.StatusNotFound:
		h.API.NotFound(ctx, w, appErr.Message)
	case http.StatusConflict:
		h.API.Conflict(ctx, w, appErr.Message)
	case http.StatusServiceUnavailable:
		h.API.ServiceUnavailable(ctx, w, appErr.Message)
	default:
		h.API.Error(ctx, w, appErr.Code, &api.Error{Code: http.StatusText(appErr.Code), Message: appErr.Message})
	}
}

// caller returns the authenticated caller, answering 401 when the route was not protected
func (h handler) caller(w http.ResponseWriter, r *http.Request) (model.Caller, bool) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		h.API.Unauthorized(r.Context(), w, "Authentication required")
	}
	return caller, ok
}
