package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var response Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response), "Failed to decode response")
	return response
}

func TestApi_Success(t *testing.T) {
	w := httptest.NewRecorder()
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	New(nil).Success(ctx, w, map[string]string{"name": "Plano Ouro"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	response := decode(t, w)
	assert.Equal(t, StatusSuccess, response.Status)
	assert.Equal(t, "req-42", response.RequestID)
	assert.Equal(t, map[string]any{"name": "Plano Ouro"}, response.Data)
	assert.Nil(t, response.Error)
}

func TestApi_List(t *testing.T) {
	w := httptest.NewRecorder()

	New(nil).List(context.Background(), w, []int{1, 2, 3}, 3)

	response := decode(t, w)
	require.NotNil(t, response.Meta)
	assert.Equal(t, 3, response.Meta.Total)
}

func TestApi_Created(t *testing.T) {
	w := httptest.NewRecorder()

	New(nil).Created(context.Background(), w, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, StatusSuccess, decode(t, w).Status)
}

func TestApi_NoContent(t *testing.T) {
	w := httptest.NewRecorder()

	New(nil).NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestApi_ErrorHelpers(t *testing.T) {
	a := New(nil)
	tests := []struct {
		name   string
		call   func(w http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { a.BadRequest(context.Background(), w, "m") }, http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthorized", func(w http.ResponseWriter) { a.Unauthorized(context.Background(), w, "m") }, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", func(w http.ResponseWriter) { a.Forbidden(context.Background(), w, "m") }, http.StatusForbidden, "FORBIDDEN"},
		{"not found", func(w http.ResponseWriter) { a.NotFound(context.Background(), w, "m") }, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", func(w http.ResponseWriter) { a.Conflict(context.Background(), w, "m") }, http.StatusConflict, "CONFLICT"},
		{"unavailable", func(w http.ResponseWriter) { a.ServiceUnavailable(context.Background(), w, "m") }, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"internal", func(w http.ResponseWriter) { a.InternalServerError(context.Background(), w, "m") }, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.call(w)

			assert.Equal(t, tt.status, w.Code)
			response := decode(t, w)
			assert.Equal(t, StatusError, response.Status)
			require.NotNil(t, response.Error)
			assert.Equal(t, tt.code, response.Error.Code)
			assert.Equal(t, "m", response.Error.Message)
		})
	}
}

func TestApi_ValidationError(t *testing.T) {
	w := httptest.NewRecorder()

	New(nil).ValidationError(context.Background(), w, []ErrorDetail{{Field: "email", Message: "email is required"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	response := decode(t, w)
	require.NotNil(t, response.Error)
	assert.Equal(t, "VALIDATION_ERROR", response.Error.Code)
	assert.Equal(t, []ErrorDetail{{Field: "email", Message: "email is required"}}, response.Error.Details)
}
