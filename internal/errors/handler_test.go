package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcpulse/internal/middleware"
)

func newTestErrorHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestErrorToProblem_APIError(t *testing.T) {
	h := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)

	problem := h.ErrorToProblem(ErrValidation("min_year", "must be an integer year"), req)

	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, TypeValidation, problem.Type)
	assert.Equal(t, "/api/dashboard/summary", problem.Instance)
	assert.Equal(t, "VALIDATION_ERROR", problem.Extensions["error_code"])
	assert.NotNil(t, problem.Extensions["errors"])
}

func TestErrorToProblem_StatusMapping(t *testing.T) {
	h := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)

	tests := []struct {
		name     string
		err      *APIError
		wantType string
	}{
		{"not found", ErrNotFound, TypeNotFound},
		{"rate limit", ErrRateLimitExceeded, TypeRateLimit},
		{"unavailable", ErrServiceUnavailable, TypeServiceDown},
		{"internal", ErrInternalServer, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.err.StatusCode, problem.Status)
		})
	}
}

func TestErrorToProblem_DatasetErrors(t *testing.T) {
	h := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)

	tests := []struct {
		name       string
		err        *APIError
		wantType   string
		wantStatus int
	}{
		{"dataset missing", ErrDatasetNotFound, TypeDatasetNotFound, http.StatusServiceUnavailable},
		{"dataset unreadable", ErrDatasetLoad, TypeDatasetCorrupted, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.wantStatus, problem.Status)
		})
	}
}

func TestHandleError_IncludesRequestTraceID(t *testing.T) {
	h := newTestErrorHandler()
	rec := httptest.NewRecorder()

	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.HandleError(w, r, ErrDatasetNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	req.Header.Set("X-Request-ID", "client-trace-id")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeDatasetNotFound, body["type"])
	assert.Equal(t, "client-trace-id", body["trace_id"])
}

func TestErrorToProblem_ContextDeadline(t *testing.T) {
	h := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)

	problem := h.ErrorToProblem(context.DeadlineExceeded, req)

	assert.Equal(t, http.StatusGatewayTimeout, problem.Status)
	assert.Equal(t, TypeTimeout, problem.Type)
}

func TestErrorToProblem_UnknownErrorStaysOpaque(t *testing.T) {
	h := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)

	problem := h.ErrorToProblem(errors.New("pq: connection refused"), req)

	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.NotContains(t, problem.Detail, "connection refused")
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	h := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrValidation("market", "Market is required"))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
}

func TestProblemDetails_MarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "nope", "/api/x").
		WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "abc-123", got["trace_id"])
	assert.Equal(t, TypeValidation, got["type"])
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "Resource not found", ErrNotFound.Error())
}
