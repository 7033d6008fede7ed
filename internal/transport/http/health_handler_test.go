package http

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

	"vcpulse/internal/services"
	"vcpulse/pkg/contracts"
	"vcpulse/pkg/contracts/domain"
)

type stubTableProvider struct {
	table *domain.Table
	err   error
}

func (p *stubTableProvider) Load(ctx context.Context) (*domain.Table, error) {
	return p.table, p.err
}

func newHealthHandler(provider services.TableProvider) *HealthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHealthHandler(services.NewHealthService(provider, logger), logger)
}

func TestGetHealth_Ok(t *testing.T) {
	handler := newHealthHandler(&stubTableProvider{table: &domain.Table{
		Records: []domain.StartupRecord{{Name: "Acme"}},
	}})

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 1, status.DatasetRows)
}

func TestGetHealth_Degraded(t *testing.T) {
	handler := newHealthHandler(&stubTableProvider{err: errors.New("boom")})

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetLiveness(t *testing.T) {
	handler := newHealthHandler(&stubTableProvider{err: errors.New("boom")})

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	// Liveness ignores dataset state entirely
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetReadiness(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubTableProvider
		want     int
	}{
		{
			name:     "ready",
			provider: &stubTableProvider{table: &domain.Table{Records: []domain.StartupRecord{{Name: "A"}}}},
			want:     http.StatusOK,
		},
		{
			name:     "empty table",
			provider: &stubTableProvider{table: &domain.Table{}},
			want:     http.StatusServiceUnavailable,
		},
		{
			name:     "load failure",
			provider: &stubTableProvider{err: errors.New("boom")},
			want:     http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newHealthHandler(tt.provider)
			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetVersion(t *testing.T) {
	handler := newHealthHandler(&stubTableProvider{})

	rec := httptest.NewRecorder()
	handler.GetVersion(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, contracts.Version, info.Version)
	assert.Equal(t, contracts.APIVersion, info.APIVersion)
}
