package services

import (
	"context"
	"log/slog"
	"time"

	"vcpulse/internal/infrastructure"
	"vcpulse/pkg/contracts"
)

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	Uptime      string    `json:"uptime"`
	DatasetRows int       `json:"dataset_rows"`
	DatasetPath string    `json:"dataset_path,omitempty"`
	LoadedAt    time.Time `json:"dataset_loaded_at,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

// HealthService reports liveness and readiness of the service. The
// service is ready once the dataset is loaded and non-empty.
type HealthService struct {
	provider  TableProvider
	logger    *slog.Logger
	startedAt time.Time
}

// NewHealthService creates a health service with an injected logger
func NewHealthService(provider TableProvider, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &HealthService{
		provider:  provider,
		logger:    infrastructure.WithComponent(logger, "health_service"),
		startedAt: time.Now(),
	}
}

// Check returns the current health status
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "ok",
		Version:   contracts.Version,
		Uptime:    time.Since(s.startedAt).String(),
		CheckedAt: time.Now(),
	}

	table, err := s.provider.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "health check: dataset unavailable",
			slog.String("error", err.Error()))
		status.Status = "degraded"
		return status
	}

	status.DatasetRows = len(table.Records)
	status.DatasetPath = table.Source
	status.LoadedAt = table.LoadedAt

	if len(table.Records) == 0 {
		status.Status = "degraded"
	}

	return status
}

// Ready reports whether the service can serve dashboard queries
func (s *HealthService) Ready(ctx context.Context) bool {
	table, err := s.provider.Load(ctx)
	return err == nil && len(table.Records) > 0
}
