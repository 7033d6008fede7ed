package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcpulse/pkg/contracts"
	"vcpulse/pkg/contracts/domain"
)

func TestHealthCheck_Ok(t *testing.T) {
	table := sampleTable()
	table.Source = "/data/test.csv"
	table.LoadedAt = time.Now()
	svc := NewHealthService(&stubProvider{table: table}, nil)

	status := svc.Check(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, contracts.Version, status.Version)
	assert.Equal(t, len(table.Records), status.DatasetRows)
	assert.Equal(t, "/data/test.csv", status.DatasetPath)
	assert.False(t, status.CheckedAt.IsZero())
}

func TestHealthCheck_DegradedOnLoadError(t *testing.T) {
	svc := NewHealthService(&stubProvider{err: errors.New("boom")}, nil)

	status := svc.Check(context.Background())

	assert.Equal(t, "degraded", status.Status)
	assert.Zero(t, status.DatasetRows)
}

func TestHealthCheck_DegradedOnEmptyTable(t *testing.T) {
	svc := NewHealthService(&stubProvider{table: &domain.Table{}}, nil)

	status := svc.Check(context.Background())

	require.Equal(t, "degraded", status.Status)
}

func TestReady(t *testing.T) {
	assert.True(t, NewHealthService(&stubProvider{table: sampleTable()}, nil).Ready(context.Background()))
	assert.False(t, NewHealthService(&stubProvider{table: &domain.Table{}}, nil).Ready(context.Background()))
	assert.False(t, NewHealthService(&stubProvider{err: errors.New("boom")}, nil).Ready(context.Background()))
}
