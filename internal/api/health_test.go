package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airport-ops/tarmac/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantCode   int
		wantStatus string
	}{
		{"all up", map[string]HealthCheck{"database": up, "redis": up}, http.StatusOK, "ok"},
		{"one down", map[string]HealthCheck{"database": up, "redis": down}, http.StatusServiceUnavailable, "down"},
		{"nothing to check", map[string]HealthCheck{}, http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthCheckHandler(tt.checks, time.Now().Add(-time.Minute))(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp dtos.HealthCheckResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Services, len(tt.checks))
			if tt.wantStatus == "down" {
				assert.Equal(t, "down", resp.Services["redis"].Status)
				assert.Equal(t, "ok", resp.Services["database"].Status)
			}
		})
	}
}
