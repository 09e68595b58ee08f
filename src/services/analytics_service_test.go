package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmail(t *testing.T) {
	a := HashEmail("admin")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashEmail("admin"))
	assert.NotEqual(t, a, HashEmail("Admin"))
}

func TestNewAnalyticsService_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  AnalyticsConfig
	}{
		{"disabled flag", AnalyticsConfig{Enabled: false, PostHogAPIKey: "phc_test"}},
		{"missing key", AnalyticsConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewAnalyticsService(tt.cfg)
			require.NoError(t, err)
			assert.False(t, svc.Enabled())

			// no client: every call must be a no-op
			ctx := context.Background()
			svc.TrackAdminLogin(ctx, "admin", "password")
			svc.TrackEmployeeUpdated(ctx, "admin", 1, []string{"phone"})
			assert.NoError(t, svc.Close())
		})
	}
}

func TestAnalyticsService_NilSafe(t *testing.T) {
	var svc *AnalyticsService
	ctx := context.Background()

	assert.False(t, svc.Enabled())
	svc.TrackAdminProvisioned(ctx, "jane@example.com", "google")
	svc.TrackEmployeeCreated(ctx, "admin", 1)
	svc.TrackEmployeeDeleted(ctx, "admin", 1)
	assert.NoError(t, svc.Close())
}
