package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/posthog/posthog-go"
	"github.com/rs/zerolog/log"
)

// HashEmail returns a hex-encoded SHA-256 hash of the username for use as PostHog distinct ID
func HashEmail(username string) string {
	h := sha256.Sum256([]byte(username))
	return fmt.Sprintf("%x", h)
}

// AnalyticsService handles all product analytics tracking
type AnalyticsService struct {
	client  posthog.Client
	enabled bool
}

type posthogLogger struct{}

func (l posthogLogger) Success(m posthog.APIMessage) {
	log.Debug().Str("type", fmt.Sprintf("%T", m)).Msg("PostHog event delivered")
}

func (l posthogLogger) Failure(m posthog.APIMessage, err error) {
	log.Error().Err(err).Str("type", fmt.Sprintf("%T", m)).Msg("PostHog delivery failed")
}

// AnalyticsConfig holds analytics configuration
type AnalyticsConfig struct {
	PostHogAPIKey string
	PostHogHost   string
	Enabled       bool
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(cfg AnalyticsConfig) (*AnalyticsService, error) {
	if !cfg.Enabled {
		return &AnalyticsService{enabled: false}, nil
	}

	if cfg.PostHogAPIKey == "" {
		return &AnalyticsService{enabled: false}, nil
	}

	client, err := posthog.NewWithConfig(
		cfg.PostHogAPIKey,
		posthog.Config{
			Endpoint:  cfg.PostHogHost,
			Interval:  30 * time.Second,
			BatchSize: 100,
			Callback:  posthogLogger{},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostHog client: %w", err)
	}

	return &AnalyticsService{
		client:  client,
		enabled: true,
	}, nil
}

// Close flushes pending events and closes client
func (s *AnalyticsService) Close() error {
	if s == nil || !s.enabled {
		return nil
	}
	return s.client.Close()
}

// getEnvironment returns current environment (production, staging, development)
func getEnvironment() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "production"
	}
	return env
}

// TrackEvent captures a generic event
func (s *AnalyticsService) TrackEvent(ctx context.Context, distinctID, event string, properties map[string]interface{}) {
	if s == nil || !s.enabled {
		return
	}

	// Add common properties
	if properties == nil {
		properties = make(map[string]interface{})
	}
	properties["timestamp"] = time.Now().Unix()
	properties["environment"] = getEnvironment()

	if err := s.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil {
		log.Error().Err(err).Str("event", event).Msg("PostHog enqueue failed")
	} else {
		log.Debug().Str("event", event).Str("distinct_id", distinctID).Msg("PostHog event enqueued")
	}
}

// Enabled reports whether events are sent
func (s *AnalyticsService) Enabled() bool {
	return s != nil && s.enabled
}

func adminDistinctID(username string) string {
	return "admin_" + HashEmail(username)
}

// TrackAdminLogin tracks a successful login; method is "password" or "google"
func (s *AnalyticsService) TrackAdminLogin(ctx context.Context, username, method string) {
	s.TrackEvent(ctx, adminDistinctID(username), "admin_logged_in", map[string]interface{}{
		"method": method,
	})
}

// TrackAdminProvisioned tracks the first federated login of an administrator
func (s *AnalyticsService) TrackAdminProvisioned(ctx context.Context, username, provider string) {
	s.TrackEvent(ctx, adminDistinctID(username), "admin_provisioned", map[string]interface{}{
		"provider": provider,
	})
}

// TrackEmployeeCreated tracks a new employee record
func (s *AnalyticsService) TrackEmployeeCreated(ctx context.Context, actor string, employeeID int64) {
	s.TrackEvent(ctx, adminDistinctID(actor), "employee_created", map[string]interface{}{
		"employee_id": employeeID,
	})
}

// TrackEmployeeUpdated tracks a patch and the fields it touched
func (s *AnalyticsService) TrackEmployeeUpdated(ctx context.Context, actor string, employeeID int64, fields []string) {
	s.TrackEvent(ctx, adminDistinctID(actor), "employee_updated", map[string]interface{}{
		"employee_id": employeeID,
		"fields":      fields,
	})
}

// TrackEmployeeDeleted tracks a removed employee record
func (s *AnalyticsService) TrackEmployeeDeleted(ctx context.Context, actor string, employeeID int64) {
	s.TrackEvent(ctx, adminDistinctID(actor), "employee_deleted", map[string]interface{}{
		"employee_id": employeeID,
	})
}
