package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAdminProvisionedNotice(t *testing.T) {
	createdAt := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	n, err := composeAdminProvisionedNotice("jane@example.com", createdAt)
	require.NoError(t, err)

	assert.NotEmpty(t, n.subject)
	assert.Contains(t, n.text, "jane@example.com")
	assert.Contains(t, n.text, "2026-03-04T10:00:00Z")
	assert.Contains(t, n.html, "jane@example.com")
	assert.Contains(t, n.html, "google")
}

func TestNewEmailService(t *testing.T) {
	svc := NewEmailService(EmailConfig{
		Domain:    "mg.example.com",
		APIKey:    "key-test",
		FromEmail: "noreply@example.com",
		FromName:  "Employee Directory",
		Recipient: "security@example.com",
	})

	require.NotNil(t, svc)
	assert.Equal(t, "security@example.com", svc.recipient)
	assert.NotNil(t, svc.mg)
}
