package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmailConfig(t *testing.T) {
	config, err := LoadEmailConfig()
	require.NoError(t, err)

	assert.Equal(t, "Employee Directory", config.Branding.Name)
	assert.NotEmpty(t, config.Subjects.AdminProvisioned)
	assert.NotEmpty(t, config.AdminProvisioned.Intro)
}

func TestRenderAdminProvisioned(t *testing.T) {
	config, err := LoadEmailConfig()
	require.NoError(t, err)

	data := NewAdminProvisionedData(config, "jane<script>@example.com", "google", "2026-01-02T15:04:05Z")

	html, err := RenderAdminProvisionedHTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "Employee Directory")
	assert.Contains(t, html, "2026-01-02T15:04:05Z")
	assert.NotContains(t, html, "<script>", "username must be escaped in HTML")
	assert.Contains(t, html, "jane&lt;script&gt;@example.com")

	text, err := RenderAdminProvisionedText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "jane<script>@example.com")
	assert.Contains(t, text, "google")
}
