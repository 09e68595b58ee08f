package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	textTemplate "text/template"

	"gopkg.in/yaml.v3"
)

//go:embed emails/*
var emailTemplates embed.FS

// EmailConfig holds email configuration from config.yaml
type EmailConfig struct {
	Branding struct {
		Name    string `yaml:"name"`
		Tagline string `yaml:"tagline"`
	} `yaml:"branding"`

	Design struct {
		PrimaryColor string `yaml:"primary_color"`
		TextColor    string `yaml:"text_color"`
		MutedColor   string `yaml:"muted_color"`
		Background   string `yaml:"background"`
		BorderColor  string `yaml:"border_color"`
	} `yaml:"design"`

	Subjects struct {
		AdminProvisioned string `yaml:"admin_provisioned"`
	} `yaml:"subjects"`

	AdminProvisioned struct {
		Intro         string `yaml:"intro"`
		ProviderLabel string `yaml:"provider_label"`
		TimeLabel     string `yaml:"time_label"`
		ActionText    string `yaml:"action_text"`
	} `yaml:"admin_provisioned"`
}

// LoadEmailConfig loads email configuration from the embedded config.yaml
func LoadEmailConfig() (*EmailConfig, error) {
	data, err := emailTemplates.ReadFile("emails/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read email config: %w", err)
	}

	var config EmailConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse email config: %w", err)
	}

	return &config, nil
}

// AdminProvisionedData holds data for the administrator provisioning notice
type AdminProvisionedData struct {
	// Administrator data
	Username  string
	Provider  string
	CreatedAt string

	// Config-based data
	BrandName     string
	Tagline       string
	Intro         string
	ProviderLabel string
	TimeLabel     string
	ActionText    string

	// Design colors
	PrimaryColor string
	TextColor    string
	MutedColor   string
	Background   string
	BorderColor  string
}

// NewAdminProvisionedData fills the config-based fields of the notice
func NewAdminProvisionedData(config *EmailConfig, username, provider, createdAt string) AdminProvisionedData {
	return AdminProvisionedData{
		Username:      username,
		Provider:      provider,
		CreatedAt:     createdAt,
		BrandName:     config.Branding.Name,
		Tagline:       config.Branding.Tagline,
		Intro:         config.AdminProvisioned.Intro,
		ProviderLabel: config.AdminProvisioned.ProviderLabel,
		TimeLabel:     config.AdminProvisioned.TimeLabel,
		ActionText:    config.AdminProvisioned.ActionText,
		PrimaryColor:  config.Design.PrimaryColor,
		TextColor:     config.Design.TextColor,
		MutedColor:    config.Design.MutedColor,
		Background:    config.Design.Background,
		BorderColor:   config.Design.BorderColor,
	}
}

// RenderAdminProvisionedHTML renders the provisioning notice HTML template
func RenderAdminProvisionedHTML(data AdminProvisionedData) (string, error) {
	tmplData, err := emailTemplates.ReadFile("emails/admin-provisioned.html")
	if err != nil {
		return "", fmt.Errorf("failed to read admin-provisioned.html: %w", err)
	}

	tmpl, err := template.New("admin-provisioned").Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("failed to parse admin-provisioned template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute admin-provisioned template: %w", err)
	}

	return buf.String(), nil
}

// RenderAdminProvisionedText renders the provisioning notice plain text template
func RenderAdminProvisionedText(data AdminProvisionedData) (string, error) {
	tmplData, err := emailTemplates.ReadFile("emails/admin-provisioned.txt")
	if err != nil {
		return "", fmt.Errorf("failed to read admin-provisioned.txt: %w", err)
	}

	tmpl, err := textTemplate.New("admin-provisioned-text").Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("failed to parse admin-provisioned text template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute admin-provisioned text template: %w", err)
	}

	return buf.String(), nil
}
