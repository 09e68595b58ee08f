package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/templates"
)

// EmailService sends security notices via Mailgun
type EmailService struct {
	mg        *mailgun.MailgunImpl
	fromEmail string
	fromName  string
	recipient string
	now       func() time.Time
}

// EmailConfig holds Mailgun configuration
type EmailConfig struct {
	Domain    string
	APIKey    string
	FromEmail string
	FromName  string
	Recipient string // mailbox that receives security notices
}

// NewEmailService creates a new email service with Mailgun configuration
func NewEmailService(cfg EmailConfig) *EmailService {
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	mg.SetAPIBase(mailgun.APIBaseEU) // Use EU endpoint for GDPR compliance

	return &EmailService{
		mg:        mg,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		recipient: cfg.Recipient,
		now:       time.Now,
	}
}

// notice is a rendered email
type notice struct {
	subject string
	text    string
	html    string
}

func composeAdminProvisionedNotice(username string, createdAt time.Time) (*notice, error) {
	config, err := templates.LoadEmailConfig()
	if err != nil {
		return nil, err
	}

	data := templates.NewAdminProvisionedData(config, username, string(models.AuthProviderGoogle), createdAt.UTC().Format(time.RFC3339))

	htmlBody, err := templates.RenderAdminProvisionedHTML(data)
	if err != nil {
		return nil, err
	}
	textBody, err := templates.RenderAdminProvisionedText(data)
	if err != nil {
		return nil, err
	}

	return &notice{
		subject: config.Subjects.AdminProvisioned,
		text:    textBody,
		html:    htmlBody,
	}, nil
}

// SendAdminProvisionedNotice tells the security mailbox that a federated
// administrator was created
func (s *EmailService) SendAdminProvisionedNotice(ctx context.Context, username string) error {
	n, err := composeAdminProvisionedNotice(username, s.now())
	if err != nil {
		return fmt.Errorf("failed to render provisioning notice: %w", err)
	}

	message := s.mg.NewMessage(
		fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail),
		n.subject,
		n.text,
		s.recipient,
	)
	message.SetHtml(n.html)

	// Set timeout for sending
	ctxWithTimeout, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	if _, _, err := s.mg.Send(ctxWithTimeout, message); err != nil {
		return fmt.Errorf("failed to send provisioning notice to %s: %w", s.recipient, err)
	}

	return nil
}
