package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/staffdesk/employee-directory/src/logging"
	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/repositories"
	"golang.org/x/crypto/bcrypt"
)

// ProvisioningNotifier is told when a federated administrator is created
type ProvisioningNotifier interface {
	SendAdminProvisionedNotice(ctx context.Context, username string) error
}

// AdminService handles administrator accounts
type AdminService struct {
	repo      repositories.AdminRepository
	analytics *AnalyticsService
	notifier  ProvisioningNotifier
}

// NewAdminService creates a new admin service
func NewAdminService(repo repositories.AdminRepository, analytics *AnalyticsService) *AdminService {
	return &AdminService{repo: repo, analytics: analytics}
}

// SetNotifier enables provisioning notices
func (as *AdminService) SetNotifier(n ProvisioningNotifier) {
	as.notifier = n
}

// CreateAdmin creates a local administrator with a bcrypt-hashed password
func (as *AdminService) CreateAdmin(ctx context.Context, username, password string) (*models.Administrator, error) {
	if len(username) < 1 || len(username) > maxUsernameLength {
		return nil, errors.New("username must be between 1 and 255 characters")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Administrator{
		Username:     username,
		PasswordHash: string(hash),
		AuthProvider: models.AuthProviderLocal,
	}
	if err := as.repo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	return admin, nil
}

// HasAdmins checks if any administrators exist
func (as *AdminService) HasAdmins(ctx context.Context) (bool, error) {
	count, err := as.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check admin users: %w", err)
	}
	return count > 0, nil
}

// EnsureBootstrapAdmin creates the initial administrator when none exist.
// Returns true if an administrator was created.
func (as *AdminService) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	hasAdmins, err := as.HasAdmins(ctx)
	if err != nil {
		return false, err
	}
	if hasAdmins {
		return false, nil
	}

	if _, err := as.CreateAdmin(ctx, username, password); err != nil {
		// another instance bootstrapped first
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetAdminByUsername retrieves an administrator by username
func (as *AdminService) GetAdminByUsername(ctx context.Context, username string) (*models.Administrator, error) {
	admin, err := as.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("admin user not found: %w", err)
	}
	return admin, nil
}

// EnsureFederatedAdmin returns the administrator for a verified email, creating
// it on first use. Concurrent first logins converge on the single row the
// unique constraint lets through. created is true only for the caller whose
// insert won.
func (as *AdminService) EnsureFederatedAdmin(ctx context.Context, email string) (admin *models.Administrator, created bool, err error) {
	admin, err = as.repo.GetByUsername(ctx, email)
	if err == nil {
		return admin, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up administrator: %w", err)
	}

	admin = &models.Administrator{
		Username:     email,
		PasswordHash: models.FederatedPasswordHash,
		AuthProvider: models.AuthProviderGoogle,
	}
	err = as.repo.Create(ctx, admin)
	switch {
	case err == nil:
		as.onProvisioned(admin)
		return admin, true, nil
	case errors.Is(err, repositories.ErrDuplicateKey):
		existing, getErr := as.repo.GetByUsername(ctx, email)
		if getErr != nil {
			return nil, false, fmt.Errorf("failed to read concurrently provisioned administrator: %w", getErr)
		}
		return existing, false, nil
	default:
		return nil, false, fmt.Errorf("failed to provision administrator: %w", err)
	}
}

func (as *AdminService) onProvisioned(admin *models.Administrator) {
	logger := logging.NewLogger("admin")
	logger.Info().
		Int64("admin_id", admin.ID).
		Str("username", admin.Username).
		Str("provider", string(admin.AuthProvider)).
		Msg("federated administrator provisioned")

	as.analytics.TrackAdminProvisioned(context.Background(), admin.Username, string(admin.AuthProvider))

	if as.notifier == nil {
		return
	}
	// Notice delivery must not hold up the login response
	go func(username string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := as.notifier.SendAdminProvisionedNotice(ctx, username); err != nil {
			logger.Error().Err(err).Str("username", username).Msg("failed to send provisioning notice")
		}
	}(admin.Username)
}
