package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/staffdesk/employee-directory/src/repositories"
	"golang.org/x/crypto/bcrypt"
)

// Login methods reported to analytics
const (
	LoginMethodPassword = "password"
	LoginMethodGoogle   = "google"
)

// Credentials longer than these can never match an account
const (
	maxUsernameLength = 255
	maxPasswordLength = 1024
)

// dummyHash is compared against when the username is unknown so that both
// failure paths cost one bcrypt comparison
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("employee-directory-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to generate dummy hash: %v", err))
	}
	return hash
})

// AuthService authenticates administrators and issues bearer tokens
type AuthService struct {
	admins    repositories.AdminRepository
	adminSvc  *AdminService
	tokens    *TokenService
	identity  IdentityVerifier
	analytics *AnalyticsService
}

// NewAuthService creates a new authentication service. identity may be nil,
// in which case federated login reports ErrFederatedLoginDisabled.
func NewAuthService(admins repositories.AdminRepository, adminSvc *AdminService, tokens *TokenService, identity IdentityVerifier, analytics *AnalyticsService) *AuthService {
	return &AuthService{
		admins:    admins,
		adminSvc:  adminSvc,
		tokens:    tokens,
		identity:  identity,
		analytics: analytics,
	}
}

// FederatedLoginEnabled reports whether an identity verifier is configured
func (s *AuthService) FederatedLoginEnabled() bool {
	return s.identity != nil
}

// Login checks a username and password and issues a token.
// Unknown username and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*IssuedToken, error) {
	if username == "" || password == "" ||
		len(username) > maxUsernameLength || len(password) > maxPasswordLength {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up administrator: %w", err)
	}

	// Federated administrators sign in only through their identity provider
	if admin.IsFederated() {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.Username)
	if err != nil {
		return nil, err
	}

	s.analytics.TrackAdminLogin(ctx, admin.Username, LoginMethodPassword)
	return token, nil
}

// LoginWithIdentityToken verifies a Google ID token, provisions the
// administrator on first use and issues a token whose subject is the email
func (s *AuthService) LoginWithIdentityToken(ctx context.Context, rawToken string) (*IssuedToken, error) {
	if s.identity == nil {
		return nil, ErrFederatedLoginDisabled
	}

	identity, err := s.identity.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	admin, _, err := s.adminSvc.EnsureFederatedAdmin(ctx, identity.Email)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(admin.Username)
	if err != nil {
		return nil, err
	}

	s.analytics.TrackAdminLogin(ctx, admin.Username, LoginMethodGoogle)
	return token, nil
}

// Authenticate verifies a bearer token and returns the administrator username
func (s *AuthService) Authenticate(tokenString string) (string, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
