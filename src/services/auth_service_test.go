package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/repositories/memory"
	"github.com/staffdesk/employee-directory/src/repositories/mock"
)

// stubIdentityVerifier returns a fixed identity or error
type stubIdentityVerifier struct {
	VerifyFunc func(ctx context.Context, rawToken string) (*Identity, error)
}

func (s *stubIdentityVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	return s.VerifyFunc(ctx, rawToken)
}

func verifierFor(email string) *stubIdentityVerifier {
	return &stubIdentityVerifier{VerifyFunc: func(ctx context.Context, rawToken string) (*Identity, error) {
		if rawToken != "good-google-token" {
			return nil, ErrInvalidToken
		}
		return &Identity{Subject: "google-sub", Email: email}, nil
	}}
}

type authFixture struct {
	admins *memory.AdminRepository
	tokens *TokenService
	auth   *AuthService
}

func newAuthFixture(t *testing.T, identity IdentityVerifier) *authFixture {
	t.Helper()
	admins := memory.NewAdminRepository()
	adminSvc := NewAdminService(admins, nil)
	tokens := newTestTokenService(t)

	_, err := adminSvc.EnsureBootstrapAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	return &authFixture{
		admins: admins,
		tokens: tokens,
		auth:   NewAuthService(admins, adminSvc, tokens, identity, nil),
	}
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t, nil)

	before := time.Now()
	issued, err := f.auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, issued.ExpiresAt.After(before))

	claims, err := f.tokens.Verify(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.True(t, claims.ExpiresAt.After(before))

	username, err := f.auth.Authenticate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, wrongPassword := f.auth.Login(ctx, "admin", "wrong")
	_, unknownUser := f.auth.Login(ctx, "nobody", "admin123")
	_, empty := f.auth.Login(ctx, "", "")

	for _, err := range []error{wrongPassword, unknownUser, empty} {
		assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
		assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
	}
}

func TestLogin_FederatedAdminCannotUsePassword(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.admins.Create(ctx, &models.Administrator{
		Username:     "jane@example.com",
		PasswordHash: models.FederatedPasswordHash,
		AuthProvider: models.AuthProviderGoogle,
	}))

	for _, password := range []string{"", models.FederatedPasswordHash, "anything"} {
		_, err := f.auth.Login(ctx, "jane@example.com", password)
		assert.True(t, errors.Is(err, ErrInvalidCredentials), "password %q: got %v", password, err)
	}
}

func TestLogin_GoogleAccountWithPasswordHashIsRejected(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.admins.Create(ctx, &models.Administrator{
		Username:     "jane@example.com",
		PasswordHash: string(hash),
		AuthProvider: models.AuthProviderGoogle,
	}))

	_, err = f.auth.Login(ctx, "jane@example.com", "secret123")
	assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
}

func TestLogin_RepositoryFailure(t *testing.T) {
	dbErr := errors.New("connection reset")
	repo := mock.NewAdminRepository()
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.Administrator, error) {
		return nil, dbErr
	}
	auth := NewAuthService(repo, NewAdminService(repo, nil), newTestTokenService(t), nil, nil)

	_, err := auth.Login(context.Background(), "admin", "admin123")
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginWithIdentityToken_Disabled(t *testing.T) {
	f := newAuthFixture(t, nil)
	assert.False(t, f.auth.FederatedLoginEnabled())

	_, err := f.auth.LoginWithIdentityToken(context.Background(), "good-google-token")
	assert.True(t, errors.Is(err, ErrFederatedLoginDisabled), "got %v", err)
}

func TestLoginWithIdentityToken_ProvisionsAndIssues(t *testing.T) {
	f := newAuthFixture(t, verifierFor("jane@example.com"))
	ctx := context.Background()
	assert.True(t, f.auth.FederatedLoginEnabled())

	issued, err := f.auth.LoginWithIdentityToken(ctx, "good-google-token")
	require.NoError(t, err)

	claims, err := f.tokens.Verify(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Subject)

	admin, err := f.admins.GetByUsername(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.AuthProviderGoogle, admin.AuthProvider)

	// A second login reuses the same administrator
	_, err = f.auth.LoginWithIdentityToken(ctx, "good-google-token")
	require.NoError(t, err)
	count, err := f.admins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "bootstrap admin plus one federated admin")
}

func TestLoginWithIdentityToken_VerifierErrors(t *testing.T) {
	f := newAuthFixture(t, verifierFor("jane@example.com"))

	_, err := f.auth.LoginWithIdentityToken(context.Background(), "forged")
	assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)

	missing := newAuthFixture(t, &stubIdentityVerifier{VerifyFunc: func(ctx context.Context, rawToken string) (*Identity, error) {
		return nil, ErrIdentityEmailMissing
	}})
	_, err = missing.auth.LoginWithIdentityToken(context.Background(), "good-google-token")
	assert.True(t, errors.Is(err, ErrIdentityEmailMissing), "got %v", err)

	count, err := missing.admins.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "no administrator provisioned on failure")
}

func TestLoginWithIdentityToken_ConcurrentFirstLogins(t *testing.T) {
	f := newAuthFixture(t, verifierFor("new@example.com"))
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	tokens := make([]*IssuedToken, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = f.auth.LoginWithIdentityToken(ctx, "good-google-token")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		claims, err := f.tokens.Verify(tokens[i].Token)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", claims.Subject)
	}

	count, err := f.admins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "exactly one federated administrator row")
}
