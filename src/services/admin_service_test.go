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
	"github.com/staffdesk/employee-directory/src/repositories"
	"github.com/staffdesk/employee-directory/src/repositories/memory"
	"github.com/staffdesk/employee-directory/src/repositories/mock"
)

type recordingNotifier struct {
	sent chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan string, 16)}
}

func (n *recordingNotifier) SendAdminProvisionedNotice(ctx context.Context, username string) error {
	n.sent <- username
	return nil
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAdminRepository()
	svc := NewAdminService(repo, nil)

	created, err := svc.EnsureBootstrapAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := svc.GetAdminByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.AuthProviderLocal, admin.AuthProvider)
	assert.NotEqual(t, "admin123", admin.PasswordHash, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))

	// Second startup leaves the existing administrator alone
	created, err = svc.EnsureBootstrapAdmin(ctx, "admin", "different-password")
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnsureBootstrapAdmin_SkipsWhenAdminsExist(t *testing.T) {
	repo := mock.NewAdminRepository()
	repo.CountFunc = func(ctx context.Context) (int64, error) { return 3, nil }
	svc := NewAdminService(repo, nil)

	created, err := svc.EnsureBootstrapAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, repo.Calls["Create"])
}

func TestEnsureBootstrapAdmin_LostRace(t *testing.T) {
	repo := mock.NewAdminRepository()
	repo.CreateFunc = func(ctx context.Context, admin *models.Administrator) error {
		return repositories.ErrDuplicateKey
	}
	svc := NewAdminService(repo, nil)

	created, err := svc.EnsureBootstrapAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreateAdmin_Validation(t *testing.T) {
	svc := NewAdminService(memory.NewAdminRepository(), nil)

	_, err := svc.CreateAdmin(context.Background(), "", "password123")
	assert.Error(t, err)

	_, err = svc.CreateAdmin(context.Background(), "admin", "short")
	assert.Error(t, err)
}

func TestEnsureFederatedAdmin_CreatesOnce(t *testing.T) {
	ctx := context.Background()
	notifier := newRecordingNotifier()
	svc := NewAdminService(memory.NewAdminRepository(), nil)
	svc.SetNotifier(notifier)

	admin, created, err := svc.EnsureFederatedAdmin(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "jane@example.com", admin.Username)
	assert.Equal(t, models.AuthProviderGoogle, admin.AuthProvider)
	assert.True(t, admin.IsFederated())
	assert.Equal(t, models.FederatedPasswordHash, admin.PasswordHash)

	select {
	case username := <-notifier.sent:
		assert.Equal(t, "jane@example.com", username)
	case <-time.After(2 * time.Second):
		t.Fatal("provisioning notice was not sent")
	}

	again, created, err := svc.EnsureFederatedAdmin(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	select {
	case username := <-notifier.sent:
		t.Fatalf("unexpected second notice for %s", username)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEnsureFederatedAdmin_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAdminRepository()
	svc := NewAdminService(repo, nil)

	const callers = 10
	var wg sync.WaitGroup
	ids := make([]int64, callers)
	createdFlags := make([]bool, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			admin, created, err := svc.EnsureFederatedAdmin(ctx, "race@example.com")
			errs[i] = err
			createdFlags[i] = created
			if admin != nil {
				ids[i] = admin.ID
			}
		}(i)
	}
	wg.Wait()

	createdCount := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "all callers must see the same administrator")
		if createdFlags[i] {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnsureFederatedAdmin_DuplicateKeyIsAlreadyExists(t *testing.T) {
	existing := &models.Administrator{ID: 7, Username: "jane@example.com", AuthProvider: models.AuthProviderGoogle}
	lookups := 0

	repo := mock.NewAdminRepository()
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.Administrator, error) {
		lookups++
		if lookups == 1 {
			return nil, repositories.ErrNotFound
		}
		return existing, nil
	}
	repo.CreateFunc = func(ctx context.Context, admin *models.Administrator) error {
		return repositories.ErrDuplicateKey
	}
	svc := NewAdminService(repo, nil)

	admin, created, err := svc.EnsureFederatedAdmin(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(7), admin.ID)
	assert.Equal(t, 2, lookups)
}

func TestEnsureFederatedAdmin_RepositoryFailure(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := mock.NewAdminRepository()
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.Administrator, error) {
		return nil, dbErr
	}
	svc := NewAdminService(repo, nil)

	_, _, err := svc.EnsureFederatedAdmin(context.Background(), "jane@example.com")
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, repo.Calls["Create"])
}
