// Package repotest holds behaviour tests shared by every repository implementation
package repotest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/repositories"
)

func strPtr(s string) *string { return &s }

func newEmployee(email string) *models.Employee {
	hired := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	salary := decimal.RequireFromString("12000.50")
	return &models.Employee{
		Name:       "Grace Hopper",
		Email:      email,
		Position:   "Admiral",
		Department: "Navy",
		Phone:      strPtr("555-0100"),
		HireDate:   &hired,
		Salary:     &salary,
	}
}

// findEmployee returns the listed employee with id, or nil
func findEmployee(t *testing.T, repo repositories.EmployeeRepository, id int64) *models.Employee {
	t.Helper()
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

// RunAdminRepository exercises an AdminRepository implementation
func RunAdminRepository(t *testing.T, repo repositories.AdminRepository) {
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = repo.GetByUsername(ctx, "admin")
	assert.True(t, errors.Is(err, repositories.ErrNotFound), "got %v", err)

	admin := &models.Administrator{Username: "admin", PasswordHash: "hash", AuthProvider: models.AuthProviderLocal}
	require.NoError(t, repo.Create(ctx, admin))
	assert.NotZero(t, admin.ID)
	assert.False(t, admin.CreatedAt.IsZero())

	dup := &models.Administrator{Username: "admin", PasswordHash: "other", AuthProvider: models.AuthProviderLocal}
	err = repo.Create(ctx, dup)
	assert.True(t, errors.Is(err, repositories.ErrDuplicateKey), "got %v", err)

	got, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, models.AuthProviderLocal, got.AuthProvider)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// RunAdminRepositoryConcurrentCreate checks that racing inserts of one username
// produce exactly one row, with every loser seeing ErrDuplicateKey
func RunAdminRepositoryConcurrentCreate(t *testing.T, repo repositories.AdminRepository) {
	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, &models.Administrator{
				Username:     "racer@example.com",
				PasswordHash: models.FederatedPasswordHash,
				AuthProvider: models.AuthProviderGoogle,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, repositories.ErrDuplicateKey), "unexpected error %v", err)
	}
	assert.Equal(t, 1, succeeded)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// RunEmployeeRepository exercises an EmployeeRepository implementation
func RunEmployeeRepository(t *testing.T, repo repositories.EmployeeRepository) {
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	first := newEmployee("grace@example.com")
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	second := newEmployee("alan@example.com")
	second.Phone, second.HireDate, second.Salary = nil, nil, nil
	require.NoError(t, repo.Create(ctx, second))
	assert.Greater(t, second.ID, first.ID)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, newEmployee("grace@example.com"))
		assert.True(t, errors.Is(err, repositories.ErrDuplicateKey), "got %v", err)

		exists, err := repo.ExistsByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list ordered by id with values round-tripped", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)

		require.NotNil(t, list[0].Salary)
		assert.True(t, list[0].Salary.Equal(decimal.RequireFromString("12000.5")))
		require.NotNil(t, list[0].HireDate)
		assert.Equal(t, "2020-01-15", list[0].HireDate.Format(models.DateLayout))
		require.NotNil(t, list[0].Phone)
		assert.Equal(t, "555-0100", *list[0].Phone)

		assert.Nil(t, list[1].Salary)
		assert.Nil(t, list[1].HireDate)
		assert.Nil(t, list[1].Phone)
	})

	t.Run("update applies mutation", func(t *testing.T) {
		updated, err := repo.Update(ctx, first.ID, func(e *models.Employee) error {
			e.Phone = strPtr("555-1234")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "555-1234", *updated.Phone)
		assert.Equal(t, "grace@example.com", updated.Email)

		got := findEmployee(t, repo, first.ID)
		require.NotNil(t, got)
		assert.Equal(t, "555-1234", *got.Phone)
		assert.Equal(t, "Grace Hopper", got.Name)
	})

	t.Run("update rejected by mutator leaves row untouched", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := repo.Update(ctx, first.ID, func(e *models.Employee) error {
			e.Name = "changed"
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got := findEmployee(t, repo, first.ID)
		require.NotNil(t, got)
		assert.Equal(t, "Grace Hopper", got.Name)
	})

	t.Run("update to taken email", func(t *testing.T) {
		_, err := repo.Update(ctx, second.ID, func(e *models.Employee) error {
			e.Email = "grace@example.com"
			return nil
		})
		assert.True(t, errors.Is(err, repositories.ErrDuplicateKey), "got %v", err)

		got := findEmployee(t, repo, second.ID)
		require.NotNil(t, got)
		assert.Equal(t, "alan@example.com", got.Email)
	})

	t.Run("update unknown id", func(t *testing.T) {
		_, err := repo.Update(ctx, 999999, func(e *models.Employee) error { return nil })
		assert.True(t, errors.Is(err, repositories.ErrNotFound), "got %v", err)
	})

	t.Run("delete", func(t *testing.T) {
		err := repo.Delete(ctx, 999999)
		assert.True(t, errors.Is(err, repositories.ErrNotFound), "got %v", err)

		require.NoError(t, repo.Delete(ctx, second.ID))
		assert.Nil(t, findEmployee(t, repo, second.ID))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
