package postgres

import (
	"testing"

	"github.com/staffdesk/employee-directory/src/database"
	"github.com/staffdesk/employee-directory/src/repositories/repotest"
)

func TestAdminRepository(t *testing.T) {
	database.WithTestDB(t, func(tdb *database.TestDB) {
		repotest.RunAdminRepository(t, NewAdminRepository(tdb.Pool))
	})
}

func TestAdminRepository_ConcurrentCreate(t *testing.T) {
	database.WithTestDB(t, func(tdb *database.TestDB) {
		repotest.RunAdminRepositoryConcurrentCreate(t, NewAdminRepository(tdb.Pool))
	})
}

func TestEmployeeRepository(t *testing.T) {
	database.WithTestDB(t, func(tdb *database.TestDB) {
		repotest.RunEmployeeRepository(t, NewEmployeeRepository(tdb.Pool))

		n, err := tdb.CountRows("employees")
		if err != nil {
			t.Fatalf("count employees: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 employee left, got %d", n)
		}
	})
}
