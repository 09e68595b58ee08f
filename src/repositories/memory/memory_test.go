package memory

import (
	"testing"

	"github.com/staffdesk/employee-directory/src/repositories/repotest"
)

func TestAdminRepository(t *testing.T) {
	repotest.RunAdminRepository(t, NewAdminRepository())
}

func TestAdminRepository_ConcurrentCreate(t *testing.T) {
	repotest.RunAdminRepositoryConcurrentCreate(t, NewAdminRepository())
}

func TestEmployeeRepository(t *testing.T) {
	repotest.RunEmployeeRepository(t, NewEmployeeRepository())
}
