package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffdesk/employee-directory/src/models"
	"github.com/staffdesk/employee-directory/src/repositories"
)

// AdminRepository is the pgx implementation of repositories.AdminRepository
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates an administrator repository backed by pool
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Administrator) error {
	query := `
		INSERT INTO administrators (username, password_hash, auth_provider)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, admin.Username, admin.PasswordHash, string(admin.AuthProvider)).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create administrator: %w", translate(err))
	}
	return nil
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Administrator, error) {
	query := `
		SELECT id, username, password_hash, auth_provider, created_at
		FROM administrators
		WHERE username = $1
	`

	admin := &models.Administrator{}
	var provider string
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&admin.ID, &admin.Username, &admin.PasswordHash, &provider, &admin.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get administrator: %w", translate(err))
	}
	admin.AuthProvider = models.AuthProvider(provider)
	return admin, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM administrators").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count administrators: %w", err)
	}
	return count, nil
}

var _ repositories.AdminRepository = (*AdminRepository)(nil)
