package postgres_adapter

import (
	"context"
	"fmt"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository - доступ к пользователям только на чтение.
// Таблицей users владеет сервис аутентификации.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository - конструктор.
func NewPostgresUserRepository(pool *pgxpool.Pool) (*PostgresUserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresUserRepository{pool: pool}, nil
}

// GetByEmail находит пользователя по email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserInfo, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    "GetByEmail",
	})

	var user domain.UserInfo
	query := "SELECT id, name, email FROM users WHERE email = $1"
	err := r.pool.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if errNoRows(err) {
			repoLogger.Debug("User not found", nil)
			return nil, domain.ErrUserNotFound
		}
		repoLogger.Error("Failed to query user", err, nil)
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
