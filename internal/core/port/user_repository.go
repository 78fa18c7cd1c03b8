package port

import (
	"context"

	"listings-service/internal/core/domain"
)

// UserRepositoryPort - доступ к данным пользователей только на чтение.
// Учетными записями владеет сервис аутентификации.
type UserRepositoryPort interface {
	// GetByEmail находит пользователя по email.
	// Возвращает domain.ErrUserNotFound, если такого нет.
	GetByEmail(ctx context.Context, email string) (*domain.UserInfo, error)
}
