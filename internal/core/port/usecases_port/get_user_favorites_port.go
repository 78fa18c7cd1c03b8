package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// GetUserFavoritesUseCasePort - избранные объявления пользователя.
type GetUserFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error)
}
