package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// GetReceivedRecommendationsUseCasePort - полученные рекомендации
// пользователя, страницами, свежие первыми.
type GetReceivedRecommendationsUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedRecommendations, error)
}
