package port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// RecommendationStoragePort - контракт хранилища рекомендаций.
type RecommendationStoragePort interface {
	// Insert сохраняет рекомендацию и возвращает ее с ID и метками времени.
	Insert(ctx context.Context, rec domain.Recommendation) (*domain.Recommendation, error)

	// FindReceived возвращает страницу полученных рекомендаций,
	// свежие первыми, с заполненными объявлением и отправителем.
	FindReceived(ctx context.Context, recipientID uuid.UUID, page, limit int) (*domain.PaginatedRecommendations, error)
}
