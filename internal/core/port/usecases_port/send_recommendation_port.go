package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// SendRecommendationUseCasePort - отправка рекомендации объявления
// другому пользователю по его email.
type SendRecommendationUseCasePort interface {
	Execute(ctx context.Context, senderID uuid.UUID, externalID, recipientEmail, message string) (*domain.Recommendation, error)
}
