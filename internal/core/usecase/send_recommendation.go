package usecase

import (
	"context"
	"errors"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/cachekeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
)

// SendRecommendationUseCase - отправка рекомендации объявления
// другому пользователю. Получатель определяется по email.
// Рекомендация самому себе не запрещается.
type SendRecommendationUseCase struct {
	listings        port.ListingStoragePort
	users           port.UserRepositoryPort
	recommendations port.RecommendationStoragePort
	cache           port.CachePort
}

func NewSendRecommendationUseCase(listings port.ListingStoragePort, users port.UserRepositoryPort, recommendations port.RecommendationStoragePort, cache port.CachePort) *SendRecommendationUseCase {
	return &SendRecommendationUseCase{listings: listings, users: users, recommendations: recommendations, cache: cache}
}

func (uc *SendRecommendationUseCase) Execute(ctx context.Context, senderID uuid.UUID, externalID, recipientEmail, message string) (*domain.Recommendation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SendRecommendation",
		"sender_id":   senderID,
		"external_id": externalID,
	})
	ucLogger.Info("Use case started", nil)

	recipient, err := uc.users.GetByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			ucLogger.Warn("Recipient not found", nil)
			return nil, domain.ErrRecipientNotFound
		}
		ucLogger.Error("User lookup failed", err, nil)
		return nil, err
	}

	listing, err := uc.listings.GetByExternalID(ctx, externalID)
	if err != nil {
		ucLogger.Warn("Listing lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	rec := domain.Recommendation{
		ListingID:   listing.ID,
		SenderID:    senderID,
		RecipientID: recipient.ID,
		Message:     message,
	}

	stored, err := uc.recommendations.Insert(ctx, rec)
	if err != nil {
		ucLogger.Error("Storage insert failed", err, nil)
		return nil, err
	}

	// Сбрасываем все страницы полученных рекомендаций получателя.
	if err := uc.cache.DeleteByPrefix(ctx, cachekeys.RecommendationsReceivedForUser(recipient.ID)); err != nil {
		ucLogger.Warn("Recommendations cache invalidation failed, entries will expire by TTL", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"recommendation_id": stored.ID})
	return stored, nil
}
