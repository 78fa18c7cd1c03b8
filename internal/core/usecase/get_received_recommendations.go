package usecase

import (
	"context"
	"encoding/json"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/cachekeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
)

// GetReceivedRecommendationsUseCase - полученные рекомендации
// пользователя, страницами, свежие первыми, кэш-first.
type GetReceivedRecommendationsUseCase struct {
	recommendations port.RecommendationStoragePort
	cache           port.CachePort
	cacheTTL        time.Duration
}

func NewGetReceivedRecommendationsUseCase(recommendations port.RecommendationStoragePort, cache port.CachePort, cacheTTL time.Duration) *GetReceivedRecommendationsUseCase {
	return &GetReceivedRecommendationsUseCase{recommendations: recommendations, cache: cache, cacheTTL: cacheTTL}
}

func (uc *GetReceivedRecommendationsUseCase) Execute(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedRecommendations, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	if page < 1 {
		page = domain.DefaultPage
	}
	if limit < 1 {
		limit = domain.DefaultLimit
	}
	if limit > domain.MaxLimit {
		limit = domain.MaxLimit
	}

	cacheKey := cachekeys.RecommendationsReceived(userID, page, limit)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetReceivedRecommendations",
		"user_id":  userID,
		"page":     page,
		"limit":    limit,
	})
	ucLogger.Info("Use case started", nil)

	if cached, found, err := uc.cache.Get(ctx, cacheKey); err != nil {
		ucLogger.Warn("Cache get failed, falling back to storage", port.Fields{"error": err.Error()})
	} else if found {
		var result domain.PaginatedRecommendations
		if err := json.Unmarshal(cached, &result); err == nil {
			ucLogger.Info("Cache hit", port.Fields{"total_found": result.TotalCount})
			return &result, nil
		}
		ucLogger.Warn("Cache entry is not deserializable, falling back to storage", port.Fields{"error": err.Error()})
	}

	result, err := uc.recommendations.FindReceived(ctx, userID, page, limit)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := uc.cache.Set(ctx, cacheKey, payload, uc.cacheTTL); err != nil {
			ucLogger.Warn("Cache set failed", port.Fields{"error": err.Error()})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Recommendations),
	})
	return result, nil
}
