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

// GetUserFavoritesUseCase - избранные объявления пользователя, кэш-first.
type GetUserFavoritesUseCase struct {
	favorites port.FavoritesRepositoryPort
	cache     port.CachePort
	cacheTTL  time.Duration
}

func NewGetUserFavoritesUseCase(favorites port.FavoritesRepositoryPort, cache port.CachePort, cacheTTL time.Duration) *GetUserFavoritesUseCase {
	return &GetUserFavoritesUseCase{favorites: favorites, cache: cache, cacheTTL: cacheTTL}
}

func (uc *GetUserFavoritesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	cacheKey := cachekeys.UserFavorites(userID)

	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetUserFavorites",
		"user_id":  userID,
	})
	ucLogger.Info("Use case started", nil)

	if cached, found, err := uc.cache.Get(ctx, cacheKey); err != nil {
		ucLogger.Warn("Cache get failed, falling back to storage", port.Fields{"error": err.Error()})
	} else if found {
		var listings []domain.Listing
		if err := json.Unmarshal(cached, &listings); err == nil {
			ucLogger.Info("Cache hit", port.Fields{"count": len(listings)})
			return listings, nil
		}
		ucLogger.Warn("Cache entry is not deserializable, falling back to storage", port.Fields{"error": err.Error()})
	}

	listings, err := uc.favorites.FindByUser(ctx, userID)
	if err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return nil, err
	}

	if payload, err := json.Marshal(listings); err == nil {
		if err := uc.cache.Set(ctx, cacheKey, payload, uc.cacheTTL); err != nil {
			ucLogger.Warn("Cache set failed", port.Fields{"error": err.Error()})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(listings)})
	return listings, nil
}
