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

// RemoveFromFavoritesUseCase - удаление объявления из избранного.
// Операция идемпотентна: повторный вызов и вызов для несуществующего
// объявления завершаются успешно, ключ кэша инвалидируется в любом случае.
type RemoveFromFavoritesUseCase struct {
	listings  port.ListingStoragePort
	favorites port.FavoritesRepositoryPort
	cache     port.CachePort
}

func NewRemoveFromFavoritesUseCase(listings port.ListingStoragePort, favorites port.FavoritesRepositoryPort, cache port.CachePort) *RemoveFromFavoritesUseCase {
	return &RemoveFromFavoritesUseCase{listings: listings, favorites: favorites, cache: cache}
}

func (uc *RemoveFromFavoritesUseCase) Execute(ctx context.Context, userID uuid.UUID, externalID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "RemoveFromFavorites",
		"user_id":     userID,
		"external_id": externalID,
	})
	ucLogger.Info("Use case started", nil)

	listing, err := uc.listings.GetByExternalID(ctx, externalID)
	if err != nil {
		if !errors.Is(err, domain.ErrListingNotFound) {
			ucLogger.Error("Listing lookup failed", err, nil)
			return err
		}
		ucLogger.Warn("Listing no longer exists, nothing to remove", nil)
	} else {
		if err := uc.favorites.Remove(ctx, userID, listing.ID); err != nil {
			ucLogger.Error("Repository returned an error", err, nil)
			return err
		}
	}

	if err := uc.cache.Delete(ctx, cachekeys.UserFavorites(userID)); err != nil {
		ucLogger.Warn("Favorites cache invalidation failed, entry will expire by TTL", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
