package usecase

import (
	"context"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/cachekeys"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
)

// AddToFavoritesUseCase - добавление объявления в избранное.
type AddToFavoritesUseCase struct {
	listings  port.ListingStoragePort
	favorites port.FavoritesRepositoryPort
	cache     port.CachePort
}

func NewAddToFavoritesUseCase(listings port.ListingStoragePort, favorites port.FavoritesRepositoryPort, cache port.CachePort) *AddToFavoritesUseCase {
	return &AddToFavoritesUseCase{listings: listings, favorites: favorites, cache: cache}
}

func (uc *AddToFavoritesUseCase) Execute(ctx context.Context, userID uuid.UUID, externalID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "AddToFavorites",
		"user_id":     userID,
		"external_id": externalID,
	})
	ucLogger.Info("Use case started", nil)

	listing, err := uc.listings.GetByExternalID(ctx, externalID)
	if err != nil {
		ucLogger.Warn("Listing lookup failed", port.Fields{"error": err.Error()})
		return err
	}

	if err := uc.favorites.Add(ctx, userID, listing.ID); err != nil {
		ucLogger.Warn("Repository returned an error", port.Fields{"error": err.Error()})
		return err
	}

	if err := uc.cache.Delete(ctx, cachekeys.UserFavorites(userID)); err != nil {
		ucLogger.Warn("Favorites cache invalidation failed, entry will expire by TTL", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
