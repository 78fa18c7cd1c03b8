package usecase

import (
	"context"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/cachekeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

// DeleteListingUseCase - удаление объявления.
// Запись с владельцем удаляет только владелец; запись без владельца
// (импортированная) - любой авторизованный пользователь.
type DeleteListingUseCase struct {
	storage port.ListingStoragePort
	cache   port.CachePort
	events  port.ListingEventsPort
}

func NewDeleteListingUseCase(storage port.ListingStoragePort, cache port.CachePort, events port.ListingEventsPort) *DeleteListingUseCase {
	return &DeleteListingUseCase{storage: storage, cache: cache, events: events}
}

func (uc *DeleteListingUseCase) Execute(ctx context.Context, caller domain.Caller, externalID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "DeleteListing",
		"user_id":     caller.ID,
		"external_id": externalID,
	})
	ucLogger.Info("Use case started", nil)

	existing, err := uc.storage.GetByExternalID(ctx, externalID)
	if err != nil {
		ucLogger.Warn("Listing lookup failed", port.Fields{"error": err.Error()})
		return err
	}

	if existing.HasOwner() && !existing.OwnedBy(caller.ID) {
		ucLogger.Warn("Caller is not the owner", port.Fields{"owner_id": existing.CreatedBy})
		return domain.ErrNotOwner
	}
	if !existing.HasOwner() {
		ucLogger.Info("Deleting imported listing without ownership information", nil)
	}

	if err := uc.storage.Delete(ctx, externalID); err != nil {
		ucLogger.Error("Storage delete failed", err, nil)
		return err
	}

	if err := uc.cache.Delete(ctx, cachekeys.ListingDetail(externalID)); err != nil {
		ucLogger.Warn("Detail cache invalidation failed, entry will expire by TTL", port.Fields{"error": err.Error()})
	}
	if err := uc.cache.DeleteByPrefix(ctx, cachekeys.ListingListPrefix); err != nil {
		ucLogger.Warn("List cache invalidation failed, entries will expire by TTL", port.Fields{"error": err.Error()})
	}

	if err := uc.events.PublishChanged(ctx, port.ListingEventDeleted, existing); err != nil {
		ucLogger.Warn("Failed to publish listing event", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
