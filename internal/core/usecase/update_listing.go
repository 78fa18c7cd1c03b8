package usecase

import (
	"context"
	"fmt"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/cachekeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

// UpdateListingUseCase - обновление объявления.
//
// Порядок проверок фиксирован: сначала существование (404), потом
// владение (403). Запись без зафиксированного владельца может
// редактировать любой авторизованный пользователь - это осознанная
// уступка импортированным (legacy) данным.
type UpdateListingUseCase struct {
	storage port.ListingStoragePort
	cache   port.CachePort
	events  port.ListingEventsPort
}

func NewUpdateListingUseCase(storage port.ListingStoragePort, cache port.CachePort, events port.ListingEventsPort) *UpdateListingUseCase {
	return &UpdateListingUseCase{storage: storage, cache: cache, events: events}
}

func (uc *UpdateListingUseCase) Execute(ctx context.Context, caller domain.Caller, externalID string, fields domain.ListingFields) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "UpdateListing",
		"user_id":     caller.ID,
		"external_id": externalID,
	})
	ucLogger.Info("Use case started", nil)

	if err := validateUpdatedFields(fields); err != nil {
		ucLogger.Warn("Validation failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	// Удобства хранятся в каноническом виде, как и в фильтрах поиска.
	if fields.Amenities != nil {
		normalized := domain.NormalizeAmenities(fields.Amenities)
		if normalized == nil {
			normalized = []string{}
		}
		fields.Amenities = normalized
	}

	existing, err := uc.storage.GetByExternalID(ctx, externalID)
	if err != nil {
		ucLogger.Warn("Listing lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	if existing.HasOwner() && !existing.OwnedBy(caller.ID) {
		ucLogger.Warn("Caller is not the owner", port.Fields{"owner_id": existing.CreatedBy})
		return nil, domain.ErrNotOwner
	}

	updated, err := uc.storage.Update(ctx, externalID, fields)
	if err != nil {
		ucLogger.Error("Storage update failed", err, nil)
		return nil, err
	}

	// Инвалидация строго после подтвержденной записи: детальный ключ
	// плюс весь списочный кэш (изменение могло переместить запись
	// между любыми комбинациями фильтров).
	if err := uc.cache.Delete(ctx, cachekeys.ListingDetail(externalID)); err != nil {
		ucLogger.Warn("Detail cache invalidation failed, entry will expire by TTL", port.Fields{"error": err.Error()})
	}
	if err := uc.cache.DeleteByPrefix(ctx, cachekeys.ListingListPrefix); err != nil {
		ucLogger.Warn("List cache invalidation failed, entries will expire by TTL", port.Fields{"error": err.Error()})
	}

	if err := uc.events.PublishChanged(ctx, port.ListingEventUpdated, updated); err != nil {
		ucLogger.Warn("Failed to publish listing event", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return updated, nil
}

// validateUpdatedFields - проверка переданных полей частичного обновления.
// REST-слой уже проверил payload по JSON-схеме; эта проверка держит
// инвариант для вызовов ядра в обход HTTP, зеркально validateRequiredFields.
func validateUpdatedFields(fields domain.ListingFields) error {
	nonEmpty := []struct {
		name  string
		value *string
	}{
		{"title", fields.Title},
		{"type", fields.Type},
		{"state", fields.State},
		{"city", fields.City},
		{"listingType", fields.ListingType},
	}
	for _, f := range nonEmpty {
		if f.value != nil && *f.value == "" {
			return fmt.Errorf("%w: field %q must not be empty", domain.ErrValidation, f.name)
		}
	}
	if fields.Price != nil && *fields.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", domain.ErrValidation)
	}
	return nil
}
