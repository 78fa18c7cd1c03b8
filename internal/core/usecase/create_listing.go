package usecase

import (
	"context"
	"fmt"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/cachekeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

// CreateListingUseCase - создание объявления.
//
// Внешний код выделяется атомарным аллокатором до вставки; владельцем
// становится вызывающий. Инвалидация списочных ключей выполняется только
// после подтвержденной записи в хранилище: новая запись может попасть
// на любую страницу любой комбинации фильтров, поэтому списочный кэш
// сбрасывается целиком по префиксу.
type CreateListingUseCase struct {
	storage  port.ListingStoragePort
	sequence port.SequenceAllocatorPort
	cache    port.CachePort
	events   port.ListingEventsPort
}

func NewCreateListingUseCase(storage port.ListingStoragePort, sequence port.SequenceAllocatorPort, cache port.CachePort, events port.ListingEventsPort) *CreateListingUseCase {
	return &CreateListingUseCase{storage: storage, sequence: sequence, cache: cache, events: events}
}

func (uc *CreateListingUseCase) Execute(ctx context.Context, caller domain.Caller, fields domain.ListingFields) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CreateListing",
		"user_id":  caller.ID,
	})
	ucLogger.Info("Use case started", nil)

	if err := validateRequiredFields(fields); err != nil {
		ucLogger.Warn("Validation failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	externalID, err := uc.sequence.Next(ctx)
	if err != nil {
		ucLogger.Error("Sequence allocator returned an error", err, nil)
		return nil, fmt.Errorf("failed to allocate listing id: %w", err)
	}

	ownerID := caller.ID
	listing := domain.Listing{
		ExternalID:  externalID,
		Title:       *fields.Title,
		Type:        *fields.Type,
		Price:       *fields.Price,
		State:       *fields.State,
		City:        *fields.City,
		Amenities:   domain.NormalizeAmenities(fields.Amenities),
		Tags:        fields.Tags,
		ListingType: *fields.ListingType,
		CreatedBy:   &ownerID,
	}
	applyOptionalFields(&listing, fields)

	stored, err := uc.storage.Insert(ctx, listing)
	if err != nil {
		ucLogger.Error("Storage insert failed", err, port.Fields{"external_id": externalID})
		return nil, err
	}

	// Инвалидация строго после подтвержденной записи.
	if err := uc.cache.DeleteByPrefix(ctx, cachekeys.ListingListPrefix); err != nil {
		ucLogger.Warn("List cache invalidation failed, entries will expire by TTL", port.Fields{"error": err.Error()})
	}

	if err := uc.events.PublishChanged(ctx, port.ListingEventCreated, stored); err != nil {
		ucLogger.Warn("Failed to publish listing event", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"external_id": stored.ExternalID})
	return stored, nil
}

// validateRequiredFields - проверка обязательных полей создания.
// REST-слой уже проверил payload по JSON-схеме; эта проверка держит
// инвариант для вызовов ядра в обход HTTP (тесты, будущие консьюмеры).
func validateRequiredFields(fields domain.ListingFields) error {
	// Фиксированный порядок проверок дает детерминированное сообщение
	// об ошибке при нескольких пропущенных полях.
	required := []struct {
		name string
		ok   bool
	}{
		{"title", fields.Title != nil && *fields.Title != ""},
		{"type", fields.Type != nil && *fields.Type != ""},
		{"price", fields.Price != nil},
		{"state", fields.State != nil && *fields.State != ""},
		{"city", fields.City != nil && *fields.City != ""},
		{"listingType", fields.ListingType != nil && *fields.ListingType != ""},
	}
	for _, check := range required {
		if !check.ok {
			return fmt.Errorf("%w: missing required field %q", domain.ErrValidation, check.name)
		}
	}
	if *fields.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", domain.ErrValidation)
	}
	return nil
}

// applyOptionalFields переносит необязательные поля запроса в сущность.
func applyOptionalFields(l *domain.Listing, fields domain.ListingFields) {
	if fields.AreaSqFt != nil {
		l.AreaSqFt = *fields.AreaSqFt
	}
	if fields.Bedrooms != nil {
		l.Bedrooms = *fields.Bedrooms
	}
	if fields.Bathrooms != nil {
		l.Bathrooms = *fields.Bathrooms
	}
	if fields.Furnished != nil {
		l.Furnished = *fields.Furnished
	}
	if fields.AvailableFrom != nil {
		l.AvailableFrom = *fields.AvailableFrom
	}
	if fields.ListedBy != nil {
		l.ListedBy = *fields.ListedBy
	}
	if fields.ColorTheme != nil {
		l.ColorTheme = *fields.ColorTheme
	}
	if fields.Rating != nil {
		l.Rating = *fields.Rating
	}
	if fields.IsVerified != nil {
		l.IsVerified = *fields.IsVerified
	}
}
