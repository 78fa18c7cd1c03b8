package usecase

import (
	"context"
	"encoding/json"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/cachekeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
)

// GetListingUseCase - детальная карточка объявления, кэш-first.
type GetListingUseCase struct {
	storage  port.ListingStoragePort
	cache    port.CachePort
	cacheTTL time.Duration
}

func NewGetListingUseCase(storage port.ListingStoragePort, cache port.CachePort, cacheTTL time.Duration) *GetListingUseCase {
	return &GetListingUseCase{storage: storage, cache: cache, cacheTTL: cacheTTL}
}

func (uc *GetListingUseCase) Execute(ctx context.Context, externalID string) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	cacheKey := cachekeys.ListingDetail(externalID)

	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetListing",
		"external_id": externalID,
	})
	ucLogger.Info("Use case started", nil)

	if cached, found, err := uc.cache.Get(ctx, cacheKey); err != nil {
		ucLogger.Warn("Cache get failed, falling back to storage", port.Fields{"error": err.Error()})
	} else if found {
		var listing domain.Listing
		if err := json.Unmarshal(cached, &listing); err == nil {
			ucLogger.Info("Cache hit", nil)
			return &listing, nil
		}
		ucLogger.Warn("Cache entry is not deserializable, falling back to storage", port.Fields{"error": err.Error()})
	}

	listing, err := uc.storage.GetByExternalID(ctx, externalID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	if payload, err := json.Marshal(listing); err == nil {
		if err := uc.cache.Set(ctx, cacheKey, payload, uc.cacheTTL); err != nil {
			ucLogger.Warn("Cache set failed", port.Fields{"error": err.Error()})
		}
	}

	ucLogger.Info("Use case finished successfully", nil)
	return listing, nil
}
