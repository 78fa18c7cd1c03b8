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

// FindListingsUseCase - публичный поиск объявлений.
// Кэш опрашивается до хранилища; промах и любая ошибка кэша ведут
// в Postgres, так что кэш никогда не является условием корректности.
type FindListingsUseCase struct {
	storage  port.ListingStoragePort
	cache    port.CachePort
	cacheTTL time.Duration
}

func NewFindListingsUseCase(storage port.ListingStoragePort, cache port.CachePort, cacheTTL time.Duration) *FindListingsUseCase {
	return &FindListingsUseCase{storage: storage, cache: cache, cacheTTL: cacheTTL}
}

func (uc *FindListingsUseCase) Execute(ctx context.Context, filters domain.ListingFilters) (*domain.PaginatedListings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	normalized := filters.Normalize()
	cacheKey := cachekeys.ListingList(normalized)

	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "FindListings",
		"filters":   normalized.String(),
		"cache_key": cacheKey,
	})
	ucLogger.Info("Use case started", nil)

	if cached, found, err := uc.cache.Get(ctx, cacheKey); err != nil {
		ucLogger.Warn("Cache get failed, falling back to storage", port.Fields{"error": err.Error()})
	} else if found {
		var result domain.PaginatedListings
		if err := json.Unmarshal(cached, &result); err == nil {
			ucLogger.Info("Cache hit", port.Fields{"total_found": result.TotalCount})
			return &result, nil
		}
		ucLogger.Warn("Cache entry is not deserializable, falling back to storage", port.Fields{"error": err.Error()})
	}

	result, err := uc.storage.FindWithFilters(ctx, normalized)
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
		"items_on_page": len(result.Listings),
	})
	return result, nil
}
