package port

import (
	"context"

	"listings-service/internal/core/domain"
)

// ListingStoragePort - контракт хранилища объявлений.
// Отсутствие записи адаптер сигнализирует через domain.ErrListingNotFound.
type ListingStoragePort interface {
	// FindWithFilters возвращает страницу выдачи и общее количество
	// под нормализованным фильтром.
	FindWithFilters(ctx context.Context, filters domain.ListingFilters) (*domain.PaginatedListings, error)

	// GetByExternalID читает объявление по внешнему коду ("PROP42").
	GetByExternalID(ctx context.Context, externalID string) (*domain.Listing, error)

	// Insert сохраняет новое объявление и возвращает его с заполненными
	// ID и временными метками.
	Insert(ctx context.Context, listing domain.Listing) (*domain.Listing, error)

	// Update применяет переданные поля к существующей записи.
	Update(ctx context.Context, externalID string, fields domain.ListingFields) (*domain.Listing, error)

	// Delete удаляет запись по внешнему коду.
	Delete(ctx context.Context, externalID string) error
}
