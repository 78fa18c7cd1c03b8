package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"
)

// FindListingsUseCasePort - поиск объявлений с фильтрами и пагинацией.
type FindListingsUseCasePort interface {
	Execute(ctx context.Context, filters domain.ListingFilters) (*domain.PaginatedListings, error)
}
