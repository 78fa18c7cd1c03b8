package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"
)

// GetListingUseCasePort - детальная карточка объявления.
type GetListingUseCasePort interface {
	Execute(ctx context.Context, externalID string) (*domain.Listing, error)
}
