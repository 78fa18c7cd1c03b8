package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"
)

// UpdateListingUseCasePort - обновление объявления его владельцем.
type UpdateListingUseCasePort interface {
	Execute(ctx context.Context, caller domain.Caller, externalID string, fields domain.ListingFields) (*domain.Listing, error)
}
