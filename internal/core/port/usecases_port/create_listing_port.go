package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"
)

// CreateListingUseCasePort - создание объявления авторизованным пользователем.
type CreateListingUseCasePort interface {
	Execute(ctx context.Context, caller domain.Caller, fields domain.ListingFields) (*domain.Listing, error)
}
