package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

// AddToFavoritesUseCasePort - добавление объявления в избранное.
type AddToFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, externalID string) error
}
