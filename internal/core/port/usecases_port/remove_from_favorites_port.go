package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

// RemoveFromFavoritesUseCasePort - удаление объявления из избранного.
type RemoveFromFavoritesUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, externalID string) error
}
