package port

import (
	"context"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// FavoritesRepositoryPort - контракт хранилища избранного (user <-> listing).
type FavoritesRepositoryPort interface {
	// Add добавляет объявление в избранное. Повторное добавление
	// возвращает domain.ErrAlreadyInFavorites.
	Add(ctx context.Context, userID, listingID uuid.UUID) error

	// Remove удаляет объявление из избранного. Идемпотентна: удаление
	// отсутствующей записи ошибкой не считается.
	Remove(ctx context.Context, userID, listingID uuid.UUID) error

	// FindByUser возвращает избранные объявления пользователя
	// с заполненными данными владельцев.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error)
}
