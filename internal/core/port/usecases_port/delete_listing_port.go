package usecases_port

import (
	"context"

	"listings-service/internal/core/domain"
)

// DeleteListingUseCasePort - удаление объявления владельцем
// (или любым авторизованным пользователем, если владелец не записан).
type DeleteListingUseCasePort interface {
	Execute(ctx context.Context, caller domain.Caller, externalID string) error
}
