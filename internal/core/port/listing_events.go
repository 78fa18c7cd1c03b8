package port

import (
	"context"

	"listings-service/internal/core/domain"
)

// Действия над объявлением, о которых уведомляются внешние потребители.
const (
	ListingEventCreated = "listing.created"
	ListingEventUpdated = "listing.updated"
	ListingEventDeleted = "listing.deleted"
)

// ListingEventsPort публикует события мутаций объявлений для внешних
// потребителей (аналитика, переиндексация). Публикация - best-effort:
// ошибки логируются, но запрос из-за них не падает.
type ListingEventsPort interface {
	PublishChanged(ctx context.Context, action string, listing *domain.Listing) error
}
