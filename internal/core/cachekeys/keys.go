// Package cachekeys владеет соглашениями об именовании ключей кэша.
// Все ключи строятся только здесь, чтобы инвалидация по префиксу
// гарантированно накрывала все записи соответствующего вида.
package cachekeys

import (
	"fmt"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// Префиксы для инвалидации целых семейств ключей.
const (
	ListingDetailPrefix           = "listing-detail:"
	ListingListPrefix             = "listing-list:"
	FavoritesPrefix               = "favorites:"
	RecommendationsReceivedPrefix = "recommendations-received:"
)

// ListingDetail - ключ детальной карточки объявления.
func ListingDetail(externalID string) string {
	return ListingDetailPrefix + externalID
}

// ListingList - ключ страницы поисковой выдачи. Первый сегмент -
// канонический ключ фильтра, поэтому эквивалентные запросы
// попадают в одну и ту же запись кэша.
func ListingList(filters domain.ListingFilters) string {
	n := filters.Normalize()
	return fmt.Sprintf("%s%s:%d:%d:%s:%s",
		ListingListPrefix, n.CanonicalKey(), n.Page, n.Limit, n.SortBy, n.SortOrder)
}

// UserFavorites - ключ избранного пользователя.
func UserFavorites(userID uuid.UUID) string {
	return FavoritesPrefix + userID.String()
}

// RecommendationsReceived - ключ страницы полученных рекомендаций.
func RecommendationsReceived(userID uuid.UUID, page, limit int) string {
	return fmt.Sprintf("%s%s:%d:%d", RecommendationsReceivedPrefix, userID, page, limit)
}

// RecommendationsReceivedForUser - префикс всех страниц рекомендаций
// одного получателя, для точечной инвалидации при отправке новой.
func RecommendationsReceivedForUser(userID uuid.UUID) string {
	return RecommendationsReceivedPrefix + userID.String() + ":"
}
