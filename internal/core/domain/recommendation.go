package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation - направленная рекомендация объявления одним
// пользователем другому. Направление важно: "отправленные" и
// "полученные" - это выборки разных пользователей.
type Recommendation struct {
	ID          uuid.UUID
	ListingID   uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Message     string
	IsRead      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Заполняются при чтении для отдачи наружу.
	Listing *Listing
	Sender  *UserInfo
}

// PaginatedRecommendations - страница полученных рекомендаций.
type PaginatedRecommendations struct {
	Recommendations []Recommendation
	TotalCount      int
	Page            int
	Limit           int
	TotalPages      int
}
