package rest

import (
	"time"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// ListingRequest - тело запроса создания/обновления объявления.
// Указатели отличают "поле не передано" от нулевого значения.
type ListingRequest struct {
	Title         *string    `json:"title"`
	Type          *string    `json:"type"`
	Price         *float64   `json:"price"`
	State         *string    `json:"state"`
	City          *string    `json:"city"`
	AreaSqFt      *float64   `json:"area_sq_ft"`
	Bedrooms      *int       `json:"bedrooms"`
	Bathrooms     *int       `json:"bathrooms"`
	Amenities     []string   `json:"amenities"`
	Furnished     *string    `json:"furnished"`
	AvailableFrom *time.Time `json:"available_from"`
	ListedBy      *string    `json:"listed_by"`
	Tags          []string   `json:"tags"`
	ColorTheme    *string    `json:"color_theme"`
	Rating        *float64   `json:"rating"`
	IsVerified    *bool      `json:"is_verified"`
	ListingType   *string    `json:"listing_type"`
}

// toDomainFields маппит DTO в доменный набор полей.
func (req ListingRequest) toDomainFields() domain.ListingFields {
	fields := domain.ListingFields{
		Title:         req.Title,
		Type:          req.Type,
		Price:         req.Price,
		State:         req.State,
		City:          req.City,
		AreaSqFt:      req.AreaSqFt,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Amenities:     req.Amenities,
		AvailableFrom: req.AvailableFrom,
		ListedBy:      req.ListedBy,
		Tags:          req.Tags,
		ColorTheme:    req.ColorTheme,
		Rating:        req.Rating,
		IsVerified:    req.IsVerified,
		ListingType:   req.ListingType,
	}
	if req.Furnished != nil {
		furnished := *req.Furnished == "Yes" || *req.Furnished == "yes" || *req.Furnished == "true"
		fields.Furnished = &furnished
	}
	return fields
}

// FavoriteRequest - тело запроса добавления/удаления из избранного.
type FavoriteRequest struct {
	PropertyID string `json:"property_id"`
}

// SendRecommendationRequest - тело запроса отправки рекомендации.
type SendRecommendationRequest struct {
	PropertyID     string `json:"property_id"`
	RecipientEmail string `json:"recipient_email"`
	Message        string `json:"message"`
}

// UserInfoResponse - данные пользователя в ответах.
type UserInfoResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ListingResponse - карточка объявления в ответах.
type ListingResponse struct {
	ID            uuid.UUID         `json:"id"`
	ExternalID    string            `json:"external_id"`
	Title         string            `json:"title"`
	Type          string            `json:"type"`
	Price         float64           `json:"price"`
	State         string            `json:"state"`
	City          string            `json:"city"`
	AreaSqFt      float64           `json:"area_sq_ft"`
	Bedrooms      int               `json:"bedrooms"`
	Bathrooms     int               `json:"bathrooms"`
	Amenities     []string          `json:"amenities"`
	Furnished     bool              `json:"furnished"`
	AvailableFrom time.Time         `json:"available_from"`
	ListedBy      string            `json:"listed_by"`
	Tags          []string          `json:"tags"`
	ColorTheme    string            `json:"color_theme"`
	Rating        float64           `json:"rating"`
	IsVerified    bool              `json:"is_verified"`
	ListingType   string            `json:"listing_type"`
	Owner         *UserInfoResponse `json:"owner,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func listingToResponse(l domain.Listing) ListingResponse {
	resp := ListingResponse{
		ID:            l.ID,
		ExternalID:    l.ExternalID,
		Title:         l.Title,
		Type:          l.Type,
		Price:         l.Price,
		State:         l.State,
		City:          l.City,
		AreaSqFt:      l.AreaSqFt,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		Amenities:     l.Amenities,
		Furnished:     l.Furnished,
		AvailableFrom: l.AvailableFrom,
		ListedBy:      l.ListedBy,
		Tags:          l.Tags,
		ColorTheme:    l.ColorTheme,
		Rating:        l.Rating,
		IsVerified:    l.IsVerified,
		ListingType:   l.ListingType,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.Owner != nil {
		resp.Owner = &UserInfoResponse{ID: l.Owner.ID, Name: l.Owner.Name, Email: l.Owner.Email}
	}
	return resp
}

// PaginatedListingsResponse - страница объявлений.
type PaginatedListingsResponse struct {
	Data       []ListingResponse `json:"data"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// RecommendationResponse - рекомендация в ответах.
type RecommendationResponse struct {
	ID        uuid.UUID         `json:"id"`
	Message   string            `json:"message"`
	IsRead    bool              `json:"is_read"`
	Listing   *ListingResponse  `json:"listing,omitempty"`
	Sender    *UserInfoResponse `json:"sender,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func recommendationToResponse(rec domain.Recommendation) RecommendationResponse {
	resp := RecommendationResponse{
		ID:        rec.ID,
		Message:   rec.Message,
		IsRead:    rec.IsRead,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Listing != nil {
		listing := listingToResponse(*rec.Listing)
		resp.Listing = &listing
	}
	if rec.Sender != nil {
		resp.Sender = &UserInfoResponse{ID: rec.Sender.ID, Name: rec.Sender.Name, Email: rec.Sender.Email}
	}
	return resp
}

// PaginatedRecommendationsResponse - страница рекомендаций.
type PaginatedRecommendationsResponse struct {
	Data       []RecommendationResponse `json:"data"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
}

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
