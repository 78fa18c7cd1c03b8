package domain

import (
	"time"

	"github.com/google/uuid"
)

// Listing - основная доменная сущность объявления.
// ExternalID - это человекочитаемый последовательный код ("PROP42"),
// он назначается один раз при создании и больше не меняется.
type Listing struct {
	ID         uuid.UUID
	ExternalID string

	Title         string
	Type          string
	Price         float64
	State         string
	City          string
	AreaSqFt      float64
	Bedrooms      int
	Bathrooms     int
	Amenities     []string
	Furnished     bool
	AvailableFrom time.Time
	ListedBy      string
	Tags          []string
	ColorTheme    string
	Rating        float64
	IsVerified    bool
	ListingType   string

	// CreatedBy - владелец объявления. Может быть nil для импортированных
	// (legacy) записей, у которых владелец не зафиксирован.
	CreatedBy *uuid.UUID
	// Owner - отображаемые данные владельца (имя, email), заполняются
	// при чтении из хранилища, если владелец записан.
	Owner *UserInfo

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy сообщает, принадлежит ли объявление указанному пользователю.
func (l *Listing) OwnedBy(userID uuid.UUID) bool {
	return l.CreatedBy != nil && *l.CreatedBy == userID
}

// HasOwner сообщает, зафиксирован ли у объявления владелец.
func (l *Listing) HasOwner() bool {
	return l.CreatedBy != nil
}

// ListingFields - набор полей для создания/обновления объявления.
// Указатели отличают "поле не передано" от нулевого значения (для PUT).
type ListingFields struct {
	Title         *string
	Type          *string
	Price         *float64
	State         *string
	City          *string
	AreaSqFt      *float64
	Bedrooms      *int
	Bathrooms     *int
	Amenities     []string
	Furnished     *bool
	AvailableFrom *time.Time
	ListedBy      *string
	Tags          []string
	ColorTheme    *string
	Rating        *float64
	IsVerified    *bool
	ListingType   *string
}

// PaginatedListings - страница результатов поиска.
type PaginatedListings struct {
	Listings   []Listing
	TotalCount int
	Page       int
	Limit      int
	TotalPages int
}
