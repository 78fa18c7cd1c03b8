package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Константы пагинации и сортировки по умолчанию.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// allowedSortFields - белый список полей сортировки. Все, что не из списка,
// молча заменяется на сортировку по умолчанию (свежие первыми).
var allowedSortFields = map[string]bool{
	"createdAt": true,
	"price":     true,
	"rating":    true,
	"areaSqFt":  true,
	"bedrooms":  true,
	"bathrooms": true,
}

// ListingFilters - набор опциональных параметров поиска объявлений.
// Указатели отличают "фильтр не задан" от нулевого значения.
type ListingFilters struct {
	Type      *string
	MinPrice  *float64
	MaxPrice  *float64
	Bedrooms  *int
	Bathrooms *int
	City      *string
	State     *string
	Furnished *bool
	Amenities []string

	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Normalize приводит фильтр к каноническому виду: регистронезависимые поля
// опускаются в нижний регистр, удобства сортируются и дедуплицируются,
// пагинация и сортировка зажимаются в допустимые диапазоны.
// Исходный фильтр не меняется.
func (f ListingFilters) Normalize() ListingFilters {
	n := f

	n.Type = normalizeStringPtr(f.Type)
	n.City = normalizeStringPtr(f.City)
	n.State = normalizeStringPtr(f.State)
	n.Amenities = NormalizeAmenities(f.Amenities)

	if !allowedSortFields[n.SortBy] {
		n.SortBy = DefaultSortBy
	}
	if n.SortOrder != "asc" && n.SortOrder != "desc" {
		n.SortOrder = DefaultSortOrder
	}
	if n.Page < 1 {
		n.Page = DefaultPage
	}
	if n.Limit < 1 {
		n.Limit = DefaultLimit
	}
	if n.Limit > MaxLimit {
		n.Limit = MaxLimit
	}

	return n
}

// CanonicalKey строит детерминированное строковое представление
// нормализованного фильтра. Эквивалентные фильтры (другой регистр города,
// переставленные удобства) дают одну и ту же строку - это основа
// ключей кэша списков. Пагинация и сортировка сюда не входят,
// они добавляются отдельными сегментами ключа.
func (f ListingFilters) CanonicalKey() string {
	n := f.Normalize()

	parts := make([]string, 0, 9)
	if n.Type != nil {
		parts = append(parts, "type="+*n.Type)
	}
	if n.MinPrice != nil {
		parts = append(parts, "minPrice="+formatFloat(*n.MinPrice))
	}
	if n.MaxPrice != nil {
		parts = append(parts, "maxPrice="+formatFloat(*n.MaxPrice))
	}
	if n.Bedrooms != nil {
		parts = append(parts, "bedrooms="+strconv.Itoa(*n.Bedrooms))
	}
	if n.Bathrooms != nil {
		parts = append(parts, "bathrooms="+strconv.Itoa(*n.Bathrooms))
	}
	if n.City != nil {
		parts = append(parts, "city="+*n.City)
	}
	if n.State != nil {
		parts = append(parts, "state="+*n.State)
	}
	if n.Furnished != nil {
		parts = append(parts, "furnished="+strconv.FormatBool(*n.Furnished))
	}
	if len(n.Amenities) > 0 {
		parts = append(parts, "amenities="+strings.Join(n.Amenities, ","))
	}

	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "|")
}

// TotalPages считает количество страниц для данного total.
func (f ListingFilters) TotalPages(total int) int {
	n := f.Normalize()
	return int(math.Ceil(float64(total) / float64(n.Limit)))
}

// Offset - смещение для выборки текущей страницы.
func (f ListingFilters) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.Limit
}

func normalizeStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeAmenities приводит список удобств к каноническому виду:
// нижний регистр, обрезка пробелов, дедупликация, сортировка.
// Объявления хранят удобства в этом же виде, так что containment-предикат
// хранилища сравнивает одинаково нормализованные значения.
func NormalizeAmenities(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		v := strings.ToLower(strings.TrimSpace(a))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String нужен для структурированных логов.
func (f ListingFilters) String() string {
	n := f.Normalize()
	return fmt.Sprintf("{%s page=%d limit=%d sort=%s:%s}", f.CanonicalKey(), n.Page, n.Limit, n.SortBy, n.SortOrder)
}
