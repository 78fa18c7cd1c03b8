package postgres_adapter

import (
	"fmt"
	"strings"

	"listings-service/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: make([]string, 0),
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// build создает финальную WHERE-часть запроса
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyListingFilters - главный метод, который разбирает нормализованный
// фильтр и строит WHERE-часть. Отсутствующие поля фильтра в предикат
// не попадают вовсе (не сравниваются с NULL).
func applyListingFilters(filters domain.ListingFilters) (string, []interface{}) {
	qb := newQueryBuilder()

	if filters.Type != nil {
		qb.addCondition("lower(%s) = $%d", "l.type", *filters.Type)
	}

	// Ценовой интервал: применяются только заданные границы.
	if filters.MinPrice != nil {
		qb.addCondition("%s >= $%d", "l.price", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		qb.addCondition("%s <= $%d", "l.price", *filters.MaxPrice)
	}

	if filters.Bedrooms != nil {
		qb.addCondition("%s = $%d", "l.bedrooms", *filters.Bedrooms)
	}
	if filters.Bathrooms != nil {
		qb.addCondition("%s = $%d", "l.bathrooms", *filters.Bathrooms)
	}

	// Город и область: регистронезависимое вхождение подстроки.
	if filters.City != nil {
		qb.addCondition("%s ILIKE $%d", "l.city", "%"+*filters.City+"%")
	}
	if filters.State != nil {
		qb.addCondition("%s ILIKE $%d", "l.state", "%"+*filters.State+"%")
	}

	if filters.Furnished != nil {
		qb.addCondition("%s = $%d", "l.furnished", *filters.Furnished)
	}

	// Удобства: объявление должно содержать ВСЕ запрошенные (conjunctive).
	if len(filters.Amenities) > 0 {
		qb.addCondition("%s @> $%d", "l.amenities", filters.Amenities)
	}

	return qb.build()
}

// sortColumns отображает доменные имена полей сортировки в колонки.
// Фильтр уже нормализован, но неизвестное поле на всякий случай
// откатывается к created_at.
var sortColumns = map[string]string{
	"createdAt": "l.created_at",
	"price":     "l.price",
	"rating":    "l.rating",
	"areaSqFt":  "l.area_sq_ft",
	"bedrooms":  "l.bedrooms",
	"bathrooms": "l.bathrooms",
}

func orderClause(filters domain.ListingFilters) string {
	column, ok := sortColumns[filters.SortBy]
	if !ok {
		column = "l.created_at"
	}
	direction := "DESC"
	if filters.SortOrder == "asc" {
		direction = "ASC"
	}
	// Вторичная сортировка по id делает порядок детерминированным.
	return fmt.Sprintf("ORDER BY %s %s, l.id ASC", column, direction)
}

// buildUpdateSet строит SET-часть для частичного обновления:
// в запрос попадают только переданные поля.
func buildUpdateSet(fields domain.ListingFields) ([]string, []interface{}) {
	set := make([]string, 0)
	args := make([]interface{}, 0)
	argId := 1

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argId))
		args = append(args, value)
		argId++
	}

	if fields.Title != nil {
		add("title", *fields.Title)
	}
	if fields.Type != nil {
		add("type", *fields.Type)
	}
	if fields.Price != nil {
		add("price", *fields.Price)
	}
	if fields.State != nil {
		add("state", *fields.State)
	}
	if fields.City != nil {
		add("city", *fields.City)
	}
	if fields.AreaSqFt != nil {
		add("area_sq_ft", *fields.AreaSqFt)
	}
	if fields.Bedrooms != nil {
		add("bedrooms", *fields.Bedrooms)
	}
	if fields.Bathrooms != nil {
		add("bathrooms", *fields.Bathrooms)
	}
	if fields.Amenities != nil {
		add("amenities", fields.Amenities)
	}
	if fields.Furnished != nil {
		add("furnished", *fields.Furnished)
	}
	if fields.AvailableFrom != nil {
		add("available_from", *fields.AvailableFrom)
	}
	if fields.ListedBy != nil {
		add("listed_by", *fields.ListedBy)
	}
	if fields.Tags != nil {
		add("tags", fields.Tags)
	}
	if fields.ColorTheme != nil {
		add("color_theme", *fields.ColorTheme)
	}
	if fields.Rating != nil {
		add("rating", *fields.Rating)
	}
	if fields.IsVerified != nil {
		add("is_verified", *fields.IsVerified)
	}
	if fields.ListingType != nil {
		add("listing_type", *fields.ListingType)
	}

	set = append(set, "updated_at = now()")
	return set, args
}
