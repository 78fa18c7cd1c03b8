package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Колонки объявления вместе с отображаемыми данными владельца.
const listingColumns = `
	l.id, l.external_id, l.title, l.type, l.price, l.state, l.city,
	l.area_sq_ft, l.bedrooms, l.bathrooms, l.amenities, l.furnished,
	l.available_from, l.listed_by, l.tags, l.color_theme, l.rating,
	l.is_verified, l.listing_type, l.created_by, l.created_at, l.updated_at,
	u.name, u.email`

const listingFromClause = ` FROM listings l LEFT JOIN users u ON l.created_by = u.id `

// PostgresListingStorage - реализация ListingStoragePort для PostgreSQL.
type PostgresListingStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresListingStorage - конструктор.
func NewPostgresListingStorage(pool *pgxpool.Pool) (*PostgresListingStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresListingStorage{pool: pool}, nil
}

// FindWithFilters возвращает страницу выдачи и общее количество.
// Запрос страницы и подсчет выполняются конкурентно: оба читают
// одно и то же консистентное хранилище, а транзакционная строгость
// для поисковой выдачи не требуется.
func (a *PostgresListingStorage) FindWithFilters(ctx context.Context, filters domain.ListingFilters) (*domain.PaginatedListings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresListingStorage",
		"method":    "FindWithFilters",
	})

	whereClause, args := applyListingFilters(filters)

	var (
		totalCount int64
		listings   []domain.Listing
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		countQuery := "SELECT COUNT(*) FROM listings l " + whereClause
		if err := a.pool.QueryRow(gctx, countQuery, args...).Scan(&totalCount); err != nil {
			repoLogger.Error("Failed to count listings", err, port.Fields{"query": countQuery})
			return fmt.Errorf("failed to count listings: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var dataQuery strings.Builder
		dataQuery.WriteString("SELECT ")
		dataQuery.WriteString(listingColumns)
		dataQuery.WriteString(listingFromClause)
		dataQuery.WriteString(whereClause)
		dataQuery.WriteString(" ")
		dataQuery.WriteString(orderClause(filters))

		pageArgs := append(append([]interface{}{}, args...), filters.Limit, filters.Offset())
		pagedQuery := fmt.Sprintf("%s LIMIT $%d OFFSET $%d", dataQuery.String(), len(args)+1, len(args)+2)

		rows, err := a.pool.Query(gctx, pagedQuery, pageArgs...)
		if err != nil {
			repoLogger.Error("Failed to query listings", err, port.Fields{"query": pagedQuery})
			return fmt.Errorf("failed to query listings: %w", err)
		}
		defer rows.Close()

		listings = make([]domain.Listing, 0, filters.Limit)
		for rows.Next() {
			listing, err := scanListing(rows)
			if err != nil {
				return err
			}
			listings = append(listings, *listing)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	repoLogger.Debug("Successfully found listings for page", port.Fields{
		"total_count": totalCount,
		"on_page":     len(listings),
	})

	return &domain.PaginatedListings{
		Listings:   listings,
		TotalCount: int(totalCount),
		Page:       filters.Page,
		Limit:      filters.Limit,
		TotalPages: filters.TotalPages(int(totalCount)),
	}, nil
}

// GetByExternalID читает объявление по внешнему коду.
func (a *PostgresListingStorage) GetByExternalID(ctx context.Context, externalID string) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresListingStorage",
		"method":      "GetByExternalID",
		"external_id": externalID,
	})

	query := "SELECT " + listingColumns + listingFromClause + "WHERE l.external_id = $1"
	rows, err := a.pool.Query(ctx, query, externalID)
	if err != nil {
		repoLogger.Error("Failed to query listing", err, nil)
		return nil, fmt.Errorf("failed to query listing: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			repoLogger.Error("Failed to read listing row", err, nil)
			return nil, fmt.Errorf("failed to read listing row: %w", err)
		}
		repoLogger.Debug("Listing not found", nil)
		return nil, domain.ErrListingNotFound
	}

	listing, err := scanListing(rows)
	if err != nil {
		repoLogger.Error("Failed to scan listing", err, nil)
		return nil, err
	}
	return listing, nil
}

// Insert сохраняет новое объявление.
func (a *PostgresListingStorage) Insert(ctx context.Context, listing domain.Listing) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresListingStorage",
		"method":      "Insert",
		"external_id": listing.ExternalID,
	})

	query := `
		INSERT INTO listings (
			external_id, title, type, price, state, city, area_sq_ft,
			bedrooms, bathrooms, amenities, furnished, available_from,
			listed_by, tags, color_theme, rating, is_verified, listing_type,
			created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at`

	stored := listing
	err := a.pool.QueryRow(ctx, query,
		listing.ExternalID, listing.Title, listing.Type, listing.Price,
		listing.State, listing.City, listing.AreaSqFt, listing.Bedrooms,
		listing.Bathrooms, listing.Amenities, listing.Furnished,
		listing.AvailableFrom, listing.ListedBy, listing.Tags,
		listing.ColorTheme, listing.Rating, listing.IsVerified,
		listing.ListingType, listing.CreatedBy,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		repoLogger.Error("Failed to insert listing", err, nil)
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}

	repoLogger.Debug("Successfully inserted listing", port.Fields{"id": stored.ID})
	return &stored, nil
}

// Update применяет частичное обновление и возвращает свежую запись.
func (a *PostgresListingStorage) Update(ctx context.Context, externalID string, fields domain.ListingFields) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresListingStorage",
		"method":      "Update",
		"external_id": externalID,
	})

	set, args := buildUpdateSet(fields)
	args = append(args, externalID)
	query := fmt.Sprintf("UPDATE listings SET %s WHERE external_id = $%d",
		strings.Join(set, ", "), len(args))

	cmdTag, err := a.pool.Exec(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to update listing", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Debug("Listing not found", nil)
		return nil, domain.ErrListingNotFound
	}

	return a.GetByExternalID(ctx, externalID)
}

// Delete удаляет объявление по внешнему коду.
func (a *PostgresListingStorage) Delete(ctx context.Context, externalID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresListingStorage",
		"method":      "Delete",
		"external_id": externalID,
	})

	cmdTag, err := a.pool.Exec(ctx, "DELETE FROM listings WHERE external_id = $1", externalID)
	if err != nil {
		repoLogger.Error("Failed to delete listing", err, nil)
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Debug("Listing not found", nil)
		return domain.ErrListingNotFound
	}

	repoLogger.Debug("Successfully deleted listing", nil)
	return nil
}

// scanListing читает одну строку выборки с колонками listingColumns.
func scanListing(rows pgx.Rows) (*domain.Listing, error) {
	var (
		l          domain.Listing
		ownerName  *string
		ownerEmail *string
	)
	if err := rows.Scan(
		&l.ID, &l.ExternalID, &l.Title, &l.Type, &l.Price, &l.State, &l.City,
		&l.AreaSqFt, &l.Bedrooms, &l.Bathrooms, &l.Amenities, &l.Furnished,
		&l.AvailableFrom, &l.ListedBy, &l.Tags, &l.ColorTheme, &l.Rating,
		&l.IsVerified, &l.ListingType, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
		&ownerName, &ownerEmail,
	); err != nil {
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}

	if l.CreatedBy != nil && ownerName != nil && ownerEmail != nil {
		l.Owner = &domain.UserInfo{ID: *l.CreatedBy, Name: *ownerName, Email: *ownerEmail}
	}
	return &l, nil
}

// errNoRows помогает адаптерам единообразно распознавать пустую выборку.
func errNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
