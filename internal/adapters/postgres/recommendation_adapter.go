package postgres_adapter

import (
	"context"
	"fmt"
	"math"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecommendationStorage - реализация RecommendationStoragePort.
type PostgresRecommendationStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresRecommendationStorage - конструктор.
func NewPostgresRecommendationStorage(pool *pgxpool.Pool) (*PostgresRecommendationStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresRecommendationStorage{pool: pool}, nil
}

// Insert сохраняет новую рекомендацию (is_read = false по умолчанию).
func (a *PostgresRecommendationStorage) Insert(ctx context.Context, rec domain.Recommendation) (*domain.Recommendation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "PostgresRecommendationStorage",
		"method":       "Insert",
		"sender_id":    rec.SenderID,
		"recipient_id": rec.RecipientID,
	})

	query := `
		INSERT INTO recommendations (listing_id, sender_id, recipient_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at, updated_at`

	stored := rec
	err := a.pool.QueryRow(ctx, query, rec.ListingID, rec.SenderID, rec.RecipientID, rec.Message).
		Scan(&stored.ID, &stored.IsRead, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		repoLogger.Error("Failed to insert recommendation", err, nil)
		return nil, fmt.Errorf("failed to insert recommendation: %w", err)
	}

	repoLogger.Debug("Successfully inserted recommendation", port.Fields{"id": stored.ID})
	return &stored, nil
}

// FindReceived возвращает страницу полученных рекомендаций,
// свежие первыми, с объявлением и отправителем.
func (a *PostgresRecommendationStorage) FindReceived(ctx context.Context, recipientID uuid.UUID, page, limit int) (*domain.PaginatedRecommendations, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "PostgresRecommendationStorage",
		"method":       "FindReceived",
		"recipient_id": recipientID,
		"page":         page,
		"limit":        limit,
	})

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM recommendations WHERE recipient_id = $1"
	if err := a.pool.QueryRow(ctx, countQuery, recipientID).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count recommendations", err, nil)
		return nil, fmt.Errorf("failed to count recommendations: %w", err)
	}

	result := &domain.PaginatedRecommendations{
		Recommendations: make([]domain.Recommendation, 0, limit),
		TotalCount:      int(totalCount),
		Page:            page,
		Limit:           limit,
		TotalPages:      int(math.Ceil(float64(totalCount) / float64(limit))),
	}
	if totalCount == 0 {
		return result, nil
	}

	query := `
		SELECT r.id, r.listing_id, r.sender_id, r.recipient_id, r.message,
		       r.is_read, r.created_at, r.updated_at,
		       s.name, s.email,` + listingColumns + `
		FROM recommendations r
		JOIN users s ON r.sender_id = s.id
		JOIN listings l ON r.listing_id = l.id
		LEFT JOIN users u ON l.created_by = u.id
		WHERE r.recipient_id = $1
		ORDER BY r.created_at DESC, r.id ASC
		LIMIT $2 OFFSET $3`

	rows, err := a.pool.Query(ctx, query, recipientID, limit, (page-1)*limit)
	if err != nil {
		repoLogger.Error("Failed to query recommendations", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec         domain.Recommendation
			senderName  string
			senderEmail string
			l           domain.Listing
			ownerName   *string
			ownerEmail  *string
		)
		if err := rows.Scan(
			&rec.ID, &rec.ListingID, &rec.SenderID, &rec.RecipientID, &rec.Message,
			&rec.IsRead, &rec.CreatedAt, &rec.UpdatedAt,
			&senderName, &senderEmail,
			&l.ID, &l.ExternalID, &l.Title, &l.Type, &l.Price, &l.State, &l.City,
			&l.AreaSqFt, &l.Bedrooms, &l.Bathrooms, &l.Amenities, &l.Furnished,
			&l.AvailableFrom, &l.ListedBy, &l.Tags, &l.ColorTheme, &l.Rating,
			&l.IsVerified, &l.ListingType, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
			&ownerName, &ownerEmail,
		); err != nil {
			repoLogger.Error("Failed to scan recommendation row", err, nil)
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}

		if l.CreatedBy != nil && ownerName != nil && ownerEmail != nil {
			l.Owner = &domain.UserInfo{ID: *l.CreatedBy, Name: *ownerName, Email: *ownerEmail}
		}
		rec.Listing = &l
		rec.Sender = &domain.UserInfo{ID: rec.SenderID, Name: senderName, Email: senderEmail}
		result.Recommendations = append(result.Recommendations, rec)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during recommendations iteration", err, nil)
		return nil, fmt.Errorf("error during recommendations iteration: %w", err)
	}

	repoLogger.Debug("Successfully found recommendations.", port.Fields{"on_page": len(result.Recommendations)})
	return result, nil
}
