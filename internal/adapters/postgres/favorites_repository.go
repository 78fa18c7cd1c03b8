package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFavoritesRepository - реализация FavoritesRepositoryPort.
type PostgresFavoritesRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFavoritesRepository - конструктор.
func NewPostgresFavoritesRepository(pool *pgxpool.Pool) (*PostgresFavoritesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresFavoritesRepository{pool: pool}, nil
}

// Add добавляет запись в user_favorites.
func (r *PostgresFavoritesRepository) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PostgresFavoritesRepository",
		"method":     "Add",
		"user_id":    userID,
		"listing_id": listingID,
	})

	repoLogger.Debug("Attempting to add to favorites.", nil)
	query := `INSERT INTO user_favorites (user_id, listing_id) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, userID, listingID)
	if err != nil {
		// 23505 - unique_violation: запись уже существует, это Conflict.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			repoLogger.Warn("Favorite already exists", nil)
			return domain.ErrAlreadyInFavorites
		}
		repoLogger.Error("Failed to add favorite", err, port.Fields{"query": query})
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	repoLogger.Debug("Successfully added to favorites.", nil)
	return nil
}

// Remove удаляет запись из user_favorites. Отсутствие записи - не ошибка.
func (r *PostgresFavoritesRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PostgresFavoritesRepository",
		"method":     "Remove",
		"user_id":    userID,
		"listing_id": listingID,
	})

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM user_favorites WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		repoLogger.Error("Failed to remove favorite", err, nil)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to remove a favorite that did not exist.", nil)
	} else {
		repoLogger.Debug("Successfully removed from favorites.", nil)
	}
	return nil
}

// FindByUser возвращает избранные объявления пользователя,
// свежедобавленные первыми, с данными владельцев.
func (r *PostgresFavoritesRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavoritesRepository",
		"method":    "FindByUser",
		"user_id":   userID,
	})

	query := "SELECT " + listingColumns + `
		FROM user_favorites f
		JOIN listings l ON l.id = f.listing_id
		LEFT JOIN users u ON l.created_by = u.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		repoLogger.Error("Failed to query favorites", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			repoLogger.Error("Failed to scan favorite listing", err, nil)
			return nil, err
		}
		listings = append(listings, *listing)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during favorites iteration", err, nil)
		return nil, fmt.Errorf("error during favorites iteration: %w", err)
	}

	repoLogger.Debug("Successfully found favorites.", port.Fields{"count": len(listings)})
	return listings, nil
}
