package postgres_adapter

import (
	"context"
	"fmt"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	externalIDPrefix = "PROP"
	counterName      = "listing_external_id"
)

// PostgresSequenceAllocator выдает внешние коды объявлений ("PROP<n>").
//
// Счетчик - единственная строка в listing_counters, инкремент выполняется
// одним атомарным UPSERT с RETURNING. Окна "прочитал-потом-записал" нет
// в принципе: два конкурентных вызова сериализуются блокировкой строки
// на стороне Postgres и получают разные значения.
type PostgresSequenceAllocator struct {
	pool *pgxpool.Pool
}

// NewPostgresSequenceAllocator - конструктор.
func NewPostgresSequenceAllocator(pool *pgxpool.Pool) (*PostgresSequenceAllocator, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresSequenceAllocator{pool: pool}, nil
}

// Next возвращает следующий внешний код.
func (a *PostgresSequenceAllocator) Next(ctx context.Context) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresSequenceAllocator",
		"method":    "Next",
	})

	query := `
		INSERT INTO listing_counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = listing_counters.value + 1
		RETURNING value`

	var value int64
	if err := a.pool.QueryRow(ctx, query, counterName).Scan(&value); err != nil {
		repoLogger.Error("Failed to increment listing counter", err, nil)
		return "", fmt.Errorf("failed to increment listing counter: %w", err)
	}

	externalID := fmt.Sprintf("%s%d", externalIDPrefix, value)
	repoLogger.Debug("Allocated external id", port.Fields{"external_id": externalID})
	return externalID, nil
}
