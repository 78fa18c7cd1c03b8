package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ListingEventDTO - тело сообщения о мутации объявления.
type ListingEventDTO struct {
	Action     string    `json:"action"`
	ListingID  uuid.UUID `json:"listing_id"`
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Price      float64   `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListingEventsAdapter - реализация ListingEventsPort поверх RabbitMQ.
// Ключ маршрутизации совпадает с действием (listing.created и т.д.).
type ListingEventsAdapter struct {
	producer *rabbitmq_producer.Publisher
}

func NewListingEventsAdapter(producer *rabbitmq_producer.Publisher) (*ListingEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &ListingEventsAdapter{producer: producer}, nil
}

func (a *ListingEventsAdapter) PublishChanged(ctx context.Context, action string, listing *domain.Listing) error {
	// 1. Извлекаем и обогащаем логгер
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ListingEventsAdapter",
		"routing_key": action,
		"external_id": listing.ExternalID,
	})

	dto := ListingEventDTO{
		Action:     action,
		ListingID:  listing.ID,
		ExternalID: listing.ExternalID,
		Title:      listing.Title,
		City:       listing.City,
		State:      listing.State,
		Price:      listing.Price,
		OccurredAt: time.Now().UTC(),
	}

	body, _ := json.Marshal(dto)

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // Для сохранения сообщений при перезапуске брокера
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	// Таймаут на операцию публикации, если контекст его не предоставляет
	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := a.producer.Publish(publishCtx, action, msg)
	if err != nil {
		adapterLogger.Error("Failed to publish listing event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event %s for listing %s: %w", action, listing.ExternalID, err)
	}

	adapterLogger.Debug("Successfully published listing event", nil)
	return nil
}

// NoopListingEvents - заглушка для конфигураций без брокера.
type NoopListingEvents struct{}

func NewNoopListingEvents() *NoopListingEvents { return &NoopListingEvents{} }

func (NoopListingEvents) PublishChanged(ctx context.Context, action string, listing *domain.Listing) error {
	return nil
}
