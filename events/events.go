// Package events publishes order lifecycle events to Kafka. Publishing is
// best-effort and happens after the database transaction commits; a dead
// broker never fails a checkout.
package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "events").Logger()

const orderTopic = "order-events"

const (
	TypeOrderPlaced    = "order.placed"
	TypeOrderStatus    = "order.status"
	TypeOrderCancelled = "order.cancelled"
)

type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     uint               `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      uint               `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	GrandTotal  float64            `json:"grand_total"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// Producer wraps a kafka writer. A nil Producer is valid and drops events,
// so callers never need to branch on whether Kafka is configured.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns nil when KAFKA_BROKERS is unset.
func NewProducer() *Producer {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
			Topic:                  orderTopic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishOrderEvent emits one event keyed by order number.
func (p *Producer) PublishOrderEvent(eventType string, order *models.Order) {
	if p == nil || p.writer == nil {
		return
	}

	event := OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		GrandTotal:  order.GrandTotal,
		OccurredAt:  time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal order event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderNumber),
		Value: value,
	}); err != nil {
		logger.Error().Err(err).Str("order", order.OrderNumber).Str("type", eventType).Msg("failed to publish order event")
		return
	}
	logger.Info().Str("order", order.OrderNumber).Str("type", eventType).Msg("order event published")
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() {
	if p == nil || p.writer == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close kafka writer")
	}
}
