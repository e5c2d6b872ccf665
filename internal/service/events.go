package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ecommerce-backend/internal/entity"

	"github.com/segmentio/kafka-go"
)

// EventPublisher emits order lifecycle events for downstream consumers
// (confirmation mails, fulfilment). Publishing is fire-and-forget: a
// broker outage must never fail the order request itself.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, eventType string, order *entity.Order)
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) EventPublisher {
	return &kafkaPublisher{writer: writer}
}

// PublishOrderEvent writes the order as JSON keyed
// "order.<eventType>.<id>". Errors are logged and swallowed.
func (p *kafkaPublisher) PublishOrderEvent(ctx context.Context, eventType string, order *entity.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Int("order_id", order.ID).Msg("Error marshalling order event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%d", eventType, order.ID)),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Int("order_id", order.ID).Str("event", eventType).Msg("Error publishing order event")
	}
}
