package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/kafka"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"go.uber.org/zap"
)

type Consumer struct {
	service *service.NotificationService
	logger  *zap.Logger
}

func NewConsumer(service *service.NotificationService, logger *zap.Logger) *Consumer {
	return &Consumer{
		service: service,
		logger:  logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		"notification-group",
		[]string{"order_events"},
		c.processMessage,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	mylogger.Info(
		ctx,
		c.logger,
		"Processing message",
		zap.String("topic", msg.Topic),
	)

	type EventWrapper struct {
		Event   string          `json:"event"`
		EventID int64           `json:"event_id"`
		Payload json.RawMessage `json:"payload"`
	}

	var wrapper EventWrapper
	if err := json.Unmarshal(msg.Value, &wrapper); err != nil {
		mylogger.Error(ctx, c.logger, "Error unmarshalling wrapper", zap.Error(err))
		return err
	}

	switch wrapper.Event {
	case "OrderPlaced":
		var event domain.OrderPlacedEvent
		if err := json.Unmarshal(wrapper.Payload, &event); err != nil {
			mylogger.Error(ctx, c.logger, "Error parsing OrderPlaced event", zap.Error(err))
			return nil
		}

		if err := c.service.HandleOrderPlaced(ctx, wrapper.EventID, event); err != nil {
			mylogger.Error(ctx, c.logger, "Error handling OrderPlaced event", zap.Error(err))
			return err
		}
	default:
		mylogger.Info(ctx, c.logger, "Ignored event type", zap.String("event", wrapper.Event))
	}

	return nil
}
