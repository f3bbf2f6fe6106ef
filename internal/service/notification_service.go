package service

import (
	"context"
	"time"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/infrastructure/email"
	outboxUtils "github.com/Th3UrBanGuy/kenakata-sub000/pkg/outbox/utils"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type NotificationService struct {
	emailSender email.Sender
	logger      *zap.Logger
	pool        *pgxpool.Pool
	breaker     *gobreaker.CircuitBreaker
	tracer      trace.Tracer
}

func NewNotificationService(emailSender email.Sender, logger *zap.Logger, pool *pgxpool.Pool) *NotificationService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})

	return &NotificationService{
		emailSender: emailSender,
		logger:      logger,
		pool:        pool,
		breaker:     breaker,
		tracer:      otel.Tracer("notification-service"),
	}
}

func (s *NotificationService) HandleOrderPlaced(ctx context.Context, eventID int64, event domain.OrderPlacedEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandleOrderPlaced")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event_id", eventID),
		attribute.String("order.public_id", event.PublicID),
	)

	return outboxUtils.ProcessWithDeduplication(ctx, s.pool, s.logger, eventID, func() error {
		_, err := utils.ExecuteWithBreaker(s.breaker, func() (struct{}, error) {
			return struct{}{}, s.emailSender.SendOrderConfirmation(ctx, event)
		})

		return err
	})
}
