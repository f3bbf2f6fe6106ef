package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	kafka2 "github.com/Th3UrBanGuy/kenakata-sub000/pkg/kafka"
	outboxRepository "github.com/Th3UrBanGuy/kenakata-sub000/pkg/outbox/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/outbox/worker"
	"go.uber.org/zap"
)

func (s *IntegrationTestSuite) TestOutbox_OrderPlacedIsPublished() {
	logger := zap.NewNop()

	producer, err := kafka2.NewProducer(s.KafkaBrokers)
	s.Require().NoError(err)
	defer func() {
		s.Require().NoError(producer.Close())
	}()

	outboxRepo := outboxRepository.NewOutboxRepository(s.DbPool, logger)
	processor := worker.NewOutboxProcessor(s.DbPool, outboxRepo, producer, logger)

	workerCtx, cancel := context.WithCancel(s.Ctx)
	defer cancel()
	go processor.Start(workerCtx)

	productID, variantID := s.seedProduct("Linen Shirt", 5, 2999)
	order, err := s.CheckoutService.PlaceOrder(s.Ctx, testCustomer(), []domain.CartLine{
		{ProductID: productID, VariantID: variantID, Quantity: 1, Price: 2999},
	}, "")
	s.Require().NoError(err)

	query := `
		SELECT published_at
		FROM outbox
		WHERE aggregate_type = 'Order' AND aggregate_id = $1
	`

	s.Require().Eventually(func() bool {
		var publishedAt *time.Time

		err := s.DbPool.QueryRow(s.Ctx, query, fmt.Sprintf("%d", order.ID)).
			Scan(&publishedAt)

		return err == nil && publishedAt != nil
	}, 5*time.Second, 100*time.Millisecond)
}
