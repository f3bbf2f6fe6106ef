package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	outboxDomain "github.com/Th3UrBanGuy/kenakata-sub000/pkg/outbox/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/outbox/worker"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, customer domain.Customer, lines []domain.CartLine, couponCode string) (*domain.Order, error)
}

type checkoutService struct {
	pool        *pgxpool.Pool
	logger      *zap.Logger
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	orderRepo   repository.OrderRepository
	outboxRepo  worker.OutboxRepository
	tracer      trace.Tracer
	maxAttempts int
	retryDelay  time.Duration
}

func NewCheckoutService(
	pool *pgxpool.Pool,
	logger *zap.Logger,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	outboxRepo worker.OutboxRepository,
	maxAttempts int,
	retryDelay time.Duration,
) CheckoutService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &checkoutService{
		pool:        pool,
		logger:      logger,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		outboxRepo:  outboxRepo,
		tracer:      otel.Tracer("checkout_service"),
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// PlaceOrder runs the whole checkout as one transaction: stock validation,
// stock decrement, coupon redemption and the order insert all commit together
// or not at all. Serialization losers are retried with fresh reads up to
// maxAttempts, then surfaced as ErrTxConflict.
func (s *checkoutService) PlaceOrder(
	ctx context.Context,
	customer domain.Customer,
	lines []domain.CartLine,
	couponCode string,
) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("customer_uid", customer.UID),
		attribute.Int("lines_count", len(lines)),
		attribute.Bool("has_coupon", couponCode != ""),
	)

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("product %d variant %d: %w", line.ProductID, line.VariantID, ErrInvalidQuantity)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		order, err := s.placeOrderOnce(ctx, customer, lines, couponCode)
		if err == nil {
			mylogger.Info(
				ctx,
				s.logger,
				"Order placed",
				zap.Int64("order_id", order.ID),
				zap.String("public_id", order.PublicID.String()),
				zap.Int64("total", order.Total),
				zap.Int("attempt", attempt),
			)

			return order, nil
		}

		if !isSerializationFailure(err) {
			return nil, err
		}

		lastErr = err

		mylogger.Warn(
			ctx,
			s.logger,
			"Checkout transaction conflict, retrying with fresh reads",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}

	span.RecordError(lastErr)

	return nil, fmt.Errorf("%w: %v", ErrTxConflict, lastErr)
}

func (s *checkoutService) placeOrderOnce(
	ctx context.Context,
	customer domain.Customer,
	lines []domain.CartLine,
	couponCode string,
) (*domain.Order, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		mylogger.Error(ctx, s.logger, "Failed to begin checkout transaction", zap.Error(err))

		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		err := tx.Rollback(cleanupCtx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(
				cleanupCtx,
				s.logger,
				"Error rolling back checkout transaction",
				zap.Error(err),
			)
		}
	}()

	// Read phase: every referenced product, through the transaction, so
	// stock checks run against live values.
	products := make(map[int64]*domain.Product)
	for _, line := range lines {
		if _, ok := products[line.ProductID]; ok {
			continue
		}

		product, err := s.productRepo.GetForOrder(ctx, tx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, fmt.Errorf("product %d: %w", line.ProductID, repository.ErrProductNotFound)
			}

			return nil, err
		}

		products[line.ProductID] = product
	}

	// Validate phase: match variants and check stock in memory before
	// touching anything.
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product := products[line.ProductID]

		variant := product.FindVariant(line.VariantID)
		if variant == nil {
			return nil, fmt.Errorf("variant %d of product %d: %w", line.VariantID, line.ProductID, repository.ErrVariantNotFound)
		}

		if variant.Stock < int64(line.Quantity) {
			return nil, fmt.Errorf("variant %d of product %q: %w", line.VariantID, product.Name, repository.ErrInsufficientStock)
		}

		// Display fields come from the live catalog; price stays the
		// cart snapshot the customer saw.
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Name:      product.Name,
			Color:     variant.Color,
			Size:      variant.Size,
			Price:     line.Price,
			Quantity:  line.Quantity,
			ImageUrl:  variant.ImageUrl,
		})
	}

	// Coupon re-validation against the live row, locked so the claims
	// counter cannot move under us.
	var coupon *domain.Coupon
	var discount int64
	if couponCode != "" {
		coupon, err = s.couponRepo.GetByCodeForUpdate(ctx, tx, couponCode)
		if err != nil {
			return nil, err
		}

		if err := coupon.Usable(time.Now()); err != nil {
			return nil, fmt.Errorf("coupon %q: %w", coupon.Code, err)
		}

		discount = coupon.Discount(lines)
	}

	// Mutate phase: conditional decrements; a zero-row update here means a
	// concurrent order beat us to the stock.
	for _, line := range lines {
		if err := s.productRepo.DecrementVariantStock(ctx, tx, line.ProductID, line.VariantID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if coupon != nil {
		if err := s.couponRepo.IncrementClaims(ctx, tx, coupon.ID); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		PublicID:      uuid.New(),
		CustomerUID:   customer.UID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Status:        domain.OrderStatusPending,
		Items:         items,
		Discount:      discount,
		PaymentMethod: customer.PaymentMethod,
	}

	if coupon != nil {
		order.CouponCode = &coupon.Code
	}

	order.CalculateTotals()

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	if coupon != nil {
		usage := &domain.CouponUsage{
			CouponCode:    coupon.Code,
			OrderID:       order.ID,
			CustomerEmail: customer.Email,
			Discount:      discount,
		}

		if err := s.orderRepo.CreateCouponUsage(ctx, tx, usage); err != nil {
			return nil, err
		}
	}

	if err := s.emitOrderPlaced(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	return order, nil
}

func (s *checkoutService) emitOrderPlaced(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	eventItems := make([]domain.OrderPlacedItem, len(order.Items))
	for i, item := range order.Items {
		eventItems[i] = domain.OrderPlacedItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Quantity:  item.Quantity,
		}
	}

	event := domain.OrderPlacedEvent{
		OrderID:       order.ID,
		PublicID:      order.PublicID.String(),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		Discount:      order.Discount,
		Items:         eventItems,
	}

	if order.CouponCode != nil {
		event.CouponCode = *order.CouponCode
	}

	eventEnvelope := map[string]any{
		"event":   "OrderPlaced",
		"payload": event,
	}

	payloadBytes, err := json.Marshal(eventEnvelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	outboxEvent := &outboxDomain.OutboxEvent{
		AggregateType: "Order",
		AggregateID:   fmt.Sprintf("%d", order.ID),
		EventType:     "OrderPlaced",
		Payload:       payloadBytes,
		Topic:         "order_events",
	}

	if err := s.outboxRepo.SaveOutboxEvent(ctx, tx, outboxEvent); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to save outbox event", zap.Error(err))

		return fmt.Errorf("failed to save outbox event: %w", err)
	}

	return nil
}

// isSerializationFailure matches postgres serialization (40001) and deadlock
// (40P01) aborts, the only errors worth retrying with fresh reads.
func isSerializationFailure(err error) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) {
		return false
	}

	return pgError.Code == "40001" || pgError.Code == "40P01"
}
