package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	CreateCouponUsage(ctx context.Context, tx pgx.Tx, usage *domain.CouponUsage) error
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, customerUID string, limit, offset int64) ([]domain.Order, error)
	GetStatusForUpdate(ctx context.Context, tx pgx.Tx, orderID int64) (domain.OrderStatus, error)
	ChangeOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) error
}

type orderRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("contract/order_repo"),
	}
}

func (r *orderRepo) CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("customer_uid", order.CustomerUID),
		attribute.Int("items_count", len(order.Items)),
	)

	queryOrder := `
		INSERT INTO orders (public_id, customer_uid, customer_name, customer_email, status,
			subtotal, discount, total, coupon_code, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := tx.QueryRow(
		ctx,
		queryOrder,
		order.PublicID,
		order.CustomerUID,
		order.CustomerName,
		order.CustomerEmail,
		string(order.Status),
		order.Subtotal,
		order.Discount,
		order.Total,
		order.CouponCode,
		order.PaymentMethod,
	).Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		span.RecordError(err)

		mylogger.Error(ctx, r.logger, "Failed to insert order", zap.Error(err))

		return fmt.Errorf("failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, product_id, variant_id, name, color, size, price, quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		if err := tx.QueryRow(
			ctx,
			queryItem,
			item.OrderID,
			item.ProductID,
			item.VariantID,
			item.Name,
			item.Color,
			item.Size,
			item.Price,
			item.Quantity,
			item.ImageUrl,
		).Scan(&item.ID); err != nil {
			span.RecordError(err)

			mylogger.Error(ctx, r.logger, "Failed to insert order item", zap.Error(err))

			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepo) CreateCouponUsage(ctx context.Context, tx pgx.Tx, usage *domain.CouponUsage) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CreateCouponUsage")
	defer span.End()

	span.SetAttributes(
		attribute.String("coupon_code", usage.CouponCode),
		attribute.Int64("order_id", usage.OrderID),
	)

	query := `
		INSERT INTO coupon_usages (coupon_code, order_id, customer_email, discount, used_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, used_at
	`

	if err := tx.QueryRow(
		ctx,
		query,
		usage.CouponCode,
		usage.OrderID,
		usage.CustomerEmail,
		usage.Discount,
	).Scan(&usage.ID, &usage.UsedAt); err != nil {
		span.RecordError(err)

		mylogger.Error(ctx, r.logger, "Failed to insert coupon usage", zap.Error(err))

		return fmt.Errorf("failed to insert coupon usage: %w", err)
	}

	return nil
}

func (r *orderRepo) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByPublicID")
	defer span.End()

	span.SetAttributes(
		attribute.String("public_id", publicID.String()),
	)

	query := `
		SELECT id, public_id, customer_uid, customer_name, customer_email, status,
			subtotal, discount, total, coupon_code, payment_method, created_at, updated_at
		FROM orders
		WHERE public_id = $1;
	`

	var o domain.Order
	if err := r.pool.QueryRow(ctx, query, publicID).Scan(
		&o.ID,
		&o.PublicID,
		&o.CustomerUID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.Status,
		&o.Subtotal,
		&o.Discount,
		&o.Total,
		&o.CouponCode,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Error getting order by public id",
			zap.String("public_id", publicID.String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, variant_id, name, color, size, price, quantity, image_url
		FROM order_items
		WHERE order_id = $1
		ORDER BY id;
	`

	rows, err := r.pool.Query(ctx, itemsQuery, o.ID)
	if err != nil {
		return nil, fmt.Errorf("error querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.VariantID,
			&item.Name,
			&item.Color,
			&item.Size,
			&item.Price,
			&item.Quantity,
			&item.ImageUrl,
		); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}

		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order item rows iteration error: %w", err)
	}

	return &o, nil
}

// List returns orders newest first. An empty customerUID lists everything
// (admin view).
func (r *orderRepo) List(ctx context.Context, customerUID string, limit, offset int64) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.String("customer_uid", customerUID),
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
	)

	query := `
		SELECT id, public_id, customer_uid, customer_name, customer_email, status,
			subtotal, discount, total, coupon_code, payment_method, created_at, updated_at
		FROM orders
	`

	var args []interface{}
	argId := 1

	if customerUID != "" {
		query += fmt.Sprintf(" WHERE customer_uid = $%d", argId)
		args = append(args, customerUID)
		argId++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argId, argId+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(ctx, r.logger, "Error selecting orders", zap.Error(err))

		return nil, fmt.Errorf("error selecting orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.PublicID,
			&o.CustomerUID,
			&o.CustomerName,
			&o.CustomerEmail,
			&o.Status,
			&o.Subtotal,
			&o.Discount,
			&o.Total,
			&o.CouponCode,
			&o.PaymentMethod,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning order: %w", err)
		}

		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order rows iteration error: %w", err)
	}

	return orders, nil
}

func (r *orderRepo) GetStatusForUpdate(ctx context.Context, tx pgx.Tx, orderID int64) (domain.OrderStatus, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetStatusForUpdate")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	query := `
		SELECT status
		FROM orders
		WHERE id = $1
		FOR UPDATE;
	`

	var raw string
	if err := tx.QueryRow(ctx, query, orderID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrOrderNotFound
		}

		span.RecordError(err)

		return "", fmt.Errorf("error reading order status: %w", err)
	}

	status, ok := domain.ParseOrderStatus(raw)
	if !ok {
		return "", fmt.Errorf("unknown order status %q for order %d", raw, orderID)
	}

	return status, nil
}

func (r *orderRepo) ChangeOrderStatus(ctx context.Context, tx pgx.Tx, orderID int64, status domain.OrderStatus) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ChangeOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("status", string(status)),
	)

	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2;
	`

	commandTag, err := tx.Exec(ctx, query, string(status), orderID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(ctx, r.logger, "Failed to update order status", zap.Error(err))

		return fmt.Errorf("failed to update order status: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
