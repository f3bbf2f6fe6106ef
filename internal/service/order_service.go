package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type OrderService interface {
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, customerUID string, limit, offset int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, newStatus domain.OrderStatus) error
}

type orderService struct {
	pool      *pgxpool.Pool
	logger    *zap.Logger
	orderRepo repository.OrderRepository
}

func NewOrderService(pool *pgxpool.Pool, logger *zap.Logger, orderRepo repository.OrderRepository) OrderService {
	return &orderService{
		pool:      pool,
		logger:    logger,
		orderRepo: orderRepo,
	}
}

func (s *orderService) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			s.logger.Warn("order not found", zap.String("public_id", publicID.String()))
			return nil, err
		}

		s.logger.Error("error getting order", zap.Error(err))
		return nil, fmt.Errorf("error getting order: %w", err)
	}

	return order, nil
}

func (s *orderService) List(ctx context.Context, customerUID string, limit, offset int64) ([]domain.Order, error) {
	orders, err := s.orderRepo.List(ctx, customerUID, limit, offset)
	if err != nil {
		s.logger.Error("list orders error", zap.Error(err))
		return nil, fmt.Errorf("error listing orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order along the lifecycle, rejecting transitions out
// of terminal states. Cancelling does not restock inventory.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, newStatus domain.OrderStatus) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		err := tx.Rollback(cleanupCtx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(
				cleanupCtx,
				s.logger,
				"Failed to rollback transaction",
				zap.Error(err),
			)
		}
	}()

	current, err := s.orderRepo.GetStatusForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			mylogger.Warn(ctx, s.logger, "Order not found", zap.Int64("order_id", orderID))
			return err
		}

		mylogger.Error(ctx, s.logger, "Failed to read order status", zap.Error(err))
		return err
	}

	if !current.CanTransitionTo(newStatus) {
		mylogger.Warn(
			ctx,
			s.logger,
			"Rejected order status transition",
			zap.Int64("order_id", orderID),
			zap.String("from", string(current)),
			zap.String("to", string(newStatus)),
		)

		return fmt.Errorf("%s -> %s: %w", current, newStatus, domain.ErrInvalidTransition)
	}

	if err := s.orderRepo.ChangeOrderStatus(ctx, tx, orderID, newStatus); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to update order status", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
