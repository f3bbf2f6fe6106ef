package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type DiscountPreview struct {
	Code     string `json:"code"`
	Subtotal int64  `json:"subtotal"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
}

type CouponService interface {
	Create(ctx context.Context, coupon *domain.Coupon) (int64, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	PreviewDiscount(ctx context.Context, lines []domain.CartLine, code string) (*DiscountPreview, error)
}

type couponService struct {
	pool       *pgxpool.Pool
	logger     *zap.Logger
	couponRepo repository.CouponRepository
}

func NewCouponService(pool *pgxpool.Pool, logger *zap.Logger, couponRepo repository.CouponRepository) CouponService {
	return &couponService{
		pool:       pool,
		logger:     logger,
		couponRepo: couponRepo,
	}
}

func (s *couponService) Create(ctx context.Context, coupon *domain.Coupon) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error starting transaction", zap.Error(err))
		return 0, err
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		err := tx.Rollback(cleanupCtx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(
				cleanupCtx,
				s.logger,
				"Error rolling back transaction",
				zap.Error(err),
			)
		}
	}()

	id, err := s.couponRepo.Create(ctx, tx, coupon)
	if err != nil {
		if errors.Is(err, repository.ErrCouponCodeTaken) {
			mylogger.Warn(ctx, s.logger, "Coupon code already taken", zap.String("code", coupon.Code))
			return 0, err
		}

		mylogger.Error(ctx, s.logger, "Error creating coupon", zap.Error(err))
		return 0, fmt.Errorf("error creating coupon: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, s.logger, "Error commiting transaction", zap.Error(err))
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

func (s *couponService) List(ctx context.Context) ([]domain.Coupon, error) {
	coupons, err := s.couponRepo.List(ctx)
	if err != nil {
		s.logger.Error("list coupons error", zap.Error(err))
		return nil, fmt.Errorf("error listing coupons: %w", err)
	}

	return coupons, nil
}

// PreviewDiscount evaluates a coupon against the cart without consuming a
// claim: previewing twice against the same cart always yields the same
// number.
func (s *couponService) PreviewDiscount(ctx context.Context, lines []domain.CartLine, code string) (*DiscountPreview, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			mylogger.Warn(ctx, s.logger, "Coupon not found", zap.String("code", code))
			return nil, err
		}

		return nil, err
	}

	if err := coupon.Usable(time.Now()); err != nil {
		return nil, fmt.Errorf("coupon %q: %w", coupon.Code, err)
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.Price * int64(line.Quantity)
	}

	discount := coupon.Discount(lines)

	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	return &DiscountPreview{
		Code:     coupon.Code,
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}, nil
}
