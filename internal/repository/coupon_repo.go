package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrCouponCodeTaken = errors.New("coupon code already exists")

type CouponRepository interface {
	Create(ctx context.Context, tx pgx.Tx, coupon *domain.Coupon) (int64, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	IncrementClaims(ctx context.Context, tx pgx.Tx, couponID int64) error
}

type couponRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewCouponRepository(pool *pgxpool.Pool, logger *zap.Logger) CouponRepository {
	return &couponRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("contract/coupon_repo"),
	}
}

func (r *couponRepo) Create(ctx context.Context, tx pgx.Tx, coupon *domain.Coupon) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "CouponRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("code", coupon.Code),
	)

	query := `
		INSERT INTO coupons (code, discount_type, discount_value, is_active, valid_until, max_claims)
		VALUES (LOWER($1), $2, $3, $4, $5, $6)
		RETURNING id;
	`

	err := tx.QueryRow(
		ctx,
		query,
		coupon.Code,
		string(coupon.DiscountType),
		coupon.DiscountValue,
		coupon.IsActive,
		coupon.ValidUntil,
		coupon.MaxClaims,
	).Scan(&coupon.ID)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			return 0, ErrCouponCodeTaken
		}

		span.RecordError(err)

		mylogger.Error(ctx, r.logger, "Error creating coupon", zap.Error(err))

		return 0, fmt.Errorf("error creating coupon: %w", err)
	}

	productQuery := `
		INSERT INTO coupon_products (coupon_id, product_id)
		VALUES ($1, $2)
	`

	for _, productID := range coupon.ApplicableProductIDs {
		if _, err := tx.Exec(ctx, productQuery, coupon.ID, productID); err != nil {
			span.RecordError(err)

			return 0, fmt.Errorf("error linking coupon product: %w", err)
		}
	}

	return coupon.ID, nil
}

func (r *couponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	ctx, span := r.tracer.Start(ctx, "CouponRepository.GetByCode")
	defer span.End()

	span.SetAttributes(
		attribute.String("code", code),
	)

	return r.getByCode(ctx, r.pool, code, false)
}

// GetByCodeForUpdate locks the coupon row for the rest of the transaction so
// the claims check and the claims increment see the same counter.
func (r *couponRepo) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.Coupon, error) {
	ctx, span := r.tracer.Start(ctx, "CouponRepository.GetByCodeForUpdate")
	defer span.End()

	span.SetAttributes(
		attribute.String("code", code),
	)

	return r.getByCode(ctx, tx, code, true)
}

func (r *couponRepo) getByCode(ctx context.Context, q querier, code string, forUpdate bool) (*domain.Coupon, error) {
	query := `
		SELECT id, code, discount_type, discount_value, is_active, valid_until, max_claims, claims, created_at
		FROM coupons
		WHERE code = LOWER($1)
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var c domain.Coupon
	if err := q.QueryRow(ctx, query, code).Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.IsActive,
		&c.ValidUntil,
		&c.MaxClaims,
		&c.Claims,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Error getting coupon by code",
			zap.String("code", code),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting coupon: %w", err)
	}

	productsQuery := `
		SELECT product_id
		FROM coupon_products
		WHERE coupon_id = $1
		ORDER BY product_id;
	`

	rows, err := q.Query(ctx, productsQuery, c.ID)
	if err != nil {
		return nil, fmt.Errorf("error querying coupon products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		if err := rows.Scan(&productID); err != nil {
			return nil, fmt.Errorf("error scanning coupon product: %w", err)
		}

		c.ApplicableProductIDs = append(c.ApplicableProductIDs, productID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("coupon product rows iteration error: %w", err)
	}

	return &c, nil
}

func (r *couponRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	ctx, span := r.tracer.Start(ctx, "CouponRepository.List")
	defer span.End()

	query := `
		SELECT id, code, discount_type, discount_value, is_active, valid_until, max_claims, claims, created_at
		FROM coupons
		ORDER BY created_at DESC;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error selecting coupons: %w", err)
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(
			&c.ID,
			&c.Code,
			&c.DiscountType,
			&c.DiscountValue,
			&c.IsActive,
			&c.ValidUntil,
			&c.MaxClaims,
			&c.Claims,
			&c.CreatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning coupon: %w", err)
		}

		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("coupon rows iteration error: %w", err)
	}

	return coupons, nil
}

// IncrementClaims bumps the redemption counter, guarded so a concurrent order
// cannot push it past max_claims.
func (r *couponRepo) IncrementClaims(ctx context.Context, tx pgx.Tx, couponID int64) error {
	ctx, span := r.tracer.Start(ctx, "CouponRepository.IncrementClaims")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("coupon_id", couponID),
	)

	query := `
		UPDATE coupons
		SET claims = claims + 1
		WHERE id = $1
			AND (max_claims IS NULL OR claims < max_claims);
	`

	commandTag, err := tx.Exec(ctx, query, couponID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error incrementing coupon claims",
			zap.Int64("coupon_id", couponID),
			zap.Error(err),
		)

		return fmt.Errorf("error incrementing claims: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrCouponLimitReached
	}

	return nil
}
