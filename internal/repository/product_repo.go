package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProductRepository interface {
	Create(ctx context.Context, tx pgx.Tx, product *domain.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetForOrder(ctx context.Context, tx pgx.Tx, id int64) (*domain.Product, error)
	List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error
	ReplaceVariants(ctx context.Context, tx pgx.Tx, productID int64, variants []domain.Variant) error
	DeleteByID(ctx context.Context, id int64) error
	DecrementVariantStock(ctx context.Context, tx pgx.Tx, productID, variantID int64, quantity int32) error
}

type productRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewProductRepository(pool *pgxpool.Pool, logger *zap.Logger) ProductRepository {
	return &productRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("contract/product_repo"),
	}
}

func (r *productRepo) Create(ctx context.Context, tx pgx.Tx, product *domain.Product) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("name", product.Name),
		attribute.Int("variants_count", len(product.Variants)),
	)

	query := `
		INSERT INTO products (name, description, category, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	err := tx.QueryRow(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Category,
		product.ImageUrl,
	).Scan(&product.ID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(ctx, r.logger, "Error creating product", zap.Error(err))

		return 0, fmt.Errorf("error creating product: %w", err)
	}

	variantQuery := `
		INSERT INTO product_variants (product_id, color, size, stock, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`

	for i := range product.Variants {
		v := &product.Variants[i]
		v.ProductID = product.ID

		if err := tx.QueryRow(
			ctx,
			variantQuery,
			v.ProductID,
			v.Color,
			v.Size,
			v.Stock,
			v.Price,
			v.ImageUrl,
		).Scan(&v.ID); err != nil {
			span.RecordError(err)

			mylogger.Error(
				ctx,
				r.logger,
				"Error creating product variant",
				zap.Int64("product_id", product.ID),
				zap.Error(err),
			)

			return 0, fmt.Errorf("error creating product variant: %w", err)
		}
	}

	return product.ID, nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	return r.getProduct(ctx, r.pool, id)
}

// GetForOrder reads the product and its variants through the supplied
// transaction so the checkout validates against live stock, never a cached
// snapshot.
func (r *productRepo) GetForOrder(ctx context.Context, tx pgx.Tx, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetForOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	return r.getProduct(ctx, tx, id)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *productRepo) getProduct(ctx context.Context, q querier, id int64) (*domain.Product, error) {
	productQuery := `
		SELECT id, name, description, category, image_url, created_at, updated_at
		FROM products
		WHERE id = $1 AND deleted_at IS NULL;
	`

	var res domain.Product
	if err := q.QueryRow(ctx, productQuery, id).
		Scan(&res.ID, &res.Name, &res.Description, &res.Category,
			&res.ImageUrl, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Error get product by id",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting product: %w", err)
	}

	variantsQuery := `
		SELECT id, product_id, color, size, stock, price, image_url
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id;
	`

	rows, err := q.Query(ctx, variantsQuery, id)
	if err != nil {
		mylogger.Error(
			ctx,
			r.logger,
			"Error querying product variants",
			zap.Int64("product_id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error querying product variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(
			&v.ID,
			&v.ProductID,
			&v.Color,
			&v.Size,
			&v.Stock,
			&v.Price,
			&v.ImageUrl,
		); err != nil {
			return nil, fmt.Errorf("error scanning variant: %w", err)
		}

		res.Variants = append(res.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("variant rows iteration error: %w", err)
	}

	return &res, nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
		attribute.String("search", search),
	)

	baseQuery := `SELECT id, name, description, category, image_url, created_at, updated_at
		FROM products
		WHERE deleted_at IS NULL`
	countQuery := `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`

	var args []interface{}
	argId := 1

	if search != "" {
		filter := fmt.Sprintf(" AND name ILIKE $%d", argId)
		baseQuery += filter
		countQuery += filter

		args = append(args, "%"+search+"%")
		argId++
	}

	baseQuery += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argId, argId+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, baseQuery, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error selecting products",
			zap.String("search", search),
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("error selecting products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Category,
			&p.ImageUrl,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, 0, fmt.Errorf("error scanning rows: %w", err)
		}

		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	var countArgs []interface{}
	if search != "" {
		countArgs = append(countArgs, args[0])
	}

	var totalCount int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		span.RecordError(err)

		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, totalCount, nil
}

func (r *productRepo) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `UPDATE products SET `
	var args []interface{}
	argId := 1

	var updates []string

	if input.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argId))
		args = append(args, *input.Name)
		argId++
	}

	if input.Description != nil {
		updates = append(updates, fmt.Sprintf("description = $%d", argId))
		args = append(args, *input.Description)
		argId++
	}

	if input.Category != nil {
		updates = append(updates, fmt.Sprintf("category = $%d", argId))
		args = append(args, *input.Category)
		argId++
	}

	if input.ImageUrl != nil {
		updates = append(updates, fmt.Sprintf("image_url = $%d", argId))
		args = append(args, *input.ImageUrl)
		argId++
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")

	query += strings.Join(updates, ", ")
	query += fmt.Sprintf(" WHERE id = $%d AND deleted_at IS NULL", argId)
	args = append(args, id)

	commandTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update product",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating product: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// ReplaceVariants swaps the whole variant list of a product in one
// transaction. Used by catalog admin edits; checkout never goes through here.
func (r *productRepo) ReplaceVariants(ctx context.Context, tx pgx.Tx, productID int64, variants []domain.Variant) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.ReplaceVariants")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product_id", productID),
		attribute.Int("variants_count", len(variants)),
	)

	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)`
	if err := tx.QueryRow(ctx, existsQuery, productID).Scan(&exists); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error checking product: %w", err)
	}

	if !exists {
		return ErrProductNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, productID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error deleting variants: %w", err)
	}

	insertQuery := `
		INSERT INTO product_variants (product_id, color, size, stock, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`

	for i := range variants {
		v := &variants[i]
		v.ProductID = productID

		if err := tx.QueryRow(
			ctx,
			insertQuery,
			v.ProductID,
			v.Color,
			v.Size,
			v.Stock,
			v.Price,
			v.ImageUrl,
		).Scan(&v.ID); err != nil {
			span.RecordError(err)
			return fmt.Errorf("error inserting variant: %w", err)
		}
	}

	return nil
}

func (r *productRepo) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE products
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error deleting product by id",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error deleting product by id: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DecrementVariantStock is the only write path for stock. The conditional
// update keeps the counter from ever going below zero: the validate phase has
// already confirmed the variant exists in this transaction, so zero affected
// rows means another order took the stock first.
func (r *productRepo) DecrementVariantStock(ctx context.Context, tx pgx.Tx, productID, variantID int64, quantity int32) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DecrementVariantStock")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product_id", productID),
		attribute.Int64("variant_id", variantID),
		attribute.Int("quantity", int(quantity)),
	)

	query := `
		UPDATE product_variants
		SET stock = stock - $3
		WHERE id = $1
			AND product_id = $2
			AND stock >= $3;
	`

	commandTag, err := tx.Exec(ctx, query, variantID, productID, quantity)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error decrementing variant stock",
			zap.Int64("variant_id", variantID),
			zap.Int32("quantity", quantity),
			zap.Error(err),
		)

		return fmt.Errorf("error decrementing stock for variant %d: %w", variantID, err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}

	return nil
}
