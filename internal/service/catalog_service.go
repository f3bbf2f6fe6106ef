package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CatalogService interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error
	UpdateVariants(ctx context.Context, productID int64, variants []domain.Variant) error
	Delete(ctx context.Context, id int64) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	pool        *pgxpool.Pool
	logger      *zap.Logger
}

func NewCatalogService(productRepo repository.ProductRepository, pool *pgxpool.Pool, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		pool:        pool,
		logger:      logger,
	}
}

func (s *catalogService) Create(ctx context.Context, product *domain.Product) (int64, error) {
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

	id, err := s.productRepo.Create(ctx, tx, product)
	if err != nil {
		mylogger.Error(ctx, s.logger, "create product error", zap.Error(err))
		return 0, fmt.Errorf("error creating product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, s.logger, "Error commiting transaction", zap.Error(err))
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

func (s *catalogService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	res, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.Int64("product_id", id))
			return nil, err
		}

		s.logger.Error("error getting product", zap.Error(err))
		return nil, fmt.Errorf("error getting product by id: %w", err)
	}

	return res, nil
}

func (s *catalogService) List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error) {
	list, quantity, err := s.productRepo.List(ctx, limit, offset, search)
	if err != nil {
		s.logger.Error("list error", zap.Error(err))
		return nil, 0, fmt.Errorf("error listing products: %w", err)
	}

	return list, quantity, nil
}

func (s *catalogService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	err := s.productRepo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.Int64("product_id", id))
			return err
		}

		s.logger.Error("error updating product", zap.Error(err))
		return err
	}

	return nil
}

// UpdateVariants replaces a product's variant list wholesale. Admin-only
// path; stock decrements from checkout never come through here.
func (s *catalogService) UpdateVariants(ctx context.Context, productID int64, variants []domain.Variant) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error starting transaction", zap.Error(err))
		return err
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

	if err := s.productRepo.ReplaceVariants(ctx, tx, productID, variants); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.Int64("product_id", productID))
			return err
		}

		mylogger.Error(ctx, s.logger, "error replacing variants", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, s.logger, "Error commiting transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	err := s.productRepo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.Int64("product_id", id))
			return err
		}

		s.logger.Error("error deleting product", zap.Error(err))
		return err
	}

	return nil
}
