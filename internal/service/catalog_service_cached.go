package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

// cachedCatalogService caches product reads in redis. Writes invalidate the
// cached entry; stock shown from cache is advisory only, checkout always
// reads the live row.
type cachedCatalogService struct {
	next        CatalogService
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewCachedCatalogService(next CatalogService, redisClient *redis.Client) CatalogService {
	return &cachedCatalogService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    time.Minute * 10,
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *cachedCatalogService) Create(ctx context.Context, product *domain.Product) (int64, error) {
	return s.next.Create(ctx, product)
}

func (s *cachedCatalogService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)

	val, err := s.redisClient.Get(ctx, key).Result()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal([]byte(val), &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		s.redisClient.Set(ctx, key, data, s.cacheTTL)
	}

	return product, nil
}

func (s *cachedCatalogService) List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error) {
	return s.next.List(ctx, limit, offset, search)
}

func (s *cachedCatalogService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	if err := s.next.Update(ctx, id, input); err != nil {
		return err
	}

	s.redisClient.Del(ctx, productKey(id))
	return nil
}

func (s *cachedCatalogService) UpdateVariants(ctx context.Context, productID int64, variants []domain.Variant) error {
	if err := s.next.UpdateVariants(ctx, productID, variants); err != nil {
		return err
	}

	s.redisClient.Del(ctx, productKey(productID))
	return nil
}

func (s *cachedCatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}

	s.redisClient.Del(ctx, productKey(id))
	return nil
}
