package service_test

import (
	"testing"
	"time"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	outboxRepository "github.com/Th3UrBanGuy/kenakata-sub000/pkg/outbox/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/testsuite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type IntegrationTestSuite struct {
	testsuite.BaseSuite

	CheckoutService service.CheckoutService
	CouponService   service.CouponService
	OrderService    service.OrderService
	SupportService  service.SupportService
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.BaseSuite.SetupInfrastructure("../../migrations")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.BaseSuite.TearDownInfrastructure()
}

func (s *IntegrationTestSuite) SetupTest() {
	s.BaseSuite.TruncateTable("products")
	s.BaseSuite.TruncateTable("coupons")
	s.BaseSuite.TruncateTable("orders")
	s.BaseSuite.TruncateTable("support_messages")
	s.BaseSuite.TruncateTable("outbox")

	logger := zap.NewNop()
	productRepo := repository.NewProductRepository(s.DbPool, logger)
	couponRepo := repository.NewCouponRepository(s.DbPool, logger)
	orderRepo := repository.NewOrderRepository(s.DbPool, logger)
	supportRepo := repository.NewSupportRepository(s.DbPool, logger)
	outboxRepo := outboxRepository.NewOutboxRepository(s.DbPool, logger)

	s.CheckoutService = service.NewCheckoutService(
		s.DbPool,
		logger,
		productRepo,
		couponRepo,
		orderRepo,
		outboxRepo,
		3,
		10*time.Millisecond,
	)
	s.CouponService = service.NewCouponService(s.DbPool, logger, couponRepo)
	s.OrderService = service.NewOrderService(s.DbPool, logger, orderRepo)
	s.SupportService = service.NewSupportService(supportRepo, logger)
}

// seedProduct inserts one product with a single variant and returns both ids.
func (s *IntegrationTestSuite) seedProduct(name string, stock, price int64) (int64, int64) {
	var productID int64
	err := s.DbPool.QueryRow(
		s.Ctx,
		`INSERT INTO products (name, description, category) VALUES ($1, '', 'apparel') RETURNING id`,
		name,
	).Scan(&productID)
	s.Require().NoError(err)

	var variantID int64
	err = s.DbPool.QueryRow(
		s.Ctx,
		`INSERT INTO product_variants (product_id, color, size, stock, price) VALUES ($1, 'black', 'M', $2, $3) RETURNING id`,
		productID,
		stock,
		price,
	).Scan(&variantID)
	s.Require().NoError(err)

	return productID, variantID
}

func (s *IntegrationTestSuite) seedCoupon(coupon domain.Coupon) int64 {
	id, err := s.CouponService.Create(s.Ctx, &coupon)
	s.Require().NoError(err)

	return id
}

func (s *IntegrationTestSuite) variantStock(variantID int64) int64 {
	var stock int64
	err := s.DbPool.QueryRow(s.Ctx, `SELECT stock FROM product_variants WHERE id = $1`, variantID).Scan(&stock)
	s.Require().NoError(err)

	return stock
}

func (s *IntegrationTestSuite) couponClaims(couponID int64) int64 {
	var claims int64
	err := s.DbPool.QueryRow(s.Ctx, `SELECT claims FROM coupons WHERE id = $1`, couponID).Scan(&claims)
	s.Require().NoError(err)

	return claims
}

func (s *IntegrationTestSuite) orderCount() int64 {
	var count int64
	err := s.DbPool.QueryRow(s.Ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	s.Require().NoError(err)

	return count
}

func testCustomer() domain.Customer {
	return domain.Customer{
		UID:           "cust-1",
		Name:          "Ayesha Rahman",
		Email:         "ayesha@example.com",
		PaymentMethod: "cod",
	}
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
