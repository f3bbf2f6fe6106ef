package service_test

import (
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"go.uber.org/zap"
)

func (s *IntegrationTestSuite) catalogService() service.CatalogService {
	logger := zap.NewNop()
	productRepo := repository.NewProductRepository(s.DbPool, logger)

	return service.NewCatalogService(productRepo, s.DbPool, logger)
}

func (s *IntegrationTestSuite) TestCatalog_CreateAndFind() {
	catalog := s.catalogService()

	product := &domain.Product{
		Name:        "Linen Shirt",
		Description: "Breathable summer shirt",
		Category:    "apparel",
		Variants: []domain.Variant{
			{Color: "black", Size: "M", Stock: 10, Price: 2999},
			{Color: "white", Size: "L", Stock: 5, Price: 3199},
		},
	}

	id, err := catalog.Create(s.Ctx, product)
	s.Require().NoError(err)
	s.Require().NotZero(id)

	found, err := catalog.FindByID(s.Ctx, id)
	s.Require().NoError(err)

	s.Equal("Linen Shirt", found.Name)
	s.Require().Len(found.Variants, 2)
	s.Equal(int64(10), found.Variants[0].Stock)
	s.Equal(int64(3199), found.Variants[1].Price)
}

func (s *IntegrationTestSuite) TestCatalog_UpdateVariantsReplacesSet() {
	catalog := s.catalogService()

	id, err := catalog.Create(s.Ctx, &domain.Product{
		Name: "Linen Shirt",
		Variants: []domain.Variant{
			{Color: "black", Size: "M", Stock: 10, Price: 2999},
		},
	})
	s.Require().NoError(err)

	err = catalog.UpdateVariants(s.Ctx, id, []domain.Variant{
		{Color: "navy", Size: "S", Stock: 3, Price: 2799},
		{Color: "navy", Size: "M", Stock: 7, Price: 2799},
	})
	s.Require().NoError(err)

	found, err := catalog.FindByID(s.Ctx, id)
	s.Require().NoError(err)
	s.Require().Len(found.Variants, 2)
	s.Equal("navy", found.Variants[0].Color)
}

func (s *IntegrationTestSuite) TestCatalog_SoftDeleteHidesProduct() {
	catalog := s.catalogService()

	id, err := catalog.Create(s.Ctx, &domain.Product{
		Name:     "Linen Shirt",
		Variants: []domain.Variant{{Color: "black", Size: "M", Stock: 10, Price: 2999}},
	})
	s.Require().NoError(err)

	s.Require().NoError(catalog.Delete(s.Ctx, id))

	_, err = catalog.FindByID(s.Ctx, id)
	s.Require().ErrorIs(err, repository.ErrProductNotFound)

	products, total, err := catalog.List(s.Ctx, 20, 0, "")
	s.Require().NoError(err)
	s.Empty(products)
	s.Zero(total)
}

func (s *IntegrationTestSuite) TestCatalog_ListWithSearch() {
	catalog := s.catalogService()

	for _, name := range []string{"Linen Shirt", "Wool Scarf", "Linen Trousers"} {
		_, err := catalog.Create(s.Ctx, &domain.Product{
			Name:     name,
			Variants: []domain.Variant{{Color: "black", Size: "M", Stock: 1, Price: 1000}},
		})
		s.Require().NoError(err)
	}

	products, total, err := catalog.List(s.Ctx, 20, 0, "linen")
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(products, 2)
}
