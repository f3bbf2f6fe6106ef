package handler

import (
	"strconv"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service service.CatalogService
	logger  *zap.Logger
}

func NewCatalogHandler(service service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

type variantInput struct {
	Color    string `json:"color"`
	Size     string `json:"size"`
	Stock    int64  `json:"stock" validate:"gte=0"`
	Price    int64  `json:"price" validate:"gte=0"`
	ImageUrl string `json:"image_url"`
}

type createProductRequest struct {
	Name        string         `json:"name" validate:"required,min=2"`
	Description string         `json:"description"`
	Category    string         `json:"category" validate:"required"`
	ImageUrl    string         `json:"image_url"`
	Variants    []variantInput `json:"variants" validate:"required,min=1,dive"`
}

func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	input := new(createProductRequest)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in create product", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	variants := make([]domain.Variant, len(input.Variants))
	for i, v := range input.Variants {
		variants[i] = domain.Variant{
			Color:    v.Color,
			Size:     v.Size,
			Stock:    v.Stock,
			Price:    v.Price,
			ImageUrl: v.ImageUrl,
		}
	}

	product := domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		ImageUrl:    input.ImageUrl,
		Variants:    variants,
	}

	id, err := h.service.Create(c.UserContext(), &product)
	if err != nil {
		h.logger.Error(
			"create product failed",
			zap.String("name", input.Name),
			zap.Error(err),
		)

		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

func (h *CatalogHandler) FindByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	product, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		h.logger.Warn("get product failed", zap.Int64("product_id", id), zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(product)
}

func (h *CatalogHandler) List(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 20))
	offset := int64(c.QueryInt("offset", 0))
	search := c.Query("search")

	products, total, err := h.service.List(c.UserContext(), limit, offset, search)
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"products":    products,
		"total_count": total,
	})
}

func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	input := new(domain.UpdateProductInput)
	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in update product", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.service.Update(c.UserContext(), id, input); err != nil {
		h.logger.Warn("update product failed", zap.Int64("product_id", id), zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
	})
}

type updateVariantsRequest struct {
	Variants []variantInput `json:"variants" validate:"required,min=1,dive"`
}

func (h *CatalogHandler) UpdateVariants(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	input := new(updateVariantsRequest)
	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in update variants", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	variants := make([]domain.Variant, len(input.Variants))
	for i, v := range input.Variants {
		variants[i] = domain.Variant{
			Color:    v.Color,
			Size:     v.Size,
			Stock:    v.Stock,
			Price:    v.Price,
			ImageUrl: v.ImageUrl,
		}
	}

	if err := h.service.UpdateVariants(c.UserContext(), id, variants); err != nil {
		h.logger.Warn("update variants failed", zap.Int64("product_id", id), zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
	})
}

func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		h.logger.Warn("delete product failed", zap.Int64("product_id", id), zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
	})
}
