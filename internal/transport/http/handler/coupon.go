package handler

import (
	"time"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CouponHandler struct {
	service service.CouponService
	logger  *zap.Logger
}

func NewCouponHandler(service service.CouponService, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{service: service, logger: logger}
}

type createCouponRequest struct {
	Code                 string     `json:"code" validate:"required,min=3"`
	DiscountType         string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue        int64      `json:"discount_value" validate:"required,gt=0"`
	IsActive             bool       `json:"is_active"`
	ValidUntil           *time.Time `json:"valid_until"`
	MaxClaims            *int64     `json:"max_claims" validate:"omitempty,gt=0"`
	ApplicableProductIDs []int64    `json:"applicable_product_ids"`
}

func (h *CouponHandler) Create(c *fiber.Ctx) error {
	input := new(createCouponRequest)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in create coupon", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	if input.DiscountType == string(domain.DiscountPercentage) && input.DiscountValue > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "percentage discount cannot exceed 100",
		})
	}

	coupon := domain.Coupon{
		Code:                 input.Code,
		DiscountType:         domain.DiscountType(input.DiscountType),
		DiscountValue:        input.DiscountValue,
		IsActive:             input.IsActive,
		ValidUntil:           input.ValidUntil,
		MaxClaims:            input.MaxClaims,
		ApplicableProductIDs: input.ApplicableProductIDs,
	}

	id, err := h.service.Create(c.UserContext(), &coupon)
	if err != nil {
		h.logger.Warn(
			"create coupon failed",
			zap.String("code", input.Code),
			zap.Error(err),
		)

		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

func (h *CouponHandler) List(c *fiber.Ctx) error {
	coupons, err := h.service.List(c.UserContext())
	if err != nil {
		h.logger.Error("list coupons failed", zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"coupons": coupons,
	})
}
