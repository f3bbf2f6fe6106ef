package handler

import (
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

type CheckoutHandler struct {
	checkout service.CheckoutService
	coupons  service.CouponService
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, coupons service.CouponService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		coupons:  coupons,
		logger:   logger,
	}
}

type checkoutLine struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	VariantID int64  `json:"variant_id" validate:"required,gt=0"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
	Price     int64  `json:"price" validate:"gte=0"`
}

type checkoutCustomer struct {
	UID           string `json:"uid" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type checkoutRequest struct {
	Customer   checkoutCustomer `json:"customer" validate:"required"`
	Items      []checkoutLine   `json:"items" validate:"required,min=1,dive"`
	CouponCode string           `json:"coupon_code"`
}

type previewRequest struct {
	Items      []checkoutLine `json:"items" validate:"required,min=1,dive"`
	CouponCode string         `json:"coupon_code" validate:"required"`
}

func toCartLines(items []checkoutLine) []domain.CartLine {
	lines := make([]domain.CartLine, len(items))
	for i, item := range items {
		lines[i] = domain.CartLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return lines
}

func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	input := new(checkoutRequest)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in checkout", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	customer := domain.Customer{
		UID:           input.Customer.UID,
		Name:          input.Customer.Name,
		Email:         input.Customer.Email,
		PaymentMethod: input.Customer.PaymentMethod,
	}

	order, err := h.checkout.PlaceOrder(c.UserContext(), customer, toCartLines(input.Items), input.CouponCode)
	if err != nil {
		h.logger.Warn(
			"checkout failed",
			zap.String("customer_uid", customer.UID),
			zap.Error(err),
		)

		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id":  order.PublicID,
		"subtotal":  order.Subtotal,
		"discount":  order.Discount,
		"total":     order.Total,
		"status":    order.Status,
	})
}

func (h *CheckoutHandler) PreviewDiscount(c *fiber.Ctx) error {
	input := new(previewRequest)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in preview", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	preview, err := h.coupons.PreviewDiscount(c.UserContext(), toCartLines(input.Items), input.CouponCode)
	if err != nil {
		h.logger.Warn(
			"discount preview failed",
			zap.String("code", input.CouponCode),
			zap.Error(err),
		)

		return errorJSON(c, err)
	}

	return c.JSON(preview)
}
