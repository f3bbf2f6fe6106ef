package handler

import (
	"strconv"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
	logger  *zap.Logger
}

func NewOrderHandler(service service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: logger}
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	publicID, err := uuid.Parse(c.Params("publicId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid order id",
		})
	}

	order, err := h.service.GetByPublicID(c.UserContext(), publicID)
	if err != nil {
		h.logger.Warn("get order failed", zap.String("public_id", publicID.String()), zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(order)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	customerUID := c.Query("customer_uid")
	limit := int64(c.QueryInt("limit", 20))
	offset := int64(c.QueryInt("offset", 0))

	orders, err := h.service.List(c.UserContext(), customerUID, limit, offset)
	if err != nil {
		h.logger.Error("list orders failed", zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"orders": orders,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid order id",
		})
	}

	input := new(updateStatusRequest)
	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in update status", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	status, ok := domain.ParseOrderStatus(input.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown order status",
		})
	}

	if err := h.service.UpdateStatus(c.UserContext(), id, status); err != nil {
		h.logger.Warn(
			"update order status failed",
			zap.Int64("order_id", id),
			zap.String("status", input.Status),
			zap.Error(err),
		)

		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
	})
}
