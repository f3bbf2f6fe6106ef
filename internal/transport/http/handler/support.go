package handler

import (
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SupportHandler struct {
	service service.SupportService
	logger  *zap.Logger
}

func NewSupportHandler(service service.SupportService, logger *zap.Logger) *SupportHandler {
	return &SupportHandler{service: service, logger: logger}
}

type postMessageRequest struct {
	SessionID string `json:"session_id"`
	Sender    string `json:"sender" validate:"required,oneof=customer admin"`
	Body      string `json:"body" validate:"required"`
}

func (h *SupportHandler) PostMessage(c *fiber.Ctx) error {
	input := new(postMessageRequest)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in post message", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	sessionID := uuid.Nil
	if input.SessionID != "" {
		var err error
		sessionID, err = uuid.Parse(input.SessionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid session id",
			})
		}
	}

	message, err := h.service.PostMessage(
		c.UserContext(),
		sessionID,
		domain.SupportSender(input.Sender),
		input.Body,
	)
	if err != nil {
		h.logger.Warn("post support message failed", zap.Error(err))

		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *SupportHandler) History(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session id",
		})
	}

	messages, err := h.service.History(c.UserContext(), sessionID)
	if err != nil {
		h.logger.Error("support history failed", zap.Error(err))

		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
	})
}
