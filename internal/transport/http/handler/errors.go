package handler

import (
	"errors"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/gofiber/fiber/v2"
)

func mapErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrVariantNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCouponNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrCouponCodeTaken),
		errors.Is(err, service.ErrTxConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrCouponInactive),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponLimitReached),
		errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrUnknownSender):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	status := mapErrorStatus(err)

	body := fiber.Map{
		"error": err.Error(),
	}

	// TxConflict is the one failure the client may retry as-is; everything
	// else needs a fresh cart or fresh state first.
	if errors.Is(err, service.ErrTxConflict) {
		body["retryable"] = true
	}

	return c.Status(status).JSON(body)
}
