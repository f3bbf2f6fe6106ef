package http

import (
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/transport/http/handler"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Catalog  *handler.CatalogHandler
	Checkout *handler.CheckoutHandler
	Coupon   *handler.CouponHandler
	Order    *handler.OrderHandler
	Support  *handler.SupportHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	product := api.Group("/products")
	product.Post("", h.Catalog.Create)
	product.Get("", h.Catalog.List)
	product.Get("/:id", h.Catalog.FindByID)
	product.Patch("/:id", h.Catalog.Update)
	product.Put("/:id/variants", h.Catalog.UpdateVariants)
	product.Delete("/:id", h.Catalog.Delete)

	checkout := api.Group("/checkout")
	checkout.Post("", h.Checkout.PlaceOrder)
	checkout.Post("/preview", h.Checkout.PreviewDiscount)

	coupon := api.Group("/coupons")
	coupon.Post("", h.Coupon.Create)
	coupon.Get("", h.Coupon.List)

	order := api.Group("/orders")
	order.Get("", h.Order.List)
	order.Get("/:publicId", h.Order.Get)
	order.Patch("/:id/status", h.Order.UpdateStatus)

	support := api.Group("/support")
	support.Post("/messages", h.Support.PostMessage)
	support.Get("/sessions/:sessionId/messages", h.Support.History)
}
