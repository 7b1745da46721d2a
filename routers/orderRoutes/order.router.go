package orderRoutes

import (
	orderController "lms/controllers/order"
	"lms/middleware"
	orderValidator "lms/validators/order"

	"github.com/gofiber/fiber/v2"
)

// SetupOrderRoutes sets up all order routes
func SetupOrderRoutes(app *fiber.App) {
	orderGroup := app.Group("/orders")

	orderGroup.Post("/", middleware.JWTMiddleware, orderValidator.CreateOrder(), orderController.CreateOrder)
	orderGroup.Get("/", middleware.JWTMiddleware, orderController.ListOrders)
	orderGroup.Get("/:id", middleware.JWTMiddleware, orderController.GetOrder)

	// Self-service status path for non-gateway flows (cancel, refund)
	orderGroup.Patch("/:id/status", middleware.JWTMiddleware, orderValidator.UpdateOrderStatus(), orderController.UpdateOrderStatus)
}
