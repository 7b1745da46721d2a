package paymentRoutes

import (
	paymentController "lms/controllers/payment"
	"lms/middleware"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up all payment routes
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/initiate", middleware.JWTMiddleware, paymentValidator.InitiatePayment(), paymentController.InitiatePayment)

	// Publicly reachable; authenticity comes from the payload signature,
	// and the handler always answers 200
	paymentGroup.Post("/webhook", paymentController.Webhook)

	paymentGroup.Get("/verify/:orderId", middleware.JWTMiddleware, paymentController.VerifyPayment)
}
