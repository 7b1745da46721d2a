package paymentValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func InitiatePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OrderID       uint   `json:"orderId"`
			PaymentMethod string `json:"paymentMethod"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.OrderID == 0 {
			errors["orderId"] = "Order ID is required!"
		}
		reqData.PaymentMethod = strings.ToUpper(strings.TrimSpace(reqData.PaymentMethod))

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedInitiatePayment", reqData)
		return c.Next()
	}
}
