package orderValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var allowedPaymentMethods = map[string]bool{
	"CARD":       true,
	"UPI":        true,
	"NETBANKING": true,
	"WALLET":     true,
}

func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseIDs     []uint `json:"courseIds"`
			PaymentMethod string `json:"paymentMethod"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.CourseIDs) == 0 {
			errors["courseIds"] = "At least one course is required!"
		}
		for _, id := range reqData.CourseIDs {
			if id == 0 {
				errors["courseIds"] = "Course IDs must be positive!"
				break
			}
		}

		reqData.PaymentMethod = strings.ToUpper(strings.TrimSpace(reqData.PaymentMethod))
		if reqData.PaymentMethod == "" {
			errors["paymentMethod"] = "Payment method is required!"
		} else if !allowedPaymentMethods[reqData.PaymentMethod] {
			errors["paymentMethod"] = "Unsupported payment method!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateOrder", reqData)
		return c.Next()
	}
}

func UpdateOrderStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
		if reqData.Status == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status is required!", nil)
		}

		c.Locals("validatedOrderStatus", reqData)
		return c.Next()
	}
}
