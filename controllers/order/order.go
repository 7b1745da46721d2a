package orderController

import (
	"lms/middleware"
	"lms/models"
	"lms/services"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// CreateOrder places a PENDING order for the validated course list
func CreateOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreateOrder").(*struct {
		CourseIDs     []uint `json:"courseIds"`
		PaymentMethod string `json:"paymentMethod"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	order, err := services.CreateOrder(userID, reqData.CourseIDs, reqData.PaymentMethod)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Order created successfully!", order)
}

// GetOrder returns one of the caller's orders
func GetOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	orderID, err := strconv.Atoi(c.Params("id"))
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

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order fetched successfully!", order)
}

// ListOrders returns the caller's orders
func ListOrders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	orders, err := services.ListOrdersByUser(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched successfully!", orders)
}

// UpdateOrderStatus is the self-service, non-gateway status path: a buyer
// can cancel a pending order or flag a completed one refunded. The gateway
// outcomes (COMPLETED, FAILED) only ever come from settlement.
func UpdateOrderStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil || orderID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid order ID!", nil)
	}

	reqData, ok := c.Locals("validatedOrderStatus").(*struct {
		Status string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Status != models.OrderStatusCancelled && reqData.Status != models.OrderStatusRefunded {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be CANCELLED or REFUNDED!", nil)
	}

	order, err := services.GetOrder(uint(orderID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if order.BuyerID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this order!", nil)
	}

	if err := services.TransitionStatus(order.ID, reqData.Status, ""); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	// A refund stops payouts that have not happened yet; enrollment is not
	// retroactively revoked
	if reqData.Status == models.OrderStatusRefunded {
		if err := services.CancelPendingEarnings(order.ID); err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}

	updated, err := services.GetOrder(order.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order status updated!", updated)
}
