package earningController

import (
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// GetEarnings lists the caller's own instructor earnings
func GetEarnings(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	earnings, err := services.ListEarningsByInstructor(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var totalNet int64
	for _, e := range earnings {
		totalNet += e.NetAmount
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Earnings fetched successfully!", fiber.Map{
		"earnings": earnings,
		"totalNet": totalNet,
	})
}
