package controllers

import (
	"lms/middleware"
	"lms/services"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// CompleteLecture marks a lecture done for the caller and returns the
// recomputed progress summary
func CompleteLecture(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCompleteLecture").(*struct {
		LectureID uint `json:"lectureId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	summary, err := services.MarkLectureCompleted(userID, reqData.LectureID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Lecture marked as completed!"
	if summary.AlreadyCompleted {
		message = "Lecture was already completed."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, summary)
}

// GetProgress returns the caller's progress for one enrollment
func GetProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID, err := strconv.Atoi(c.Params("enrollmentId"))
	if err != nil || enrollmentID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment ID!", nil)
	}

	summary, err := services.GetProgress(userID, uint(enrollmentID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", summary)
}
