package quizController

import (
	"lms/middleware"
	"lms/services"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// SubmitQuiz scores the caller's answers and stores one immutable attempt
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuizSubmit").(*struct {
		QuizID  uint                  `json:"quizId"`
		Answers []services.QuizAnswer `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	attempt, err := services.SubmitAttempt(userID, reqData.QuizID, reqData.Answers)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"attempt": attempt,
		"score":   attempt.Score,
		"passed":  attempt.Passed,
	})
}

// GetBestAttempt returns the caller's best attempt for a quiz
func GetBestAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := strconv.Atoi(c.Params("quizId"))
	if err != nil || quizID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
	}

	attempt, err := services.BestAttempt(userID, uint(quizID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Best attempt fetched!", attempt)
}
