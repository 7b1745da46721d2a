package quizRoutes

import (
	quizController "lms/controllers/quiz"
	"lms/middleware"
	quizValidator "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	quizGroup.Post("/submit", middleware.JWTMiddleware, quizValidator.SubmitQuiz(), quizController.SubmitQuiz)
	quizGroup.Get("/:quizId/best", middleware.JWTMiddleware, quizController.GetBestAttempt)
}
