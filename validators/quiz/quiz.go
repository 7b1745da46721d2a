package quizValidator

import (
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuizID  uint                  `json:"quizId"`
			Answers []services.QuizAnswer `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuizID == 0 {
			errors["quizId"] = "Quiz ID is required!"
		}
		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}
		for _, ans := range reqData.Answers {
			if ans.QuestionID == 0 || ans.OptionID == 0 {
				errors["answers"] = "Each answer needs a question ID and an option ID!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizSubmit", reqData)
		return c.Next()
	}
}
