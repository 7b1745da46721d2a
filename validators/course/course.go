package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"courseId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.CourseID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

func CompleteLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			LectureID uint `json:"lectureId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.LectureID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lecture ID is required!", nil)
		}

		c.Locals("validatedCompleteLecture", reqData)
		return c.Next()
	}
}
