package courseRoutes

import (
	controllers "lms/controllers/course"
	earningController "lms/controllers/earning"
	"lms/middleware"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up enrollment and progress routes
func SetupCourseRoutes(app *fiber.App) {
	// Enrollment (free-course self-enroll; paid courses enroll via settlement)
	app.Post("/enroll", middleware.JWTMiddleware, courseValidator.EnrollCourse(), controllers.EnrollInCourse)
	app.Delete("/enroll/:courseId", middleware.JWTMiddleware, controllers.Unenroll)
	app.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)

	// Progress tracking
	progressGroup := app.Group("/progress")
	progressGroup.Post("/complete-lecture", middleware.JWTMiddleware, courseValidator.CompleteLecture(), controllers.CompleteLecture)
	progressGroup.Get("/:enrollmentId", middleware.JWTMiddleware, controllers.GetProgress)

	// Instructor earnings
	app.Get("/earnings", middleware.JWTMiddleware, earningController.GetEarnings)
}
