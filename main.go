package main

import (
	"lms/config"
	"lms/database"
	courseRoutes "lms/routers/courseRoutes"
	orderRoutes "lms/routers/orderRoutes"
	paymentRoutes "lms/routers/paymentRoutes"
	quizRoutes "lms/routers/quizRoutes"
	"lms/services"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// One-time completion mail when an enrollment first hits 100%
	services.OnCourseCompleted = utils.NotifyCourseCompleted

	utils.InitializeReconcileScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE",       // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization",  // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	orderRoutes.SetupOrderRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	quizRoutes.SetupQuizRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
