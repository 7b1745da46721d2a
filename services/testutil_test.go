package services

import (
	"lms/config"
	"lms/database"
	"lms/models"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global database handle at a fresh in-memory SQLite
// database. A single connection keeps SQLite happy under the concurrency
// tests while the conditional writes stay meaningful.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{
		Currency:                   "INR",
		PlatformFeePercent:         30,
		GatewaySecretKey:           "test-secret",
		GatewayApiKey:              "test-key",
		GatewayApiVersion:          "2.0",
		PaymentReturnURL:           "http://localhost:3000/payment/return",
		PaymentCancelURL:           "http://localhost:3000/payment/cancel",
		PaymentNotifyURL:           "http://localhost:3000/payment/webhook",
		PendingOrderTimeoutMinutes: 30,
	}

	t.Cleanup(func() {
		OnCourseCompleted = nil
		sqlDB.Close()
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, title string, price int64, instructorID uint, lectureCount int) (*models.Course, []models.Lecture) {
	t.Helper()
	course := &models.Course{
		Title:        title,
		InstructorID: instructorID,
		Price:        price,
		Status:       "ACTIVE",
		IsPublished:  true,
	}
	require.NoError(t, db.Create(course).Error)

	lectures := make([]models.Lecture, lectureCount)
	for i := 0; i < lectureCount; i++ {
		lectures[i] = models.Lecture{
			CourseID:    course.ID,
			Title:       "Lecture",
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lectures[i]).Error)
	}
	return course, lectures
}

// seedQuiz creates a quiz where each question has one correct and one wrong
// option. Returned answer sets: correct[i] and wrong[i] are the option ids
// for question i.
func seedQuiz(t *testing.T, db *gorm.DB, courseID, lectureID uint, passingScore, questionCount int) (*models.Quiz, []models.QuizQuestion, []uint, []uint) {
	t.Helper()
	quiz := &models.Quiz{
		CourseID:     courseID,
		LectureID:    lectureID,
		Title:        "Quiz",
		PassingScore: passingScore,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(quiz).Error)

	questions := make([]models.QuizQuestion, questionCount)
	correct := make([]uint, questionCount)
	wrong := make([]uint, questionCount)
	for i := 0; i < questionCount; i++ {
		questions[i] = models.QuizQuestion{QuizID: quiz.ID, Prompt: "Q", OrderIndex: i}
		require.NoError(t, db.Create(&questions[i]).Error)

		good := models.QuizOption{QuestionID: questions[i].ID, OptionText: "right", IsCorrect: true}
		bad := models.QuizOption{QuestionID: questions[i].ID, OptionText: "wrong"}
		require.NoError(t, db.Create(&good).Error)
		require.NoError(t, db.Create(&bad).Error)
		correct[i] = good.ID
		wrong[i] = bad.ID
	}
	return quiz, questions, correct, wrong
}
