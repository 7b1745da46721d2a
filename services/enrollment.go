package services

import (
	"lms/database"
	"lms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureEnrolled returns the enrollment for (user, course), creating it at
// progress 0 if absent. "Already enrolled" is not an error here: this is the
// idempotency primitive the settlement fan-out leans on. The insert goes
// through ON CONFLICT DO NOTHING against the (user_id, course_id) unique
// index, so concurrent retries cannot create duplicates.
func EnsureEnrolled(userID, courseID uint) (*models.Enrollment, error) {
	db := database.Database.Db

	enrollment := models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Progress: 0,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment).Error
	if err != nil {
		return nil, internalErr("failed to enroll user %d in course %d: %v", userID, courseID, err)
	}

	// Re-read: on conflict the insert was a no-op and the struct above holds
	// no row; the surviving row is whichever insert won.
	var existing models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err != nil {
		return nil, internalErr("failed to load enrollment for user %d course %d: %v", userID, courseID, err)
	}
	return &existing, nil
}

// EnrollCourse is the explicit self-enroll path for free courses. Unlike
// EnsureEnrolled, an existing enrollment surfaces as a Conflict, and paid
// courses are rejected toward the checkout flow.
func EnrollCourse(userID, courseID uint) (*models.Enrollment, error) {
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("course %d not found", courseID)
		}
		return nil, internalErr("failed to load course %d: %v", courseID, err)
	}
	if course.Price > 0 {
		return nil, invalidErr("course %d is paid, purchase it through checkout", courseID)
	}

	var existing models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return nil, conflictErr("user already enrolled in course %d", courseID)
	}

	return EnsureEnrolled(userID, courseID)
}

// GetEnrollment loads an enrollment by id
func GetEnrollment(enrollmentID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := database.Database.Db.First(&enrollment, enrollmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("enrollment %d not found", enrollmentID)
		}
		return nil, internalErr("failed to load enrollment %d: %v", enrollmentID, err)
	}
	return &enrollment, nil
}

// ListEnrollmentsByUser returns the user's enrollments, newest first
func ListEnrollmentsByUser(userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return nil, internalErr("failed to list enrollments: %v", err)
	}
	return enrollments, nil
}

// Unenroll removes the caller's enrollment and its completion history. Only
// the owner may unenroll; the rows are removed outright so a later re-enroll
// starts clean against the unique index.
func Unenroll(userID, courseID uint) error {
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFoundErr("user is not enrolled in course %d", courseID)
		}
		return internalErr("failed to load enrollment: %v", err)
	}

	tx := db.Begin()
	if err := tx.Unscoped().Where("enrollment_id = ?", enrollment.ID).Delete(&models.LectureCompletion{}).Error; err != nil {
		tx.Rollback()
		return internalErr("failed to clear completions for enrollment %d: %v", enrollment.ID, err)
	}
	if err := tx.Unscoped().Delete(&enrollment).Error; err != nil {
		tx.Rollback()
		return internalErr("failed to delete enrollment %d: %v", enrollment.ID, err)
	}
	tx.Commit()
	return nil
}
