package services

import (
	"lms/database"
	"lms/models"
	"log"
	"math"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressSummary is returned by every progress operation. JustCompleted is
// true only on the single call that first brought progress to 100, so
// callers can fire a one-time completion message without re-triggering it.
type ProgressSummary struct {
	EnrollmentID      uint       `json:"enrollment_id"`
	CourseID          uint       `json:"course_id"`
	CompletedLectures int        `json:"completed_lectures"`
	TotalLectures     int        `json:"total_lectures"`
	Progress          int        `json:"progress"`
	JustCompleted     bool       `json:"just_completed"`
	AlreadyCompleted  bool       `json:"already_completed"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// OnCourseCompleted, when set, is invoked exactly once per enrollment the
// first time its progress reaches 100
var OnCourseCompleted func(userID, courseID uint)

// enrollmentLocks serializes progress updates per enrollment so two racing
// completion calls cannot both read a stale count
var enrollmentLocks sync.Map

func lockEnrollment(enrollmentID uint) *sync.Mutex {
	mu, _ := enrollmentLocks.LoadOrStore(enrollmentID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// MarkLectureCompleted adds a lecture to the enrollment's completed set and
// recomputes progress. Completing an already-completed lecture is a no-op
// that returns the current summary with AlreadyCompleted set.
func MarkLectureCompleted(userID, lectureID uint) (*ProgressSummary, error) {
	db := database.Database.Db

	var lecture models.Lecture
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", lectureID, false, true).First(&lecture).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("lecture %d not found", lectureID)
		}
		return nil, internalErr("failed to load lecture %d: %v", lectureID, err)
	}

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, lecture.CourseID).First(&enrollment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("user not enrolled in course %d", lecture.CourseID)
		}
		return nil, internalErr("failed to load enrollment: %v", err)
	}

	mu := lockEnrollment(enrollment.ID)
	mu.Lock()
	defer mu.Unlock()

	var existing models.LectureCompletion
	alreadyCompleted := db.Where("user_id = ? AND lecture_id = ?", userID, lectureID).First(&existing).Error == nil

	if !alreadyCompleted {
		completion := models.LectureCompletion{
			UserID:       userID,
			LectureID:    lectureID,
			CourseID:     lecture.CourseID,
			EnrollmentID: enrollment.ID,
		}
		// Unique on (user_id, lecture_id); a concurrent duplicate insert
		// collapses to a no-op and is handled like the already-completed path
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lecture_id"}},
			DoNothing: true,
		}).Create(&completion).Error; err != nil {
			return nil, internalErr("failed to record completion: %v", err)
		}
	}

	summary, err := recomputeProgress(&enrollment)
	if err != nil {
		return nil, err
	}
	summary.AlreadyCompleted = alreadyCompleted
	if alreadyCompleted {
		summary.JustCompleted = false
	}

	if summary.JustCompleted && OnCourseCompleted != nil {
		OnCourseCompleted(userID, lecture.CourseID)
	}
	return summary, nil
}

// GetProgress recomputes and returns the enrollment's summary. Only the
// owner may read it.
func GetProgress(userID, enrollmentID uint) (*ProgressSummary, error) {
	enrollment, err := GetEnrollment(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, forbiddenErr("enrollment %d belongs to another user", enrollmentID)
	}

	mu := lockEnrollment(enrollment.ID)
	mu.Lock()
	defer mu.Unlock()

	summary, err := recomputeProgress(enrollment)
	if err != nil {
		return nil, err
	}
	// A read never counts as the completing call
	summary.JustCompleted = false
	return summary, nil
}

// recomputeProgress derives progress from the completed-lecture set and the
// course's published lectures, persists the derived value, and stamps
// CompletedAt the first time progress reaches 100. CompletedAt is write-once
// and never overwritten. Callers must hold the enrollment lock.
func recomputeProgress(enrollment *models.Enrollment) (*ProgressSummary, error) {
	db := database.Database.Db

	// Re-read under the lock: the caller's copy may predate a concurrent
	// completion, and CompletedAt must be judged against the current row
	if err := db.First(enrollment, enrollment.ID).Error; err != nil {
		return nil, internalErr("failed to re-read enrollment %d: %v", enrollment.ID, err)
	}

	var total int64
	if err := db.Model(&models.Lecture{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", enrollment.CourseID, false, true).
		Count(&total).Error; err != nil {
		return nil, internalErr("failed to count lectures: %v", err)
	}

	var done int64
	if err := db.Model(&models.LectureCompletion{}).
		Where("enrollment_id = ?", enrollment.ID).
		Count(&done).Error; err != nil {
		return nil, internalErr("failed to count completions: %v", err)
	}

	progress := 0
	if total > 0 {
		progress = int(math.Round(float64(done) / float64(total) * 100))
	}

	updates := map[string]interface{}{"progress": progress}
	justCompleted := false
	if progress == 100 && enrollment.CompletedAt == nil {
		now := time.Now()
		updates["completed_at"] = &now
		enrollment.CompletedAt = &now
		justCompleted = true
		log.Printf("[PROGRESS] Enrollment %d completed course %d", enrollment.ID, enrollment.CourseID)
	}
	if err := db.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).Updates(updates).Error; err != nil {
		return nil, internalErr("failed to update progress for enrollment %d: %v", enrollment.ID, err)
	}
	enrollment.Progress = progress

	return &ProgressSummary{
		EnrollmentID:      enrollment.ID,
		CourseID:          enrollment.CourseID,
		CompletedLectures: int(done),
		TotalLectures:     int(total),
		Progress:          progress,
		JustCompleted:     justCompleted,
		CompletedAt:       enrollment.CompletedAt,
	}, nil
}
