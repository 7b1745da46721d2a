package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment grants a user access to a course and tracks completion.
// Progress is always recomputed server-side from LectureCompletion rows;
// the column is a cache of the last computed value, never client input.
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_enroll_user_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_enroll_user_course;not null"`
	Progress    int        `json:"progress" gorm:"default:0"` // 0-100
	CompletedAt *time.Time `json:"completed_at"`              // set once, when progress first reaches 100
}

// LectureCompletion is one element of an enrollment's completed-lecture set
type LectureCompletion struct {
	gorm.Model
	UserID       uint `json:"user_id" gorm:"uniqueIndex:idx_completion_user_lecture;not null"`
	LectureID    uint `json:"lecture_id" gorm:"uniqueIndex:idx_completion_user_lecture;not null"`
	CourseID     uint `json:"course_id" gorm:"index;not null"`
	EnrollmentID uint `json:"enrollment_id" gorm:"index;not null"`
}
