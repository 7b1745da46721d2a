package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is attached to a lecture within a course
type Quiz struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	LectureID    uint   `json:"lecture_id" gorm:"index;not null"`
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score" gorm:"default:0"` // 0-100
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// QuizQuestion belongs to a quiz
type QuizQuestion struct {
	gorm.Model
	QuizID     uint   `json:"quiz_id" gorm:"index;not null"`
	Prompt     string `json:"prompt"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// QuizOption represents an option for a quiz question
type QuizOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// QuizAttempt is one immutable submission of answers plus its computed
// outcome. Rows are append-only; the best attempt is aggregated at read time.
type QuizAttempt struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	CourseID      uint           `json:"course_id" gorm:"index;not null"`
	LectureID     uint           `json:"lecture_id" gorm:"not null"`
	Answers       datatypes.JSON `json:"answers"` // [{question_id, option_id}]
	Score         int            `json:"score"`   // 0-100
	Passed        bool           `json:"passed" gorm:"default:false"`
	AttemptNumber int            `json:"attempt_number" gorm:"default:1"`
}
