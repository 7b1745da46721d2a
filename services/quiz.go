package services

import (
	"encoding/json"
	"lms/database"
	"lms/models"
	"math"

	"gorm.io/gorm"
)

// QuizAnswer is one submitted choice
type QuizAnswer struct {
	QuestionID uint `json:"question_id"`
	OptionID   uint `json:"option_id"`
}

// SubmitAttempt scores a full answer set against the quiz's question bank
// and persists one immutable attempt row. The answer set must cover exactly
// the quiz's questions; any mismatch fails InvalidArgument and persists
// nothing.
func SubmitAttempt(userID, quizID uint, answers []QuizAnswer) (*models.QuizAttempt, error) {
	db := database.Database.Db

	var quiz models.Quiz
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", quizID, false, true).First(&quiz).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("quiz %d not found", quizID)
		}
		return nil, internalErr("failed to load quiz %d: %v", quizID, err)
	}

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, quiz.CourseID).First(&enrollment).Error; err != nil {
		return nil, notFoundErr("user not enrolled in course %d", quiz.CourseID)
	}

	var questions []models.QuizQuestion
	if err := db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).Find(&questions).Error; err != nil {
		return nil, internalErr("failed to load questions for quiz %d: %v", quizID, err)
	}
	if len(questions) == 0 {
		return nil, invalidErr("quiz %d has no questions", quizID)
	}
	if len(answers) != len(questions) {
		return nil, invalidErr("quiz %d expects %d answers, got %d", quizID, len(questions), len(answers))
	}

	questionIDs := make(map[uint]bool, len(questions))
	for _, q := range questions {
		questionIDs[q.ID] = true
	}

	// Option lookup keyed by (question, option) so an answer referencing an
	// option from another question is rejected, not silently wrong
	var options []models.QuizOption
	if err := db.Where("question_id IN ? AND is_deleted = ?", keys(questionIDs), false).Find(&options).Error; err != nil {
		return nil, internalErr("failed to load options for quiz %d: %v", quizID, err)
	}
	optionByID := make(map[uint]models.QuizOption, len(options))
	for _, opt := range options {
		optionByID[opt.ID] = opt
	}

	answered := make(map[uint]bool, len(answers))
	correctCount := 0
	for _, ans := range answers {
		if !questionIDs[ans.QuestionID] {
			return nil, invalidErr("question %d does not belong to quiz %d", ans.QuestionID, quizID)
		}
		if answered[ans.QuestionID] {
			return nil, invalidErr("question %d answered more than once", ans.QuestionID)
		}
		answered[ans.QuestionID] = true

		opt, ok := optionByID[ans.OptionID]
		if !ok || opt.QuestionID != ans.QuestionID {
			return nil, invalidErr("option %d does not belong to question %d", ans.OptionID, ans.QuestionID)
		}
		if opt.IsCorrect {
			correctCount++
		}
	}

	score := int(math.Round(float64(correctCount) / float64(len(questions)) * 100))
	passed := score >= quiz.PassingScore

	var attemptCount int64
	if err := db.Model(&models.QuizAttempt{}).Where("user_id = ? AND quiz_id = ?", userID, quizID).Count(&attemptCount).Error; err != nil {
		return nil, internalErr("failed to count attempts: %v", err)
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, internalErr("failed to encode answers: %v", err)
	}

	attempt := models.QuizAttempt{
		UserID:        userID,
		QuizID:        quizID,
		CourseID:      quiz.CourseID,
		LectureID:     quiz.LectureID,
		Answers:       answersJSON,
		Score:         score,
		Passed:        passed,
		AttemptNumber: int(attemptCount) + 1,
	}
	if err := db.Create(&attempt).Error; err != nil {
		return nil, internalErr("failed to save attempt: %v", err)
	}
	return &attempt, nil
}

// BestAttempt returns the user's highest-scoring attempt for a quiz,
// earliest first on ties. Best is a read-time aggregation; attempt rows are
// never updated in place.
func BestAttempt(userID, quizID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := database.Database.Db.
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("score desc, created_at asc").
		First(&attempt).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("no attempts for quiz %d", quizID)
		}
		return nil, internalErr("failed to load best attempt: %v", err)
	}
	return &attempt, nil
}

func keys(m map[uint]bool) []uint {
	out := make([]uint, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
