package services

import (
	"lms/config"
	"lms/database"
	"lms/models"
	"math"

	"gorm.io/gorm/clause"
)

// RecordEarning derives the instructor's share of one settled order line.
// Idempotent on (order, course): the insert is ON CONFLICT DO NOTHING
// against the unique index, so settlement replay cannot double-credit.
func RecordEarning(order *models.Order, line *models.OrderLine) error {
	gross := line.Price
	fee := int64(math.Round(float64(gross) * float64(config.AppConfig.PlatformFeePercent) / 100))

	earning := models.Earning{
		InstructorID: line.InstructorID,
		OrderID:      order.ID,
		CourseID:     line.CourseID,
		GrossAmount:  gross,
		PlatformFee:  fee,
		NetAmount:    gross - fee,
		Status:       models.EarningStatusPending,
	}
	err := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&earning).Error
	if err != nil {
		return internalErr("failed to record earning for order %d course %d: %v", order.ID, line.CourseID, err)
	}
	return nil
}

// CancelPendingEarnings flips still-unpaid earnings of a refunded order to
// CANCELLED. Earnings already processing or paid out are left alone.
func CancelPendingEarnings(orderID uint) error {
	err := database.Database.Db.Model(&models.Earning{}).
		Where("order_id = ? AND status = ?", orderID, models.EarningStatusPending).
		Update("status", models.EarningStatusCancelled).Error
	if err != nil {
		return internalErr("failed to cancel earnings for order %d: %v", orderID, err)
	}
	return nil
}

// ListEarningsByInstructor returns the instructor's earnings, newest first
func ListEarningsByInstructor(instructorID uint) ([]models.Earning, error) {
	var earnings []models.Earning
	err := database.Database.Db.
		Where("instructor_id = ?", instructorID).
		Order("created_at desc").
		Find(&earnings).Error
	if err != nil {
		return nil, internalErr("failed to list earnings: %v", err)
	}
	return earnings, nil
}
