package models

import "gorm.io/gorm"

// Earning statuses
const (
	EarningStatusPending    = "PENDING"
	EarningStatusProcessing = "PROCESSING"
	EarningStatusPaid       = "PAID"
	EarningStatusCancelled  = "CANCELLED"
)

// Earning is the instructor's share of one settled order line. The unique
// index on (order_id, course_id) is what keeps settlement replay from
// double-crediting the same line.
type Earning struct {
	gorm.Model
	InstructorID uint   `json:"instructor_id" gorm:"index;not null"`
	OrderID      uint   `json:"order_id" gorm:"uniqueIndex:idx_earning_order_course;not null"`
	CourseID     uint   `json:"course_id" gorm:"uniqueIndex:idx_earning_order_course;not null"`
	GrossAmount  int64  `json:"gross_amount" gorm:"not null"`
	PlatformFee  int64  `json:"platform_fee" gorm:"not null"`
	NetAmount    int64  `json:"net_amount" gorm:"not null"`
	Status       string `json:"status" gorm:"size:20;default:'PENDING'"`
}
