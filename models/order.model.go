package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Transitions are enforced by the order service; PENDING is
// the only non-terminal state besides COMPLETED (which may still move to
// REFUNDED).
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusFailed    = "FAILED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusRefunded  = "REFUNDED"
)

// Order represents a checkout of one or more courses
type Order struct {
	gorm.Model
	BuyerID              uint        `json:"buyer_id" gorm:"index;not null"`
	InvoiceNumber        string      `json:"invoice_number" gorm:"size:40;uniqueIndex"`
	Status               string      `json:"status" gorm:"size:20;default:'PENDING'"`
	PaymentMethod        string      `json:"payment_method" gorm:"size:50"`
	GatewayTransactionID string      `json:"gateway_transaction_id" gorm:"size:100"` // empty until settled
	TotalAmount          int64       `json:"total_amount" gorm:"not null"`           // minor currency units
	PaidAt               *time.Time  `json:"paid_at"`
	Lines                []OrderLine `json:"lines" gorm:"foreignKey:OrderID"`
}

// OrderLine snapshots a purchased course at checkout time so later price
// edits do not change what was billed
type OrderLine struct {
	gorm.Model
	OrderID      uint   `json:"order_id" gorm:"index;not null"`
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	CourseTitle  string `json:"course_title"`
	Price        int64  `json:"price" gorm:"not null"`
	InstructorID uint   `json:"instructor_id" gorm:"index;not null"`
}
