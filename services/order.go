package services

import (
	"fmt"
	"lms/database"
	"lms/models"
	"time"

	"gorm.io/gorm"
)

// legalTransitions is the order status graph. PENDING fans out to the three
// gateway outcomes, COMPLETED may still be refunded, everything else is
// terminal.
var legalTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusCompleted, models.OrderStatusFailed, models.OrderStatusCancelled},
	models.OrderStatusCompleted: {models.OrderStatusRefunded},
}

func isLegalTransition(from, to string) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func isTerminalStatus(status string) bool {
	return status != models.OrderStatusPending
}

// CreateOrder validates every requested course and persists a PENDING order
// with one snapshot line per course.
func CreateOrder(buyerID uint, courseIDs []uint, paymentMethod string) (*models.Order, error) {
	db := database.Database.Db

	if len(courseIDs) == 0 {
		return nil, invalidErr("order must contain at least one course")
	}

	seen := make(map[uint]bool, len(courseIDs))
	lines := make([]models.OrderLine, 0, len(courseIDs))
	var total int64

	for _, courseID := range courseIDs {
		if seen[courseID] {
			return nil, invalidErr("course %d appears twice in the order", courseID)
		}
		seen[courseID] = true

		var course models.Course
		if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, notFoundErr("course %d not found", courseID)
			}
			return nil, internalErr("failed to load course %d: %v", courseID, err)
		}

		// Already enrolled means already purchased (or self-enrolled free)
		var enrollment models.Enrollment
		if err := db.Where("user_id = ? AND course_id = ?", buyerID, courseID).First(&enrollment).Error; err == nil {
			return nil, conflictErr("course %d already purchased", courseID)
		}

		// A completed order containing the same course also counts as purchased,
		// even if the enrollment fan-out has not landed yet
		var purchased int64
		if err := db.Model(&models.OrderLine{}).
			Joins("JOIN orders ON orders.id = order_lines.order_id").
			Where("orders.buyer_id = ? AND orders.status = ? AND order_lines.course_id = ?", buyerID, models.OrderStatusCompleted, courseID).
			Count(&purchased).Error; err != nil {
			return nil, internalErr("failed to check purchases for course %d: %v", courseID, err)
		}
		if purchased > 0 {
			return nil, conflictErr("course %d already purchased", courseID)
		}

		lines = append(lines, models.OrderLine{
			CourseID:     course.ID,
			CourseTitle:  course.Title,
			Price:        course.Price,
			InstructorID: course.InstructorID,
		})
		total += course.Price
	}

	order := models.Order{
		BuyerID:       buyerID,
		Status:        models.OrderStatusPending,
		PaymentMethod: paymentMethod,
		TotalAmount:   total,
		Lines:         lines,
	}

	tx := db.Begin()
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, internalErr("failed to create order: %v", err)
	}
	// Invoice number is derived from the order id so gateway callbacks can be
	// resolved back to the order without an extra mapping table
	order.InvoiceNumber = fmt.Sprintf("INV-%d", order.ID)
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("invoice_number", order.InvoiceNumber).Error; err != nil {
		tx.Rollback()
		return nil, internalErr("failed to assign invoice number: %v", err)
	}
	tx.Commit()

	return &order, nil
}

// GetOrder loads one order with its lines
func GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := database.Database.Db.Preload("Lines").First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("order %d not found", orderID)
		}
		return nil, internalErr("failed to load order %d: %v", orderID, err)
	}
	return &order, nil
}

// GetOrderByInvoice resolves a gateway invoice number to its order
func GetOrderByInvoice(invoiceNumber string) (*models.Order, error) {
	var order models.Order
	if err := database.Database.Db.Preload("Lines").Where("invoice_number = ?", invoiceNumber).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("no order for invoice %s", invoiceNumber)
		}
		return nil, internalErr("failed to resolve invoice %s: %v", invoiceNumber, err)
	}
	return &order, nil
}

// ListOrdersByUser returns the buyer's orders, newest first
func ListOrdersByUser(buyerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := database.Database.Db.Preload("Lines").Where("buyer_id = ?", buyerID).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, internalErr("failed to list orders: %v", err)
	}
	return orders, nil
}

// TransitionStatus moves an order along the legal transition graph using a
// conditional write: the UPDATE only applies while the current status still
// matches what was read, so two concurrent settlements cannot both win.
// Re-applying the exact target terminal state is a successful no-op, which
// is what makes webhook replay safe. gatewayTxnID is recorded when the
// order completes; self-service callers pass "".
func TransitionStatus(orderID uint, newStatus, gatewayTxnID string) error {
	db := database.Database.Db

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFoundErr("order %d not found", orderID)
		}
		return internalErr("failed to load order %d: %v", orderID, err)
	}

	if order.Status == newStatus && isTerminalStatus(newStatus) {
		return nil // replay of an already-applied transition
	}

	if !isLegalTransition(order.Status, newStatus) {
		return conflictErr("illegal order transition %s -> %s", order.Status, newStatus)
	}

	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.OrderStatusCompleted {
		now := time.Now()
		updates["paid_at"] = &now
		if gatewayTxnID != "" {
			updates["gateway_transaction_id"] = gatewayTxnID
		}
	}

	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Updates(updates)
	if result.Error != nil {
		return internalErr("failed to update order %d: %v", orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost the race. If the winner applied the same status we are done,
		// otherwise the transition is no longer legal.
		var current models.Order
		if err := db.First(&current, orderID).Error; err != nil {
			return internalErr("failed to re-read order %d: %v", orderID, err)
		}
		if current.Status == newStatus {
			return nil
		}
		return conflictErr("order %d moved to %s while applying %s", orderID, current.Status, newStatus)
	}
	return nil
}
