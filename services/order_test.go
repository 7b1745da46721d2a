package services

import (
	"fmt"
	"lms/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "buyer")
	instructor := seedUser(t, db, "teach")
	courseA, _ := seedCourse(t, db, "Go Basics", 200000, instructor.ID, 3)
	courseB, _ := seedCourse(t, db, "Go Advanced", 300000, instructor.ID, 4)

	order, err := CreateOrder(buyer.ID, []uint{courseA.ID, courseB.ID}, "UPI")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(500000), order.TotalAmount)
	assert.Equal(t, fmt.Sprintf("INV-%d", order.ID), order.InvoiceNumber)
	assert.Len(t, order.Lines, 2)
	assert.Equal(t, "Go Basics", order.Lines[0].CourseTitle)
	assert.Empty(t, order.GatewayTransactionID)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "buyer")
	instructor := seedUser(t, db, "teach")
	course, _ := seedCourse(t, db, "Go Basics", 200000, instructor.ID, 3)

	t.Run("empty order", func(t *testing.T) {
		_, err := CreateOrder(buyer.ID, nil, "UPI")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := CreateOrder(buyer.ID, []uint{9999}, "UPI")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate line", func(t *testing.T) {
		_, err := CreateOrder(buyer.ID, []uint{course.ID, course.ID}, "UPI")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("already enrolled", func(t *testing.T) {
		_, err := EnsureEnrolled(buyer.ID, course.ID)
		require.NoError(t, err)

		_, err = CreateOrder(buyer.ID, []uint{course.ID}, "UPI")
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestCreateOrderRejectsRepurchaseAfterCompletedOrder(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "buyer")
	instructor := seedUser(t, db, "teach")
	course, _ := seedCourse(t, db, "Go Basics", 200000, instructor.ID, 3)

	order, err := CreateOrder(buyer.ID, []uint{course.ID}, "UPI")
	require.NoError(t, err)
	require.NoError(t, TransitionStatus(order.ID, models.OrderStatusCompleted, "txn-1"))

	// No enrollment fan-out happened yet, but the completed order alone
	// blocks a second purchase of the same course
	_, err = CreateOrder(buyer.ID, []uint{course.ID}, "UPI")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateOrderSurfacesPurchaseCheckFailure(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "buyer")
	instructor := seedUser(t, db, "teach")
	course, _ := seedCourse(t, db, "Go Basics", 200000, instructor.ID, 3)

	// A broken purchase-history query must fail the order, not wave it through
	require.NoError(t, db.Migrator().DropTable(&models.OrderLine{}))

	_, err := CreateOrder(buyer.ID, []uint{course.ID}, "UPI")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestTransitionGraph(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.OrderStatusPending, models.OrderStatusCompleted, true},
		{models.OrderStatusPending, models.OrderStatusFailed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusCompleted, models.OrderStatusRefunded, true},
		{models.OrderStatusPending, models.OrderStatusRefunded, false},
		{models.OrderStatusCompleted, models.OrderStatusPending, false},
		{models.OrderStatusCompleted, models.OrderStatusFailed, false},
		{models.OrderStatusFailed, models.OrderStatusCompleted, false},
		{models.OrderStatusCancelled, models.OrderStatusCompleted, false},
		{models.OrderStatusRefunded, models.OrderStatusCompleted, false},
		{models.OrderStatusRefunded, models.OrderStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, isLegalTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionStatus(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "buyer")
	instructor := seedUser(t, db, "teach")
	course, _ := seedCourse(t, db, "Go Basics", 200000, instructor.ID, 3)

	order, err := CreateOrder(buyer.ID, []uint{course.ID}, "UPI")
	require.NoError(t, err)

	t.Run("illegal transition rejected", func(t *testing.T) {
		err := TransitionStatus(order.ID, models.OrderStatusRefunded, "")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("legal transition applies", func(t *testing.T) {
		require.NoError(t, TransitionStatus(order.ID, models.OrderStatusCompleted, "txn-42"))

		updated, err := GetOrder(order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCompleted, updated.Status)
		assert.Equal(t, "txn-42", updated.GatewayTransactionID)
		assert.NotNil(t, updated.PaidAt)
	})

	t.Run("replaying the target terminal state is a no-op", func(t *testing.T) {
		assert.NoError(t, TransitionStatus(order.ID, models.OrderStatusCompleted, "txn-other"))

		updated, err := GetOrder(order.ID)
		require.NoError(t, err)
		assert.Equal(t, "txn-42", updated.GatewayTransactionID) // untouched
	})

	t.Run("leaving a terminal state fails", func(t *testing.T) {
		err := TransitionStatus(order.ID, models.OrderStatusFailed, "")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown order", func(t *testing.T) {
		err := TransitionStatus(987654, models.OrderStatusCompleted, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
