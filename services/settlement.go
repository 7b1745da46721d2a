package services

import (
	"lms/models"
	"log"
)

// outcomeTargets maps a normalized gateway outcome to the order status it
// settles to. UNKNOWN deliberately has no entry: such events are logged and
// acknowledged without touching the order.
var outcomeTargets = map[string]string{
	OutcomeApproved:  models.OrderStatusCompleted,
	OutcomeDeclined:  models.OrderStatusFailed,
	OutcomeCancelled: models.OrderStatusCancelled,
}

// ProcessPaymentEvent drives one verified gateway event through the order
// ledger and, for approvals, fans out enrollment and earnings per line.
//
// The whole function is safe under duplicate, concurrent and reordered
// delivery: the status transition is a conditional write, and every fan-out
// step is an insert-if-absent. A replayed approval re-runs the fan-out so a
// partial failure from an earlier delivery heals itself.
//
// Callers at the transport boundary acknowledge regardless of the returned
// error; the error exists for the reconciliation sweep and for tests.
func ProcessPaymentEvent(event *PaymentEvent) error {
	order, err := GetOrderByInvoice(event.InvoiceNumber)
	if err != nil {
		// An invoice we cannot resolve is not a crash: the gateway may
		// replay notifications for orders created against another system
		log.Printf("[SETTLEMENT] Dropping event for unresolvable invoice %s: %v", event.InvoiceNumber, err)
		return nil
	}

	target, ok := outcomeTargets[event.Outcome]
	if !ok {
		log.Printf("[SETTLEMENT] Ignoring %s event for invoice %s", event.Outcome, event.InvoiceNumber)
		return nil
	}

	if order.Status == target {
		// Idempotent replay. For approvals still re-run the fan-out so a
		// partially settled order (crash between lines) converges.
		if target != models.OrderStatusCompleted {
			return nil
		}
		return settleCompletedLines(order)
	}

	if err := TransitionStatus(order.ID, target, event.GatewayTransactionID); err != nil {
		log.Printf("[SETTLEMENT] Transition %s -> %s failed for order %d: %v", order.Status, target, order.ID, err)
		return err
	}
	log.Printf("[SETTLEMENT] Order %d (invoice %s) settled to %s", order.ID, event.InvoiceNumber, target)

	if target != models.OrderStatusCompleted {
		return nil
	}
	return settleCompletedLines(order)
}

// settleCompletedLines grants access and credits the instructor for every
// line of a completed order. Each step is independently idempotent, so a
// failure on one line never blocks the others; the first error is returned
// after all lines were attempted.
func settleCompletedLines(order *models.Order) error {
	var firstErr error
	for i := range order.Lines {
		line := &order.Lines[i]

		if _, err := EnsureEnrolled(order.BuyerID, line.CourseID); err != nil {
			log.Printf("[SETTLEMENT] Enrollment failed for order %d course %d: %v", order.ID, line.CourseID, err)
			if firstErr == nil {
				firstErr = err
			}
		}

		if err := RecordEarning(order, line); err != nil {
			log.Printf("[SETTLEMENT] Earning record failed for order %d course %d: %v", order.ID, line.CourseID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
