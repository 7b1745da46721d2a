package services

import (
	"context"
	"encoding/json"
	"lms/config"
	"lms/models"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedNotification(t *testing.T, invoice, status string, amount int64) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"invoice_number": invoice,
		"status":         status,
		"transaction_id": "txn-1",
		"amount":         amount,
		"signature":      SignNotification(invoice, status, amount, "txn-1"),
	})
	require.NoError(t, err)
	return body
}

func TestParseNotification(t *testing.T) {
	setupTestDB(t)

	t.Run("valid signature", func(t *testing.T) {
		event, err := ParseNotification(signedNotification(t, "INV-1", "approved", 500000))
		require.NoError(t, err)
		assert.Equal(t, "INV-1", event.InvoiceNumber)
		assert.Equal(t, OutcomeApproved, event.Outcome)
		assert.Equal(t, "txn-1", event.GatewayTransactionID)
		assert.Equal(t, int64(500000), event.Amount)
	})

	t.Run("tampered amount fails unauthenticated", func(t *testing.T) {
		body := signedNotification(t, "INV-1", "approved", 500000)
		tampered := []byte(string(body))
		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(tampered, &raw))
		raw["amount"] = 1
		tampered, _ = json.Marshal(raw)

		_, err := ParseNotification(tampered)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("tampered transaction id fails unauthenticated", func(t *testing.T) {
		body := signedNotification(t, "INV-1", "approved", 500000)
		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &raw))
		raw["transaction_id"] = "txn-swapped"
		tampered, _ := json.Marshal(raw)

		_, err := ParseNotification(tampered)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing signature fails unauthenticated", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"invoice_number": "INV-1",
			"status":         "approved",
			"amount":         500000,
		})
		_, err := ParseNotification(body)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := ParseNotification([]byte("{not json"))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("missing invoice", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"status": "approved"})
		_, err := ParseNotification(body)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestNormalizeOutcome(t *testing.T) {
	cases := map[string]string{
		"approved":  OutcomeApproved,
		"SETTLED":   OutcomeApproved,
		"Captured":  OutcomeApproved,
		"declined":  OutcomeDeclined,
		"FAILED":    OutcomeDeclined,
		"expired":   OutcomeDeclined,
		"cancelled": OutcomeCancelled,
		"canceled":  OutcomeCancelled,
		"voided":    OutcomeCancelled,
		"weird":     OutcomeUnknown,
		"":          OutcomeUnknown,
	}
	for raw, want := range cases {
		assert.Equalf(t, want, normalizeOutcome(raw), "status %q", raw)
	}
}

func TestInitiateCheckout(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "buyer")
	instructor := seedUser(t, db, "teach")
	course, _ := seedCourse(t, db, "Go Basics", 200000, instructor.ID, 3)

	order, err := CreateOrder(buyer.ID, []uint{course.ID}, "UPI")
	require.NoError(t, err)

	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/checkout", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "ok",
			"checkout_url": "https://pay.example.com/c/abc",
			"token":        "tok-123",
		})
	}))
	defer srv.Close()
	config.AppConfig.GatewayBaseURL = srv.URL

	checkout, err := InitiateCheckout(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/c/abc", checkout.CheckoutURL)
	assert.Equal(t, "tok-123", checkout.Fields["token"])
	assert.Equal(t, order.InvoiceNumber, checkout.Fields["invoice_number"])

	assert.Equal(t, order.InvoiceNumber, received["invoice_number"])
	assert.Equal(t, float64(order.TotalAmount), received["amount"])
	assert.NotEmpty(t, received["reference"])
	assert.NotEmpty(t, received["notify_url"])
}

func TestInitiateCheckoutRejectsSettledOrder(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "buyer")
	instructor := seedUser(t, db, "teach")
	course, _ := seedCourse(t, db, "Go Basics", 200000, instructor.ID, 3)

	order, err := CreateOrder(buyer.ID, []uint{course.ID}, "UPI")
	require.NoError(t, err)
	require.NoError(t, TransitionStatus(order.ID, models.OrderStatusCompleted, "txn-1"))

	settled, err := GetOrder(order.ID)
	require.NoError(t, err)

	_, err = InitiateCheckout(context.Background(), settled)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestQueryPaymentStatus(t *testing.T) {
	setupTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status", r.URL.Path)
		switch r.URL.Query().Get("invoice_number") {
		case "INV-1":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":         "ok",
				"invoice_number": "INV-1",
				"payment_status": "settled",
				"transaction_id": "txn-9",
				"amount":         500000,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	config.AppConfig.GatewayBaseURL = srv.URL

	event, err := QueryPaymentStatus(context.Background(), "INV-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, event.Outcome)
	assert.Equal(t, "txn-9", event.GatewayTransactionID)

	_, err = QueryPaymentStatus(context.Background(), "INV-404")
	assert.ErrorIs(t, err, ErrNotFound)
}
