package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/models"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Normalized gateway outcomes
const (
	OutcomeApproved  = "APPROVED"
	OutcomeDeclined  = "DECLINED"
	OutcomeCancelled = "CANCELLED"
	OutcomeUnknown   = "UNKNOWN"
)

// PaymentEvent is a verified, normalized gateway notification. Only events
// produced by ParseNotification or QueryPaymentStatus reach the settlement
// processor.
type PaymentEvent struct {
	InvoiceNumber        string
	Outcome              string
	GatewayTransactionID string
	Amount               int64
}

// Checkout is what the client needs to hand the buyer over to the gateway
type Checkout struct {
	CheckoutURL string            `json:"checkout_url"`
	Fields      map[string]string `json:"checkout_fields"`
}

// gatewayNotification is the raw CredPay webhook payload
type gatewayNotification struct {
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Signature     string `json:"signature"`
}

type gatewayCheckoutResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CheckoutURL string `json:"checkout_url"`
	Token       string `json:"token"`
}

type gatewayStatusResponse struct {
	Status        string `json:"status"`
	InvoiceNumber string `json:"invoice_number"`
	PaymentStatus string `json:"payment_status"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
}

var gatewayClient = resty.New().SetTimeout(15 * time.Second)

// SignNotification computes the shared-secret signature the gateway attaches
// to its callbacks: hex(HMAC-SHA256(invoice|status|amount|txn, secret)).
// The transaction id is part of the signed string so a replayed notification
// cannot attach a different transaction to the same payment.
func SignNotification(invoiceNumber, status string, amount int64, transactionID string) string {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.GatewaySecretKey))
	fmt.Fprintf(mac, "%s|%s|%d|%s", invoiceNumber, status, amount, transactionID)
	return hex.EncodeToString(mac.Sum(nil))
}

// InitiateCheckout builds a CredPay checkout for a pending order. A timeout
// here leaves the order PENDING; re-initiating reuses the same invoice
// number, so the gateway treats it as the same payment.
func InitiateCheckout(ctx context.Context, order *models.Order) (*Checkout, error) {
	if order.Status != models.OrderStatusPending {
		return nil, conflictErr("order %d is %s, only PENDING orders can be paid", order.ID, order.Status)
	}

	var result gatewayCheckoutResponse
	resp, err := gatewayClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+config.AppConfig.GatewayApiKey).
		SetHeader("X-Api-Version", config.AppConfig.GatewayApiVersion).
		SetBody(map[string]interface{}{
			"invoice_number": order.InvoiceNumber,
			"amount":         order.TotalAmount,
			"currency":       config.AppConfig.Currency,
			"payment_method": order.PaymentMethod,
			"reference":      uuid.NewString(),
			"return_url":     config.AppConfig.PaymentReturnURL,
			"cancel_url":     config.AppConfig.PaymentCancelURL,
			"notify_url":     config.AppConfig.PaymentNotifyURL,
		}).
		SetResult(&result).
		Post(config.AppConfig.GatewayBaseURL + "/checkout")
	if err != nil {
		return nil, internalErr("gateway checkout call failed: %v", err)
	}
	if resp.StatusCode() != 200 || result.CheckoutURL == "" {
		return nil, internalErr("gateway rejected checkout for invoice %s: %s", order.InvoiceNumber, resp.Status())
	}

	return &Checkout{
		CheckoutURL: result.CheckoutURL,
		Fields: map[string]string{
			"token":          result.Token,
			"invoice_number": order.InvoiceNumber,
			"amount":         fmt.Sprintf("%d", order.TotalAmount),
			"currency":       config.AppConfig.Currency,
		},
	}, nil
}

// ParseNotification verifies and normalizes an inbound gateway webhook body.
// An unverifiable payload fails Unauthenticated and must never be settled.
func ParseNotification(body []byte) (*PaymentEvent, error) {
	var raw gatewayNotification
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, invalidErr("malformed gateway notification: %v", err)
	}
	if raw.InvoiceNumber == "" {
		return nil, invalidErr("gateway notification missing invoice number")
	}

	expected := SignNotification(raw.InvoiceNumber, raw.Status, raw.Amount, raw.TransactionID)
	if !hmac.Equal([]byte(expected), []byte(raw.Signature)) {
		return nil, unauthenticatedErr("invalid signature on notification for invoice %s", raw.InvoiceNumber)
	}

	return &PaymentEvent{
		InvoiceNumber:        raw.InvoiceNumber,
		Outcome:              normalizeOutcome(raw.Status),
		GatewayTransactionID: raw.TransactionID,
		Amount:               raw.Amount,
	}, nil
}

// QueryPaymentStatus asks the gateway for the current state of an invoice.
// Used by /payment/verify and the reconciliation sweep; the response rides
// an authenticated server-to-server call, so no payload signature applies.
func QueryPaymentStatus(ctx context.Context, invoiceNumber string) (*PaymentEvent, error) {
	var result gatewayStatusResponse
	resp, err := gatewayClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+config.AppConfig.GatewayApiKey).
		SetHeader("X-Api-Version", config.AppConfig.GatewayApiVersion).
		SetQueryParam("invoice_number", invoiceNumber).
		SetResult(&result).
		Get(config.AppConfig.GatewayBaseURL + "/status")
	if err != nil {
		return nil, internalErr("gateway status call failed: %v", err)
	}
	if resp.StatusCode() == 404 {
		return nil, notFoundErr("gateway has no payment for invoice %s", invoiceNumber)
	}
	if resp.StatusCode() != 200 {
		return nil, internalErr("gateway status query failed for invoice %s: %s", invoiceNumber, resp.Status())
	}

	return &PaymentEvent{
		InvoiceNumber:        result.InvoiceNumber,
		Outcome:              normalizeOutcome(result.PaymentStatus),
		GatewayTransactionID: result.TransactionID,
		Amount:               result.Amount,
	}, nil
}

// normalizeOutcome maps raw gateway status strings onto the small outcome
// set the settlement processor understands
func normalizeOutcome(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "APPROVED", "SETTLED", "CAPTURED", "SUCCESS":
		return OutcomeApproved
	case "DECLINED", "FAILED", "DENIED", "EXPIRED":
		return OutcomeDeclined
	case "CANCELLED", "CANCELED", "VOIDED":
		return OutcomeCancelled
	default:
		return OutcomeUnknown
	}
}
