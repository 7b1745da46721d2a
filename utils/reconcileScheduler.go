package utils

import (
	"context"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	"lms/services"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeReconcileScheduler sets up the stuck-payment reconciliation
// sweep. Webhook delivery is unreliable; any order still PENDING past the
// configured timeout gets its status re-queried from the gateway and the
// answer replayed through the settlement processor, which is idempotent.
func InitializeReconcileScheduler() {
	log.Println("[RECONCILE] Initializing payment reconciliation scheduler...")

	c := cron.New()

	spec := fmt.Sprintf("@every %dm", config.AppConfig.ReconcileIntervalMinutes)
	c.AddFunc(spec, func() {
		ReconcilePendingOrders()
	})

	c.Start()
	log.Printf("[RECONCILE] Scheduler started - runs every %d minutes", config.AppConfig.ReconcileIntervalMinutes)
}

// ReconcilePendingOrders settles every order stuck PENDING past the timeout
func ReconcilePendingOrders() {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.PendingOrderTimeoutMinutes) * time.Minute)

	var stuck []models.Order
	if err := db.Preload("Lines").
		Where("status = ? AND created_at < ?", models.OrderStatusPending, cutoff).
		Find(&stuck).Error; err != nil {
		log.Printf("[RECONCILE] Error fetching stuck orders: %v", err)
		return
	}

	if len(stuck) == 0 {
		return
	}
	log.Printf("[RECONCILE] Found %d orders stuck PENDING", len(stuck))

	for _, order := range stuck {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		event, err := services.QueryPaymentStatus(ctx, order.InvoiceNumber)
		cancel()
		if err != nil {
			log.Printf("[RECONCILE] Gateway query failed for invoice %s: %v", order.InvoiceNumber, err)
			continue
		}

		if err := services.ProcessPaymentEvent(event); err != nil {
			log.Printf("[RECONCILE] Settlement failed for invoice %s: %v", order.InvoiceNumber, err)
			continue
		}
		log.Printf("[RECONCILE] Invoice %s reconciled with outcome %s", order.InvoiceNumber, event.Outcome)
	}
}
