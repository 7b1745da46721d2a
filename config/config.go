package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	Currency           string
	PlatformFeePercent int // share of each order line kept by the platform

	GatewayBaseURL    string
	GatewayApiKey     string
	GatewaySecretKey  string
	GatewayApiVersion string

	PaymentReturnURL string
	PaymentCancelURL string
	PaymentNotifyURL string

	// Orders stuck PENDING longer than this are re-queried against the gateway
	PendingOrderTimeoutMinutes int
	ReconcileIntervalMinutes   int

	EmailSender    string
	SendgridApiKey string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		Currency:           getEnv("CURRENCY", "INR"),
		PlatformFeePercent: getEnvInt("PLATFORM_FEE_PERCENT", 30),

		GatewayBaseURL:    getEnv("GATEWAY_API_URL", "https://api.sandbox.credpay.io/v1"),
		GatewayApiKey:     getEnv("GATEWAY_API_KEY", "defaultSecret"),
		GatewaySecretKey:  getEnv("GATEWAY_SECRET_KEY", "defaultSecret"),
		GatewayApiVersion: getEnv("GATEWAY_API_VERSION", "2.0"),

		PaymentReturnURL: getEnv("PAYMENT_RETURN_URL", "http://localhost:3000/payment/return"),
		PaymentCancelURL: getEnv("PAYMENT_CANCEL_URL", "http://localhost:3000/payment/cancel"),
		PaymentNotifyURL: getEnv("PAYMENT_NOTIFY_URL", "http://localhost:3000/payment/webhook"),

		PendingOrderTimeoutMinutes: getEnvInt("PENDING_ORDER_TIMEOUT_MINUTES", 30),
		ReconcileIntervalMinutes:   getEnvInt("RECONCILE_INTERVAL_MINUTES", 10),

		EmailSender:    getEnv("EMAIL_SENDER", "defaultSecret"),
		SendgridApiKey: getEnv("SENDGRID_API_KEY", "defaultSecret"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.GatewaySecretKey == "defaultSecret" {
		log.Println("Warning: Using default GATEWAY_SECRET_KEY. Webhook signatures cannot be trusted.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
