package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	AuthCookieSecure bool

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Bank      BankConfig
	AI        AIConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
	Bootstrap BootstrapConfig
}

// BankConfig describes the receiving bank account rendered into the
// payment QR payload handed to the client.
type BankConfig struct {
	Gateway       string
	AccountNumber string
	AccountName   string
	QRBaseURL     string
}

type AIConfig struct {
	BaseURL        string
	APIKey         string
	DefaultModel   string
	TimeoutSeconds int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	AlertTo      string
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ChatRate      float64
	ChatBurst     int
}

type SchedulerConfig struct {
	Enabled           bool
	DriftAuditSpec    string
	PendingExpirySpec string
	PendingTTLHours   int
}

type BootstrapConfig struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "fitracker"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		AuthCookieSecure: authCookieSecure,

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "fitracker"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		Bank: BankConfig{
			Gateway:       getenv("BANK_GATEWAY", "Mbbank"),
			AccountNumber: getenv("BANK_ACCOUNT_NUMBER", "1663999999999"),
			AccountName:   getenv("BANK_ACCOUNT_NAME", "Nguyen Nho Gia Huy"),
			QRBaseURL:     getenv("BANK_QR_BASE_URL", "https://img.vietqr.io/image"),
		},
		AI: AIConfig{
			BaseURL:        getenv("AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:         strings.TrimSpace(getenv("AI_API_KEY", "")),
			DefaultModel:   getenv("AI_DEFAULT_MODEL", "gpt-4o-mini"),
			TimeoutSeconds: getenvInt("AI_TIMEOUT_SECONDS", 30),
		},
		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "no-reply@fitracker.local"),
			AlertTo:      getenv("ALERT_EMAIL_TO", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			ChatRate:      getenvFloat("RATE_LIMIT_CHAT_RATE", 0.5),
			ChatBurst:     getenvInt("RATE_LIMIT_CHAT_BURST", 5),
		},
		Scheduler: SchedulerConfig{
			Enabled:           getenvBool("SCHEDULER_ENABLED", true),
			DriftAuditSpec:    getenv("SCHEDULER_DRIFT_AUDIT_SPEC", "0 3 * * *"),
			PendingExpirySpec: getenv("SCHEDULER_PENDING_EXPIRY_SPEC", "30 * * * *"),
			PendingTTLHours:   getenvInt("SCHEDULER_PENDING_TTL_HOURS", 24),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: getenv("BOOTSTRAP_ADMIN_USERNAME", "admin"),
			AdminEmail:    getenv("BOOTSTRAP_ADMIN_EMAIL", "admin@fitracker.local"),
			AdminPassword: strings.TrimSpace(getenv("BOOTSTRAP_ADMIN_PASSWORD", "")),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
