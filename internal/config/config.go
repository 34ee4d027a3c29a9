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
	AdminToken  string

	OTLPEndpoint string

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

	Site          SiteConfig
	Storage       StorageConfig
	Email         EmailConfig
	Fonts         FontConfig
	RateLimit     RateLimitConfig
	Notifications NotificationConfig
}

type SiteConfig struct {
	Organization string
	BaseURL      string
	Timezone     string
}

type StorageConfig struct {
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	BookingFolder       string
	ResourceTypes       []string

	UploadsDir   string
	PublicPrefix string
}

// CloudinaryEnabled reports whether remote object storage credentials are present.
func (s StorageConfig) CloudinaryEnabled() bool {
	return s.CloudinaryCloudName != "" && s.CloudinaryAPIKey != "" && s.CloudinaryAPISecret != ""
}

type EmailConfig struct {
	Provider     string
	ResendAPIKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	From     string
	FromName string
	Subject  string
}

type FontConfig struct {
	Dir string
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	IntakeRate    float64
	IntakeBurst   int
}

type NotificationConfig struct {
	RedisChannel    string
	SlackWebhookURL string
	SlackChannel    string
}

const (
	EmailProviderResend = "resend"
	EmailProviderSMTP   = "smtp"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "clubhouse"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		AdminToken:        strings.TrimSpace(getenv("ADMIN_API_TOKEN", "")),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "clubhouse"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		Site: SiteConfig{
			Organization: getenv("SITE_ORGANIZATION", "Clubhouse"),
			BaseURL:      strings.TrimRight(strings.TrimSpace(getenv("SITE_BASE_URL", "http://localhost:8080")), "/"),
			Timezone:     getenv("SITE_TIMEZONE", "UTC"),
		},
		Storage: StorageConfig{
			CloudinaryCloudName: strings.TrimSpace(getenv("CLOUDINARY_CLOUD_NAME", "")),
			CloudinaryAPIKey:    strings.TrimSpace(getenv("CLOUDINARY_API_KEY", "")),
			CloudinaryAPISecret: strings.TrimSpace(getenv("CLOUDINARY_API_SECRET", "")),
			BookingFolder:       getenv("CLOUDINARY_BOOKING_FOLDER", "booking-confirmations"),
			ResourceTypes:       parseList(getenv("CLOUDINARY_RESOURCE_TYPES", "image,raw")),
			UploadsDir:          getenv("UPLOADS_DIR", "./public/uploads/events"),
			PublicPrefix:        getenv("UPLOADS_PUBLIC_PREFIX", "/uploads/events"),
		},
		Email: EmailConfig{
			Provider:     strings.ToLower(getenv("EMAIL_PROVIDER", EmailProviderResend)),
			ResendAPIKey: strings.TrimSpace(getenv("RESEND_API_KEY", "")),
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			From:         strings.TrimSpace(getenv("EMAIL_FROM", "")),
			FromName:     getenv("EMAIL_FROM_NAME", "Clubhouse"),
			Subject:      getenv("EMAIL_BOOKING_SUBJECT", "Your registration for %s is confirmed"),
		},
		Fonts: FontConfig{
			Dir: strings.TrimSpace(getenv("PDF_FONT_DIR", "")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			RedisPassword: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			RedisDB:       getenvInt("REDIS_DB", 0),
			IntakeRate:    getenvFloat("RATE_LIMIT_INTAKE_RATE", 0.2),
			IntakeBurst:   getenvInt("RATE_LIMIT_INTAKE_BURST", 5),
		},
		Notifications: NotificationConfig{
			RedisChannel:    getenv("NOTIFICATIONS_REDIS_CHANNEL", "clubhouse:notifications"),
			SlackWebhookURL: strings.TrimSpace(getenv("NOTIFICATIONS_SLACK_WEBHOOK_URL", "")),
			SlackChannel:    strings.TrimSpace(getenv("NOTIFICATIONS_SLACK_CHANNEL", "")),
		},
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
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

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
