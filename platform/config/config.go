// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Email providers supported by the notification transport.
const (
	EmailProviderBrevo    = "brevo"
	EmailProviderSMTP     = "smtp"
	EmailProviderSendGrid = "sendgrid"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDatabaseCallerRole() string
	ShouldRunMigrations() bool
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTSecret() string
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetEmailProvider() string
	GetBrevoAPIKey() string
	GetSendGridAPIKey() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// LeadNotificationConfig provides settings for the new-lead notifier.
type LeadNotificationConfig interface {
	GetLeadNotificationTo() string
	GetNotifyTimeout() time.Duration
}

// GeoIPConfig provides settings for the IP geolocation lookup.
type GeoIPConfig interface {
	GetGeoIPBaseURL() string
	GetGeoIPTimeout() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetTrustedProxies() []string
}

// RateLimitConfig provides settings for public endpoint throttling.
type RateLimitConfig interface {
	GetRedisURL() string
	GetIntakeRateLimitPerMinute() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	DatabaseCallerRole       string
	RunMigrations            bool
	JWTSecret                string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	TrustedProxies           []string
	EmailEnabled             bool
	EmailProvider            string
	BrevoAPIKey              string
	SendGridAPIKey           string
	SMTPHost                 string
	SMTPPort                 int
	SMTPUsername             string
	SMTPPassword             string
	EmailFromName            string
	EmailFromAddress         string
	LeadNotificationTo       string
	NotifyTimeout            time.Duration
	GeoIPBaseURL             string
	GeoIPTimeout             time.Duration
	RedisURL                 string
	IntakeRateLimitPerMinute int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string        { return c.DatabaseURL }
func (c *Config) GetDatabaseCallerRole() string { return c.DatabaseCallerRole }
func (c *Config) ShouldRunMigrations() bool     { return c.RunMigrations }

// JWTConfig implementation
func (c *Config) GetJWTSecret() string { return c.JWTSecret }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetEmailProvider() string    { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetSendGridAPIKey() string   { return c.SendGridAPIKey }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// LeadNotificationConfig implementation
func (c *Config) GetLeadNotificationTo() string   { return c.LeadNotificationTo }
func (c *Config) GetNotifyTimeout() time.Duration { return c.NotifyTimeout }

// GeoIPConfig implementation
func (c *Config) GetGeoIPBaseURL() string        { return c.GeoIPBaseURL }
func (c *Config) GetGeoIPTimeout() time.Duration { return c.GeoIPTimeout }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// GetTrustedProxies returns nil when no proxy is trusted.
func (c *Config) GetTrustedProxies() []string { return c.TrustedProxies }

// RateLimitConfig implementation
func (c *Config) GetRedisURL() string              { return c.RedisURL }
func (c *Config) GetIntakeRateLimitPerMinute() int { return c.IntakeRateLimitPerMinute }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		DatabaseCallerRole:       getEnv("DB_CALLER_ROLE", "authenticated"),
		RunMigrations:            strings.EqualFold(getEnv("DB_RUN_MIGRATIONS", "true"), "true"),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		TrustedProxies:           trustedProxies(getEnv("TRUSTED_PROXIES", "")),
		EmailEnabled:             strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true"),
		EmailProvider:            strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", EmailProviderBrevo))),
		BrevoAPIKey:              getEnv("BREVO_API_KEY", ""),
		SendGridAPIKey:           getEnv("SENDGRID_API_KEY", ""),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Website"),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", ""),
		LeadNotificationTo:       getEnv("LEAD_NOTIFICATION_TO", ""),
		NotifyTimeout:            mustDuration(getEnv("NOTIFY_TIMEOUT", "10s")),
		GeoIPBaseURL:             strings.TrimRight(getEnv("GEOIP_BASE_URL", "https://ipapi.co"), "/"),
		GeoIPTimeout:             mustDuration(getEnv("GEOIP_TIMEOUT", "5s")),
		RedisURL:                 getEnv("REDIS_URL", ""),
		IntakeRateLimitPerMinute: mustInt(getEnv("INTAKE_RATE_LIMIT_PER_MINUTE", "10")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	for _, proxy := range cfg.TrustedProxies {
		if !validProxy(proxy) {
			return nil, fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
		}
	}
	if cfg.EmailEnabled {
		if err := validateEmail(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func validateEmail(cfg *Config) error {
	switch cfg.EmailProvider {
	case EmailProviderBrevo:
		if cfg.BrevoAPIKey == "" {
			return fmt.Errorf("BREVO_API_KEY is required when EMAIL_PROVIDER is brevo")
		}
	case EmailProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required when EMAIL_PROVIDER is sendgrid")
		}
	case EmailProviderSMTP:
		if cfg.SMTPHost == "" || cfg.SMTPPort <= 0 {
			return fmt.Errorf("SMTP_HOST and SMTP_PORT are required when EMAIL_PROVIDER is smtp")
		}
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
	if cfg.EmailFromAddress == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.LeadNotificationTo == "" {
		return fmt.Errorf("LEAD_NOTIFICATION_TO is required when email is enabled")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func trustedProxies(value string) []string {
	proxies := splitCSV(value)
	if len(proxies) == 0 {
		return nil
	}
	return proxies
}

func validProxy(value string) bool {
	if strings.Contains(value, "/") {
		_, _, err := net.ParseCIDR(value)
		return err == nil
	}
	return net.ParseIP(value) != nil
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
