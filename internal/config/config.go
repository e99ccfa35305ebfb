// Package config builds the application configuration once at startup.
// Consumers receive the typed Config by reference; nothing reads the
// environment after Load returns.
package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Mail       MailConfig
	RateLimit  RateLimitConfig
	Validation ValidationConfig
	Antispam   AntispamConfig
	Security   SecurityConfig
	CORS       CORSConfig
	Redis      RedisConfig
	Env        string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
}

// MailConfig holds transactional mail provider configuration.
// An empty APIKey is a hard precondition failure for the delivery endpoint;
// the server still starts so health checks can report the condition.
type MailConfig struct {
	APIKey      string
	From        string
	OwnerEmail  string
	SendTimeout time.Duration
	Timezone    string
}

// RateLimitConfig holds edge rate limiting configuration
type RateLimitConfig struct {
	Window  time.Duration
	Max     int
	Message string
}

// ValidationConfig holds the server-side input maxima for the delivery
// endpoint. These are deliberately distinct from the stricter client-side
// schema caps; the two sets were authored independently and stay separate.
type ValidationConfig struct {
	MaxNameLength    int
	MaxEmailLength   int
	MaxMessageLength int
	BlockedWords     []string
}

// AntispamConfig holds server-side submission gating configuration
type AntispamConfig struct {
	HoneypotField        string
	MaxSubmissionsPerHr  int
	MaxSubmissionsPerDay int
	SuspiciousPatterns   []*regexp.Regexp
}

// SecurityConfig holds fixed security response headers and the path denylist
type SecurityConfig struct {
	Headers      map[string]string
	BlockedPaths []string
}

// CORSConfig holds cross-origin policy configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// RedisConfig holds the optional shared rate-limit store configuration.
// An empty Addr means the edge guard keeps its in-process store, acceptable
// only for single-instance deployment.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Mail: MailConfig{
			APIKey:      getEnv("RESEND_API_KEY", ""),
			From:        getEnv("MAIL_FROM", "Portfolio <onboarding@resend.dev>"),
			OwnerEmail:  getEnv("OWNER_EMAIL", "dantemoss6@gmail.com"),
			SendTimeout: getDurationEnv("MAIL_SEND_TIMEOUT_SECONDS", 10*time.Second),
			Timezone:    getEnv("MAIL_TIMEZONE", "America/Guayaquil"),
		},
		RateLimit: RateLimitConfig{
			Window:  getDurationEnv("RATE_LIMIT_WINDOW_SECONDS", 15*60*time.Second),
			Max:     getIntEnv("RATE_LIMIT_MAX", 100),
			Message: "Too many requests from this IP, try again in 15 minutes",
		},
		Validation: ValidationConfig{
			MaxNameLength:    getIntEnv("MAX_NAME_LENGTH", 100),
			MaxEmailLength:   getIntEnv("MAX_EMAIL_LENGTH", 254),
			MaxMessageLength: getIntEnv("MAX_MESSAGE_LENGTH", 2000),
			BlockedWords: []string{
				"spam", "casino", "viagra", "lottery", "winner",
				"click here", "buy now", "free money", "make money fast",
			},
		},
		Antispam: AntispamConfig{
			HoneypotField:        "website",
			MaxSubmissionsPerHr:  getIntEnv("MAX_SUBMISSIONS_PER_HOUR", 5),
			MaxSubmissionsPerDay: getIntEnv("MAX_SUBMISSIONS_PER_DAY", 20),
			SuspiciousPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)buy\s+now`),
				regexp.MustCompile(`(?i)click\s+here`),
				regexp.MustCompile(`(?i)free\s+money`),
				regexp.MustCompile(`(?i)make\s+money\s+fast`),
				regexp.MustCompile(`(?i)viagra`),
				regexp.MustCompile(`(?i)casino`),
			},
		},
		Security: SecurityConfig{
			Headers: map[string]string{
				"X-Frame-Options":        "DENY",
				"X-Content-Type-Options": "nosniff",
				"X-XSS-Protection":       "1; mode=block",
				"Referrer-Policy":        "origin-when-cross-origin",
				"Permissions-Policy":     "camera=(), microphone=(), geolocation=()",
				"Content-Security-Policy": strings.Join([]string{
					"default-src 'self'",
					"script-src 'self' 'unsafe-eval' 'unsafe-inline'",
					"style-src 'self' 'unsafe-inline'",
					"img-src 'self' data: https:",
					"font-src 'self'",
					"connect-src 'self'",
					"frame-ancestors 'none'",
				}, "; "),
			},
			BlockedPaths: []string{"/api/test-email"},
		},
		CORS: CORSConfig{
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Env: getEnv("APP_ENV", "development"),
	}
}

// IsDevelopment reports whether the app runs in development mode.
// Error detail fields are only exposed in development.
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv returns an integer from environment variable or default
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getDurationEnv returns a duration in seconds from environment variable or default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

// getSliceEnv returns a comma-separated list from environment variable or default
func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
