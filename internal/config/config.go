package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultCategories is the canonical post category set
var DefaultCategories = []string{"INNOVATIONS", "TREATMENTS", "WELL_BEING", "CARE", "EDUCATION"}

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string // Optional, the post cache is skipped when empty or unreachable
	FrontendURL string // Public blog URL, used for post QR codes

	LogLevel  string
	LogFormat string // text or json

	SessionSecret   string // Secret key for session token signing
	SessionTTLHours int    // Fixed session validity window
	CookieSecure    bool
	CookieDomain    string

	PostCategories []string

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3UseSSL        bool
	S3PublicBaseURL string // Optional, defaults to <scheme>://<bucket>.<endpoint>
	UploadMaxBytes  int64

	RateLimitRPS       float64 // General API rate (requests per second)
	RateLimitBurst     int
	RateLimitAuthRPS   float64 // Login rate (stricter)
	RateLimitAuthBurst int
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SessionSecret:   getEnv("SESSION_SECRET", getEnv("JWT_SECRET", "")),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),
		CookieSecure:    getEnvBool("COOKIE_SECURE", true),
		CookieDomain:    getEnv("COOKIE_DOMAIN", ""),

		PostCategories: getEnvList("POST_CATEGORIES", DefaultCategories),

		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3Region:        getEnv("S3_REGION", "nyc3"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3UseSSL:        getEnvBool("S3_USE_SSL", true),
		S3PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		UploadMaxBytes:  int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),

		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:   getEnvFloat("RATE_LIMIT_AUTH_RPS", 1),
		RateLimitAuthBurst: getEnvInt("RATE_LIMIT_AUTH_BURST", 5),
	}
}

// Validate reports every required setting that is missing.
// Called before any connection is opened so misconfiguration fails at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.SessionTTLHours <= 0 {
		errs = append(errs, errors.New("SESSION_TTL_HOURS must be positive"))
	}
	if len(c.PostCategories) == 0 {
		errs = append(errs, errors.New("POST_CATEGORIES must not be empty"))
	}
	if c.S3Endpoint == "" || c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
		errs = append(errs, errors.New("S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required"))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
