package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Redis         RedisConfig
	S3            S3Config
	Mail          MailConfig
	AI            AIConfig
	PasswordReset PasswordResetConfig
	RateLimit     RateLimitConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// MailConfig selects the outbound email transport. Resend wins when its API key is
// set, then SMTP; with neither configured codes are written to the log (dev mode).
type MailConfig struct {
	From          string
	ResendAPIKey  string
	ResendBaseURL string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type PasswordResetConfig struct {
	CodeTTL     time.Duration
	CodeSpace   string // full or legacy
	CleanupCron string
}

type RateLimitConfig struct {
	Enabled       bool
	ResetRequests int
	ResetConfirms int
	Window        time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cravings"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry: parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "24h"), 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "*")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "cravings-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Mail: MailConfig{
			From:          getEnv("MAIL_FROM", "CRAVINGS <onboarding@resend.dev>"),
			ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
			ResendBaseURL: getEnv("RESEND_BASE_URL", "https://api.resend.com"),
			SMTPHost:      getEnv("SMTP_HOST", ""),
			SMTPPort:      getEnv("SMTP_PORT", "587"),
			SMTPUsername:  getEnv("SMTP_USERNAME", ""),
			SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		},
		AI: AIConfig{
			APIKey:  getEnv("AI_API_KEY", ""),
			BaseURL: getEnv("AI_BASE_URL", "https://ai.gateway.lovable.dev/v1"),
			Model:   getEnv("AI_MODEL", "google/gemini-2.5-flash"),
			Timeout: parseDuration(getEnv("AI_TIMEOUT", "30s"), 30*time.Second),
		},
		PasswordReset: PasswordResetConfig{
			CodeTTL:     parseDuration(getEnv("RESET_CODE_TTL", "10m"), 10*time.Minute),
			CodeSpace:   strings.ToLower(strings.TrimSpace(getEnv("RESET_CODE_SPACE", "full"))),
			CleanupCron: getEnv("RESET_CODE_CLEANUP_CRON", "*/15 * * * *"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       parseBool(getEnv("RATE_LIMIT_ENABLED", "true")),
			ResetRequests: parseInt(getEnv("RATE_LIMIT_RESET_REQUESTS", "6"), 6),
			ResetConfirms: parseInt(getEnv("RATE_LIMIT_RESET_CONFIRMS", "10"), 10),
			Window:        parseDuration(getEnv("RATE_LIMIT_WINDOW", "10m"), 10*time.Minute),
		},
	}

	if config.PasswordReset.CodeSpace != "full" && config.PasswordReset.CodeSpace != "legacy" {
		return nil, fmt.Errorf("invalid RESET_CODE_SPACE %q (want full or legacy)", config.PasswordReset.CodeSpace)
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
