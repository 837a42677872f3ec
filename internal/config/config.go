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

const defaultTokenTTL = 7 * 24 * time.Hour

type Config struct {
	Port                string
	DBUrl               string
	DBMaxConns          int
	JWTSecret           string
	JWTExpiry           time.Duration
	AppEnv              string
	LogLevel            string
	EnableDocs          bool
	SeedOnStart         bool
	AutoMigrate         bool
	MigrationsDir       string
	AdminEmails         []string
	CORSOrigins         string
	RateLimitRPS        float64
	RateLimitBurst      int
	DefaultUserName     string
	DefaultUserEmail    string
	DefaultUserPassword string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	jwtExpiry, err := parseExpiry(getEnv("JWT_EXPIRE", "7d"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
	}

	return &Config{
		Port:                getEnv("PORT", "5000"),
		DBUrl:               getEnv("DB_URL", ""),
		DBMaxConns:          getEnvInt("DB_MAX_CONNS", 10),
		JWTSecret:           jwtSecret,
		JWTExpiry:           jwtExpiry,
		AppEnv:              normalizeEnv(getEnv("APP_ENV", "production")),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		EnableDocs:          getEnvBool("ENABLE_API_DOCS", false),
		SeedOnStart:         getEnvBool("SEED_ON_START", true),
		AutoMigrate:         getEnvBool("AUTO_MIGRATE", false),
		MigrationsDir:       getEnv("MIGRATIONS_DIR", ""),
		AdminEmails:         splitList(getEnv("ADMIN_EMAILS", "")),
		CORSOrigins:         getEnv("CORS_ORIGINS", "*"),
		RateLimitRPS:        getEnvFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 10),
		DefaultUserName:     getEnv("DEFAULT_USER_NAME", "Demo User"),
		DefaultUserEmail:    getEnv("DEFAULT_USER_EMAIL", ""),
		DefaultUserPassword: getEnv("DEFAULT_USER_PASSWORD", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

// parseExpiry accepts Go durations plus a whole-day form such as "7d".
func parseExpiry(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultTokenTTL, nil
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("expiry must be positive")
	}
	return duration, nil
}

func splitList(value string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c == nil || c.AppEnv == "production"
}

func (c *Config) IsAdminEmail(email string) bool {
	if c == nil {
		return false
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}
