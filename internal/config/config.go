package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Sources  SourcesConfig
	Limits   LimitsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	RelayURL   string // external email relay; SMTP below is the fallback
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// SourcesConfig holds the upstream scraper endpoints. Aggregators is a
// semicolon-separated list of id=url pairs so new backends can be added
// without a code change.
type SourcesConfig struct {
	LinkedInURL   string
	GoogleMapsURL string
	Aggregators   map[string]string
	DefaultSource string
	CacheTTL      time.Duration
}

type LimitsConfig struct {
	DailySearchQuota     int
	NotificationDebounce time.Duration
	SessionTTL           time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			RelayURL:   getEnv("EMAIL_SERVICE_URL", ""),
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "LeadGen Suite"),
		},
		Sources: SourcesConfig{
			LinkedInURL:   getEnv("LINKEDIN_SCRAPER_URL", "http://localhost:8000"),
			GoogleMapsURL: getEnv("MAPS_SCRAPER_URL", "http://localhost:8001"),
			Aggregators:   parsePairs(getEnv("AGGREGATOR_SOURCES", "")),
			DefaultSource: getEnv("DEFAULT_SOURCE", "linkedin"),
			CacheTTL:      getEnvAsDuration("SOURCE_CACHE_TTL", 5*time.Minute),
		},
		Limits: LimitsConfig{
			DailySearchQuota:     getEnvAsInt("DAILY_SEARCH_QUOTA", 100),
			NotificationDebounce: getEnvAsDuration("NOTIFICATION_READ_DEBOUNCE", 3*time.Second),
			SessionTTL:           getEnvAsDuration("RESULT_SESSION_TTL", 1*time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// parsePairs turns "hunter=http://host;apollo=http://other" into a map.
// Malformed entries are skipped.
func parsePairs(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}
