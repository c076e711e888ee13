package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	Backend   BackendConfig
	Print     PrintConfig
	Sync      SyncConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// BackendConfig points at the label backend REST API
type BackendConfig struct {
	URL     string
	Token   string // service token used by background jobs
	Timeout time.Duration
}

// PrintConfig holds label document settings
type PrintConfig struct {
	QRWorkers   int
	Timeout     time.Duration
	Timezone    string
	LogoPath    string
	CompanyName string
}

// SyncConfig controls the prod header cache refresh loop
type SyncConfig struct {
	Interval time.Duration // 0 disables the loop
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3210"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "labelgo"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Backend: BackendConfig{
			URL:     getEnv("LABEL_API_URL", "http://be-inlab.ns1.sanoh.co.id"),
			Token:   os.Getenv("LABEL_API_TOKEN"),
			Timeout: getDuration("LABEL_API_TIMEOUT", 30*time.Second),
		},
		Print: PrintConfig{
			QRWorkers:   getInt("PRINT_QR_WORKERS", 4),
			Timeout:     getDuration("PRINT_TIMEOUT", 60*time.Second),
			Timezone:    getEnv("PRINT_TIMEZONE", "Asia/Jakarta"),
			LogoPath:    os.Getenv("PRINT_LOGO_PATH"),
			CompanyName: getEnv("PRINT_COMPANY_NAME", "SANOH"),
		},
		Sync: SyncConfig{
			Interval: time.Duration(getInt("SYNC_INTERVAL", 15)) * time.Minute,
		},
	}, nil
}

// Location resolves the configured footer time zone, falling back to local time
func (p PrintConfig) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// getDuration accepts Go durations ("45s") or plain seconds ("45")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
