package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	Identity  IdentityConfig
	Dashboard DashboardConfig
	Sweep     SweepConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// IdentityConfig holds identity-provider verification configuration.
// The provider signs session tokens with this shared secret; the
// backend only ever verifies.
type IdentityConfig struct {
	SessionSecret string
	// AdminSubjects are provider subject ids granted the admin role at
	// seed time, comma separated.
	AdminSubjects []string
}

// DashboardConfig holds analytics projection configuration
type DashboardConfig struct {
	// TurnoutBaseline normalizes per-region turnout: turnout% is
	// votes / baseline, capped at 100.
	TurnoutBaseline int64
}

// SweepConfig holds election sweep scheduling configuration
type SweepConfig struct {
	Enabled bool
	// Spec is a cron expression; the sweep activates due elections and
	// declares results for expired ones.
	Spec string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "3000"),
		Database:  loadDatabaseConfig(appMode),
		Identity:  loadIdentityConfig(appMode),
		Dashboard: loadDashboardConfig(),
		Sweep:     loadSweepConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "maha_evoting"),
	}
}

// loadIdentityConfig loads identity provider config based on mode
func loadIdentityConfig(mode string) IdentityConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	var admins []string
	for _, s := range strings.Split(getEnv("ADMIN_SUBJECTS", ""), ",") {
		if s = strings.TrimSpace(s); s != "" {
			admins = append(admins, s)
		}
	}

	return IdentityConfig{
		SessionSecret: getEnv(prefix+"IDP_SESSION_SECRET", "default_session_secret"),
		AdminSubjects: admins,
	}
}

// loadDashboardConfig loads analytics config
func loadDashboardConfig() DashboardConfig {
	baseline, err := strconv.ParseInt(getEnv("TURNOUT_BASELINE", "100000"), 10, 64)
	if err != nil || baseline <= 0 {
		baseline = 100000
	}
	return DashboardConfig{TurnoutBaseline: baseline}
}

// loadSweepConfig loads sweep config
func loadSweepConfig() SweepConfig {
	enabled, _ := strconv.ParseBool(getEnv("SWEEP_ENABLED", "true"))
	return SweepConfig{
		Enabled: enabled,
		Spec:    getEnv("SWEEP_CRON", "* * * * *"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://vote.mahaonline.gov.in"
	}
	return origins
}
