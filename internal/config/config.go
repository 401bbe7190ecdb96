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

// Route groups a process can serve
const (
	ServiceAuth         = "auth"
	ServiceUsers        = "users"
	ServiceTransactions = "transactions"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Services  []string
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Reconcile ReconcileConfig
	Log       LogConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql, postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// RedisConfig holds username cache configuration, empty URL disables it
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// RabbitMQConfig holds event publisher configuration, empty URL disables it
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// ReconcileConfig holds the reconciler cron spec, empty disables it
type ReconcileConfig struct {
	Schedule string
}

// LogConfig holds service logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	services, err := parseServices(getEnv("SERVICES", "auth,users,transactions"))
	if err != nil {
		return nil, err
	}

	db := loadDatabaseConfig(appMode)
	switch db.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql', 'postgres' or 'sqlite')", db.Driver)
	}

	ttl, err := time.ParseDuration(getEnv("USERNAME_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid USERNAME_CACHE_TTL: %w", err)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Services: services,
		Database: db,
		JWT:      loadJWTConfig(appMode),
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
			TTL: ttl,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("LEDGER_EVENTS_EXCHANGE", "ledger.events"),
		},
		Reconcile: ReconcileConfig{
			Schedule: os.Getenv("RECONCILE_SCHEDULE"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
	if _, set := os.LookupEnv("RECONCILE_SCHEDULE"); !set {
		config.Reconcile.Schedule = "@every 1h"
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s] [SERVICES: %s]", appMode, strings.Join(services, ","))
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "peerpay"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	expiry, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	if err != nil || expiry <= 0 {
		expiry = 24
	}

	return JWTConfig{
		Secret:      getEnv(prefix+"JWT_SECRET", "default_secret"),
		ExpiryHours: expiry,
	}
}

// parseServices splits and checks the SERVICES list
func parseServices(raw string) ([]string, error) {
	var services []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		switch s {
		case ServiceAuth, ServiceUsers, ServiceTransactions:
			services = append(services, s)
		default:
			return nil, fmt.Errorf("invalid SERVICES entry: '%s'", s)
		}
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("SERVICES must name at least one of auth, users, transactions")
	}
	return services, nil
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

// Serves reports whether the route group is enabled in this process
func (c *Config) Serves(service string) bool {
	for _, s := range c.Services {
		if s == service {
			return true
		}
	}
	return false
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		return "*"
	}
	return origins
}
