package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"caseable-catalog/internal/client"
	"caseable-catalog/internal/model"
	"caseable-catalog/internal/transport"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	S3       S3Config
	Catalog  CatalogConfig
	Orders   OrdersConfig
	Snapshot SnapshotConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// S3Config holds AWS S3 configuration for catalog snapshots.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "snapshots/")
}

// CatalogConfig holds the remote catalog service settings.
type CatalogConfig struct {
	BaseURL          string
	Partner          string
	Region           string
	Lang             string
	Vendor           string
	Timeout          int // seconds, 0 disables the timeout
	AllowedRegions   []string
	AllowedLanguages []string
	DefaultLanguage  string
}

// OrdersConfig holds the credentials used for order calls.
type OrdersConfig struct {
	User string
	Pass string
}

// SnapshotConfig holds local catalog snapshot settings.
type SnapshotConfig struct {
	Dir string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "caseable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: loadLogger(),
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "snapshots/"),
		},
		Catalog:  loadCatalog(),
		Orders:   loadOrders(),
		Snapshot: SnapshotConfig{Dir: getEnv("SNAPSHOT_DIR", "snapshots")},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadCatalog loads only the settings needed to talk to the catalog
// service, for tools that run without the picker API's database. The
// overrides run after the environment is read and before validation.
func LoadCatalog(overrides ...func(*Config)) (*Config, error) {
	cfg := &Config{
		Logger:   loadLogger(),
		Catalog:  loadCatalog(),
		Orders:   loadOrders(),
		Snapshot: SnapshotConfig{Dir: getEnv("SNAPSHOT_DIR", "snapshots")},
	}
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Logger.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadLocal loads the settings of tools that only read local snapshots
// and never call the catalog service.
func LoadLocal() (*Config, error) {
	cfg := &Config{
		Logger:   loadLogger(),
		Snapshot: SnapshotConfig{Dir: getEnv("SNAPSHOT_DIR", "snapshots")},
	}

	if err := cfg.Logger.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadLogger() LoggerConfig {
	return LoggerConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}
}

func loadCatalog() CatalogConfig {
	defaults := client.DefaultOptions()
	return CatalogConfig{
		BaseURL:          getEnv("CATALOG_BASE_URL", ""),
		Partner:          getEnv("CATALOG_PARTNER", ""),
		Region:           getEnv("CATALOG_REGION", "eu"),
		Lang:             getEnv("CATALOG_LANG", defaults.DefaultLanguage),
		Vendor:           getEnv("CATALOG_VENDOR", transport.DefaultVendor),
		Timeout:          getEnvAsInt("CATALOG_TIMEOUT", 0),
		AllowedRegions:   getEnvAsList("CATALOG_ALLOWED_REGIONS", defaults.AllowedRegions),
		AllowedLanguages: getEnvAsList("CATALOG_ALLOWED_LANGUAGES", defaults.AllowedLanguages),
		DefaultLanguage:  getEnv("CATALOG_DEFAULT_LANGUAGE", defaults.DefaultLanguage),
	}
}

func loadOrders() OrdersConfig {
	return OrdersConfig{
		User: getEnv("ORDERS_USER", ""),
		Pass: getEnv("ORDERS_PASS", ""),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return c.Catalog.Validate()
}

// Validate validates the logger configuration.
func (c *LoggerConfig) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}

	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Format)
	}

	return nil
}

// Validate checks the catalog settings that are not the client's to judge.
// Base URL shape, region and language are checked by client.Initialize.
func (c *CatalogConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("catalog timeout cannot be negative: %d", c.Timeout)
	}

	if len(c.AllowedRegions) == 0 {
		return fmt.Errorf("at least one allowed catalog region is required")
	}

	if len(c.AllowedLanguages) == 0 {
		return fmt.Errorf("at least one allowed catalog language is required")
	}

	return nil
}

// ClientOptions returns the policy lists for client.New.
func (c *CatalogConfig) ClientOptions() client.Options {
	opts := client.DefaultOptions()
	opts.AllowedRegions = c.AllowedRegions
	opts.AllowedLanguages = c.AllowedLanguages
	if c.DefaultLanguage != "" {
		opts.DefaultLanguage = c.DefaultLanguage
	}
	return opts
}

// TransportConfig returns the settings for transport.New.
func (c *CatalogConfig) TransportConfig() transport.Config {
	return transport.Config{
		Vendor:  c.Vendor,
		Timeout: time.Duration(c.Timeout) * time.Second,
	}
}

// Credentials returns the configured order credentials, or nil when none
// are set.
func (c *OrdersConfig) Credentials() *model.Credentials {
	if c.User == "" && c.Pass == "" {
		return nil
	}
	return &model.Credentials{User: c.User, Pass: c.Pass}
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList retrieves a comma separated environment variable or returns a default value.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
