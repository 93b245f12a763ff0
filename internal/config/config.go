package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	S3         S3Config
	Twilio     TwilioConfig
	Transcribe TranscribeConfig
	Extract    ExtractConfig
	Menu       MenuConfig
	Store      StoreConfig
	Stream     StreamConfig
	Events     EventsConfig
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

// AuthConfig holds authentication configuration. An empty key leaves the order endpoints open.
type AuthConfig struct {
	APIKey string
}

// S3Config holds AWS S3 configuration for the menu document.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "menus/")
}

// TwilioConfig holds the Twilio account used for media download and request signatures.
type TwilioConfig struct {
	AccountSID        string
	AuthToken         string
	ValidateSignature bool
	WebhookURL        string // public webhook URL; derived from the request when empty
}

// TranscribeConfig holds speech-to-text configuration.
type TranscribeConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration // 0 disables
}

// ExtractConfig holds order extraction settings.
type ExtractConfig struct {
	MatchMode string // "token" or "substring"
}

// MenuConfig points at the restaurant document. Empty means the built-in demo menu.
type MenuConfig struct {
	File string
}

// StoreConfig selects the order store.
type StoreConfig struct {
	Backend string
}

// StreamConfig holds live order stream settings.
type StreamConfig struct {
	BufferSize int
	Heartbeat  time.Duration
}

// EventsConfig holds the optional RabbitMQ order event settings.
type EventsConfig struct {
	URL      string
	Exchange string
}

// Enabled reports whether order events should be published.
func (c EventsConfig) Enabled() bool {
	return c.URL != ""
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("PORT", getEnvAsInt("SERVER_PORT", 5000)),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "orderbot"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "menus/"),
		},
		Twilio: TwilioConfig{
			AccountSID:        getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:         getEnv("TWILIO_AUTH_TOKEN", ""),
			ValidateSignature: getEnvAsBool("TWILIO_VALIDATE_SIGNATURE", false),
			WebhookURL:        getEnv("TWILIO_WEBHOOK_URL", ""),
		},
		Transcribe: TranscribeConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Timeout: getEnvAsDuration("TRANSCRIBE_TIMEOUT", 2*time.Minute),
		},
		Extract: ExtractConfig{
			MatchMode: getEnv("EXTRACT_MATCH_MODE", "token"),
		},
		Menu: MenuConfig{
			File: getEnv("MENU_FILE", ""),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StoreMemory),
		},
		Stream: StreamConfig{
			BufferSize: getEnvAsInt("STREAM_BUFFER", 16),
			Heartbeat:  getEnvAsDuration("STREAM_HEARTBEAT", 25*time.Second),
		},
		Events: EventsConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "orders_fanout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration. Missing third-party credentials are
// not an error here; the operations that need them fail instead.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be memory or postgres)", c.Store.Backend)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Extract.MatchMode != "token" && c.Extract.MatchMode != "substring" {
		return fmt.Errorf("invalid match mode: %s (must be token or substring)", c.Extract.MatchMode)
	}

	if c.Twilio.ValidateSignature && c.Twilio.AuthToken == "" {
		return fmt.Errorf("twilio auth token is required when signature validation is enabled")
	}

	if c.Transcribe.Timeout < 0 {
		return fmt.Errorf("transcribe timeout cannot be negative")
	}

	if c.Stream.BufferSize < 1 {
		return fmt.Errorf("stream buffer must be at least 1")
	}

	if c.Stream.Heartbeat <= 0 {
		return fmt.Errorf("stream heartbeat must be positive")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Events.Enabled() && c.Events.Exchange == "" {
		return fmt.Errorf("AMQP exchange is required when AMQP_URL is set")
	}

	return nil
}

// Validate validates the database settings. Only checked for the postgres store.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// WriteTimeout returns the HTTP write timeout, long enough to answer a voice
// order. It is zero, meaning none, when transcription has no timeout.
func (c *Config) WriteTimeout() time.Duration {
	if c.Transcribe.Timeout == 0 {
		return 0
	}
	return c.Transcribe.Timeout + 15*time.Second
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

// getEnvAsDuration accepts Go duration strings ("90s") or plain seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
