package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	GTS          GTSConfig          `mapstructure:"gts"`
	Pushover     PushoverConfig     `mapstructure:"pushover"`
	Email        EmailConfig        `mapstructure:"email"`
	Registration RegistrationConfig `mapstructure:"registration"`
	Reconciler   ReconcilerConfig   `mapstructure:"reconciler"`
	Monitoring   MonitoringConfig   `mapstructure:"monitoring"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Shutdown     ShutdownConfig     `mapstructure:"shutdown"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// GTSConfig contains settings for the game service client
type GTSConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	LanguageID     string        `mapstructure:"language_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// PushoverConfig contains settings for the push notification provider
type PushoverConfig struct {
	BaseURL             string        `mapstructure:"base_url" validate:"required,url"`
	AppToken            string        `mapstructure:"app_token" validate:"required"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	ValidateDestination bool          `mapstructure:"validate_destination"`
}

// EmailConfig contains settings for the mail relay
type EmailConfig struct {
	Host                string        `mapstructure:"host"`
	Port                int           `mapstructure:"port"`
	Username            string        `mapstructure:"username"`
	Password            string        `mapstructure:"password"`
	From                string        `mapstructure:"from"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	ValidateDestination bool          `mapstructure:"validate_destination"`
}

// RegistrationConfig contains registration pipeline settings
type RegistrationConfig struct {
	NotifyOnRemoval bool `mapstructure:"notify_on_removal"`
}

// ReconcilerConfig contains settings for the reconciliation engine
type ReconcilerConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Workers     int           `mapstructure:"workers" validate:"gte=1"`
	PassTimeout time.Duration `mapstructure:"pass_timeout"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ShutdownConfig contains graceful shutdown settings
type ShutdownConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "gtsnotifier")

	// GTS defaults
	viper.SetDefault("gts.base_url", "http://3ds.pokemon-gl.com")
	viper.SetDefault("gts.language_id", "2")
	viper.SetDefault("gts.request_timeout", "15s")

	// Pushover defaults
	viper.SetDefault("pushover.base_url", "https://api.pushover.net")
	viper.SetDefault("pushover.request_timeout", "15s")
	viper.SetDefault("pushover.validate_destination", true)

	// Email defaults
	viper.SetDefault("email.port", 587)
	viper.SetDefault("email.request_timeout", "15s")
	viper.SetDefault("email.validate_destination", false)

	// Registration defaults
	viper.SetDefault("registration.notify_on_removal", true)

	// Reconciler defaults
	viper.SetDefault("reconciler.interval", "5m")
	viper.SetDefault("reconciler.workers", 4)
	viper.SetDefault("reconciler.pass_timeout", "2m")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")

	// Shutdown defaults
	viper.SetDefault("shutdown.timeout", "30s")
}

func validate(config *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(config); err != nil {
		return err
	}
	// The email channel stays optional: entries registered with channel
	// "email" need a relay, so require the relay settings together.
	if config.Email.Host != "" && config.Email.From == "" {
		return fmt.Errorf("email.from is required when email.host is set")
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
