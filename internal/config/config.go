// Package config loads the application configuration from a YAML file.
// Database credentials are not configured here; the database package
// reads them from environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"talenttrack-backend/internal/logger"
)

const (
	// MinPort is the minimum valid port number.
	MinPort = 1
	// MaxPort is the maximum valid port number.
	MaxPort = 65535
)

// Config is the complete application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Attachments AttachmentsConfig `yaml:"attachments"`
	Dispatcher  DispatcherConfig  `yaml:"dispatcher"`
	AMQP        AMQPConfig        `yaml:"amqp"`
	Upload      UploadConfig      `yaml:"upload"`
	Logging     logger.Config     `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	AllowOrigins      []string      `yaml:"allow_origins"`
	RequestsPerSecond uint          `yaml:"requests_per_second"`
}

// AttachmentsConfig holds the attachment validation rules consumed by
// the upload validator.
type AttachmentsConfig struct {
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxFileSizeMB     int64    `yaml:"max_file_size_mb"`
	MaxFiles          int      `yaml:"max_files"`
}

// DispatcherConfig holds the outbox dispatcher settings.
type DispatcherConfig struct {
	DrainInterval time.Duration `yaml:"drain_interval"`
	BatchSize     int           `yaml:"batch_size"`
}

// AMQPConfig holds the RabbitMQ transport settings. When URL is empty
// the server falls back to the log transport.
type AMQPConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
}

// UploadConfig holds the upload storage settings. When Bucket is empty
// validated attachments are kept in process memory, which only suits
// local development.
type UploadConfig struct {
	Bucket string `yaml:"bucket"`
}

// Load reads and parses the configuration file, applying defaults for
// optional settings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with sensible development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       time.Minute,
			ShutdownTimeout:   10 * time.Second,
			RequestsPerSecond: 5,
		},
		Attachments: AttachmentsConfig{
			AllowedExtensions: []string{".pdf", ".doc", ".docx"},
			MaxFileSizeMB:     5,
			MaxFiles:          3,
		},
		Dispatcher: DispatcherConfig{
			DrainInterval: 5 * time.Second,
			BatchSize:     50,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if len(c.Attachments.AllowedExtensions) == 0 {
		return fmt.Errorf("at least one allowed attachment extension is required")
	}

	if c.Attachments.MaxFileSizeMB <= 0 {
		return fmt.Errorf("attachment max_file_size_mb must be greater than 0")
	}

	if c.Attachments.MaxFiles <= 0 {
		return fmt.Errorf("attachment max_files must be greater than 0")
	}

	if c.Dispatcher.DrainInterval <= 0 {
		return fmt.Errorf("dispatcher drain_interval must be greater than 0")
	}

	if c.Dispatcher.BatchSize <= 0 {
		return fmt.Errorf("dispatcher batch_size must be greater than 0")
	}

	if c.AMQP.URL != "" && c.AMQP.Exchange == "" {
		return fmt.Errorf("amqp exchange is required when amqp url is set")
	}

	return nil
}
