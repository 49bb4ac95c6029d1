package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Cache   CacheConfig   `mapstructure:"cache"`
	History HistoryConfig `mapstructure:"history"`
	Events  EventsConfig  `mapstructure:"events"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Jobs    JobsConfig    `mapstructure:"jobs"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host      string `mapstructure:"host"`       // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort  int    `mapstructure:"http_port"`  // HTTP server port
	BodyLimit int    `mapstructure:"body_limit"` // Max request body in bytes
}

// CacheConfig represents result cache configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"`        // none, memory, redis
	TTL        time.Duration `mapstructure:"ttl"`         // Entry lifetime
	MaxEntries int           `mapstructure:"max_entries"` // Memory cache capacity
	RedisURL   string        `mapstructure:"redis_url"`   // e.g. redis://localhost:6379
	RedisDB    int           `mapstructure:"redis_db"`
	KeyPrefix  string        `mapstructure:"key_prefix"` // Namespace for redis keys
	Compress   bool          `mapstructure:"compress"`   // Snappy-compress redis payloads
}

// HistoryConfig represents analysis history storage configuration
type HistoryConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Path          string        `mapstructure:"path"`           // SQLite database file
	Retention     time.Duration `mapstructure:"retention"`      // Records older than this are pruned
	PruneInterval time.Duration `mapstructure:"prune_interval"` // How often pruning runs
}

// EventsConfig represents analysis event publishing configuration
type EventsConfig struct {
	Type     string `mapstructure:"type"`    // none, memory, nats, redis, kafka
	URL      string `mapstructure:"url"`     // Broker URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Subject  string `mapstructure:"subject"` // Subject / topic / stream the events go to
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Redis-specific options
	RedisDB int `mapstructure:"redis_db"`

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
}

// ArchiveConfig represents export archive configuration
type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // none, local, s3
	Dir  string   `mapstructure:"dir"`  // Directory for the local archive
	S3   S3Config `mapstructure:"s3"`
}

// S3Config represents S3 (or S3-compatible) archive settings
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // Custom endpoint for MinIO and friends
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// MetricsConfig represents Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// BatchConfig represents batch evaluation limits
type BatchConfig struct {
	Workers   int `mapstructure:"workers"`    // Parallel workers, 0 = GOMAXPROCS
	MaxSeries int `mapstructure:"max_series"` // Max series per batch request
}

// JobsConfig represents background job configuration
type JobsConfig struct {
	CacheStatsInterval time.Duration `mapstructure:"cache_stats_interval"` // 0 disables cache stats logging
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Archive.Validate(); err != nil {
		return fmt.Errorf("archive config: %w", err)
	}

	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}

	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "", "none":
		return nil
	case "memory":
		if c.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be positive")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for redis cache")
		}
	default:
		return fmt.Errorf("cache.type must be one of: none, memory, redis")
	}

	if c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	return nil
}

// Validate validates history configuration
func (c *HistoryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Path == "" {
		return fmt.Errorf("history.path is required")
	}

	if c.Retention < 0 {
		return fmt.Errorf("history.retention cannot be negative")
	}

	if c.Retention > 0 && c.PruneInterval <= 0 {
		return fmt.Errorf("history.prune_interval must be positive when retention is set")
	}

	return nil
}

// Validate validates events configuration
func (c *EventsConfig) Validate() error {
	switch c.Type {
	case "", "none", "memory":
		return nil
	case "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("events.url is required for %s", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("events.kafka_brokers is required for kafka")
		}
	default:
		return fmt.Errorf("events.type must be one of: none, memory, nats, redis, kafka")
	}

	if c.Subject == "" {
		return fmt.Errorf("events.subject is required")
	}

	return nil
}

// Validate validates archive configuration
func (c *ArchiveConfig) Validate() error {
	switch c.Type {
	case "", "none":
		return nil
	case "local":
		if c.Dir == "" {
			return fmt.Errorf("archive.dir is required for local archive")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("archive.s3.bucket is required")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("archive.s3.region is required")
		}
	default:
		return fmt.Errorf("archive.type must be one of: none, local, s3")
	}

	return nil
}

// Validate validates batch configuration
func (c *BatchConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("batch.workers cannot be negative")
	}

	if c.MaxSeries < 1 {
		return fmt.Errorf("batch.max_series must be at least 1")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
