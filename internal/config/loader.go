package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HYDROEVAL_SERVER_HTTP_PORT.
const EnvPrefix = "HYDROEVAL"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hydroeval")
	}

	setDefaults(v)

	// Nested keys map to env names with underscores
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	// Cache defaults
	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)
	v.SetDefault("cache.key_prefix", d.Cache.KeyPrefix)
	v.SetDefault("cache.compress", d.Cache.Compress)

	// History defaults
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.retention", d.History.Retention)
	v.SetDefault("history.prune_interval", d.History.PruneInterval)

	// Events defaults
	v.SetDefault("events.type", d.Events.Type)
	v.SetDefault("events.url", d.Events.URL)
	v.SetDefault("events.subject", d.Events.Subject)
	v.SetDefault("events.redis_db", d.Events.RedisDB)
	v.SetDefault("events.kafka_brokers", d.Events.KafkaBrokers)

	// Archive defaults
	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.dir", d.Archive.Dir)
	v.SetDefault("archive.s3.region", d.Archive.S3.Region)
	v.SetDefault("archive.s3.prefix", d.Archive.S3.Prefix)

	// Metrics defaults
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)

	// Batch defaults
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.max_series", d.Batch.MaxSeries)

	// Jobs defaults
	v.SetDefault("jobs.cache_stats_interval", d.Jobs.CacheStatsInterval)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			HTTPPort:  8000,
			BodyLimit: 16 * 1024 * 1024,
		},
		Cache: CacheConfig{
			Type:       "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 100,
			RedisURL:   "redis://localhost:6379",
			KeyPrefix:  "hydroeval",
			Compress:   true,
		},
		History: HistoryConfig{
			Enabled:       true,
			Path:          "./data/history.db",
			Retention:     30 * 24 * time.Hour,
			PruneInterval: time.Hour,
		},
		Events: EventsConfig{
			Type:    "none",
			URL:     "nats://localhost:4222",
			Subject: "hydroeval.analysis.completed",
		},
		Archive: ArchiveConfig{
			Type: "none",
			Dir:  "./data/exports",
			S3: S3Config{
				Region: "us-east-1",
				Prefix: "exports/",
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Batch: BatchConfig{
			Workers:   0,
			MaxSeries: 1000,
		},
		Jobs: JobsConfig{
			CacheStatsInterval: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
	}
}
