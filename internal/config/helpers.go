package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
)

// EnsureDirectories creates the directories local state is written to
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	if c.Archive.Type == "local" {
		dirs = append(dirs, c.Archive.Dir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// CacheEnabled reports whether results are memoized
func (c *Config) CacheEnabled() bool {
	return c.Cache.Type != "" && c.Cache.Type != "none"
}
