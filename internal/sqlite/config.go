// File path: internal/sqlite/config.go
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config controls the SQLite catalog connection pool.
type Config struct {
	Path            string
	BusyTimeout     time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns the baseline catalog configuration.
func DefaultConfig() Config {
	return Config{
		Path:            filepath.Join("data", "catalog.db"),
		BusyTimeout:     5 * time.Second,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_CATALOG_PATH")); value != "" {
		cfg.Path = value
	}
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_CATALOG_BUSY_TIMEOUT")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse AGREEMENTD_CATALOG_BUSY_TIMEOUT: %w", err)
		}
		cfg.BusyTimeout = dur
	}
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_CATALOG_MAX_CONNS")); value != "" {
		conns, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse AGREEMENTD_CATALOG_MAX_CONNS: %w", err)
		}
		if conns > 0 {
			cfg.MaxOpenConns = conns
		}
	}
	return cfg, nil
}
