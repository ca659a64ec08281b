package database

import (
	"fmt"

	"finsight/internal/config"
)

// Supported audit database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds audit database configuration
type Config struct {
	Driver string
	DSN    string
}

// NewConfig builds the audit database configuration from the application config.
func NewConfig(cfg *config.Config) (*Config, error) {
	c := &Config{Driver: cfg.AuditDBDriver, DSN: cfg.AuditDBDSN}
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported audit database driver %q", c.Driver)
	}
	if c.DSN == "" {
		return nil, fmt.Errorf("audit database DSN is required")
	}
	return c, nil
}
