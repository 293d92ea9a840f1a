package database

import (
	"fmt"
	"net/url"
	"strings"
)

// Supported values of Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// Config holds database connection settings.
// URL wins over the individual host/port/user fields when both are present.
type Config struct {
	Driver         string `yaml:"driver" envconfig:"DB_DRIVER"`
	URL            string `yaml:"url" envconfig:"BOT_DB_URL"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	// ReadyTimeoutSeconds bounds how long Connect waits for the server to accept pings.
	ReadyTimeoutSeconds int `yaml:"ready_timeout_seconds" envconfig:"DB_READY_TIMEOUT_SECONDS"`
}

// Normalize fills defaults and validates the driver specific settings.
func (c *Config) Normalize() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	c.URL = strings.TrimSpace(c.URL)
	switch c.Driver {
	case DriverPostgres, DriverPgx:
		if c.URL == "" && (c.Host == "" || c.Name == "") {
			return fmt.Errorf("database: url or host and name are required for driver %q", c.Driver)
		}
		if c.Port == "" {
			c.Port = "5432"
		}
		if c.SSLMode == "" {
			c.SSLMode = "disable"
		}
	case DriverSQLite:
		if c.URL == "" {
			c.URL = c.Name
		}
		if c.URL == "" {
			return fmt.Errorf("database: url (file path) is required for driver %q", c.Driver)
		}
		// A single connection keeps in-memory databases coherent and serializes writers.
		c.MaxConnections = 1
	default:
		return fmt.Errorf("database: unsupported driver %q; allowed: postgres, pgx, sqlite", c.Driver)
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = 5
	}
	if c.ReadyTimeoutSeconds <= 0 {
		c.ReadyTimeoutSeconds = 30
	}
	return nil
}

// Dialect groups drivers that share SQL syntax and migration files.
func (c Config) Dialect() string {
	if c.Driver == DriverSQLite {
		return DriverSQLite
	}
	return DriverPostgres
}

// DSN returns the data source name handed to sql.Open.
func (c Config) DSN() string {
	if c.URL != "" || c.Driver == DriverSQLite {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Target describes the database for logs without leaking credentials.
func (c Config) Target() string {
	if c.Driver == DriverSQLite {
		return c.URL
	}
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "unparsable"
	}
	return u.Host + u.Path
}
