package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Driver names the SQL backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Config holds database configuration
type Config struct {
	Driver Driver

	// SQLite
	DataDir string

	// Postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConfig creates a new database configuration. dataDir is where the
// SQLite file lives; it is ignored for Postgres.
func NewConfig(dataDir string) (*Config, error) {
	// It's okay if .env doesn't exist, we'll use defaults or environment variables
	_ = godotenv.Load()

	driver := Driver(getEnv("DB_DRIVER", string(DriverSQLite)))
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use sqlite or postgres)", driver)
	}

	return &Config{
		Driver:   driver,
		DataDir:  dataDir,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "spendwise"),
		Password: getEnv("DB_PASSWORD", "spendwise"),
		DBName:   getEnv("DB_NAME", "spendwise"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}, nil
}

// SQLitePath is the database file inside the data directory.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "finance.db")
}

// DSN returns the driver-specific connection string used by GORM.
func (c *Config) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.SQLitePath() + "?_foreign_keys=on"
}

// MigrationURL returns the database URL understood by golang-migrate.
func (c *Config) MigrationURL() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
	}
	return "sqlite3://" + c.SQLitePath()
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
