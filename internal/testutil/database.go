package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

// TestDBConfig holds test database configuration
type TestDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DefaultTestDBConfig returns a default test database configuration
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getIntEnv("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "dungeonmaze_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	}
}

// DatabaseURL returns a PostgreSQL connection string
func (c TestDBConfig) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// SetupTestDB creates a test database connection. Tests are skipped when no
// PostgreSQL server is reachable, so DB-backed tests only run where one is
// provisioned. Returns a connection that should be closed after tests.
func SetupTestDB(t *testing.T) *sql.DB {
	cfg := DefaultTestDBConfig()

	// Connect to postgres database first to create the test database
	adminURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/postgres?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.SSLMode,
	)

	adminDB, err := sql.Open("postgres", adminURL)
	if err != nil {
		t.Skipf("Skipping DB test, cannot open PostgreSQL connection: %v", err)
	}
	defer func() {
		_ = adminDB.Close()
	}()

	if err := adminDB.Ping(); err != nil {
		t.Skipf("Skipping DB test, PostgreSQL not reachable: %v", err)
	}

	// Create test database if it doesn't exist
	if _, err := adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Database)); err != nil {
		// Database might already exist, which is fine
		t.Logf("Test database creation: %v (may already exist)", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return db
}

// CloseDB closes a test database connection, failing the test on error.
func CloseDB(t *testing.T, db *sql.DB) {
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
}

// SetupOverlayTable creates the cell overlay table used by OverlayStorage
// and clears any rows left over from previous runs.
func SetupOverlayTable(t *testing.T, db *sql.DB) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cell_overlays (
			chunk_x BIGINT NOT NULL,
			chunk_y BIGINT NOT NULL,
			chunk_z BIGINT NOT NULL,
			cell_x INTEGER NOT NULL,
			cell_z INTEGER NOT NULL,
			chest_emptied BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (chunk_x, chunk_y, chunk_z, cell_x, cell_z)
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create cell_overlays table: %v", err)
	}

	if _, err := db.Exec("TRUNCATE cell_overlays"); err != nil {
		t.Fatalf("Failed to truncate cell_overlays table: %v", err)
	}
}

// SetupPlayersTable creates the players table used by the auth handlers
// and clears any rows left over from previous runs.
func SetupPlayersTable(t *testing.T, db *sql.DB) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			position_x DOUBLE PRECISION,
			position_y DOUBLE PRECISION,
			position_z DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login TIMESTAMPTZ
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create players table: %v", err)
	}

	if _, err := db.Exec("TRUNCATE players RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("Failed to truncate players table: %v", err)
	}
}

// CleanupTestDB drops all tables in the test database
// Useful for integration tests that need a clean slate
func CleanupTestDB(t *testing.T, db *sql.DB) {
	tables := []string{
		"cell_overlays",
		"players",
	}

	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table))
		if err != nil {
			t.Logf("Warning: Failed to drop table %s: %v", table, err)
		}
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}
