package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the embedded migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Portfolio snapshot table
		CREATE TABLE IF NOT EXISTS portfolio_state (
			user_id VARCHAR(64) NOT NULL PRIMARY KEY,
			data TEXT NOT NULL,
			last_modified DATETIME NOT NULL
		);

		-- Role assignments
		CREATE TABLE IF NOT EXISTS user_role (
			user_id VARCHAR(64) NOT NULL PRIMARY KEY,
			role VARCHAR(10) NOT NULL
		);

		-- Symbol reference data
		CREATE TABLE IF NOT EXISTS symbol_info (
			symbol VARCHAR(16) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			market VARCHAR(2) NOT NULL,
			industry VARCHAR(50),
			last_updated DATETIME
		);

		-- Migration bookkeeping, queried by the version endpoint
		CREATE TABLE IF NOT EXISTS goose_db_version (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version_id INTEGER NOT NULL,
			is_applied INTEGER NOT NULL,
			tstamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO goose_db_version (version_id, is_applied) VALUES (1, 1);
	`
	_, err := db.Exec(schema)
	return err
}
