// Package db provides database utilities for testing
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"teacherpin/internal/database"
	"testing"

	"github.com/stretchr/testify/require"
)

// CleanupTestDB drops all tables in the test database
func CleanupTestDB(db *sql.DB) error {
	rows, err := db.Query(`SELECT tablename FROM pg_tables WHERE schemaname = 'public'`)
	if err != nil {
		return fmt.Errorf("failed to get table names: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over table names: %w", err)
	}

	if len(tables) == 0 {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", strings.Join(tables, ", "))); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return nil
}

// SetupTestDB returns a freshly migrated test database, or skips the test
// when none is reachable
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := LoadTestConfig(t)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	require.NoError(t, CleanupTestDB(db), "Failed to cleanup test database")
	require.NoError(t, database.RunMigrations(cfg.Database), "Failed to run migrations")

	return db
}
