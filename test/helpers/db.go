// Package helpers provides fixtures for integration tests that need a real
// PostgreSQL. Tests calling SetupTestDatabase are skipped unless
// TEST_DATABASE_URL is set.
package helpers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/limo-booking/db"
	"github.com/richxcame/limo-booking/pkg/database"
)

// SetupTestDatabase migrates the test database and returns a pool that is
// closed when the test completes.
func SetupTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	if err := database.Migrate(db.Migrations, "migrations", databaseURL); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		t.Fatalf("failed to create test database pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("failed to ping test database: %v", err)
	}

	t.Cleanup(pool.Close)

	return pool
}

// ResetTables truncates the supplied tables so every test can start from a
// known state without recreating the schema.
func ResetTables(t *testing.T, pool *pgxpool.Pool, tables ...string) {
	t.Helper()

	if len(tables) == 0 {
		return
	}

	stmt := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	if _, err := pool.Exec(context.Background(), stmt); err != nil {
		t.Fatalf("failed to truncate tables %v: %v", tables, err)
	}
}
