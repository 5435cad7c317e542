package database

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/moatalk/moatalk/internal/config"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
)

// TestMain loads the test-specific environment from `.env.test` before any
// test in this package runs.
func TestMain(m *testing.M) {
	if err := godotenv.Load("../../.env.test"); err != nil {
		log.Println("Warning: .env.test file not found, relying on environment variables.")
	}
	os.Exit(m.Run())
}

// setupTestDB connects to the test database and returns a cleanup function.
// Tests calling it are integration tests; they skip when no database is
// configured or in short mode.
func setupTestDB(t *testing.T) (*surrealdb.DB, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("SURREAL_URL") == "" {
		t.Skip("SURREAL_URL not set, skipping integration test")
	}

	cfg := config.New()

	ctx := context.Background()
	db, err := NewDB(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")

	return db, func() {
		db.Close(context.Background())
	}
}
