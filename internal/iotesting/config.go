// Package iotesting provides shared test utilities for packages that need
// a real registry store. This is an internal package for test
// infrastructure only.
package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/eduregistry/edureg/internal/iodb"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/schema"
)

const (
	// TestDatabaseName is the PostgreSQL database used by tests.
	// Tests never run against the production database.
	TestDatabaseName = "edureg_test"

	// DriverEnv selects the store for tests. SQLite is used unless it is
	// set to "postgres".
	DriverEnv = "EDUREG_TEST_DRIVER"
)

// GetTestConfig returns a configuration with a temporary home directory.
// The store is a fresh SQLite file, or the edureg_test PostgreSQL
// database when EDUREG_TEST_DRIVER=postgres.
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()

	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptDatabasePath(filepath.Join(home, "test.db")),
		config.OptIngestCacheDir(filepath.Join(home, "xml")),
		config.OptIngestShowProgress(false),
		config.OptJobsNumber(2),
	})

	if os.Getenv(DriverEnv) == "postgres" {
		cfg.Update([]config.Option{
			config.OptDatabaseDriver("postgres"),
			config.OptDatabaseDatabase(TestDatabaseName),
		})
		if testing.Short() {
			t.Skip("Skipping PostgreSQL test in short mode")
		}
	}
	return cfg
}

// NewOperator connects to the test store and creates a clean schema.
// The connection is closed when the test finishes.
func NewOperator(t *testing.T, cfg *config.Config) db.Operator {
	t.Helper()
	ctx := context.Background()

	op := iodb.NewOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := op.DropAllTables(ctx); err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}
	if err := schema.Migrate(op.DB()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = op.Close() })
	return op
}

// WriteFile writes a file into a directory, creating the directory if
// needed, and returns the file path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
