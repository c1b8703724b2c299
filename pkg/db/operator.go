package db

import (
	"context"

	"github.com/eduregistry/edureg/pkg/config"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes a *gorm.DB for
// high-level components (SchemaManager, Populator, region administration,
// browse queries) to run their statements.
//
// The same operator serves PostgreSQL and SQLite, the backend is selected
// by config.DatabaseConfig.Driver.
type Operator interface {
	// Connect opens the database selected by the configuration.
	Connect(context.Context, *config.Config) error

	// Close closes the database connections.
	Close() error

	// DB returns the GORM handle, or nil before Connect.
	DB() *gorm.DB

	// Driver returns the name of the connected backend.
	Driver() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables of the database.
	// Used during schema creation when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
