// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/eduregistry/edureg/pkg/schema"
)

// manager implements the edureg.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) edureg.SchemaManager {
	return &manager{operator: op}
}

// Create creates the registry tables using GORM AutoMigrate.
func (m *manager) Create(ctx context.Context) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	slog.Info("Schema created", "tables", len(schema.TableNames()))
	return nil
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate. Existing data is kept.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	slog.Info("Schema migrated")
	return nil
}
