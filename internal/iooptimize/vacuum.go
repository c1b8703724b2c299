package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// statements returns maintenance statements of a driver. PostgreSQL
// combines both steps, SQLite needs them one by one.
func statements(driver string) []string {
	if driver == "postgres" {
		return []string{"VACUUM ANALYZE"}
	}
	return []string{"VACUUM", "ANALYZE"}
}

// vacuum runs one maintenance statement outside of a transaction.
func vacuum(ctx context.Context, gdb *gorm.DB, stmt string) error {
	slog.Info("Running maintenance statement", "sql", stmt)
	start := time.Now()

	if err := gdb.WithContext(ctx).Exec(stmt).Error; err != nil {
		slog.Error("Maintenance statement failed", "sql", stmt, "error", err)
		return VacuumError(stmt, err)
	}

	slog.Info("Maintenance statement complete",
		"sql", stmt, "duration", time.Since(start).String())
	return nil
}
