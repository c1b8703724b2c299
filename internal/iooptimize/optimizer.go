// Package iooptimize implements Optimizer interface for registry
// maintenance. This is an impure I/O package that runs VACUUM and ANALYZE
// on the store.
package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/gnames/gnfmt"
)

// optimizer implements the edureg.Optimizer interface.
type optimizer struct {
	operator db.Operator
}

// NewOptimizer creates a new Optimizer.
func NewOptimizer(op db.Operator) edureg.Optimizer {
	return &optimizer{operator: op}
}

// Optimize reclaims space left by updated and deleted rows and refreshes
// planner statistics. It must not run inside a transaction.
func (o *optimizer) Optimize(ctx context.Context) error {
	gdb := o.operator.DB()
	if gdb == nil {
		return NotConnectedError()
	}

	slog.Info("Starting registry optimization", "driver", o.operator.Driver())
	start := time.Now()

	for _, stmt := range statements(o.operator.Driver()) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := vacuum(ctx, gdb, stmt); err != nil {
			return err
		}
	}

	slog.Info("Registry optimization complete",
		"duration", gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}
