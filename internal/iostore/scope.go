// Package iostore provides the transactional unit of work used by the
// ingestion pipeline and find-or-create helpers for registry entities.
// This is an impure I/O package built on GORM.
package iostore

import (
	"context"
	"log/slog"

	"github.com/eduregistry/edureg/pkg/db"
	"gorm.io/gorm"
)

// Scope runs fn inside one transaction opened on gdb. The transaction is
// committed when fn returns nil. When fn returns an error the transaction
// is rolled back and that error is returned unchanged. When fn panics the
// transaction is rolled back and the panic continues. The connection
// bound to the transaction is released on every path.
//
// Scope never opens a connection, gdb has to be supplied by the caller.
func Scope(
	ctx context.Context,
	gdb *gorm.DB,
	fn func(tx *gorm.DB) error,
) error {
	if gdb == nil {
		return NotConnectedError()
	}

	tx := gdb.WithContext(ctx).Begin()
	if tx.Error != nil {
		return TransactionError("begin", tx.Error)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		r := recover()
		if err := tx.Rollback().Error; err != nil {
			slog.Error("Transaction rollback failed", "error", err)
		}
		if r != nil {
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	committed = true
	if err := tx.Commit().Error; err != nil {
		return TransactionError("commit", err)
	}
	return nil
}

// Sessions opens transactional scopes on the default database handle of
// an operator.
type Sessions struct {
	operator db.Operator
}

// NewSessions creates Sessions bound to a database operator. The operator
// has to be connected before Scope is called.
func NewSessions(op db.Operator) *Sessions {
	return &Sessions{operator: op}
}

// Scope runs fn inside one transaction on the operator's connection. It
// fails with a not-connected error when there is no connection.
func (s *Sessions) Scope(
	ctx context.Context,
	fn func(tx *gorm.DB) error,
) error {
	if s == nil || s.operator == nil {
		return NotConnectedError()
	}
	return Scope(ctx, s.operator.DB(), fn)
}
