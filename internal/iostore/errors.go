package iostore

import (
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for when a transaction is requested
// without database connection.
func NotConnectedError() error {
	msg := "Transaction requested without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TransactionError creates an error for failures to begin or commit a
// transaction.
func TransactionError(stage string, err error) error {
	msg := `Cannot %s database transaction

<em>Possible causes:</em>
  - Database connection was lost
  - Another process holds a lock on the database
  - The operation was cancelled

<em>How to fix:</em>
  1. Check that the database is reachable
  2. Make sure no other ingestion runs at the same time`

	vars := []any{stage}

	return &gn.Error{
		Code: errcode.StoreTransactionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to %s transaction: %w", stage, err),
	}
}

// FindOrCreateError creates an error for failed lookups or inserts of
// registry entities.
func FindOrCreateError(
	entity string,
	filter map[string]any,
	err error,
) error {
	msg := `Cannot find or create <em>%s</em>

<em>Filter:</em> %v`

	vars := []any{entity, filter}

	return &gn.Error{
		Code: errcode.StoreFindOrCreateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("find or create %s %v: %w", entity, filter, err),
	}
}
