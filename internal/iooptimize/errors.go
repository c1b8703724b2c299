package iooptimize

import (
	"errors"
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for optimization without database
// connection.
func NotConnectedError() error {
	msg := "Optimization attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  errors.New("not connected to database"),
	}
}

// VacuumError creates an error for a failed maintenance statement.
func VacuumError(stmt string, err error) error {
	msg := `Cannot run <em>%s</em>

<em>Possible causes:</em>
  - Another process holds a lock on the database
  - Not enough disk space for a copy of the database

<em>How to fix:</em>
  1. Stop other edureg runs and try again
  2. Free disk space`

	vars := []any{stmt}

	return &gn.Error{
		Code: errcode.OptimizeVacuumError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("run %s: %w", stmt, err),
	}
}
