package iobrowse

import (
	"errors"
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for a query without database
// connection.
func NotConnectedError() error {
	msg := "Browse query attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  errors.New("not connected to database"),
	}
}

// QueryError creates an error for a failed organization query.
func QueryError(err error) error {
	msg := "Cannot query organizations"

	return &gn.Error{
		Code: errcode.BrowseQueryError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("browse organizations: %w", err),
	}
}
