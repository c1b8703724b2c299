package ioregions

import (
	"errors"
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// NotFoundError creates an error for an unknown region id.
func NotFoundError(id uint) error {
	msg := `Region <em>%d</em> does not exist

Run <em>edureg regions list</em> to see region ids.`

	vars := []any{id}

	return &gn.Error{
		Code: errcode.RegionNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("region %d not found", id),
	}
}

// ExistsError creates an error for a duplicate region name.
func ExistsError(name string) error {
	msg := "Region <em>%s</em> already exists"

	vars := []any{name}

	return &gn.Error{
		Code: errcode.RegionExistsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("region %q exists", name),
	}
}

// InUseError creates an error for deletion of a region that
// organizations refer to.
func InUseError(name string, orgs int64) error {
	msg := `Region <em>%s</em> is used by %d organizations

Change the region of these organizations first.`

	vars := []any{name, orgs}

	return &gn.Error{
		Code: errcode.RegionInUseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("region %q is used by %d organizations", name, orgs),
	}
}

// EmptyNameError creates an error for a blank region name.
func EmptyNameError() error {
	msg := "Region name cannot be empty"

	return &gn.Error{
		Code: errcode.RegionEmptyNameError,
		Msg:  msg,
		Vars: nil,
		Err:  errors.New("empty region name"),
	}
}

// QueryError creates an error for failed region queries.
func QueryError(err error) error {
	msg := "Cannot query regions"

	return &gn.Error{
		Code: errcode.RegionQueryError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("region query: %w", err),
	}
}
