package ioorgs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// NotFoundError creates an error for an unknown organization id.
func NotFoundError(id uint) error {
	msg := `Organization <em>%d</em> does not exist

Run <em>edureg orgs</em> to see organization ids.`

	vars := []any{id}

	return &gn.Error{
		Code: errcode.OrgNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("organization %d not found", id),
	}
}

// InvalidError creates an error for organization fields that break the
// registry formats.
func InvalidError(problems []string) error {
	msg := `Organization data is invalid:
  - %s`

	vars := []any{strings.Join(problems, "\n  - ")}

	return &gn.Error{
		Code: errcode.OrgInvalidError,
		Msg:  msg,
		Vars: vars,
		Err:  errors.New(strings.Join(problems, "; ")),
	}
}

// ExistsError creates an error for an OGRN or INN that belongs to another
// organization.
func ExistsError(column, value string, id uint) error {
	msg := "Organization <em>%d</em> already has %s <em>%s</em>"

	vars := []any{id, strings.ToUpper(column), value}

	return &gn.Error{
		Code: errcode.OrgExistsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s %q is used by organization %d", column, value, id),
	}
}

// RegionNotFoundError creates an error for an unknown region id.
func RegionNotFoundError(id uint) error {
	msg := `Region <em>%d</em> does not exist

Run <em>edureg regions list</em> to see region ids.`

	vars := []any{id}

	return &gn.Error{
		Code: errcode.OrgRegionNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("region %d not found", id),
	}
}

// ParentError creates an error for a head organization that cannot be
// assigned.
func ParentError(parentID uint, reason string) error {
	msg := `Organization <em>%d</em> cannot be the head organization: %s

Branches have one level, a branch cannot have its own branches.`

	vars := []any{parentID, reason}

	return &gn.Error{
		Code: errcode.OrgParentError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("parent %d refused: %s", parentID, reason),
	}
}

// QueryError creates an error for failed organization queries.
func QueryError(err error) error {
	msg := "Cannot query organizations"

	return &gn.Error{
		Code: errcode.OrgQueryError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("organization query: %w", err),
	}
}
