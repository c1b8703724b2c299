package iopopulate

import (
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// PopulateError creates an error for a rolled back population. Nothing
// from the run is stored.
func PopulateError(records int, err error) error {
	msg := `Population of <em>%d</em> records failed, all changes are rolled back

<em>Possible causes:</em>
  - Database connection was lost
  - Records violate unique constraints of the registry
  - The run was interrupted

<em>How to fix:</em>
  1. Check the log for the failing record
  2. Run <em>edureg populate</em> again`

	vars := []any{records}

	return &gn.Error{
		Code: errcode.PopulateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("populate %d records: %w", records, err),
	}
}

// FindOrganizationError creates an error for a failed organization
// lookup.
func FindOrganizationError(column, value string, err error) error {
	msg := "Cannot look up organization by <em>%s</em> %s"

	vars := []any{column, value}

	return &gn.Error{
		Code: errcode.PopulateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("find organization by %s %s: %w", column, value, err),
	}
}

// CreateOrganizationError creates an error for a failed organization
// insert.
func CreateOrganizationError(ogrn string, err error) error {
	msg := "Cannot create organization with OGRN <em>%s</em>"

	vars := []any{ogrn}

	return &gn.Error{
		Code: errcode.PopulateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("create organization %s: %w", ogrn, err),
	}
}

// UpdateOrganizationError creates an error for a failed refresh of an
// existing organization.
func UpdateOrganizationError(ogrn string, err error) error {
	msg := "Cannot update organization with OGRN <em>%s</em>"

	vars := []any{ogrn}

	return &gn.Error{
		Code: errcode.PopulateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("update organization %s: %w", ogrn, err),
	}
}

// LinkParentError creates an error for a failed parent link.
func LinkParentError(ogrn string, err error) error {
	msg := "Cannot link organization <em>%s</em> to its head organization"

	vars := []any{ogrn}

	return &gn.Error{
		Code: errcode.PopulateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("link parent of %s: %w", ogrn, err),
	}
}

// FindSpecialtyError creates an error for a failed specialty lookup.
func FindSpecialtyError(code string, err error) error {
	msg := "Cannot look up specialty <em>%s</em>"

	vars := []any{code}

	return &gn.Error{
		Code: errcode.PopulateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("find specialty %s: %w", code, err),
	}
}
