package iospecialties

import (
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// ReadError creates an error for a taxonomy file that cannot be read,
// parsed or validated.
func ReadError(path string, err error) error {
	msg := `Cannot read specialty taxonomy <em>%s</em>

Every group and specialty needs a <em>code</em>.`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.SpecialtiesReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("read taxonomy %s: %w", path, err),
	}
}

// LoadError creates an error for a failed taxonomy transaction.
func LoadError(err error) error {
	msg := "Cannot store specialty taxonomy, nothing was changed"

	return &gn.Error{
		Code: errcode.SpecialtiesLoadError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("load taxonomy: %w", err),
	}
}
