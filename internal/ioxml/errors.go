package ioxml

import (
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// ParseDirError creates an error for an unreadable XML directory.
func ParseDirError(dir string, err error) error {
	msg := `Cannot read XML directory <em>%s</em>

<em>How to fix:</em>
  1. Check the directory permissions
  2. Set <em>ingest.cache_dir</em> to a readable directory`

	vars := []any{dir}

	return &gn.Error{
		Code: errcode.ParseDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("read dir %s: %w", dir, err),
	}
}

// ParseFileError creates an error for a file that cannot be parsed. The
// parser logs such errors and continues with other files.
func ParseFileError(file string, err error) error {
	msg := "Cannot parse XML file <em>%s</em>"

	vars := []any{file}

	return &gn.Error{
		Code: errcode.ParseFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("parse %s: %w", file, err),
	}
}
