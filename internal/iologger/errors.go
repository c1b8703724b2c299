package iologger

import (
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateLogFileError is returned when the log file cannot be created.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot create log file <em>%s</em>

Set <em>log.destination</em> to <em>stderr</em> to log without a file.`

	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot create log file %s: %w", path, err),
	}
}
