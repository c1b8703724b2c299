package iometrics

import (
	"fmt"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
)

// WriteError creates an error for a metrics textfile that cannot be
// written.
func WriteError(path string, err error) error {
	msg := `Cannot write metrics to <em>%s</em>

<em>How to fix:</em>
  1. Check that the directory exists and is writable
  2. Set <em>metrics.textfile</em> to another path or leave it empty`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.MetricsWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("write metrics %s: %w", path, err),
	}
}
