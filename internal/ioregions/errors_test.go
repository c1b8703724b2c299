package ioregions

import (
	"errors"
	"testing"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionErrors_Structure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		vars []any
	}{
		{"NotFoundError", NotFoundError(7), errcode.RegionNotFoundError,
			[]any{uint(7)}},
		{"ExistsError", ExistsError("Москва"), errcode.RegionExistsError,
			[]any{"Москва"}},
		{"InUseError", InUseError("Москва", 3), errcode.RegionInUseError,
			[]any{"Москва", int64(3)}},
		{"EmptyNameError", EmptyNameError(), errcode.RegionEmptyNameError, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.Equal(t, tt.vars, gnErr.Vars)
			assert.NotEmpty(t, gnErr.Msg)
		})
	}

	originalErr := errors.New("root cause")
	gnErr, ok := QueryError(originalErr).(*gn.Error)
	require.True(t, ok)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}
