package ioorgs

import (
	"errors"
	"testing"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrgErrors_Structure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		vars []any
	}{
		{"NotFoundError", NotFoundError(7), errcode.OrgNotFoundError,
			[]any{uint(7)}},
		{"InvalidError", InvalidError([]string{"a", "b"}),
			errcode.OrgInvalidError, []any{"a\n  - b"}},
		{"ExistsError", ExistsError("ogrn", "1027700000001", 3),
			errcode.OrgExistsError, []any{uint(3), "OGRN", "1027700000001"}},
		{"RegionNotFoundError", RegionNotFoundError(5),
			errcode.OrgRegionNotFoundError, []any{uint(5)}},
		{"ParentError", ParentError(2, "parent is a branch"),
			errcode.OrgParentError, []any{uint(2), "parent is a branch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Equal(t, tt.vars, gnErr.Vars)
			assert.Error(t, gnErr.Err)
		})
	}
}

func TestQueryError(t *testing.T) {
	originalErr := errors.New("root cause")
	gnErr, ok := QueryError(originalErr).(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.OrgQueryError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}
