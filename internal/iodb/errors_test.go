package iodb

import (
	"errors"
	"testing"

	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 5432, "test", "postgres",
		originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 5,
		"Should have 5 vars: host, port, database, user, database")
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestErrors_Structure(t *testing.T) {
	originalErr := errors.New("boom")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		vars int
		wrap bool
	}{
		{"sqlite open", SQLiteOpenError("/tmp/x.db", originalErr),
			errcode.DBConnectionError, 1, true},
		{"unknown driver", UnknownDriverError("mysql"),
			errcode.DBUnknownDriverError, 1, false},
		{"not connected", NotConnectedError(),
			errcode.DBNotConnectedError, 0, false},
		{"table exists", TableExistsCheckError("regions", originalErr),
			errcode.DBTableExistsCheckError, 1, true},
		{"query tables", QueryTablesError(originalErr),
			errcode.DBQueryTablesError, 0, true},
		{"drop table", DropTableError("regions", originalErr),
			errcode.DBDropTableError, 1, true},
		{"empty database", EmptyDatabaseError(),
			errcode.DBEmptyDatabaseError, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Len(t, gnErr.Vars, tt.vars)
			if tt.wrap {
				assert.ErrorIs(t, gnErr.Err, originalErr)
			}
		})
	}
}
