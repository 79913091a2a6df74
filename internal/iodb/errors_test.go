package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 5432, "photos", "postgres",
		originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 4)
	assert.ErrorIs(t, gnErr.Err, originalErr)
	assert.Contains(t, gnErr.Err.Error(), "localhost:5432/photos")
}

func TestErrors_Codes(t *testing.T) {
	originalErr := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		wrap bool
	}{
		{"not connected", NotConnectedError(),
			errcode.DBNotConnectedError, false},
		{"table check", TableExistsCheckError("items", originalErr),
			errcode.DBTableExistsCheckError, true},
		{"query tables", QueryTablesError(originalErr),
			errcode.DBQueryTablesError, true},
		{"scan table", ScanTableError(originalErr),
			errcode.DBScanTableError, true},
		{"drop table", DropTableError("items", originalErr),
			errcode.DBDropTableError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errcode.Is(tt.err, tt.code))
			gnErr := tt.err.(*gn.Error)
			assert.NotEmpty(t, gnErr.Msg)
			if tt.wrap {
				assert.ErrorIs(t, gnErr.Err, originalErr)
			}
		})
	}
}
