package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("root cause")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		vars []any
	}{
		{"gorm", GORMConnectionError(cause),
			errcode.SchemaGORMConnectionError, nil},
		{"create", CreateSchemaError(cause),
			errcode.SchemaCreateError, nil},
		{"migrate", MigrateSchemaError(cause),
			errcode.SchemaMigrateError, nil},
		{"index", IndexError("items_capture_filename_idx", "items", cause),
			errcode.SchemaIndexError,
			[]any{"items_capture_filename_idx", "items"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.Equal(t, tt.vars, gnErr.Vars)
			assert.ErrorIs(t, gnErr.Err, cause)
			assert.Contains(t, gnErr.Err.Error(), "schema manager")
		})
	}
}

func TestNotConnectedError(t *testing.T) {
	err := NotConnectedError()
	assert.True(t, errcode.Is(err, errcode.DBNotConnectedError))

	gnErr := err.(*gn.Error)
	assert.Contains(t, gnErr.Msg, "open database connection")
}
