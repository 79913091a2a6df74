package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

const fixPermissions = `

<em>How to fix:</em>
  1. Grant the catalog user CREATE and ALTER on schema public
  2. Recreate the catalog with <em>phingest create -f</em>`

// NotConnectedError is returned when the manager gets an operator
// whose pool is not open.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Catalog schema needs an open database connection",
		Err:  fmt.Errorf("schema manager: pool is nil"),
	}
}

// GORMConnectionError wraps a failure to put GORM on top of the pool.
func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg: "Cannot open the catalog through GORM\n\n" +
			"Check the <em>database</em> section of the configuration",
		Err: fmt.Errorf("schema manager: gorm open: %w", err),
	}
}

// CreateSchemaError wraps AutoMigrate failures of a fresh catalog.
func CreateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  "Cannot create tables of the photo catalog" + fixPermissions,
		Err:  fmt.Errorf("schema manager: create: %w", err),
	}
}

// MigrateSchemaError wraps AutoMigrate failures of an existing catalog.
func MigrateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  "Cannot bring the photo catalog to the current layout" + fixPermissions,
		Err:  fmt.Errorf("schema manager: migrate: %w", err),
	}
}

func IndexError(name, table string, err error) error {
	return &gn.Error{
		Code: errcode.SchemaIndexError,
		Msg:  "Cannot build catalog index <em>%s</em> on table <em>%s</em>",
		Vars: []any{name, table},
		Err:  fmt.Errorf("schema manager: index %s on %s: %w", name, table, err),
	}
}
