// Package db declares the connection contract shared by the catalog,
// the schema manager and the create command.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phingest/phingest/pkg/config"
)

// Operator owns a PostgreSQL pool. Catalog queries and schema changes
// run on Pool(), the remaining methods inspect or wipe the public schema.
type Operator interface {
	Connect(context.Context, *config.DatabaseConfig) error
	Close() error

	// Pool is nil until Connect succeeds and after Close.
	Pool() *pgxpool.Pool

	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables reports whether the public schema is non-empty. The
	// create command asks for confirmation when it is.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables is a no-op on an empty schema.
	DropAllTables(ctx context.Context) error
}
