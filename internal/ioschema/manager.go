// Package ioschema implements SchemaManager interface for
// catalog schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/phingest/phingest/pkg/db"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// indexDef describes an index GORM tags cannot express.
type indexDef struct {
	name, table, columns string
}

// indexes support prefix search of identifiers and the duplicate probe.
var indexes = []indexDef{
	{"items_identifier_pattern_idx", "items",
		"identifier varchar_pattern_ops"},
	{"items_capture_raw_filename_idx", "items",
		"capture_date, raw_filename"},
	{"items_capture_filename_idx", "items",
		"capture_date, filename"},
	{"derivatives_identifier_width_idx", "derivatives",
		"identifier, width DESC"},
}

// Create creates the catalog schema using GORM AutoMigrate
// and adds indexes used by identifier assignment.
func (m *manager) Create(ctx context.Context) error {
	gormDB, err := m.open()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	return m.createIndexes(ctx)
}

// Migrate updates the catalog schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := m.open()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	return m.createIndexes(ctx)
}

func (m *manager) open() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB, nil
}

func (m *manager) createIndexes(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	for _, idx := range indexes {
		q := formatIndexSQL(idx.name, idx.table, idx.columns)
		if _, err := pool.Exec(ctx, q); err != nil {
			return IndexError(idx.name, idx.table, err)
		}
		slog.Debug("Index ready", "index", idx.name)
	}

	return nil
}
