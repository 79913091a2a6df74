// Package iodb owns the PostgreSQL connection pool of the catalog.
package iodb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/db"
)

// Ingest writes one item at a time, the mirror backfill reads in pages.
// Neither needs more than a handful of connections.
const (
	maxConns = 4
	minConns = 1
)

type catalogPool struct {
	pool *pgxpool.Pool
}

// NewPgxOperator returns an unconnected db.Operator.
func NewPgxOperator() db.Operator {
	return &catalogPool{}
}

// DSN builds a postgres:// URL from the database section. Credentials
// are percent-escaped.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + cfg.SSLMode,
	}
	return u.String()
}

func (c *catalogPool) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	fail := func(err error) error {
		return ConnectionError(cfg.Host, cfg.Port, cfg.Database, cfg.User, err)
	}

	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return fail(err)
	}
	pcfg.MaxConns = maxConns
	pcfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return fail(err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return fail(err)
	}

	slog.Debug("Catalog pool ready",
		"host", cfg.Host, "database", cfg.Database, "max_conns", maxConns)
	c.pool = pool
	return nil
}

func (c *catalogPool) Close() error {
	if c.pool == nil {
		return nil
	}
	c.pool.Close()
	c.pool = nil
	return nil
}

func (c *catalogPool) Pool() *pgxpool.Pool {
	return c.pool
}

// publicTables lists table names of the public schema in name order.
func (c *catalogPool) publicTables(ctx context.Context) ([]string, error) {
	if c.pool == nil {
		return nil, NotConnectedError()
	}

	rows, err := c.pool.Query(ctx, `
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		ORDER BY tablename`)
	if err != nil {
		return nil, QueryTablesError(err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, ScanTableError(err)
	}
	return names, nil
}

func (c *catalogPool) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	names, err := c.publicTables(ctx)
	if err != nil {
		if c.pool == nil {
			return false, err
		}
		return false, TableExistsCheckError(tableName, err)
	}
	return slices.Contains(names, tableName), nil
}

func (c *catalogPool) HasTables(ctx context.Context) (bool, error) {
	names, err := c.publicTables(ctx)
	if err != nil {
		if c.pool == nil {
			return false, err
		}
		return false, TableExistsCheckError("public.*", err)
	}
	return len(names) > 0, nil
}

// DropAllTables removes every public table with one DROP statement so
// foreign keys between catalog tables do not dictate an order.
func (c *catalogPool) DropAllTables(ctx context.Context) error {
	names, err := c.publicTables(ctx)
	if err != nil || len(names) == 0 {
		return err
	}

	idents := make([]string, len(names))
	for i, n := range names {
		idents[i] = pgx.Identifier{n}.Sanitize()
	}
	stmt := "DROP TABLE IF EXISTS " + strings.Join(idents, ", ") + " CASCADE"
	if _, err = c.pool.Exec(ctx, stmt); err != nil {
		return DropTableError(strings.Join(names, ", "), err)
	}
	slog.Debug("Dropped catalog tables", "tables", names)
	return nil
}
