// Package iojournal keeps outcomes of ingested items in a local SQLite
// file. The journal tells an operator which items failed, at which stage
// and why, so they can be retried or reconciled by hand.
package iojournal

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/phingest/phingest/pkg/ingest"
	"github.com/phingest/phingest/pkg/lifecycle"
	_ "modernc.org/sqlite"
)

const createSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	path TEXT NOT NULL,
	identifier TEXT NOT NULL DEFAULT '',
	stage TEXT NOT NULL,
	status TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_status_idx ON entries (status);
CREATE INDEX IF NOT EXISTS entries_run_idx ON entries (run_id);`

// Journal is a lifecycle.Journal stored in SQLite.
type Journal struct {
	db *sql.DB
}

var _ lifecycle.Journal = (*Journal)(nil)

// Open opens or creates the journal file at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, OpenError(path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, createSQL); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}

	slog.Debug("Journal opened", "path", path)
	return &Journal{db: db}, nil
}

// Add appends an entry.
func (j *Journal) Add(ctx context.Context, e ingest.Entry) error {
	q := `
INSERT INTO entries
	(run_id, path, identifier, stage, status, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := j.db.ExecContext(ctx, q,
		e.RunID, e.Path, e.Identifier, e.Stage, string(e.Status), e.Error,
		e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return WriteError(e.Path, err)
	}
	return nil
}

// Entries returns entries that match the filter, newest first.
func (j *Journal) Entries(
	ctx context.Context,
	f ingest.EntryFilter,
) ([]ingest.Entry, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, f.RunID)
	}

	q := `SELECT run_id, path, identifier, stage, status, error, created_at
FROM entries`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, ReadError(err)
	}
	defer rows.Close()

	var res []ingest.Entry
	for rows.Next() {
		var e ingest.Entry
		var status string
		var created int64
		err = rows.Scan(
			&e.RunID, &e.Path, &e.Identifier, &e.Stage, &status, &e.Error,
			&created,
		)
		if err != nil {
			return nil, ReadError(err)
		}
		e.Status = ingest.Status(status)
		e.CreatedAt = time.Unix(0, created)
		res = append(res, e)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError(err)
	}
	return res, nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	return j.db.Close()
}
