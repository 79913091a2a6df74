// Package iocatalog implements the lifecycle.Catalog and
// lifecycle.CatalogReader contracts on top of PostgreSQL.
// All queries are parameterized, every write commits on its own.
package iocatalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/media"
	"github.com/phingest/phingest/pkg/tags"
)

const uniqueViolation = "23505"

// Catalog stores items, tags and renditions in PostgreSQL.
type Catalog struct {
	pool *pgxpool.Pool
}

var (
	_ lifecycle.Catalog       = (*Catalog)(nil)
	_ lifecycle.CatalogReader = (*Catalog)(nil)
)

// New creates a Catalog that uses a connected pool.
func New(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

// CountIdentifiersFor counts items of one kind and date under prefix.
func (c *Catalog) CountIdentifiersFor(
	ctx context.Context,
	prefix, letter string,
	date time.Time,
) (int, error) {
	q := `SELECT count(*) FROM items WHERE identifier LIKE $1 ESCAPE '\'`

	var res int
	err := c.pool.QueryRow(ctx, q, dayPattern(prefix, letter, date)).
		Scan(&res)
	if err != nil {
		return 0, QueryError("count identifiers", err)
	}
	return res, nil
}

// HasDuplicate looks for an item of the same kind and effective date
// under any prefix that has the same raw filename or the same filename.
// The effective date is the one encoded in identifiers.
func (c *Catalog) HasDuplicate(
	ctx context.Context,
	p lifecycle.DuplicateProbe,
) (bool, error) {
	q := `
SELECT EXISTS (
	SELECT 1 FROM items
	WHERE identifier LIKE $1 ESCAPE '\'
	AND (raw_filename = $2 OR filename = $3)
)`

	pattern := "%/" + escapeLike(ident.DayPattern(p.Letter, p.Date)) + "%"

	var res bool
	err := c.pool.QueryRow(ctx, q,
		pattern, nullString(p.RawFilename), p.Filename,
	).Scan(&res)
	if err != nil {
		return false, QueryError("duplicate probe", err)
	}
	return res, nil
}

// WriteItem inserts one item row.
func (c *Catalog) WriteItem(
	ctx context.Context,
	id ident.Identifier,
	location string,
	rec media.Record,
	checksum string,
) error {
	q := insertItemSQL()
	args := itemArgs(id, location, rec, checksum)

	_, err := c.pool.Exec(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ConstraintViolationError(id.String(), err)
		}
		return QueryError("write item", err)
	}
	slog.Debug("Item written", "identifier", id.String())
	return nil
}

// WriteTags creates missing tags and associates them with an existing
// item in one transaction.
func (c *Catalog) WriteTags(
	ctx context.Context,
	id ident.Identifier,
	ts []tags.Tag,
) error {
	if len(ts) == 0 {
		return nil
	}
	for _, v := range ts {
		if err := tags.Check(v.ID); err != nil {
			return err
		}
	}

	exists, err := c.itemExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ItemNotFoundError(id.String())
	}

	err = pgx.BeginFunc(ctx, c.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, v := range ts {
			batch.Queue(
				`INSERT INTO tags (id, name) VALUES ($1, $2)
				ON CONFLICT (id) DO NOTHING`,
				v.ID, v.Name,
			)
			batch.Queue(
				`INSERT INTO item_tags (identifier, tag_id) VALUES ($1, $2)`,
				id.String(), v.ID,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return QueryError("write tags", err)
	}
	return nil
}

// WriteDerivative inserts one rendition row.
func (c *Catalog) WriteDerivative(
	ctx context.Context,
	rec derivative.Record,
) error {
	q := `
INSERT INTO derivatives
	(identifier, width, height, content_type, size, purpose,
	location, derivative_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := c.pool.Exec(ctx, q,
		nullString(rec.Identifier), rec.Width, rec.Height, rec.ContentType,
		rec.SizeKB, string(rec.Purpose), rec.Location, rec.Key,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ConstraintViolationError(rec.Key, err)
		}
		return QueryError("write derivative", err)
	}
	return nil
}

// Item returns a stored item with its tags.
func (c *Catalog) Item(
	ctx context.Context,
	id ident.Identifier,
) (lifecycle.CatalogItem, error) {
	q := selectItemSQL()

	var row itemRow
	err := c.pool.QueryRow(ctx, q, id.String()).Scan(row.dest()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return lifecycle.CatalogItem{}, ItemNotFoundError(id.String())
	}
	if err != nil {
		return lifecycle.CatalogItem{}, QueryError("read item", err)
	}

	ts, err := c.ItemTags(ctx, id)
	if err != nil {
		return lifecycle.CatalogItem{}, err
	}

	return lifecycle.CatalogItem{
		Identifier: id,
		Location:   row.location,
		Record:     row.record(),
		Tags:       ts,
	}, nil
}

// ItemTags returns tags of an item ordered by id.
func (c *Catalog) ItemTags(
	ctx context.Context,
	id ident.Identifier,
) ([]tags.Tag, error) {
	q := `
SELECT DISTINCT t.id, t.name
FROM item_tags it
JOIN tags t ON t.id = it.tag_id
WHERE it.identifier = $1
ORDER BY t.id`

	rows, err := c.pool.Query(ctx, q, id.String())
	if err != nil {
		return nil, QueryError("read tags", err)
	}
	res, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (tags.Tag, error) {
		var t tags.Tag
		err := row.Scan(&t.ID, &t.Name)
		return t, err
	})
	if err != nil {
		return nil, QueryError("read tags", err)
	}
	return res, nil
}

// LargestDerivatives returns the widest rendition of every item ordered
// by identifier. Zero limit returns all of them.
func (c *Catalog) LargestDerivatives(
	ctx context.Context,
	limit int,
) ([]derivative.Record, error) {
	q := `
SELECT DISTINCT ON (identifier)
	identifier, derivative_key, location, width, height,
	content_type, size, purpose
FROM derivatives
WHERE identifier IS NOT NULL
ORDER BY identifier, width DESC
LIMIT $1`

	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := c.pool.Query(ctx, q, lim)
	if err != nil {
		return nil, QueryError("read derivatives", err)
	}
	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (derivative.Record, error) {
			var d derivative.Record
			var purpose string
			err := row.Scan(
				&d.Identifier, &d.Key, &d.Location, &d.Width, &d.Height,
				&d.ContentType, &d.SizeKB, &purpose,
			)
			d.Purpose = derivative.Purpose(purpose)
			return d, err
		})
	if err != nil {
		return nil, QueryError("read derivatives", err)
	}
	return res, nil
}

func (c *Catalog) itemExists(
	ctx context.Context,
	id ident.Identifier,
) (bool, error) {
	var res bool
	err := c.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE identifier = $1)`,
		id.String(),
	).Scan(&res)
	if err != nil {
		return false, QueryError("check item", err)
	}
	return res, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// dayPattern is the LIKE pattern of all identifiers of one kind and date
// under prefix.
func dayPattern(prefix, letter string, date time.Time) string {
	return escapeLike(prefix+"/"+ident.DayPattern(letter, date)) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters with a backslash.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
