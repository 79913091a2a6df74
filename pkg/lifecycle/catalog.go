// Package lifecycle defines the contracts between the ingest pipeline and
// its collaborators. Implementations live in internal/io* packages and are
// wired together by the CLI.
package lifecycle

import (
	"context"
	"time"

	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/media"
	"github.com/phingest/phingest/pkg/tags"
)

// DuplicateProbe describes an item that is checked against the catalog
// before an identifier is assigned.
type DuplicateProbe struct {
	// Letter is the suffix letter of the media kind.
	Letter string
	// Date is the effective date of the item.
	Date time.Time
	// RawFilename may be empty.
	RawFilename string
	Filename    string
}

// Catalog is the relational system of record for ingested items, tags and
// renditions. Every write method commits its own unit of work, there are no
// transactions spanning several calls.
type Catalog interface {
	// CountIdentifiersFor counts items whose identifier has the given
	// prefix, suffix letter and date. Renditions are not counted.
	CountIdentifiersFor(
		ctx context.Context, prefix, letter string, date time.Time,
	) (int, error)

	// HasDuplicate reports whether an item with the same effective date
	// and the same raw filename or filename exists.
	HasDuplicate(ctx context.Context, p DuplicateProbe) (bool, error)

	// WriteItem inserts one item. It fails with ConstraintViolation when
	// the identifier exists already.
	WriteItem(
		ctx context.Context,
		id ident.Identifier,
		location string,
		rec media.Record,
		checksum string,
	) error

	// WriteTags creates missing tags and associates all of them with the
	// item. The item must exist.
	WriteTags(ctx context.Context, id ident.Identifier, ts []tags.Tag) error

	// WriteDerivative inserts one rendition row.
	WriteDerivative(ctx context.Context, rec derivative.Record) error
}

// CatalogItem is an item read back from the catalog.
type CatalogItem struct {
	Identifier ident.Identifier
	Location   string
	Record     media.Record
	Tags       []tags.Tag
}

// CatalogReader gives read access to stored items.
type CatalogReader interface {
	// Item returns an item with its tags.
	Item(ctx context.Context, id ident.Identifier) (CatalogItem, error)

	// LargestDerivatives returns, for every item, its widest rendition,
	// ordered by identifier. Zero limit means all items.
	LargestDerivatives(
		ctx context.Context, limit int,
	) ([]derivative.Record, error)
}
