package lifecycle

import (
	"context"

	"github.com/phingest/phingest/pkg/ingest"
)

// Ingester runs items through the ingest pipeline, one at a time.
type Ingester interface {
	// IngestItem processes one file. It never panics on item errors, the
	// outcome is reported in the result.
	IngestItem(ctx context.Context, path string) ingest.Result

	// Ingest processes files sequentially. Failures of single items do
	// not stop the batch.
	Ingest(ctx context.Context, paths []string) (*ingest.Summary, error)
}

// Journal keeps outcomes of ingested items for later reconciliation.
type Journal interface {
	// Add appends an entry.
	Add(ctx context.Context, e ingest.Entry) error

	// Entries returns entries matching the filter, newest first.
	Entries(ctx context.Context, f ingest.EntryFilter) ([]ingest.Entry, error)

	// Close releases the journal.
	Close() error
}
