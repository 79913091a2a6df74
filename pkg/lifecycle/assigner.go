package lifecycle

import (
	"context"
	"time"

	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/media"
)

// Assigner derives identifiers for new items and registers them with the
// naming service.
type Assigner interface {
	// Prefix is the namespace of all assigned identifiers.
	Prefix() string

	// EffectiveDate returns the date that scopes the sequence number of
	// an item found at path.
	EffectiveDate(rec media.Record, path string) time.Time

	// Assign checks for duplicates and computes the next identifier.
	// With checkDuplicates a probable duplicate fails with
	// DuplicateDetected, without it the duplicate is only logged.
	Assign(
		ctx context.Context,
		kind media.Kind,
		rec media.Record,
		path string,
		checkDuplicates bool,
	) (ident.Identifier, error)

	// Register binds id to location. An empty location is replaced by
	// the default "{endpoint}/{view path}/{suffix}". The bound location
	// is returned.
	Register(
		ctx context.Context,
		kind media.Kind,
		id ident.Identifier,
		location string,
	) (string, error)
}

// Registrar is a client of the external naming service.
type Registrar interface {
	// Register binds id to location. Binding an existing id is an error.
	Register(ctx context.Context, id ident.Identifier, location string) error
}

// SequenceLocker serializes sequence allocation per key between processes.
type SequenceLocker interface {
	// Lock blocks until the key is acquired or ctx is done. The returned
	// function releases the lock.
	Lock(ctx context.Context, key string) (func(context.Context) error, error)
}
