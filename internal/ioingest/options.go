package ioingest

import (
	"time"

	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/lifecycle"
)

// Option configures an Ingester.
type Option func(*Ingester)

// OptTagReader replaces the default EXIF/XMP reader.
func OptTagReader(r lifecycle.TagReader) Option {
	return func(i *Ingester) {
		i.reader = r
	}
}

// OptAssigner sets the identifier assigner.
func OptAssigner(a lifecycle.Assigner) Option {
	return func(i *Ingester) {
		i.assigner = a
	}
}

// OptLocker sets the lock that is held from identifier assignment until
// the item is written to the catalog.
func OptLocker(l lifecycle.SequenceLocker) Option {
	return func(i *Ingester) {
		if l != nil {
			i.locker = l
		}
	}
}

// OptCatalog sets the catalog.
func OptCatalog(c lifecycle.Catalog) Option {
	return func(i *Ingester) {
		i.catalog = c
	}
}

// OptStores sets the buckets of primary assets and renditions.
func OptStores(main, cdn lifecycle.ObjectStore) Option {
	return func(i *Ingester) {
		i.main = main
		i.cdn = cdn
	}
}

// OptOutput sets the store that receives renditions in offline mode.
func OptOutput(s lifecycle.ObjectStore) Option {
	return func(i *Ingester) {
		i.out = s
	}
}

// OptCompressor replaces the default rendition encoder.
func OptCompressor(c lifecycle.Compressor) Option {
	return func(i *Ingester) {
		i.compressor = c
	}
}

// OptRenditions replaces the default rendition set.
func OptRenditions(opts derivative.Options) Option {
	return func(i *Ingester) {
		i.renditions = opts
	}
}

// OptMirror sets the dataset mirror.
func OptMirror(m lifecycle.Mirror) Option {
	return func(i *Ingester) {
		i.mirror = m
	}
}

// OptJournal sets the journal of item outcomes.
func OptJournal(j lifecycle.Journal) Option {
	return func(i *Ingester) {
		i.journal = j
	}
}

// OptClock replaces time.Now.
func OptClock(f func() time.Time) Option {
	return func(i *Ingester) {
		i.clock = f
	}
}

// OptKeyGenerator replaces the generator of offline rendition keys.
func OptKeyGenerator(f func() string) Option {
	return func(i *Ingester) {
		i.newKey = f
	}
}

// OptProgress shows a progress bar for batches.
func OptProgress(b bool) Option {
	return func(i *Ingester) {
		i.progress = b
	}
}
