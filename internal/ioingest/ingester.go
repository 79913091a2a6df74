// Package ioingest runs source files through the ingest pipeline: metadata
// extraction, identifier assignment, primary upload, catalog writes,
// rendition generation and the optional dataset mirror. Items are
// processed one at a time, a failed item does not stop the batch.
package ioingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/phingest/phingest/internal/iocompress"
	"github.com/phingest/phingest/internal/ioident"
	"github.com/phingest/phingest/internal/iotags"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ingest"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/tags"
)

// Ingester implements lifecycle.Ingester.
type Ingester struct {
	offline         bool
	noCompress      bool
	checkDuplicates bool
	withMirror      bool
	xmpFile         string
	tags            []tags.Tag
	renditions      derivative.Options

	reader     lifecycle.TagReader
	assigner   lifecycle.Assigner
	locker     lifecycle.SequenceLocker
	catalog    lifecycle.Catalog
	main       lifecycle.ObjectStore
	cdn        lifecycle.ObjectStore
	out        lifecycle.ObjectStore
	compressor lifecycle.Compressor
	mirror     lifecycle.Mirror
	journal    lifecycle.Journal

	runID    string
	clock    func() time.Time
	newKey   func() string
	progress bool
}

var _ lifecycle.Ingester = (*Ingester)(nil)

// New creates an Ingester for the ingest settings of cfg. Collaborators
// are given with options; the ones that the settings require must be
// present.
func New(cfg *config.Config, opts ...Option) (*Ingester, error) {
	ts, err := tags.FromNames(cfg.Ingest.Tags)
	if err != nil {
		return nil, err
	}

	res := &Ingester{
		offline:         cfg.Ingest.Offline,
		noCompress:      cfg.Ingest.NoCompress,
		checkDuplicates: !cfg.Ingest.AllowDuplicates,
		withMirror:      cfg.Ingest.Mirror,
		xmpFile:         cfg.Ingest.XMPFile,
		tags:            ts,
		renditions: derivative.DefaultOptions(
			cfg.Derivatives.Format, cfg.Derivatives.Quality,
		),
		reader:     iotags.New(),
		locker:     ioident.NoopLocker{},
		compressor: iocompress.New(cfg.JobsNumber),
		runID:      uuid.NewString(),
		clock:      time.Now,
		newKey:     randomKey,
	}
	for _, opt := range opts {
		opt(res)
	}

	if err = res.check(); err != nil {
		return nil, err
	}
	return res, nil
}

// RunID identifies the batches of this Ingester in the journal.
func (i *Ingester) RunID() string {
	return i.runID
}

func (i *Ingester) check() error {
	var missing []string
	if !i.offline {
		if i.assigner == nil {
			missing = append(missing, "identifier assigner")
		}
		if i.catalog == nil {
			missing = append(missing, "catalog")
		}
		if i.main == nil {
			missing = append(missing, "main storage")
		}
		if !i.noCompress && i.cdn == nil {
			missing = append(missing, "cdn storage")
		}
		if i.withMirror && i.mirror == nil {
			missing = append(missing, "dataset mirror")
		}
	}
	if len(missing) > 0 {
		return SetupError(missing)
	}
	return nil
}

// IngestItem processes one file and reports its outcome.
func (i *Ingester) IngestItem(ctx context.Context, path string) ingest.Result {
	start := i.clock()
	res := ingest.Result{Path: path, Stage: ingest.Extracting}
	log := slog.With("path", path)

	err := i.process(ctx, path, &res)
	res.Duration = i.clock().Sub(start)

	switch {
	case err == nil:
		res.Status = ingest.StatusDone
		res.Stage = ingest.Done
		log.Info("Item ingested",
			"identifier", res.Identifier.String(),
			"renditions", len(res.Derivatives),
			"duration", gnfmt.TimeString(res.Duration.Seconds()),
		)
	case errcode.Is(err, errcode.DuplicateDetectedError):
		res.Status = ingest.StatusSkipped
		res.Err = err
		log.Warn("Probable duplicate skipped", "stage", res.Stage.String())
	default:
		res.Status = ingest.StatusFailed
		res.Err = err
		log.Error("Item failed",
			"stage", res.Stage.String(),
			"identifier", res.Identifier.String(),
			"error", err,
		)
	}

	if i.journal != nil {
		entry := ingest.NewEntry(i.runID, res, i.clock())
		if jErr := i.journal.Add(ctx, entry); jErr != nil {
			log.Warn("Cannot write journal entry", "error", jErr)
		}
	}
	return res
}

// Ingest processes files one after another. It returns AllItemsFailed
// when no item of a non-empty batch was ingested or skipped.
func (i *Ingester) Ingest(
	ctx context.Context,
	paths []string,
) (*ingest.Summary, error) {
	sum := &ingest.Summary{RunID: i.runID}
	if len(paths) == 0 {
		return sum, NoItemsError()
	}

	start := i.clock()
	bar := i.newProgressBar(len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			bar.finish()
			return sum, err
		}
		sum.Add(i.IngestItem(ctx, path))
		bar.increment()
	}
	bar.finish()
	sum.Duration = i.clock().Sub(start)

	slog.Info("Batch finished",
		"run", sum.RunID,
		"total", humanize.Comma(int64(sum.Total)),
		"done", humanize.Comma(int64(sum.Done)),
		"skipped", len(sum.Skipped),
		"failed", len(sum.Failed),
		"duration", gnfmt.TimeString(sum.Duration.Seconds()),
	)

	if sum.Done == 0 && len(sum.Skipped) == 0 {
		return sum, AllItemsFailedError(sum.Total)
	}
	return sum, nil
}

// randomKey is the first segment of a random UUID.
func randomKey() string {
	s := uuid.NewString()
	return s[:8]
}
