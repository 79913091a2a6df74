/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/phingest/phingest/internal/iocatalog"
	"github.com/phingest/phingest/internal/iocompress"
	"github.com/phingest/phingest/internal/iodb"
	"github.com/phingest/phingest/internal/iofs"
	"github.com/phingest/phingest/internal/iohandle"
	"github.com/phingest/phingest/internal/ioident"
	"github.com/phingest/phingest/internal/ioingest"
	"github.com/phingest/phingest/internal/iojournal"
	"github.com/phingest/phingest/internal/iomirror"
	"github.com/phingest/phingest/internal/iostorage"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ingest"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/spf13/cobra"
)

const (
	modePhoto  = "photo"
	modePhotos = "photos"
)

type ingestFlags struct {
	mode            string
	recursive       bool
	allowHidden     bool
	tags            []string
	offline         bool
	noCompress      bool
	allowDuplicates bool
	xmp             string
	mirror          bool
	out             string
	profile         string
}

// getIngestCmd returns the ingest command.
func getIngestCmd() *cobra.Command {
	var f ingestFlags

	ingestCmd := &cobra.Command{
		Use:   "ingest OBJECT",
		Short: "Ingest a photo or a directory of photos",
		Long: `Ingest photos into the archive.

OBJECT is a photo file (mode 'photo') or a directory (mode 'photos').
Every photo gets a persistent identifier, its original is uploaded to
the main bucket, metadata and tags go to the catalog and renditions are
uploaded to the CDN bucket.

Probable duplicates (same kind and date with the same filename or raw
filename) are skipped unless --allow-duplicates is given. A failed photo
does not stop the batch, outcomes are recorded in the journal
(see 'phingest journal').

With --offline nothing is registered, uploaded or written to the
catalog. Renditions are still generated and can be saved with --out.

Examples:
  phingest ingest -m photo IMG_0001.jpg -t street -t night
  phingest ingest -m photo IMG_0001.jpg --xmp IMG_0001.xmp
  phingest ingest -m photos ~/Pictures/2023 -r
  phingest ingest -m photos ~/Pictures/2023 --offline --out /tmp/renditions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runIngest(cmd, args[0], f)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fl := ingestCmd.Flags()
	fl.StringVarP(&f.mode, "mode", "m", "",
		"processing mode: photo or photos (required)")
	fl.BoolVarP(&f.recursive, "recursive", "r", false,
		"find files in subdirectories")
	fl.BoolVar(&f.allowHidden, "allow-hidden", false,
		"process hidden files and directories")
	fl.StringArrayVarP(&f.tags, "tag", "t", nil,
		"attach a tag to every photo, can be repeated")
	fl.BoolVar(&f.offline, "offline", false,
		"do not register, upload or write to the catalog")
	fl.BoolVarP(&f.noCompress, "nocompress", "n", false,
		"do not generate renditions")
	fl.BoolVar(&f.allowDuplicates, "allow-duplicates", false,
		"skip the duplicate test")
	fl.StringVar(&f.xmp, "xmp", "",
		"read metadata from an XMP sidecar (photo mode only)")
	fl.BoolVar(&f.mirror, "mirror", false,
		"mirror ingested photos to the content dataset")
	fl.StringVarP(&f.out, "out", "o", "",
		"directory for renditions generated offline")
	fl.StringVar(&f.profile, "profile", "",
		"YAML file with rendition specs")
	_ = ingestCmd.MarkFlagRequired("mode")

	return ingestCmd
}

// validate checks flag combinations that do not depend on configuration.
func (f ingestFlags) validate() error {
	switch f.mode {
	case modePhoto, modePhotos:
	default:
		return &gn.Error{
			Code: errcode.ConfigModeError,
			Msg:  "Unknown mode <em>%s</em>, use 'photo' or 'photos'",
			Vars: []any{f.mode},
			Err:  fmt.Errorf("unknown mode %q", f.mode),
		}
	}
	if f.xmp != "" && f.mode != modePhoto {
		return &gn.Error{
			Code: errcode.ConfigModeError,
			Msg:  "<em>--xmp</em> can only be used in 'photo' mode",
			Err:  errors.New("xmp sidecar with multiple items"),
		}
	}
	return nil
}

func (f ingestFlags) options(cmd *cobra.Command) []config.Option {
	changed := cmd.Flags().Changed
	var res []config.Option
	if changed("tag") {
		res = append(res, config.OptIngestTags(f.tags))
	}
	res = append(res,
		config.OptIngestOffline(f.offline),
		config.OptIngestNoCompress(f.noCompress),
		config.OptIngestAllowDuplicates(f.allowDuplicates),
		config.OptIngestRecursive(f.recursive),
		config.OptIngestAllowHidden(f.allowHidden),
		config.OptIngestMirror(f.mirror),
	)
	if changed("xmp") {
		res = append(res, config.OptIngestXMPFile(f.xmp))
	}
	if changed("out") {
		res = append(res, config.OptIngestOutputDir(f.out))
	}
	if changed("profile") {
		res = append(res, config.OptIngestProfile(f.profile))
	}
	return res
}

func runIngest(cmd *cobra.Command, object string, f ingestFlags) error {
	if err := f.validate(); err != nil {
		return err
	}
	cfg.Update(f.options(cmd))

	if err := checkSections(cfg.RequiredSections(), sections); err != nil {
		return err
	}

	paths, err := collect(object, f.mode, cfg.Ingest)
	if err != nil {
		return err
	}
	gn.Info("Counted <em>%s</em> files, start processing",
		humanize.Comma(int64(len(paths))))

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	ingOpts, cleanup, err := ingestOptions(ctx, cfg)
	defer cleanup()
	if err != nil {
		return err
	}

	ing, err := ioingest.New(cfg, ingOpts...)
	if err != nil {
		return err
	}

	sum, err := ing.Ingest(ctx, paths)
	if sum != nil {
		printSummary(sum)
	}
	return err
}

// collect returns files of the ingest object. Photo mode expects one
// file, photos mode a directory.
func collect(object, mode string, ic config.IngestConfig) ([]string, error) {
	info, err := os.Stat(object)
	if err != nil {
		return nil, iofs.CollectFilesError(object, err)
	}
	if mode == modePhoto && info.IsDir() {
		return nil, &gn.Error{
			Code: errcode.ConfigModeError,
			Msg:  "<em>%s</em> is a directory, use mode 'photos'",
			Vars: []any{object},
			Err:  fmt.Errorf("directory %s in photo mode", object),
		}
	}
	if mode == modePhotos && !info.IsDir() {
		return nil, &gn.Error{
			Code: errcode.ConfigModeError,
			Msg:  "<em>%s</em> is a file, use mode 'photo'",
			Vars: []any{object},
			Err:  fmt.Errorf("file %s in photos mode", object),
		}
	}
	return iofs.CollectFiles(object, ic.Recursive, ic.AllowHidden)
}

// ingestOptions builds collaborators of the ingester. The returned
// cleanup releases everything that was opened, also on error.
func ingestOptions(
	ctx context.Context,
	cfg *config.Config,
) ([]ioingest.Option, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	renditions, err := iocompress.LoadOptions(cfg)
	if err != nil {
		return nil, cleanup, err
	}
	res := []ioingest.Option{
		ioingest.OptRenditions(renditions),
		ioingest.OptCompressor(iocompress.New(cfg.JobsNumber)),
		ioingest.OptProgress(true),
	}

	jrn, err := iojournal.Open(ctx, config.JournalPath(cfg.HomeDir))
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, func() { _ = jrn.Close() })
	res = append(res, ioingest.OptJournal(jrn))

	if cfg.Ingest.Offline {
		if cfg.Ingest.OutputDir != "" {
			out, err := iostorage.NewDir(cfg.Ingest.OutputDir)
			if err != nil {
				return nil, cleanup, err
			}
			res = append(res, ioingest.OptOutput(out))
		}
		return res, cleanup, nil
	}

	op := iodb.NewPgxOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, func() { _ = op.Close() })
	slog.Debug("Connected to catalog",
		"host", cfg.Database.Host, "database", cfg.Database.Database)

	cat := iocatalog.New(op.Pool())
	reg := iohandle.New(cfg.Handle)
	asg := ioident.New(cat, reg, cfg.Handle.Prefix, cfg.Handle.Endpoint)
	res = append(res, ioingest.OptCatalog(cat), ioingest.OptAssigner(asg))

	if url := cfg.SequenceLock.RedisURL; url != "" {
		ttl := time.Duration(cfg.SequenceLock.TTLSeconds) * time.Second
		locker, err := ioident.NewRedisLocker(ctx, url, ttl)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { _ = locker.Close() })
		res = append(res, ioingest.OptLocker(locker))
	}

	primary, err := iostorage.NewMain(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}
	var cdn lifecycle.ObjectStore
	if !cfg.Ingest.NoCompress {
		bucket, err := iostorage.NewCDN(ctx, cfg)
		if err != nil {
			return nil, cleanup, err
		}
		cdn = bucket
	}
	res = append(res, ioingest.OptStores(primary, cdn))

	if cfg.Ingest.Mirror {
		res = append(res, ioingest.OptMirror(iomirror.New(cfg.Dataset)))
	}

	return res, cleanup, nil
}

func printSummary(sum *ingest.Summary) {
	for _, v := range sum.Skipped {
		gn.Warn("Skipped probable duplicate <em>%s</em>", v)
	}
	for _, v := range sum.Failed {
		gn.Warn("Failed <em>%s</em> at %s: %v", v.Path, v.Stage, v.Err)
	}
	gn.Info(`Run <em>%s</em> finished in %s
   total: %s, done: %s, skipped: %s, failed: %s`,
		sum.RunID, gnfmt.TimeString(sum.Duration.Seconds()),
		humanize.Comma(int64(sum.Total)), humanize.Comma(int64(sum.Done)),
		humanize.Comma(int64(len(sum.Skipped))),
		humanize.Comma(int64(len(sum.Failed))),
	)
	if len(sum.Failed) > 0 {
		gn.Info("Failed items are listed by " +
			"<em>phingest journal --status failed</em>")
	}
}
