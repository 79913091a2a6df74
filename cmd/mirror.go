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
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/internal/iocatalog"
	"github.com/phingest/phingest/internal/iodb"
	"github.com/phingest/phingest/internal/iomirror"
	"github.com/phingest/phingest/internal/iostorage"
	"github.com/spf13/cobra"
)

// getMirrorCmd returns the mirror command.
func getMirrorCmd() *cobra.Command {
	var limit int

	mirrorCmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy cataloged photos to the content dataset",
		Long: `Copy cataloged photos to the external content dataset.

For every item of the catalog the widest rendition is downloaded from
the CDN bucket and uploaded to the dataset together with the item's
artist, filename and tags. Documents are keyed by identifier, running
the command again does not create copies.

Examples:
  phingest mirror
  phingest mirror --limit 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMirror(limit)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	mirrorCmd.Flags().IntVarP(&limit, "limit", "l", 0,
		"maximum number of items to mirror (0 = all)")

	return mirrorCmd
}

func runMirror(limit int) error {
	required := []string{"database", "storage", "cdn", "dataset"}
	if err := checkSections(required, sections); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	cdn, err := iostorage.NewCDN(ctx, cfg)
	if err != nil {
		return err
	}

	cat := iocatalog.New(op.Pool())
	n, err := iomirror.Backfill(ctx, cat, cdn, iomirror.New(cfg.Dataset), limit)
	if err != nil {
		return err
	}

	gn.Info("Mirrored <em>%d</em> items to dataset <em>%s</em>",
		n, cfg.Dataset.Dataset)
	return nil
}
