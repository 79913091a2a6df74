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
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/internal/iojournal"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ingest"
	"github.com/spf13/cobra"
)

// getJournalCmd returns the journal command.
func getJournalCmd() *cobra.Command {
	var (
		status string
		runID  string
		limit  int
	)

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "List outcomes of ingested items",
		Long: `List journal entries of previous ingest runs, newest first.

Every ingested file leaves an entry with its run id, path, identifier,
the last stage it reached, status (done, skipped, failed) and the
error. Failed entries show what has to be retried or cleaned up.

Examples:
  phingest journal
  phingest journal --status failed
  phingest journal --run 1f0c6a52-9d3e-4a57-b2b1-3c9f4e0a7d11 -l 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := ingest.EntryFilter{
				Status: ingest.Status(status),
				RunID:  runID,
				Limit:  limit,
			}
			err := runJournal(cmd.OutOrStdout(), f)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	journalCmd.Flags().StringVarP(&status, "status", "s", "",
		"show only entries with status done, skipped or failed")
	journalCmd.Flags().StringVar(&runID, "run", "",
		"show only entries of one run")
	journalCmd.Flags().IntVarP(&limit, "limit", "l", 20,
		"maximum number of entries (0 = all)")

	return journalCmd
}

func runJournal(w io.Writer, f ingest.EntryFilter) error {
	switch f.Status {
	case "", ingest.StatusDone, ingest.StatusSkipped, ingest.StatusFailed:
	default:
		return &gn.Error{
			Code: errcode.ConfigurationInvalidError,
			Msg:  "Unknown status <em>%s</em>, use done, skipped or failed",
			Vars: []any{f.Status},
			Err:  fmt.Errorf("unknown status %q", f.Status),
		}
	}

	ctx := context.Background()
	jrn, err := iojournal.Open(ctx, config.JournalPath(homeDir))
	if err != nil {
		return err
	}
	defer jrn.Close()

	entries, err := jrn.Entries(ctx, f)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		gn.Info("No journal entries found")
		return nil
	}
	return printEntries(w, entries)
}

func printEntries(w io.Writer, entries []ingest.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSTATUS\tSTAGE\tIDENTIFIER\tPATH\tERROR")
	for _, e := range entries {
		id := e.Identifier
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format(time.DateTime),
			e.Status, e.Stage, id, e.Path, e.Error,
		)
	}
	return tw.Flush()
}
