// Package ingest defines the states an item passes through during ingest
// and the per-item and per-batch outcomes reported to the caller.
package ingest

import (
	"time"

	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/media"
)

// State is a stage of item processing.
type State int

const (
	Extracting State = iota
	AssigningIdentifier
	UploadingPrimary
	WritingCatalog
	Tagging
	GeneratingDerivatives
	UploadingDerivatives
	WritingDerivativeCatalog
	Mirroring
	Done
	Skipped
	Failed
)

var stateNames = map[State]string{
	Extracting:               "extracting",
	AssigningIdentifier:      "assigning_identifier",
	UploadingPrimary:         "uploading_primary",
	WritingCatalog:           "writing_catalog",
	Tagging:                  "tagging",
	GeneratingDerivatives:    "generating_derivatives",
	UploadingDerivatives:     "uploading_derivatives",
	WritingDerivativeCatalog: "writing_derivative_catalog",
	Mirroring:                "mirroring",
	Done:                     "done",
	Skipped:                  "skipped",
	Failed:                   "failed",
}

func (s State) String() string {
	if res, ok := stateNames[s]; ok {
		return res
	}
	return "unknown"
}

// Status is the final outcome of an item.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result is the outcome of one item.
type Result struct {
	// Path of the source file.
	Path string
	// Status of the item.
	Status Status
	// Stage is the last stage entered. For failed items it is the stage
	// that failed.
	Stage State
	// Identifier is empty in offline mode and when assignment did not
	// happen.
	Identifier ident.Identifier
	// Location of the primary asset.
	Location string
	// Record is the extracted metadata.
	Record media.Record
	// Key is the base of rendition keys: the identifier, or a random token
	// in offline mode.
	Key string
	// Derivatives are the generated renditions. Data is kept only in
	// offline mode.
	Derivatives []derivative.Output
	// Stored are the catalog records of uploaded renditions.
	Stored []derivative.Record
	// Warnings are recoverable problems, e.g. missing metadata.
	Warnings []error
	// Err is set for skipped and failed items.
	Err error
	// Duration of processing.
	Duration time.Duration
}

// Summary aggregates results of a batch.
type Summary struct {
	// RunID identifies the batch in the journal.
	RunID string
	// Total number of items in the batch.
	Total int
	// Done items.
	Done int
	// Skipped holds paths of probable duplicates.
	Skipped []string
	// Failed holds results of failed items.
	Failed []Result
	// Duration of the batch.
	Duration time.Duration
}

// Add accounts for a result.
func (s *Summary) Add(r Result) {
	s.Total++
	switch r.Status {
	case StatusDone:
		s.Done++
	case StatusSkipped:
		s.Skipped = append(s.Skipped, r.Path)
	case StatusFailed:
		s.Failed = append(s.Failed, r)
	}
}

// Entry is a journal line describing the outcome of one item.
type Entry struct {
	RunID      string
	Path       string
	Identifier string
	Stage      string
	Status     Status
	Error      string
	CreatedAt  time.Time
}

// NewEntry converts a result to a journal entry.
func NewEntry(runID string, r Result, now time.Time) Entry {
	res := Entry{
		RunID:     runID,
		Path:      r.Path,
		Stage:     r.Stage.String(),
		Status:    r.Status,
		CreatedAt: now,
	}
	if !r.Identifier.IsZero() {
		res.Identifier = r.Identifier.String()
	}
	if r.Err != nil {
		res.Error = r.Err.Error()
	}
	return res
}

// EntryFilter selects journal entries.
type EntryFilter struct {
	// Status filters by status, empty means any.
	Status Status
	// RunID filters by batch, empty means any.
	RunID string
	// Limit is the maximum number of entries, 0 means no limit.
	Limit int
}
