package ioingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

// SetupError is returned when collaborators required by the ingest
// settings are missing.
func SetupError(missing []string) error {
	msg := `Ingest cannot start, missing: %s

<em>How to fix:</em>
  Add the corresponding sections to the configuration file
  or run with <em>--offline</em>`
	vars := []any{strings.Join(missing, ", ")}

	return &gn.Error{
		Code: errcode.ConfigurationInvalidError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("missing %s", strings.Join(missing, ", ")),
	}
}

// UnsupportedMediaError is returned for files of unregistered kinds.
func UnsupportedMediaError(path string) error {
	msg := "File <em>%s</em> is not a supported media type"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.UnsupportedFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported media %s", path),
	}
}

// ReadSourceError is returned when a source file cannot be read.
func ReadSourceError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("read %s: %w", path, err),
	}
}

// NoItemsError is returned for an empty batch.
func NoItemsError() error {
	msg := "No supported files found to ingest"

	return &gn.Error{
		Code: errcode.IngestNoItemsError,
		Msg:  msg,
		Err:  errors.New("empty batch"),
	}
}

// AllItemsFailedError is returned when every item of a batch failed.
func AllItemsFailedError(total int) error {
	msg := `All %d items failed

Check the log or run <em>phingest journal --status failed</em>`
	vars := []any{total}

	return &gn.Error{
		Code: errcode.IngestAllItemsFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d items failed", total),
	}
}
