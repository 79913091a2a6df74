package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

// CreateLogFileError is returned when the log file cannot be opened for
// appending. Setting log.destination to stderr avoids the file.
func CreateLogFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg: "Cannot open log file <em>%s</em>\n\n" +
			"Set <em>log.destination</em> to stderr or stdout to log without a file",
		Vars: []any{path},
		Err:  fmt.Errorf("iologger: open %s: %w", path, err),
	}
}
