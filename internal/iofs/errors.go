package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

// caller names the function that built the error's caller.
func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	if fn := runtime.FuncForPC(pc); fn != nil {
		return caller()
	}
	return "unknown"
}

func CreateDirError(dir string, err error) error {
	msg := "Cannot create %s"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create directory: %w",
			caller(), err),
	}
}

func CopyFileError(file string, err error) error {
	msg := "Cannot write default config file to %s"
	vars := []any{file}
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot copy file: %w",
			caller(), err),
	}
}

func ReadFileError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ReadFileError,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", caller(), path, err),
		Msg:  msg,
		Vars: vars,
	}
}

// CollectFilesError is returned when the ingest object cannot be walked.
func CollectFilesError(root string, err error) error {
	msg := `Cannot collect files from <em>%s</em>
   Check that the path exists and is readable.`
	vars := []any{root}
	return &gn.Error{
		Code: errcode.CollectFilesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot collect files in %s: %w",
			caller(), root, err),
	}
}
