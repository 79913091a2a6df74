package iojournal

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot open ingest journal <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.JournalOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func WriteError(path string, err error) error {
	msg := "Cannot record outcome of <em>%s</em> in the journal"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.JournalWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func ReadError(err error) error {
	msg := "Cannot read the ingest journal"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.JournalReadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
