package ioident

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ident"
)

func DuplicateDetectedError(path string, date time.Time) error {
	msg := `Skipping <em>%s</em>, catalog has a probable duplicate for %s

Use <em>--allow-duplicates</em> to ingest it anyway`
	vars := []any{path, date.Format(ident.DateLayout)}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DuplicateDetectedError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: probable duplicate of %s",
			fn.Name(), path),
	}
}

func RegistrationFailedError(id string, err error) error {
	msg := "Cannot register identifier <em>%s</em>"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RegistrationFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func SequenceLockError(key string, err error) error {
	msg := `Cannot use sequence lock <em>%s</em>

Check <em>sequence_lock.redis_url</em> in the configuration`
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SequenceLockError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
