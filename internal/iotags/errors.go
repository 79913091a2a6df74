package iotags

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

func ReadError(path string, err error) error {
	msg := "Cannot read metadata from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TagReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
