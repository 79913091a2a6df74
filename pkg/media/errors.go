package media

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

func ExtractionIncompleteError(filename string) error {
	msg := "No embedded metadata found in <em>%s</em>, using a sparse record"
	vars := []any{filename}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExtractionIncompleteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no metadata available in %s",
			fn.Name(), filename),
	}
}
