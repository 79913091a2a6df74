package ident

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

func ParseError(s string) error {
	msg := "Cannot parse identifier <em>%s</em>, expected prefix/suffix"
	vars := []any{s}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IdentifierParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: malformed identifier %q", fn.Name(), s),
	}
}
