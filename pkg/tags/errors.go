package tags

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

func TooLongError(id string) error {
	msg := "Tag id <em>%s</em> is longer than %d characters"
	vars := []any{id, MaxIDLength}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TagTooLongError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: tag id has %d characters, limit is %d",
			fn.Name(), len(id), MaxIDLength),
	}
}

func InvalidError(name string) error {
	msg := "Tag <em>%s</em> has no letters or digits"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TagInvalidError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: empty tag slug for %q", fn.Name(), name),
	}
}
