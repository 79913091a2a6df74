package iomirror

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

// MirrorError is returned when the dataset rejects an item or cannot be
// reached.
func MirrorError(id, stage string, err error) error {
	msg := `Cannot mirror <em>%s</em> to the dataset (%s)

<em>How to fix:</em>
  1. Check the <em>dataset</em> section of the configuration
  2. Make sure the token has write access`

	vars := []any{id, stage}

	return &gn.Error{
		Code: errcode.MirrorFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("mirror %s, %s: %w", id, stage, err),
	}
}
