package iohandle

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

// RegistrationError is returned when the naming service cannot be
// reached or rejects a request.
func RegistrationError(id string, err error) error {
	msg := `Cannot register identifier <em>%s</em>

<em>How to fix:</em>
  1. Check the <em>handle</em> section of the configuration
  2. Make sure the naming service is reachable`

	vars := []any{id}

	return &gn.Error{
		Code: errcode.RegistrationFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("register %s: %w", id, err),
	}
}

// AlreadyBoundError is returned when the identifier exists in the naming
// service but not in the catalog.
func AlreadyBoundError(id string, err error) error {
	msg := `Identifier <em>%s</em> is already registered

The naming service and the catalog are out of sync, the identifier
has to be reconciled manually`

	vars := []any{id}

	return &gn.Error{
		Code: errcode.RegistrationFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("register %s: %w", id, err),
	}
}
