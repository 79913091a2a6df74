package iocatalog

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

// ConstraintViolationError is returned when a row with the same key
// exists already, usually because another process assigned the same
// identifier.
func ConstraintViolationError(key string, err error) error {
	msg := `Catalog already has <em>%s</em>

<em>Possible causes:</em>
  - Another ingest process assigned the same identifier
  - The item was ingested before

<em>How to fix:</em>
  1. Ingest the file again to get the next identifier
  2. Enable <em>sequence_lock</em> for concurrent ingest`

	vars := []any{key}

	return &gn.Error{
		Code: errcode.ConstraintViolationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unique constraint violated by %s: %w", key, err),
	}
}

// QueryError is returned when a catalog query fails.
func QueryError(op string, err error) error {
	msg := "Catalog operation <em>%s</em> failed"
	vars := []any{op}

	return &gn.Error{
		Code: errcode.CatalogQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s: %w", op, err),
	}
}

// ItemNotFoundError is returned for unknown identifiers.
func ItemNotFoundError(id string) error {
	msg := "Catalog has no item <em>%s</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.ItemNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("item %s not found", id),
	}
}
