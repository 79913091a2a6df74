// Package ioident assigns identifiers to ingested items and registers
// them with the naming service. It implements lifecycle.Assigner on top
// of a lifecycle.Catalog and a lifecycle.Registrar.
package ioident

import (
	"context"
	"log/slog"
	"time"

	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/media"
)

type assigner struct {
	catalog   lifecycle.Catalog
	registrar lifecycle.Registrar
	prefix    string
	endpoint  string
	now       func() time.Time
}

// Option configures the assigner.
type Option func(*assigner)

// OptClock replaces the clock used when an item has no date.
func OptClock(now func() time.Time) Option {
	return func(a *assigner) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Assigner for identifiers under prefix. Default
// locations are built from endpoint.
func New(
	cat lifecycle.Catalog,
	reg lifecycle.Registrar,
	prefix, endpoint string,
	opts ...Option,
) lifecycle.Assigner {
	res := &assigner{
		catalog:   cat,
		registrar: reg,
		prefix:    prefix,
		endpoint:  endpoint,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func (a *assigner) Prefix() string {
	return a.prefix
}

func (a *assigner) EffectiveDate(rec media.Record, path string) time.Time {
	return ident.EffectiveDate(rec, path, a.now())
}

func (a *assigner) Assign(
	ctx context.Context,
	kind media.Kind,
	rec media.Record,
	path string,
	checkDuplicates bool,
) (ident.Identifier, error) {
	letter := kind.SuffixLetter()
	date := a.EffectiveDate(rec, path)

	probe := lifecycle.DuplicateProbe{
		Letter:      letter,
		Date:        date,
		RawFilename: rec.RawFilename,
		Filename:    rec.Filename,
	}
	dup, err := a.catalog.HasDuplicate(ctx, probe)
	if err != nil {
		return ident.Identifier{}, err
	}
	if dup {
		slog.Warn("Possible duplicate",
			"path", path,
			"filename", rec.Filename,
			"raw_filename", rec.RawFilename,
			"date", date.Format(ident.DateLayout),
		)
		if checkDuplicates {
			return ident.Identifier{}, DuplicateDetectedError(path, date)
		}
	}

	n, err := a.catalog.CountIdentifiersFor(ctx, a.prefix, letter, date)
	if err != nil {
		return ident.Identifier{}, err
	}

	return ident.New(a.prefix, letter, date, n+1), nil
}

func (a *assigner) Register(
	ctx context.Context,
	kind media.Kind,
	id ident.Identifier,
	location string,
) (string, error) {
	if location == "" {
		location = a.endpoint + "/" + kind.ViewPath() + "/" + id.Suffix
	}

	slog.Info("Registering identifier",
		"identifier", id.String(), "location", location)
	err := a.registrar.Register(ctx, id, location)
	if err != nil {
		if errcode.Is(err, errcode.RegistrationFailedError) {
			return "", err
		}
		return "", RegistrationFailedError(id.String(), err)
	}
	return location, nil
}
