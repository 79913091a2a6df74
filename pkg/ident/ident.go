// Package ident defines persistent identifiers of ingested items and the
// rules used to derive them. Identifiers look like "{prefix}/{suffix}",
// where the suffix is "{letter}{YYYY-MM-DD}.I{n}", for example
// "abc123/P2023-05-01.I1". The sequence number n starts at 1 for every
// (prefix, date) pair.
package ident

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/phingest/phingest/pkg/media"
)

// DateLayout is the layout of dates embedded in identifier suffixes.
const DateLayout = "2006-01-02"

var (
	suffixRe   = regexp.MustCompile(`^([A-Za-z]+)(\d{4}-\d{2}-\d{2})\.I(\d+)$`)
	pathDateRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// Identifier is a persistent name bound to an ingested item.
type Identifier struct {
	Prefix string
	Suffix string
}

// New creates an identifier from its parts.
func New(prefix, letter string, date time.Time, seq int) Identifier {
	return Identifier{
		Prefix: prefix,
		Suffix: fmt.Sprintf("%s%s.I%d", letter, date.Format(DateLayout), seq),
	}
}

// Parse splits "prefix/suffix" into an Identifier.
func Parse(s string) (Identifier, error) {
	prefix, suffix, ok := strings.Cut(s, "/")
	if !ok || prefix == "" || suffix == "" {
		return Identifier{}, ParseError(s)
	}
	return Identifier{Prefix: prefix, Suffix: suffix}, nil
}

// String returns "prefix/suffix".
func (id Identifier) String() string {
	return id.Prefix + "/" + id.Suffix
}

// IsZero is true for an empty identifier.
func (id Identifier) IsZero() bool {
	return id.Prefix == "" && id.Suffix == ""
}

// Sequence returns the date and sequence number encoded in the suffix.
// It returns false for suffixes that do not follow the default scheme.
func (id Identifier) Sequence() (time.Time, int, bool) {
	m := suffixRe.FindStringSubmatch(id.Suffix)
	if m == nil {
		return time.Time{}, 0, false
	}
	date, err := time.Parse(DateLayout, m[2])
	if err != nil {
		return time.Time{}, 0, false
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, 0, false
	}
	return date, n, true
}

// DayPattern is the common start of all suffixes of one kind and date,
// e.g. "P2023-05-01.I".
func DayPattern(letter string, date time.Time) string {
	return letter + date.Format(DateLayout) + ".I"
}

// EffectiveDate picks the date that scopes sequence numbers of an item:
// capture date, export date, a YYYY-MM-DD date found in the source path,
// or today. A path date that is not a real calendar date yields today.
func EffectiveDate(rec media.Record, path string, now time.Time) time.Time {
	switch {
	case rec.Captured != nil:
		return day(*rec.Captured)
	case rec.Exported != nil:
		return day(*rec.Exported)
	}
	if d, ok := DateFromPath(path); ok {
		return d
	}
	return day(now)
}

// DateFromPath finds the first YYYY-MM-DD match in path. The second
// result is false when nothing matches. An impossible date such as
// 2023-02-30 matches but is rejected by returning false.
func DateFromPath(path string) (time.Time, bool) {
	m := pathDateRe.FindString(path)
	if m == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, m)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
