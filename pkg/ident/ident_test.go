package ident_test

import (
	"testing"
	"time"

	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := time.Parse(ident.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNew(t *testing.T) {
	id := ident.New("abc123", "P", date("2023-05-01"), 1)
	assert.Equal(t, "abc123/P2023-05-01.I1", id.String())
	assert.Equal(t, "P2023-05-01.I1", id.Suffix)
	assert.False(t, id.IsZero())
	assert.True(t, ident.Identifier{}.IsZero())
}

func TestParse(t *testing.T) {
	tests := []struct {
		msg   string
		input string
		res   ident.Identifier
		err   bool
	}{
		{"valid", "abc123/P2023-05-01.I12",
			ident.Identifier{Prefix: "abc123", Suffix: "P2023-05-01.I12"}, false},
		{"handle prefix", "21.T11998/P2020-01-01.I3",
			ident.Identifier{Prefix: "21.T11998", Suffix: "P2020-01-01.I3"}, false},
		{"no slash", "abc123", ident.Identifier{}, true},
		{"empty suffix", "abc123/", ident.Identifier{}, true},
		{"empty prefix", "/P2023-05-01.I1", ident.Identifier{}, true},
	}

	for _, v := range tests {
		res, err := ident.Parse(v.input)
		if v.err {
			require.Error(t, err, v.msg)
			assert.True(t, errcode.Is(err, errcode.IdentifierParseError), v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.input, res.String(), v.msg)
	}
}

func TestSequence(t *testing.T) {
	d, n, ok := ident.Identifier{Prefix: "a", Suffix: "P2023-05-01.I7"}.Sequence()
	require.True(t, ok)
	assert.Equal(t, date("2023-05-01"), d)
	assert.Equal(t, 7, n)

	_, _, ok = ident.Identifier{Prefix: "a", Suffix: "custom-name"}.Sequence()
	assert.False(t, ok)
}

func TestDayPattern(t *testing.T) {
	assert.Equal(t, "P2023-05-01.I", ident.DayPattern("P", date("2023-05-01")))
}

func TestEffectiveDate(t *testing.T) {
	capture := time.Date(2023, 5, 1, 22, 15, 0, 0, time.UTC)
	export := time.Date(2023, 6, 2, 9, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 9, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		msg  string
		rec  media.Record
		path string
		res  string
	}{
		{"capture wins", media.Record{Captured: &capture, Exported: &export},
			"/x/2022-01-01/a.jpg", "2023-05-01"},
		{"export second", media.Record{Exported: &export},
			"/x/2022-01-01/a.jpg", "2023-06-02"},
		{"path third", media.Record{}, "/photos/2022-01-01 trip/a.jpg", "2022-01-01"},
		{"invalid path date", media.Record{}, "/photos/2022-02-30/a.jpg", "2024-01-09"},
		{"today last", media.Record{}, "/photos/a.jpg", "2024-01-09"},
	}

	for _, v := range tests {
		res := ident.EffectiveDate(v.rec, v.path, now)
		assert.Equal(t, v.res, res.Format(ident.DateLayout), v.msg)
		assert.Equal(t, 0, res.Hour(), v.msg)
	}
}
