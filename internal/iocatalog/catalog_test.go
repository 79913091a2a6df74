package iocatalog_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phingest/phingest/internal/iocatalog"
	"github.com/phingest/phingest/internal/iodb"
	"github.com/phingest/phingest/internal/ioschema"
	"github.com/phingest/phingest/internal/iotesting"
	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/media"
	"github.com/phingest/phingest/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *iocatalog.Catalog {
	t.Helper()
	return iocatalog.New(setupPool(t))
}

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestDatabaseConfig()))
	t.Cleanup(func() { op.Close() })

	require.NoError(t, op.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(op).Create(ctx))

	return op.Pool()
}

func TestCatalog_SharedTag(t *testing.T) {
	pool := setupPool(t)
	cat := iocatalog.New(pool)
	ctx := context.Background()
	date := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	ts, err := tags.FromNames([]string{"harbor"})
	require.NoError(t, err)

	for i := 1; i <= 2; i++ {
		id := ident.New("abc123", "P", date, i)
		rec := media.Record{Filename: fmt.Sprintf("IMG_%d.jpg", i)}
		require.NoError(t, cat.WriteItem(ctx, id, "s3://photos/x.jpg", rec, ""))
		require.NoError(t, cat.WriteTags(ctx, id, ts))
	}

	count := func(q string) int {
		var n int
		require.NoError(t, pool.QueryRow(ctx, q, "tag_harbor").Scan(&n))
		return n
	}
	assert.Equal(t, 1, count(`SELECT count(*) FROM tags WHERE id = $1`))
	assert.Equal(t, 2,
		count(`SELECT count(*) FROM item_tags WHERE tag_id = $1`))
}

func TestCatalog_Lifecycle(t *testing.T) {
	cat := setup(t)
	ctx := context.Background()

	date := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	captured := time.Date(2023, 5, 1, 14, 3, 22, 0, time.UTC)
	iso := 400
	rec := media.Record{
		Captured:    &captured,
		ISO:         &iso,
		RawFilename: "DSC_0001.NEF",
		Filename:    "DSC_0001.jpg",
		Artist:      "Jane Doe",
	}

	n, err := cat.CountIdentifiersFor(ctx, "abc123", "P", date)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	id := ident.New("abc123", "P", date, n+1)
	err = cat.WriteItem(ctx, id, "s3://photos/a.jpg", rec, "ff00")
	require.NoError(t, err)

	t.Run("second insert is a constraint violation", func(t *testing.T) {
		err := cat.WriteItem(ctx, id, "s3://photos/a.jpg", rec, "")
		assert.True(t, errcode.Is(err, errcode.ConstraintViolationError))
	})

	t.Run("counter", func(t *testing.T) {
		n, err := cat.CountIdentifiersFor(ctx, "abc123", "P", date)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = cat.CountIdentifiersFor(ctx, "abc12_", "P", date)
		require.NoError(t, err)
		assert.Equal(t, 0, n, "underscore is not a wildcard")

		n, err = cat.CountIdentifiersFor(ctx, "abc123", "P", date.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("duplicate probe", func(t *testing.T) {
		tests := []struct {
			name  string
			probe lifecycle.DuplicateProbe
			exp   bool
		}{
			{"same raw filename", lifecycle.DuplicateProbe{
				Letter: "P", Date: date,
				RawFilename: "DSC_0001.NEF", Filename: "other.jpg"}, true},
			{"same filename", lifecycle.DuplicateProbe{
				Letter: "P", Date: date, Filename: "DSC_0001.jpg"}, true},
			{"other date", lifecycle.DuplicateProbe{
				Letter: "P", Date: date.AddDate(0, 0, 1),
				Filename: "DSC_0001.jpg"}, false},
			{"other names", lifecycle.DuplicateProbe{
				Letter: "P", Date: date, Filename: "DSC_0002.jpg"}, false},
		}
		for _, tt := range tests {
			res, err := cat.HasDuplicate(ctx, tt.probe)
			require.NoError(t, err)
			assert.Equal(t, tt.exp, res, tt.name)
		}
	})

	t.Run("tags", func(t *testing.T) {
		ts, err := tags.FromNames([]string{"Street", "night"})
		require.NoError(t, err)
		require.NoError(t, cat.WriteTags(ctx, id, ts))
		// existing tags are reused
		require.NoError(t, cat.WriteTags(ctx, id, ts[:1]))

		res, err := cat.ItemTags(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []tags.Tag{
			{ID: "tag_night", Name: "night"},
			{ID: "tag_street", Name: "Street"},
		}, res)

		missing := ident.New("abc123", "P", date, 99)
		err = cat.WriteTags(ctx, missing, ts)
		assert.True(t, errcode.Is(err, errcode.ItemNotFoundError))
	})

	t.Run("derivatives", func(t *testing.T) {
		for _, w := range []int{250, 2000, 750} {
			info := derivative.Info{
				Width: w, Height: w / 2, ContentType: "image/jpeg",
				SizeKB: w / 10, Purpose: derivative.View,
			}
			key := derivative.Key(id.String(), info)
			err := cat.WriteDerivative(ctx, derivative.Record{
				Identifier: id.String(),
				Key:        key,
				Location:   "https://cdn.example.org/" + key,
				Info:       info,
			})
			require.NoError(t, err)
		}

		res, err := cat.LargestDerivatives(ctx, 0)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, 2000, res[0].Width)
		assert.Equal(t, id.String(), res[0].Identifier)
	})

	t.Run("item", func(t *testing.T) {
		item, err := cat.Item(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "s3://photos/a.jpg", item.Location)
		assert.Equal(t, "2023-05-01", item.Record.CaptureDate())
		assert.Equal(t, "14:03:22", item.Record.CaptureTime())
		assert.Equal(t, &iso, item.Record.ISO)
		assert.Equal(t, "Jane Doe", item.Record.Artist)
		assert.Len(t, item.Tags, 2)

		_, err = cat.Item(ctx, ident.New("abc123", "P", date, 42))
		assert.True(t, errcode.Is(err, errcode.ItemNotFoundError))
	})
}

func TestCatalog_TagTooLong(t *testing.T) {
	cat := iocatalog.New(nil)
	long := tags.Tag{ID: tags.Prefix + string(make([]byte, 100)), Name: "x"}
	id := ident.Identifier{Prefix: "abc123", Suffix: "P2023-05-01.I1"}

	// rejected before any database access
	err := cat.WriteTags(context.Background(), id, []tags.Tag{long})
	assert.True(t, errcode.Is(err, errcode.TagTooLongError))
}
