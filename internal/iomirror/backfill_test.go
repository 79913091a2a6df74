package iomirror_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phingest/phingest/internal/iomirror"
	"github.com/phingest/phingest/internal/iotesting"
	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/media"
	"github.com/phingest/phingest/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, cat *iotesting.Catalog, cdn *iotesting.Store, seq int) ident.Identifier {
	ctx := context.Background()
	date := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	id := ident.New("abc123", "P", date, seq)
	rec := media.Record{Filename: "a.jpg", Artist: "Jane"}
	require.NoError(t, cat.WriteItem(ctx, id, "s3://main/x", rec, ""))
	ts, err := tags.FromNames([]string{"night"})
	require.NoError(t, err)
	require.NoError(t, cat.WriteTags(ctx, id, ts))

	for _, w := range []int{250, 1000} {
		info := derivative.Info{Width: w, ContentType: "image/jpeg"}
		key := derivative.Key(id.String(), info)
		_, err := cdn.Put(ctx, key, []byte(key), info.ContentType)
		require.NoError(t, err)
		require.NoError(t, cat.WriteDerivative(ctx, derivative.Record{
			Identifier: id.String(), Key: key, Info: info,
		}))
	}
	return id
}

func TestBackfill(t *testing.T) {
	ctx := context.Background()
	cat := iotesting.NewCatalog(nil)
	cdn := iotesting.NewStore("cdn", nil)
	m := &iotesting.Mirror{}
	id1 := fill(t, cat, cdn, 1)
	fill(t, cat, cdn, 2)

	n, err := iomirror.Backfill(ctx, cat, cdn, m, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, m.Items, 2)

	item := m.Items[0]
	assert.Equal(t, id1, item.Identifier)
	assert.Equal(t, id1.String()+"_w1000.jpeg", string(item.Image))
	assert.Equal(t, "Jane", item.Artist)
	assert.Equal(t, []tags.Tag{{ID: "tag_night", Name: "night"}}, item.Tags)

	t.Run("limit", func(t *testing.T) {
		m := &iotesting.Mirror{}
		n, err := iomirror.Backfill(ctx, cat, cdn, m, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("all failed", func(t *testing.T) {
		m := &iotesting.Mirror{Fail: errors.New("forbidden")}
		_, err := iomirror.Backfill(ctx, cat, cdn, m, 0)
		assert.True(t, errcode.Is(err, errcode.MirrorFailedError))
	})
}
