package iomirror

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/lifecycle"
)

// Backfill mirrors items that are already in the catalog. The widest
// rendition of every item is downloaded from the rendition bucket and
// sent to the dataset. Failed items are logged and skipped. It returns
// the number of mirrored items.
func Backfill(
	ctx context.Context,
	cat lifecycle.CatalogReader,
	cdn lifecycle.ObjectStore,
	m lifecycle.Mirror,
	limit int,
) (int, error) {
	recs, err := cat.LargestDerivatives(ctx, limit)
	if err != nil {
		return 0, err
	}

	bar := pb.Full.Start(len(recs))
	bar.Set("prefix", "Mirroring ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	var res int
	for _, v := range recs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		bar.Increment()
		log := slog.With("identifier", v.Identifier, "key", v.Key)

		id, err := ident.Parse(v.Identifier)
		if err != nil {
			log.Error("Cannot parse identifier", "error", err)
			continue
		}
		item, err := cat.Item(ctx, id)
		if err != nil {
			log.Error("Cannot read item", "error", err)
			continue
		}
		data, err := cdn.Get(ctx, v.Key)
		if err != nil {
			log.Error("Cannot download rendition", "error", err)
			continue
		}

		_, err = m.Mirror(ctx, lifecycle.MirrorItem{
			Identifier:  id,
			Image:       data,
			ContentType: v.ContentType,
			Filename:    item.Record.Filename,
			Artist:      item.Record.Artist,
			Tags:        item.Tags,
		})
		if err != nil {
			log.Error("Cannot mirror item", "error", err)
			continue
		}
		res++
	}

	if res == 0 && len(recs) > 0 {
		return 0, MirrorError("all items", "backfill",
			errors.New("no item was mirrored"))
	}
	return res, nil
}
