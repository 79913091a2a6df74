package ioingest

import (
	"bytes"
	"context"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/phingest/phingest/internal/iocompress"
	"github.com/phingest/phingest/internal/ioident"
	"github.com/phingest/phingest/internal/iostorage"
	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/ingest"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/media"
	"golang.org/x/crypto/blake2b"
)

// source is a file read into memory together with its metadata.
type source struct {
	path     string
	kind     media.Kind
	data     []byte
	checksum string
	record   media.Record
}

func (i *Ingester) process(
	ctx context.Context,
	path string,
	res *ingest.Result,
) error {
	src, err := i.extract(path, res)
	if err != nil {
		return err
	}

	if i.offline {
		res.Key = i.newKey()
	} else {
		if err = i.persist(ctx, src, res); err != nil {
			return err
		}
		res.Key = res.Identifier.String()

		if len(i.tags) > 0 {
			res.Stage = ingest.Tagging
			if err = i.catalog.WriteTags(ctx, res.Identifier, i.tags); err != nil {
				return err
			}
		}
	}

	if !i.noCompress {
		if err = i.renditionsOf(ctx, src, res); err != nil {
			return err
		}
	}

	if i.withMirror && !i.offline {
		res.Stage = ingest.Mirroring
		if err = i.mirrorItem(ctx, src, res); err != nil {
			return err
		}
	}
	return nil
}

func (i *Ingester) extract(path string, res *ingest.Result) (source, error) {
	kind, ok := media.KindFor(path)
	if !ok {
		return source{}, UnsupportedMediaError(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, ReadSourceError(path, err)
	}
	sum := blake2b.Sum256(data)

	raw, err := i.reader.Read(path, data, i.xmpFile)
	if err != nil {
		return source{}, err
	}

	rec, err := kind.Extract(raw, filepath.Base(path))
	if err != nil {
		if !errcode.Is(err, errcode.ExtractionIncompleteError) {
			return source{}, err
		}
		slog.Warn("Using sparse metadata record", "path", path)
		res.Warnings = append(res.Warnings, err)
	}
	res.Record = rec

	return source{
		path:     path,
		kind:     kind,
		data:     data,
		checksum: hex.EncodeToString(sum[:]),
		record:   rec,
	}, nil
}

// persist assigns and registers the identifier, uploads the primary asset
// and writes the item. The sequence lock is held for the whole time, the
// count used for the new identifier stays valid until the item is written.
func (i *Ingester) persist(
	ctx context.Context,
	src source,
	res *ingest.Result,
) error {
	res.Stage = ingest.AssigningIdentifier
	date := i.assigner.EffectiveDate(src.record, src.path)
	key := ioident.LockKey(i.assigner.Prefix(), src.kind.SuffixLetter(), date)

	release, err := i.locker.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		if rErr := release(context.WithoutCancel(ctx)); rErr != nil {
			slog.Warn("Cannot release sequence lock", "key", key, "error", rErr)
		}
	}()

	id, err := i.assigner.Assign(
		ctx, src.kind, src.record, src.path, i.checkDuplicates,
	)
	if err != nil {
		return err
	}
	if _, err = i.assigner.Register(ctx, src.kind, id, ""); err != nil {
		return err
	}
	res.Identifier = id

	res.Stage = ingest.UploadingPrimary
	objKey := iostorage.PrimaryKey(id.String(), filepath.Ext(src.path))
	contentType := src.record.ContentType
	if contentType == "" {
		contentType = contentTypeOf(src.path)
	}
	res.Location, err = i.main.Put(ctx, objKey, src.data, contentType)
	if err != nil {
		return err
	}
	slog.Debug("Primary asset uploaded", "path", src.path,
		"size", humanize.Bytes(uint64(len(src.data))))

	res.Stage = ingest.WritingCatalog
	return i.catalog.WriteItem(ctx, id, res.Location, src.record, src.checksum)
}

func (i *Ingester) renditionsOf(
	ctx context.Context,
	src source,
	res *ingest.Result,
) error {
	res.Stage = ingest.GeneratingDerivatives
	img, err := iocompress.Decode(bytes.NewReader(src.data))
	if err != nil {
		return err
	}
	outs, err := i.compressor.Compress(ctx, img, i.renditions)
	if err != nil {
		return err
	}

	if i.offline {
		res.Derivatives = outs
		return i.writeOffline(ctx, res)
	}

	res.Stage = ingest.UploadingDerivatives
	recs := make([]derivative.Record, len(outs))
	for n, v := range outs {
		key := derivative.Key(res.Key, v.Info)
		loc, err := i.cdn.Put(ctx, key, v.Data, v.Info.ContentType)
		if err != nil {
			return err
		}
		recs[n] = derivative.Record{
			Identifier: res.Identifier.String(),
			Key:        key,
			Location:   loc,
			Info:       v.Info,
		}
	}

	res.Stage = ingest.WritingDerivativeCatalog
	for _, v := range recs {
		if err = i.catalog.WriteDerivative(ctx, v); err != nil {
			return err
		}
	}
	res.Stored = recs

	// keep rendition data of the widest output for the mirror
	res.Derivatives = make([]derivative.Output, len(outs))
	for n, v := range outs {
		res.Derivatives[n] = derivative.Output{Info: v.Info}
	}
	if w := widest(outs); w >= 0 {
		res.Derivatives[w].Data = outs[w].Data
	}
	return nil
}

func (i *Ingester) writeOffline(ctx context.Context, res *ingest.Result) error {
	if i.out == nil {
		return nil
	}
	for _, v := range res.Derivatives {
		key := derivative.Key(res.Key, v.Info)
		loc, err := i.out.Put(ctx, key, v.Data, v.Info.ContentType)
		if err != nil {
			return err
		}
		slog.Debug("Rendition written", "location", loc,
			"size", humanize.Bytes(uint64(len(v.Data))))
	}
	return nil
}

// mirrorItem sends the widest rendition to the dataset, or the primary
// asset when no renditions were generated.
func (i *Ingester) mirrorItem(
	ctx context.Context,
	src source,
	res *ingest.Result,
) error {
	item := lifecycle.MirrorItem{
		Identifier:  res.Identifier,
		Image:       src.data,
		ContentType: contentTypeOf(src.path),
		Filename:    src.record.Filename,
		Artist:      src.record.Artist,
		Tags:        i.tags,
	}
	if w := widest(res.Derivatives); w >= 0 && res.Derivatives[w].Data != nil {
		item.Image = res.Derivatives[w].Data
		item.ContentType = res.Derivatives[w].Info.ContentType
	}

	docID, err := i.mirror.Mirror(ctx, item)
	if err != nil {
		return err
	}
	slog.Debug("Item mirrored", "identifier", res.Identifier.String(),
		"document", docID)
	return nil
}

// widest returns the index of the first output with the largest width, or
// -1 for no outputs.
func widest(outs []derivative.Output) int {
	res := -1
	for n, v := range outs {
		if res < 0 || v.Info.Width > outs[res].Info.Width {
			res = n
		}
	}
	return res
}
