// Package iotags reads raw metadata tags embedded in image files.
//
// EXIF data is located with the structure parsers of the container format,
// with a brute force search as a fallback. The XMP packet is either found
// in the file or read from a sidecar file. XMP values take precedence over
// EXIF values of the same property.
package iotags

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsoprea/go-exif/v3"
	"github.com/phingest/phingest/pkg/lifecycle"
	"github.com/phingest/phingest/pkg/media"
)

// ExifNamespace groups tags that come from EXIF data.
const ExifNamespace = "exif"

// Reader implements lifecycle.TagReader.
type Reader struct{}

var _ lifecycle.TagReader = (*Reader)(nil)

// New creates a Reader.
func New() *Reader {
	return &Reader{}
}

// ReadFile loads the file at path and passes it to Read.
func (r *Reader) ReadFile(path, xmpFile string) (media.RawTags, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	return r.Read(path, data, xmpFile)
}

// Read returns EXIF and XMP tags found in data. The path only selects the
// container parser by extension and labels log records. A non-empty
// xmpFile is used instead of the embedded XMP packet. Data without any
// metadata gives an empty result.
func (r *Reader) Read(
	path string,
	data []byte,
	xmpFile string,
) (media.RawTags, error) {
	var err error
	var packet []byte
	if xmpFile != "" {
		packet, err = os.ReadFile(xmpFile)
		if err != nil {
			return nil, ReadError(xmpFile, err)
		}
	} else {
		packet = findPacket(data)
	}

	xmp := make(media.RawTags)
	if len(packet) > 0 {
		xmp, err = ParseXMP(packet)
		if err != nil {
			if xmpFile != "" {
				return nil, ReadError(xmpFile, err)
			}
			slog.Warn("Ignoring malformed XMP packet", "path", path, "error", err)
			xmp = make(media.RawTags)
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	return merge(readExif(ext, data), xmp), nil
}

// readExif returns EXIF tags named as XMP properties.
func readExif(ext string, data []byte) []media.Tag {
	raw, err := structuredExif(ext, data)
	if err != nil || len(raw) == 0 {
		raw, err = exif.SearchAndExtractExif(data)
		if err != nil {
			if !errors.Is(err, exif.ErrNoExif) {
				slog.Debug("EXIF search failed", "error", err)
			}
			return nil
		}
	}

	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		slog.Debug("Cannot parse EXIF data", "error", err)
		return nil
	}

	seen := make(map[string]struct{})
	var res []media.Tag
	for _, v := range entries {
		if v.TagName == "" {
			continue
		}
		name := propertyName(v.TagName)
		if _, ok := seen[name]; ok {
			continue
		}
		val := strings.TrimSpace(strings.ReplaceAll(v.FormattedFirst, "\x00", ""))
		if val == "" {
			continue
		}
		seen[name] = struct{}{}
		res = append(res, media.Tag{Name: name, Value: exifValue(name, val)})
	}
	return res
}

// merge combines EXIF and XMP tags. EXIF tags with a property name that
// XMP provides as well are dropped.
func merge(exifTags []media.Tag, xmp media.RawTags) media.RawTags {
	res := make(media.RawTags, len(xmp)+1)
	names := make(map[string]struct{})
	for ns, ts := range xmp {
		res[ns] = ts
		for _, t := range ts {
			names[media.PropertyName(ns, t.Name)] = struct{}{}
		}
	}

	for _, t := range exifTags {
		if _, ok := names[t.Name]; ok {
			continue
		}
		res[ExifNamespace] = append(res[ExifNamespace], t)
	}
	return res
}

func findPacket(data []byte) []byte {
	start := bytes.Index(data, []byte("<x:xmpmeta"))
	if start < 0 {
		return nil
	}
	end := bytes.Index(data[start:], []byte("</x:xmpmeta>"))
	if end < 0 {
		return nil
	}
	return data[start : start+end+len("</x:xmpmeta>")]
}
