package iotags

import (
	"bytes"
	"io"
	"time"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure"
	pngstructure "github.com/dsoprea/go-png-image-structure"
	tiffstructure "github.com/dsoprea/go-tiff-image-structure"
)

const (
	exifLayout = "2006:01:02 15:04:05"
	isoLayout  = "2006-01-02T15:04:05"
)

// tiffTags are IFD0 tags that XMP keeps in the tiff namespace.
var tiffTags = map[string]struct{}{
	"Make": {}, "Model": {}, "Orientation": {}, "ImageWidth": {},
	"ImageLength": {}, "BitsPerSample": {}, "Compression": {},
	"XResolution": {}, "YResolution": {}, "ResolutionUnit": {},
}

// renamed are EXIF tags that XMP keeps under other properties.
var renamed = map[string]string{
	"Artist":   "dc:creator",
	"Software": "xmp:CreatorTool",
}

var exifDates = map[string]struct{}{
	"exif:DateTime":          {},
	"exif:DateTimeOriginal":  {},
	"exif:DateTimeDigitized": {},
}

// structuredExif extracts the raw EXIF block using the parser of the
// container format. Formats without a parser give nil.
func structuredExif(ext string, data []byte) ([]byte, error) {
	rs := bytes.NewReader(data)
	size := len(data)
	switch ext {
	case ".jpg", ".jpeg":
		return jpegExif(rs, size)
	case ".png":
		return pngExif(rs, size)
	case ".tif", ".tiff":
		return tiffExif(rs, size)
	}
	return nil, nil
}

func jpegExif(rs io.ReadSeeker, size int) ([]byte, error) {
	mc, err := jpegstructure.NewJpegMediaParser().Parse(rs, size)
	if err != nil {
		return nil, err
	}
	_, res, err := mc.Exif()
	return res, err
}

func pngExif(rs io.ReadSeeker, size int) ([]byte, error) {
	mc, err := pngstructure.NewPngMediaParser().Parse(rs, size)
	if err != nil {
		return nil, err
	}
	_, res, err := mc.Exif()
	return res, err
}

func tiffExif(rs io.ReadSeeker, size int) ([]byte, error) {
	mc, err := tiffstructure.NewTiffMediaParser().Parse(rs, size)
	if err != nil {
		return nil, err
	}
	_, res, err := mc.Exif()
	return res, err
}

// propertyName maps an EXIF tag name to the XMP property that carries
// the same value.
func propertyName(tag string) string {
	if res, ok := renamed[tag]; ok {
		return res
	}
	if _, ok := tiffTags[tag]; ok {
		return "tiff:" + tag
	}
	return "exif:" + tag
}

// exifValue rewrites EXIF timestamps to the ISO form used by XMP.
func exifValue(name, val string) string {
	if _, ok := exifDates[name]; !ok {
		return val
	}
	t, err := time.Parse(exifLayout, val)
	if err != nil {
		return val
	}
	return t.Format(isoLayout)
}
