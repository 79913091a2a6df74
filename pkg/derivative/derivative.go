// Package derivative describes renditions generated from primary assets:
// output specs, the resize policy and the information recorded for every
// generated rendition.
package derivative

import (
	"fmt"
	"math"
	"strings"
)

// Purpose tells where a rendition is meant to be used.
type Purpose string

const (
	Thumbnail Purpose = "thumbnail"
	Preview   Purpose = "preview"
	View      Purpose = "view"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case Thumbnail, Preview, View:
		return true
	}
	return false
}

// Spec describes one rendition. Zero Width or Height means "not given".
type Spec struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Quality int     `yaml:"quality"`
	Purpose Purpose `yaml:"purpose"`
}

// Options is an ordered list of specs with a global output format.
type Options struct {
	// Format is "jpg" or "png".
	Format string `yaml:"format"`
	Specs  []Spec `yaml:"outputs"`
}

// DefaultOptions returns the default rendition set: two thumbnails, one
// preview and three views, the last one at original size.
func DefaultOptions(format string, quality int) Options {
	return Options{
		Format: format,
		Specs: []Spec{
			{Width: 250, Quality: quality, Purpose: Thumbnail},
			{Width: 500, Quality: quality, Purpose: Thumbnail},
			{Width: 750, Quality: quality, Purpose: Preview},
			{Width: 1000, Quality: quality, Purpose: View},
			{Width: 2000, Quality: quality, Purpose: View},
			{Quality: quality, Purpose: View},
		},
	}
}

// Info describes a generated rendition.
type Info struct {
	Width       int
	Height      int
	ContentType string
	// SizeKB is the encoded size in kilobytes, truncated.
	SizeKB  int
	Purpose Purpose
}

// Output is one encoded rendition.
type Output struct {
	Data []byte
	Info Info
}

// Extension returns the file extension for the content type,
// "jpeg" for "image/jpeg".
func (i Info) Extension() string {
	_, sub, ok := strings.Cut(i.ContentType, "/")
	if !ok {
		return "bin"
	}
	return sub
}

// Key builds the storage key of a rendition: "{base}_w{width}.{ext}".
func Key(base string, info Info) string {
	return fmt.Sprintf("%s_w%d.%s", base, info.Width, info.Extension())
}

// Dimensions applies the resize policy. With only width given, height is
// scaled proportionally as round(h * width / w), and the other way round
// for height. Without both the original size is kept, with both the exact
// size is used. Computed sides are never smaller than 1.
func Dimensions(w, h int, spec Spec) (int, int) {
	switch {
	case spec.Width > 0 && spec.Height > 0:
		return spec.Width, spec.Height
	case spec.Width > 0:
		return spec.Width, scale(h, spec.Width, w)
	case spec.Height > 0:
		return scale(w, spec.Height, h), spec.Height
	default:
		return w, h
	}
}

func scale(side, target, base int) int {
	if base == 0 {
		return 1
	}
	res := int(math.Round(float64(side) * float64(target) / float64(base)))
	return max(res, 1)
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) (string, bool) {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "image/jpeg", true
	case "png":
		return "image/png", true
	}
	return "", false
}

// Record is the catalog row of a stored rendition.
type Record struct {
	// Identifier of the source item, as "prefix/suffix".
	Identifier string
	// Key is the storage key of the rendition.
	Key string
	// Location is the public URL of the rendition.
	Location string
	Info
}
