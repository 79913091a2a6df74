// Package iocompress generates renditions of primary assets. Renditions
// of one image are encoded concurrently, their order follows the order
// of output specs.
package iocompress

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	// decoders of source formats
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/derivative"
	"github.com/phingest/phingest/pkg/lifecycle"
	"golang.org/x/sync/errgroup"
)

// Compressor encodes renditions with a bounded number of workers.
type Compressor struct {
	jobs int
}

var _ lifecycle.Compressor = (*Compressor)(nil)

// New creates a Compressor that runs up to jobs encoders at once.
func New(jobs int) *Compressor {
	return &Compressor{jobs: max(jobs, 1)}
}

// Compress resizes and encodes img once per spec.
func (c *Compressor) Compress(
	ctx context.Context,
	img image.Image,
	opts derivative.Options,
) ([]derivative.Output, error) {
	contentType, ok := derivative.ContentType(opts.Format)
	if !ok {
		return nil, UnsupportedFormatError(opts.Format)
	}

	b := img.Bounds()
	res := make([]derivative.Output, len(opts.Specs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)
	for i, spec := range opts.Specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, h := derivative.Dimensions(b.Dx(), b.Dy(), spec)
			data, err := encode(img, w, h, contentType, spec.Quality)
			if err != nil {
				return err
			}
			res[i] = derivative.Output{
				Data: data,
				Info: derivative.Info{
					Width:       w,
					Height:      h,
					ContentType: contentType,
					SizeKB:      len(data) / 1024,
					Purpose:     spec.Purpose,
				},
			}
			slog.Debug("Rendition encoded",
				"width", w, "height", h, "purpose", spec.Purpose)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func encode(
	img image.Image,
	w, h int,
	contentType string,
	quality int,
) ([]byte, error) {
	b := img.Bounds()
	if w != b.Dx() || h != b.Dy() {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	var err error
	switch contentType {
	case "image/png":
		err = imaging.Encode(&buf, img, imaging.PNG,
			imaging.PNGCompressionLevel(png.BestCompression))
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG,
			imaging.JPEGQuality(quality))
	}
	if err != nil {
		return nil, EncodeError(w, h, err)
	}
	return buf.Bytes(), nil
}

// Decode reads an image in any supported format and applies its EXIF
// orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if errors.Is(err, image.ErrFormat) {
		return nil, UnsupportedFormatError("unknown")
	}
	if err != nil {
		return nil, DecodeError(err)
	}
	return img, nil
}

// LoadOptions returns rendition options for the current settings: the
// default set, or the set described in the profile file.
func LoadOptions(cfg *config.Config) (derivative.Options, error) {
	defaults := derivative.DefaultOptions(
		cfg.Derivatives.Format, cfg.Derivatives.Quality,
	)
	if cfg.Ingest.Profile == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(cfg.Ingest.Profile)
	if err != nil {
		return derivative.Options{}, derivative.ProfileError(err)
	}
	return derivative.ParseProfile(data, defaults, cfg.Derivatives.Quality)
}
