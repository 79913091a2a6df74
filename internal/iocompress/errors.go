package iocompress

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

// UnsupportedFormatError is returned for unknown source or output formats.
func UnsupportedFormatError(format string) error {
	msg := `Image format <em>%s</em> is not supported

Renditions can be encoded as <em>jpg</em> or <em>png</em>`
	vars := []any{format}

	return &gn.Error{
		Code: errcode.UnsupportedFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported image format %q", format),
	}
}

// DecodeError is returned when a source image is corrupted.
func DecodeError(err error) error {
	msg := "Cannot decode image"

	return &gn.Error{
		Code: errcode.DecodeImageError,
		Msg:  msg,
		Err:  fmt.Errorf("decode: %w", err),
	}
}

// EncodeError is returned when a rendition cannot be encoded.
func EncodeError(w, h int, err error) error {
	msg := "Cannot encode rendition %dx%d"
	vars := []any{w, h}

	return &gn.Error{
		Code: errcode.EncodeImageError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("encode %dx%d: %w", w, h, err),
	}
}
