package ioingest

import (
	"path/filepath"
	"strings"
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// contentTypeOf guesses the MIME type of a source file by its extension.
func contentTypeOf(path string) string {
	if res, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return res
	}
	return "application/octet-stream"
}
