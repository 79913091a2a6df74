package iotags

import (
	"testing"

	"github.com/phingest/phingest/pkg/media"
	"github.com/stretchr/testify/assert"
)

func TestPropertyName(t *testing.T) {
	tests := []struct {
		tag, exp string
	}{
		{"Make", "tiff:Make"},
		{"Model", "tiff:Model"},
		{"Artist", "dc:creator"},
		{"Software", "xmp:CreatorTool"},
		{"DateTimeOriginal", "exif:DateTimeOriginal"},
		{"ISOSpeedRatings", "exif:ISOSpeedRatings"},
	}
	for _, v := range tests {
		assert.Equal(t, v.exp, propertyName(v.tag), v.tag)
	}
}

func TestExifValue(t *testing.T) {
	assert.Equal(t, "2023-05-01T14:03:22",
		exifValue("exif:DateTimeOriginal", "2023:05:01 14:03:22"))
	assert.Equal(t, "0000:00:00 00:00:00",
		exifValue("exif:DateTime", "0000:00:00 00:00:00"))
	assert.Equal(t, "1/250", exifValue("exif:ExposureTime", "1/250"))
}

func TestMerge(t *testing.T) {
	exifTags := []media.Tag{
		{Name: "dc:creator", Value: "Camera Owner"},
		{Name: "tiff:Make", Value: "NIKON"},
	}
	xmp := media.RawTags{
		"http://purl.org/dc/elements/1.1/": {{Name: "creator", Value: "Jane"}},
	}

	res := merge(exifTags, xmp)
	assert.Equal(t, []media.Tag{{Name: "tiff:Make", Value: "NIKON"}},
		res[ExifNamespace])

	rec, err := media.Extract(res, "a.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "Jane", rec.Artist)
	assert.Equal(t, "NIKON", rec.CameraMaker)
}

func TestFindPacket(t *testing.T) {
	data := []byte("abc<x:xmpmeta a='1'>x</x:xmpmeta>def")
	assert.Equal(t, "<x:xmpmeta a='1'>x</x:xmpmeta>", string(findPacket(data)))
	assert.Nil(t, findPacket([]byte("<x:xmpmeta>")))
	assert.Nil(t, findPacket([]byte("plain")))
}
