package media_test

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTags() media.RawTags {
	return media.RawTags{
		"http://ns.adobe.com/xap/1.0/": {
			{Name: "xmp:CreateDate", Value: "2023-05-01T10:20:30.45+02:00"},
			{Name: "xmp:ModifyDate", Value: "2023-05-03T08:00:00"},
			{Name: "xmp:CreatorTool", Value: "Darktable 4.4"},
		},
		"http://ns.adobe.com/exif/1.0/": {
			{Name: "exif:ExposureTime", Value: "1/250"},
			{Name: "exif:FNumber", Value: "8/1"},
			{Name: "exif:FocalLength", Value: "355/10"},
			{Name: "exif:FocalLengthIn35mmFilm", Value: "50"},
			{Name: "exif:ISOSpeedRatings[1]", Value: "400"},
			{Name: "exif:ExposureMode", Value: "0"},
			{Name: "exif:ExposureProgram", Value: "3"},
			{Name: "exif:MeteringMode", Value: "5"},
		},
		"http://ns.adobe.com/tiff/1.0/": {
			{Name: "tiff:Make", Value: "FUJIFILM"},
			{Name: "tiff:Model", Value: "X-T3"},
		},
		"http://purl.org/dc/elements/1.1/": {
			{Name: "dc:creator[1]", Value: "Jane Roe"},
			{Name: "dc:format", Value: "image/jpeg"},
		},
		"http://ns.adobe.com/camera-raw-settings/1.0/": {
			{Name: "crs:RawFileName", Value: "DSCF0001.RAF"},
			{Name: "crs:HasCrop", Value: "True"},
		},
	}
}

func TestExtract(t *testing.T) {
	rec, err := media.Extract(sampleTags(), "IMG_001.JPG")
	require.NoError(t, err)

	assert.Equal(t, "IMG_001.JPG", rec.Filename)
	assert.Equal(t, "2023-05-01", rec.CaptureDate())
	assert.Equal(t, "10:20:30", rec.CaptureTime())
	assert.Equal(t, "2023-05-03", rec.ExportDate())
	assert.Equal(t, "08:00:00", rec.ExportTime())
	assert.Equal(t, "1/250", rec.Shutter)
	assert.Equal(t, "8", rec.Aperture)
	require.NotNil(t, rec.FocalLength)
	assert.Equal(t, 35, *rec.FocalLength)
	require.NotNil(t, rec.FocalLength35)
	assert.Equal(t, 50, *rec.FocalLength35)
	require.NotNil(t, rec.ISO)
	assert.Equal(t, 400, *rec.ISO)
	require.NotNil(t, rec.ExposureMode)
	assert.Equal(t, 0, *rec.ExposureMode)
	require.NotNil(t, rec.ExposureProgram)
	assert.Equal(t, 3, *rec.ExposureProgram)
	require.NotNil(t, rec.MeteringMode)
	assert.Equal(t, 5, *rec.MeteringMode)
	assert.Equal(t, "FUJIFILM", rec.CameraMaker)
	assert.Equal(t, "X-T3", rec.CameraModel)
	assert.Equal(t, "Jane Roe", rec.Artist)
	assert.Equal(t, "Darktable 4.4", rec.Software)
	assert.Equal(t, "image/jpeg", rec.ContentType)
	assert.Equal(t, "DSCF0001.RAF", rec.RawFilename)
}

func TestExtractInvalidUTF8(t *testing.T) {
	raw := media.RawTags{
		"http://ns.adobe.com/tiff/1.0/": {
			{Name: "tiff:Make", Value: "Caf\xe9 Optics"},
		},
	}
	rec, err := media.Extract(raw, "a.jpg")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(rec.CameraMaker), rec.CameraMaker)
	assert.Contains(t, rec.CameraMaker, "Optics")
}

func TestExtractDeterministic(t *testing.T) {
	raw := sampleTags()
	first, err := media.Extract(raw, "a.jpg")
	require.NoError(t, err)
	for range 20 {
		rec, err := media.Extract(raw, "a.jpg")
		require.NoError(t, err)
		assert.Equal(t, first, rec)
	}
}

func TestExtractMalformedFields(t *testing.T) {
	raw := media.RawTags{
		"exif": {
			{Name: "FocalLength", Value: "50/0"},
			{Name: "ISOSpeedRatings", Value: "high"},
			{Name: "ExposureTime", Value: ""},
		},
		"xmp": {
			{Name: "CreateDate", Value: "2023-13-45T10:00:00"},
			{Name: "ModifyDate", Value: "May 1st"},
			{Name: "CreatorTool", Value: "tool"},
		},
	}
	rec, err := media.Extract(raw, "b.jpg")
	require.NoError(t, err)
	assert.Nil(t, rec.FocalLength)
	assert.Nil(t, rec.ISO)
	assert.Nil(t, rec.Captured)
	assert.Nil(t, rec.Exported)
	assert.Empty(t, rec.Shutter)
	assert.Equal(t, "tool", rec.Software)
}

func TestExtractCaptureFallback(t *testing.T) {
	raw := media.RawTags{
		"exif": {
			{Name: "DateTimeOriginal", Value: "2020-02-29T23:59:59"},
			{Name: "DateTime", Value: "2021-01-01T00:00:00"},
		},
	}
	rec, err := media.Extract(raw, "c.jpg")
	require.NoError(t, err)
	assert.Equal(t, "2020-02-29", rec.CaptureDate())
	assert.Equal(t, "2021-01-01", rec.ExportDate())
}

func TestExtractNoMetadata(t *testing.T) {
	tests := []struct {
		msg string
		raw media.RawTags
	}{
		{"nil", nil},
		{"empty", media.RawTags{}},
		{"only empty values", media.RawTags{"xmp": {{Name: "Rating", Value: " "}}}},
	}

	for _, v := range tests {
		rec, err := media.Extract(v.raw, "d.jpg")
		require.Error(t, err, v.msg)
		assert.True(t, errcode.Is(err, errcode.ExtractionIncompleteError), v.msg)
		assert.Equal(t, media.Record{Filename: "d.jpg"}, rec, v.msg)
	}
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		ns, name, res string
	}{
		{"http://purl.org/dc/elements/1.1/", "dc:creator[1]", "dc:creator"},
		{"", "http://ns.adobe.com/exif/1.0/FNumber", "exif:FNumber"},
		{"", "http://ns.adobe.com/exif/1.0/aux/Lens", "aux:Lens"},
		{"http://ns.adobe.com/xap/1.0/", "CreateDate", "xmp:CreateDate"},
		{"exif", "Make", "exif:Make"},
		{"exif", "", ""},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, media.PropertyName(v.ns, v.name), v.name)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name, val string
		res       any
		ok        bool
	}{
		{"xmp:CreateDate", "2023-05-01T10:20:30",
			time.Date(2023, 5, 1, 10, 20, 30, 0, time.UTC), true},
		{"xmp:CreateDate", "2023-05-01", nil, false},
		{"exif:ISOSpeedRatings", "200", 200, true},
		{"crs:Temperature", "+5", 5, true},
		{"crs:CropTop", "0.25", 0.25, true},
		{"crs:HasCrop", "False", false, true},
		{"crs:HasCrop", "maybe", nil, false},
		{"tiff:Make", "Canon", "Canon", true},
	}

	for _, v := range tests {
		res, ok := media.Coerce(v.name, v.val)
		assert.Equal(t, v.ok, ok, v.name+" "+v.val)
		assert.Equal(t, v.res, res, v.name+" "+v.val)
	}
}

func TestKindFor(t *testing.T) {
	k, ok := media.KindFor("/photos/IMG_001.JPG")
	require.True(t, ok)
	assert.Equal(t, "photo", k.Name())
	assert.Equal(t, "P", k.SuffixLetter())
	assert.Equal(t, "view", k.ViewPath())

	_, ok = media.KindFor("notes.txt")
	assert.False(t, ok)
	assert.Contains(t, media.Extensions(), ".jpeg")
}
