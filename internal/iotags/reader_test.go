package iotags_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phingest/phingest/internal/iotags"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/phingest/phingest/pkg/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packet = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:xmp="http://ns.adobe.com/xap/1.0/"
    xmlns:dc="http://purl.org/dc/elements/1.1/"
    xmlns:crs="http://ns.adobe.com/camera-raw-settings/1.0/"
    xmlns:exif="http://ns.adobe.com/exif/1.0/"
    xmp:CreateDate="2023-05-01T14:03:22.50+02:00"
    xmp:CreatorTool="Lightroom"
    dc:format="image/jpeg"
    crs:RawFileName="DSC_0001.NEF"
    exif:ISOSpeedRatings="400">
   <dc:creator>
    <rdf:Seq>
     <rdf:li>Jane Doe</rdf:li>
     <rdf:li>John Roe</rdf:li>
    </rdf:Seq>
   </dc:creator>
   <exif:FNumber>28/10</exif:FNumber>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`

func TestParseXMP(t *testing.T) {
	raw, err := iotags.ParseXMP([]byte(packet))
	require.NoError(t, err)

	dc := raw["http://purl.org/dc/elements/1.1/"]
	assert.Contains(t, dc, media.Tag{Name: "creator", Value: "Jane Doe"})
	assert.Contains(t, dc, media.Tag{Name: "format", Value: "image/jpeg"})
	assert.NotContains(t, raw, "http://www.w3.org/1999/02/22-rdf-syntax-ns#")

	rec, err := media.Extract(raw, "DSC_0001.jpg")
	require.NoError(t, err)
	assert.Equal(t, "2023-05-01", rec.CaptureDate())
	assert.Equal(t, "14:03:22", rec.CaptureTime())
	assert.Equal(t, "Jane Doe", rec.Artist)
	assert.Equal(t, "Lightroom", rec.Software)
	assert.Equal(t, "DSC_0001.NEF", rec.RawFilename)
	assert.Equal(t, "28", rec.Aperture)
	require.NotNil(t, rec.ISO)
	assert.Equal(t, 400, *rec.ISO)

	_, err = iotags.ParseXMP([]byte("<x:xmpmeta><rdf:RDF>"))
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	r := iotags.New()

	path := filepath.Join(dir, "photo.bin")
	content := "binary prefix\n" + packet + "\ntrailer"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	raw, err := r.ReadFile(path, "")
	require.NoError(t, err)
	rec, err := media.Extract(raw, "photo.bin")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", rec.Artist)

	t.Run("sidecar replaces embedded packet", func(t *testing.T) {
		sidecar := filepath.Join(dir, "photo.xmp")
		side := `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/">
   <dc:creator><rdf:Seq><rdf:li>Sidecar Author</rdf:li></rdf:Seq></dc:creator>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`
		require.NoError(t, os.WriteFile(sidecar, []byte(side), 0644))

		raw, err := r.ReadFile(path, sidecar)
		require.NoError(t, err)
		rec, err := media.Extract(raw, "photo.bin")
		require.NoError(t, err)
		assert.Equal(t, "Sidecar Author", rec.Artist)
		assert.Nil(t, rec.Captured)
	})

	t.Run("malformed sidecar", func(t *testing.T) {
		sidecar := filepath.Join(dir, "bad.xmp")
		require.NoError(t, os.WriteFile(sidecar, []byte("<x:xmpmeta>"), 0644))
		_, err := r.ReadFile(path, sidecar)
		assert.True(t, errcode.Is(err, errcode.TagReadError))
	})

	t.Run("no metadata", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.bin")
		require.NoError(t, os.WriteFile(empty, []byte("nothing here"), 0644))
		raw, err := r.ReadFile(empty, "")
		require.NoError(t, err)
		assert.Empty(t, raw)

		_, err = media.Extract(raw, "empty.bin")
		assert.True(t, errcode.Is(err, errcode.ExtractionIncompleteError))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := r.ReadFile(filepath.Join(dir, "none.jpg"), "")
		assert.True(t, errcode.Is(err, errcode.TagReadError))
	})

	t.Run("bytes in memory", func(t *testing.T) {
		// path does not exist, only data is read
		gone := filepath.Join(dir, "gone.bin")
		raw, err := r.Read(gone, []byte(content), "")
		require.NoError(t, err)
		rec, err := media.Extract(raw, "gone.bin")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", rec.Artist)
	})
}
