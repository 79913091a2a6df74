package media

import "time"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Record holds attributes derived from embedded tags of one source item.
// Only Filename is required. A Record is built once by Extract and is
// passed around by value; it is not persisted by itself, its fields are
// flattened into catalog rows.
type Record struct {
	// Captured is the moment the photo was taken.
	Captured *time.Time
	// Exported is the moment the photo was last modified or exported.
	Exported *time.Time

	// Shutter is the exposure time as a rational string, e.g. "1/250".
	Shutter string
	// Aperture is the numerator of the stored F-number rational.
	Aperture string
	// FocalLength in millimeters.
	FocalLength *int
	// FocalLength35 is the 35mm equivalent focal length.
	FocalLength35 *int

	CameraMaker string
	CameraModel string

	ISO             *int
	ExposureMode    *int
	ExposureProgram *int
	MeteringMode    *int

	Artist      string
	Software    string
	ContentType string

	// RawFilename is the name of the original raw file the photo was
	// developed from.
	RawFilename string
	// Filename is the base name of the ingested file.
	Filename string
}

// CaptureDate returns capture date as YYYY-MM-DD or an empty string.
func (r Record) CaptureDate() string {
	return format(r.Captured, dateLayout)
}

// CaptureTime returns capture time as HH:MM:SS or an empty string.
func (r Record) CaptureTime() string {
	return format(r.Captured, timeLayout)
}

// ExportDate returns export date as YYYY-MM-DD or an empty string.
func (r Record) ExportDate() string {
	return format(r.Exported, dateLayout)
}

// ExportTime returns export time as HH:MM:SS or an empty string.
func (r Record) ExportTime() string {
	return format(r.Exported, timeLayout)
}

func format(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}
