package iocatalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/phingest/phingest/pkg/ident"
	"github.com/phingest/phingest/pkg/media"
)

// column is a persisted field of the items table. Cast is appended to
// the placeholder on insert and applied to the column on select.
type column struct {
	name       string
	insertCast string
	selectCast string
}

// itemColumns is the complete list of columns written by WriteItem.
// Nothing outside this list reaches the items table.
var itemColumns = []column{
	{name: "identifier"},
	{name: "location"},
	{name: "capture_date", insertCast: "::text::date", selectCast: "::text"},
	{name: "capture_time", insertCast: "::text::time", selectCast: "::text"},
	{name: "export_date", insertCast: "::text::date", selectCast: "::text"},
	{name: "export_time", insertCast: "::text::time", selectCast: "::text"},
	{name: "shutter"},
	{name: "aperture"},
	{name: "focal_length"},
	{name: "focal_length_35"},
	{name: "camera_maker"},
	{name: "camera_model"},
	{name: "iso"},
	{name: "exposure_mode"},
	{name: "exposure_program"},
	{name: "metering_mode"},
	{name: "artist"},
	{name: "software"},
	{name: "content_type"},
	{name: "raw_filename"},
	{name: "filename"},
	{name: "checksum"},
}

func insertItemSQL() string {
	names := make([]string, len(itemColumns))
	vals := make([]string, len(itemColumns))
	for i, v := range itemColumns {
		names[i] = v.name
		vals[i] = fmt.Sprintf("$%d%s", i+1, v.insertCast)
	}
	return fmt.Sprintf(
		"INSERT INTO items (%s) VALUES (%s)",
		strings.Join(names, ", "), strings.Join(vals, ", "),
	)
}

// itemArgs returns insert arguments in the order of itemColumns.
// Empty strings become NULL.
func itemArgs(
	id ident.Identifier,
	location string,
	rec media.Record,
	checksum string,
) []any {
	return []any{
		id.String(),
		location,
		nullString(rec.CaptureDate()),
		nullString(rec.CaptureTime()),
		nullString(rec.ExportDate()),
		nullString(rec.ExportTime()),
		nullString(rec.Shutter),
		nullString(rec.Aperture),
		rec.FocalLength,
		rec.FocalLength35,
		nullString(rec.CameraMaker),
		nullString(rec.CameraModel),
		rec.ISO,
		rec.ExposureMode,
		rec.ExposureProgram,
		rec.MeteringMode,
		nullString(rec.Artist),
		nullString(rec.Software),
		nullString(rec.ContentType),
		nullString(rec.RawFilename),
		rec.Filename,
		nullString(checksum),
	}
}

func selectItemSQL() string {
	names := make([]string, 0, len(itemColumns)-1)
	for _, v := range itemColumns[1:] {
		names = append(names, v.name+v.selectCast)
	}
	return fmt.Sprintf(
		"SELECT %s FROM items WHERE identifier = $1",
		strings.Join(names, ", "),
	)
}

// itemRow receives columns of selectItemSQL.
type itemRow struct {
	location                      string
	captureDate, captureTime      *string
	exportDate, exportTime        *string
	shutter, aperture             *string
	focalLength, focalLength35    *int
	cameraMaker, cameraModel      *string
	iso, exposureMode             *int
	exposureProgram, meteringMode *int
	artist, software, contentType *string
	rawFilename                   *string
	filename                      string
	checksum                      *string
}

func (r *itemRow) dest() []any {
	return []any{
		&r.location,
		&r.captureDate, &r.captureTime, &r.exportDate, &r.exportTime,
		&r.shutter, &r.aperture, &r.focalLength, &r.focalLength35,
		&r.cameraMaker, &r.cameraModel,
		&r.iso, &r.exposureMode, &r.exposureProgram, &r.meteringMode,
		&r.artist, &r.software, &r.contentType,
		&r.rawFilename, &r.filename, &r.checksum,
	}
}

func (r *itemRow) record() media.Record {
	return media.Record{
		Captured:        joinDateTime(r.captureDate, r.captureTime),
		Exported:        joinDateTime(r.exportDate, r.exportTime),
		Shutter:         deref(r.shutter),
		Aperture:        deref(r.aperture),
		FocalLength:     r.focalLength,
		FocalLength35:   r.focalLength35,
		CameraMaker:     deref(r.cameraMaker),
		CameraModel:     deref(r.cameraModel),
		ISO:             r.iso,
		ExposureMode:    r.exposureMode,
		ExposureProgram: r.exposureProgram,
		MeteringMode:    r.meteringMode,
		Artist:          deref(r.artist),
		Software:        deref(r.software),
		ContentType:     deref(r.contentType),
		RawFilename:     deref(r.rawFilename),
		Filename:        r.filename,
	}
}

// joinDateTime rebuilds a moment from separate date and time columns.
// A missing time means midnight.
func joinDateTime(date, tm *string) *time.Time {
	if date == nil {
		return nil
	}
	s := *date + "T00:00:00"
	if tm != nil {
		s = *date + "T" + *tm
	}
	res, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return nil
	}
	return &res
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
