package media

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnlib"
)

// Tag is one raw (name, value) pair read from image metadata.
type Tag struct {
	Name  string
	Value string
}

// RawTags groups raw tags by namespace. The namespace is either an XMP
// namespace URI or a short group name such as "exif".
type RawTags map[string][]Tag

var (
	propertyRe = regexp.MustCompile(`^(.*:.+?)\b`)
	isoDateRe  = regexp.MustCompile(`^(\d{4}-\d\d-\d\dT\d\d:\d\d:\d\d)`)
)

// namespacePrefixes maps XMP namespace URIs to the prefixes used in
// property names. Longer URIs go first so that nested namespaces win.
var namespacePrefixes = []struct{ uri, prefix string }{
	{"http://ns.adobe.com/camera-raw-settings/1.0/", "crs"},
	{"http://ns.adobe.com/lightroom/1.0/", "lr"},
	{"http://ns.adobe.com/photoshop/1.0/", "photoshop"},
	{"http://purl.org/dc/elements/1.1/", "dc"},
	{"http://ns.adobe.com/exif/1.0/aux/", "aux"},
	{"http://ns.adobe.com/xap/1.0/mm/", "xmpMM"},
	{"http://ns.adobe.com/exif/1.0/", "exif"},
	{"http://ns.adobe.com/tiff/1.0/", "tiff"},
	{"http://ns.adobe.com/xap/1.0/", "xmp"},
}

type kind int

const (
	kindString kind = iota
	kindDate
	kindInt
	kindFloat
	kindBool
)

var coercion = func() map[string]kind {
	res := make(map[string]kind)
	for _, v := range []string{
		"exif:DateTimeDigitized", "exif:DateTimeOriginal", "exif:DateTime",
		"xmp:CreateDate", "xmp:MetadataDate", "xmp:ModifyDate",
	} {
		res[v] = kindDate
	}
	for _, v := range []string{
		"crs:BlueHue", "crs:BlueSaturation", "crs:Brightness",
		"crs:ChromaticAberrationB", "crs:ChromaticAberrationR",
		"crs:ColorNoiseReduction", "crs:Contrast", "crs:CropUnits",
		"crs:GreenHue", "crs:GreenSaturation", "crs:LuminanceSmoothing",
		"crs:RedHue", "crs:RedSaturation", "crs:Saturation", "crs:Shadows",
		"crs:ShadowTint", "crs:Sharpness", "crs:Temperature", "crs:Tint",
		"crs:VignetteAmount", "crs:VignetteMidpoint",
		"exif:Contrast", "exif:CustomRendered", "exif:ExposureMode",
		"exif:ExposureProgram", "exif:FileSource", "exif:FocalLengthIn35mmFilm",
		"exif:FocalPlaneResolutionUnit", "exif:GainControl",
		"exif:ISOSpeedRatings", "exif:LightSource", "exif:MeteringMode",
		"exif:SceneCaptureType", "exif:SceneType", "exif:SensingMethod",
		"exif:Sharpness", "exif:SubjectArea", "exif:SubjectDistanceRange",
		"exif:SubjectLocation", "exif:WhiteBalance", "exif:GPSAltitudeRef",
		"exif:GPSDifferential",
	} {
		res[v] = kindInt
	}
	for _, v := range []string{
		"crs:CropTop", "crs:CropLeft", "crs:CropBottom", "crs:CropRight",
		"crs:CropAngle", "crs:CropWidth", "crs:CropHeight", "crs:Exposure",
		"crs:Exposure2012",
	} {
		res[v] = kindFloat
	}
	for _, v := range []string{
		"crs:AutoBrightness", "crs:AutoContrast", "crs:AutoExposure",
		"crs:AutoShadows", "crs:HasCrop", "crs:HasSettings",
		"crs:AlreadyApplied",
	} {
		res[v] = kindBool
	}
	return res
}()

// Attributes is a flat map of normalized property names to coerced
// values: time.Time, int, float64, bool or string.
type Attributes map[string]any

// Flatten normalizes property names, drops empty values and applies the
// coercion table. Values that cannot be coerced are dropped. When the
// same property appears more than once, the first occurrence wins, with
// namespaces visited in sorted order.
func Flatten(raw RawTags) Attributes {
	res := make(Attributes)
	for _, ns := range slices.Sorted(maps.Keys(raw)) {
		for _, tag := range raw[ns] {
			name := PropertyName(ns, tag.Name)
			if name == "" {
				continue
			}
			if _, ok := res[name]; ok {
				continue
			}
			val := strings.TrimSpace(tag.Value)
			if val == "" {
				continue
			}
			if v, ok := Coerce(name, val); ok {
				res[name] = v
			}
		}
	}
	return res
}

// PropertyName returns "prefix:Name" for a raw tag name. Names qualified
// with a namespace URI get the known short prefix, bare names get the
// prefix of their namespace. Array indexes and qualifiers are removed:
// "dc:creator[1]" becomes "dc:creator".
func PropertyName(ns, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	for _, v := range namespacePrefixes {
		if strings.HasPrefix(name, v.uri) {
			name = v.prefix + ":" + strings.TrimPrefix(name, v.uri)
			break
		}
	}
	if !strings.Contains(name, ":") {
		name = NamespacePrefix(ns) + ":" + name
	}
	m := propertyRe.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	return m[1]
}

// NamespacePrefix returns the short prefix of a namespace URI. Unknown
// namespaces are returned unchanged.
func NamespacePrefix(ns string) string {
	for _, v := range namespacePrefixes {
		if v.uri == ns {
			return v.prefix
		}
	}
	return ns
}

// Coerce converts a raw value according to the coercion table.
// It returns false if the value does not fit the expected type.
func Coerce(name, val string) (any, bool) {
	switch coercion[name] {
	case kindDate:
		m := isoDateRe.FindStringSubmatch(val)
		if m == nil {
			return nil, false
		}
		t, err := time.Parse("2006-01-02T15:04:05", m[1])
		if err != nil {
			return nil, false
		}
		return t, true
	case kindInt:
		i, err := strconv.Atoi(val)
		if err != nil {
			return nil, false
		}
		return i, true
	case kindFloat:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case kindBool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, false
		}
		return b, true
	default:
		return val, true
	}
}

// Extract builds a Record from raw tags. The record always carries
// filename. If raw holds no usable tags at all, the sparse record is
// returned together with an ExtractionIncomplete error. A single
// malformed field never causes an error, the field stays unset.
func Extract(raw RawTags, filename string) (Record, error) {
	attrs := Flatten(raw)
	res := Record{Filename: filename}
	if len(attrs) == 0 {
		return res, ExtractionIncompleteError(filename)
	}

	res.Captured = firstTime(attrs, "xmp:CreateDate", "exif:DateTimeOriginal")
	res.Exported = firstTime(attrs, "xmp:ModifyDate", "exif:DateTime")

	res.Shutter = str(attrs, "exif:ExposureTime")
	if s := str(attrs, "exif:FNumber"); s != "" {
		res.Aperture = strings.Split(s, "/")[0]
	}
	res.FocalLength = rationalInt(str(attrs, "exif:FocalLength"))
	res.FocalLength35 = integer(attrs, "exif:FocalLengthIn35mmFilm")
	res.ISO = integer(attrs, "exif:ISOSpeedRatings")
	res.ExposureMode = integer(attrs, "exif:ExposureMode")
	res.ExposureProgram = integer(attrs, "exif:ExposureProgram")
	res.MeteringMode = integer(attrs, "exif:MeteringMode")

	res.CameraMaker = str(attrs, "tiff:Make")
	res.CameraModel = str(attrs, "tiff:Model")
	res.Artist = str(attrs, "dc:creator")
	res.Software = str(attrs, "xmp:CreatorTool")
	res.ContentType = str(attrs, "dc:format")
	res.RawFilename = str(attrs, "crs:RawFileName")
	return res, nil
}

func firstTime(attrs Attributes, names ...string) *time.Time {
	for _, name := range names {
		if t, ok := attrs[name].(time.Time); ok {
			return &t
		}
	}
	return nil
}

// str returns a text attribute. EXIF ASCII fields written by some
// cameras carry Latin-1 bytes, PostgreSQL text columns reject them.
func str(attrs Attributes, name string) string {
	s, _ := attrs[name].(string)
	if s == "" {
		return s
	}
	return gnlib.FixUtf8(s)
}

func integer(attrs Attributes, name string) *int {
	if i, ok := attrs[name].(int); ok {
		return &i
	}
	return nil
}

// rationalInt returns integer division of a "num/den" string.
func rationalInt(s string) *int {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return nil
	}
	num, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	den, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || den == 0 {
		return nil
	}
	res := num / den
	return &res
}
