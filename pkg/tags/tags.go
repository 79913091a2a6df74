// Package tags normalizes user supplied tag names into tag ids shared by
// the catalog and the dataset mirror.
package tags

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gnames/gnuuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// Prefix starts every tag id.
	Prefix = "tag_"

	// MaxIDLength is the longest tag id accepted by the catalog.
	MaxIDLength = 64
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen     = regexp.MustCompile(`-{2,}`)
)

// Tag is a label attached to catalog items.
type Tag struct {
	// ID is Prefix followed by the slug of Name, with a name-derived
	// suffix when the slug drops characters.
	ID string
	// Name is the label as the user typed it.
	Name string
}

// New creates a Tag from a user supplied name. Names that already carry
// the prefix keep it only once.
//
// A slug that loses letters or digits of the name (non-Latin scripts,
// letters such as "ß") is not unique enough, so the id gets a suffix
// derived from the name: "夜 night" becomes "tag_night-xxxxxxxx", and
// "東京", with an empty slug, becomes "tag_" followed by a name UUID.
func New(name string) (Tag, error) {
	name = strings.TrimSpace(name)
	base := strings.TrimPrefix(name, Prefix)
	slug := Slug(base)
	lossy := dropsCharacters(base)
	if slug == "" && !lossy {
		return Tag{}, InvalidError(name)
	}

	id := Prefix + slug
	if lossy {
		key := gnuuid.New(norm.NFC.String(strings.ToLower(base))).String()
		if slug == "" {
			id = Prefix + key
		} else {
			id = Prefix + slug + "-" + key[:8]
		}
	}
	res := Tag{ID: id, Name: base}
	if err := Check(res.ID); err != nil {
		return Tag{}, err
	}
	return res, nil
}

// FromNames converts names to tags, removing duplicate ids and keeping the
// original order. The first invalid name aborts conversion.
func FromNames(names []string) ([]Tag, error) {
	seen := make(map[string]struct{})
	var res []Tag
	for _, v := range names {
		t, err := New(v)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		res = append(res, t)
	}
	return res, nil
}

// Check rejects ids that are longer than MaxIDLength.
func Check(id string) error {
	if len(id) > MaxIDLength {
		return TooLongError(id)
	}
	return nil
}

// Slug lower-cases s, strips accents and replaces everything that is not
// an ASCII letter or digit with single hyphens.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	res, _, _ := transform.String(t, s)
	res = strings.ToLower(res)
	res = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, res)
	res = nonAlphanumeric.ReplaceAllString(res, "-")
	res = multiHyphen.ReplaceAllString(res, "-")
	return strings.Trim(res, "-")
}

// dropsCharacters reports whether Slug discards a letter or a digit of s.
func dropsCharacters(s string) bool {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	res, _, _ := transform.String(t, s)
	for _, r := range strings.ToLower(res) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return true
		}
	}
	return false
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
