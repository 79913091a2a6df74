package derivative

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
	"gopkg.in/yaml.v3"
)

// ParseProfile reads rendition options from YAML:
//
//	format: jpg
//	outputs:
//	  - width: 400
//	    quality: 80
//	    purpose: thumbnail
//	  - purpose: view
//
// Missing format and quality values are taken from defaults.
func ParseProfile(data []byte, defaults Options, quality int) (Options, error) {
	var res Options
	if err := yaml.Unmarshal(data, &res); err != nil {
		return Options{}, ProfileError(err)
	}
	if res.Format == "" {
		res.Format = defaults.Format
	}
	if _, ok := ContentType(res.Format); !ok {
		return Options{}, ProfileError(
			fmt.Errorf("unsupported output format %q", res.Format),
		)
	}
	if len(res.Specs) == 0 {
		return Options{}, ProfileError(fmt.Errorf("no outputs"))
	}
	for i := range res.Specs {
		s := &res.Specs[i]
		if s.Quality == 0 {
			s.Quality = quality
		}
		if s.Purpose == "" {
			s.Purpose = View
		}
		if !s.Purpose.Valid() {
			return Options{}, ProfileError(
				fmt.Errorf("output %d: unknown purpose %q", i+1, s.Purpose),
			)
		}
		if s.Width < 0 || s.Height < 0 || s.Quality < 1 || s.Quality > 100 {
			return Options{}, ProfileError(
				fmt.Errorf("output %d: invalid size or quality", i+1),
			)
		}
	}
	return res, nil
}

func ProfileError(err error) error {
	msg := "Cannot use rendition profile: %s"
	vars := []any{err.Error()}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ProfileReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
