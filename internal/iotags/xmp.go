package iotags

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/phingest/phingest/pkg/media"
)

const rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// ParseXMP reads properties of all rdf:Description elements of an XMP
// packet. Tags are grouped by namespace URI and carry bare property names.
// Arrays give their first item.
func ParseXMP(packet []byte) (media.RawTags, error) {
	res := make(media.RawTags)
	dec := xml.NewDecoder(bytes.NewReader(packet))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Space != rdfNS || se.Name.Local != "Description" {
			continue
		}
		for _, a := range se.Attr {
			add(res, a.Name, a.Value)
		}
		if err = readDescription(dec, res); err != nil {
			return nil, err
		}
	}
}

func readDescription(dec *xml.Decoder, res media.RawTags) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			val, err := readValue(dec)
			if err != nil {
				return err
			}
			add(res, t.Name, val)
		case xml.EndElement:
			return nil
		}
	}
}

// readValue consumes a property element and returns its first non-empty
// text.
func readValue(dec *xml.Decoder) (string, error) {
	var res string
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if res == "" {
				res = strings.TrimSpace(string(t))
			}
		}
	}
	return res, nil
}

func add(res media.RawTags, name xml.Name, val string) {
	switch {
	case name.Space == "", name.Space == rdfNS, name.Space == "xmlns",
		name.Local == "xmlns", val == "":
		return
	}
	res[name.Space] = append(res[name.Space],
		media.Tag{Name: name.Local, Value: val})
}
