package query

import (
	"errors"
	"net/url"
	"strings"

	"github.com/indigo-web/facet/kv"
)

var ErrBadQuery = errors.New("bad query")

// Parse parses a raw URL query into the storage, keeping the order in which parameters
// appear. Keys and values are percent-decoded, '+' stands for a space. A key without
// a value ("?flag") is stored with an empty value.
func Parse(raw string, into *kv.Storage) error {
	for len(raw) > 0 {
		var pair string
		if amp := strings.IndexByte(raw, '&'); amp != -1 {
			pair, raw = raw[:amp], raw[amp+1:]
		} else {
			pair, raw = raw, ""
		}

		if len(pair) == 0 {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		if len(key) == 0 {
			return ErrBadQuery
		}

		key, err := url.QueryUnescape(key)
		if err != nil {
			return ErrBadQuery
		}

		value, err = url.QueryUnescape(value)
		if err != nil {
			return ErrBadQuery
		}

		into.Add(key, value)
	}

	return nil
}
