package headers

import (
	"strconv"
	"strings"

	"github.com/indigo-web/facet/internal/strutil"
)

// Preference is a single element of Accept-* headers together with its quality.
type Preference struct {
	Token   string
	Quality float64
}

// Preferences is a parsed Accept-Charset or Accept-Encoding value.
type Preferences []Preference

// ParseAccept parses a list of tokens with optional weights, e.g. "gzip;q=0.8, *;q=0".
func ParseAccept(raw string) (prefs Preferences, err error) {
	for elem := range strutil.SplitList(raw) {
		token, params := strutil.CutHeader(elem)
		token = strutil.TrimWS(token)
		if !isToken(token) {
			return nil, ErrMalformed
		}

		quality := 1.0

		for len(params) > 0 {
			var param string
			param, params = cutParam(params)
			key, value, found := strings.Cut(strutil.TrimWS(param), "=")
			if !found {
				return nil, ErrMalformed
			}

			if strings.EqualFold(strutil.TrimWS(key), "q") {
				quality, err = strconv.ParseFloat(strutil.TrimWS(value), 64)
				if err != nil || quality < 0 || quality > 1 {
					return nil, ErrMalformed
				}
			}
		}

		prefs = append(prefs, Preference{
			Token:   strings.ToLower(token),
			Quality: quality,
		})
	}

	return prefs, nil
}

// Accepts tells whether the token is acceptable. An exact entry takes precedence over
// the wildcard, and an entry with zero quality explicitly forbids the token.
func (p Preferences) Accepts(token string) bool {
	wildcard := -1.0

	for _, pref := range p {
		switch {
		case strings.EqualFold(pref.Token, token):
			return pref.Quality > 0
		case pref.Token == "*":
			wildcard = pref.Quality
		}
	}

	return wildcard > 0
}
