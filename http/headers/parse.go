package headers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/indigo-web/facet/internal/strutil"
)

var ErrMalformed = errors.New("malformed header value")

type parser func(raw string) (Value, error)

// Parse converts a raw header value into its typed form, chosen by the header name.
// Values of unknown headers become Text.
func Parse(name, raw string) (Value, error) {
	i, found := lookup(name)
	if !found {
		return parseText(raw)
	}

	value, err := i.parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i.name, err)
	}

	return value, nil
}

func parseText(raw string) (Value, error) {
	return Text(strutil.TrimWS(raw)), nil
}

func parseNumber(raw string) (Value, error) {
	n, err := ParseNumber(raw)
	return n, err
}

func parseDate(raw string) (Value, error) {
	t, err := ParseTimestamp(raw)
	return t, err
}

func parseCoding(raw string) (Value, error) {
	c, err := ParseCoding(raw)
	return c, err
}

func parseMediaType(raw string) (Value, error) {
	m, err := ParseMediaType(raw)
	return m, err
}

func parseEntityTag(raw string) (Value, error) {
	e, err := ParseEntityTag(raw)
	return e, err
}

func ParseNumber(raw string) (Number, error) {
	raw = strutil.TrimWS(raw)
	if len(raw) == 0 || raw[0] == '+' || raw[0] == '-' {
		return 0, ErrMalformed
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrMalformed
	}

	return Number(n), nil
}

// ParseTimestamp accepts all three HTTP-date formats.
func ParseTimestamp(raw string) (Timestamp, error) {
	t, err := http.ParseTime(strutil.TrimWS(raw))
	if err != nil {
		return Timestamp{}, ErrMalformed
	}

	return NewTimestamp(t), nil
}

// ParseCoding parses a single content coding token. Parameters, if any, are dropped.
func ParseCoding(raw string) (Coding, error) {
	token, _ := strutil.CutHeader(raw)
	token = strutil.TrimWS(token)
	if len(token) == 0 || !isToken(token) {
		return "", ErrMalformed
	}

	return Coding(strings.ToLower(token)), nil
}

// ParseMediaType parses type/subtype followed by optional parameters. Type and subtype
// are lower-cased, parameter values are unquoted.
func ParseMediaType(raw string) (MediaType, error) {
	essence, params := strutil.CutHeader(raw)
	typ, subtype, found := strings.Cut(strutil.TrimWS(essence), "/")
	if !found || !isToken(typ) || !isToken(subtype) {
		return MediaType{}, ErrMalformed
	}

	mt := MediaType{
		Type:    strings.ToLower(typ),
		Subtype: strings.ToLower(subtype),
	}

	for len(params) > 0 {
		var param string
		param, params = cutParam(params)
		param = strutil.TrimWS(param)
		if len(param) == 0 {
			continue
		}

		key, value, found := strings.Cut(param, "=")
		key = strutil.TrimWS(key)
		if !found || !isToken(key) {
			return MediaType{}, ErrMalformed
		}

		mt.Params = append(mt.Params, Param{
			Name:  strings.ToLower(key),
			Value: strutil.Unquote(strutil.TrimWS(value)),
		})
	}

	return mt, nil
}

// cutParam cuts the parameter until the next semicolon, respecting quoted strings.
func cutParam(params string) (param, rest string) {
	quoted := false

	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '"':
			quoted = !quoted
		case '\\':
			if quoted {
				i++
			}
		case ';':
			if !quoted {
				return params[:i], params[i+1:]
			}
		}
	}

	return params, ""
}

// ParseEntityTag parses a single (possibly weak) entity-tag.
func ParseEntityTag(raw string) (EntityTag, error) {
	raw = strutil.TrimWS(raw)
	weak := false
	if strings.HasPrefix(raw, "W/") {
		weak, raw = true, raw[len("W/"):]
	}

	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return EntityTag{}, ErrMalformed
	}

	opaque := raw[1 : len(raw)-1]
	if strings.IndexByte(opaque, '"') != -1 {
		return EntityTag{}, ErrMalformed
	}

	return EntityTag{Opaque: opaque, Weak: weak}, nil
}

// ParseEntityTags parses the If-Match and If-None-Match values: either "*" or a list of
// entity-tags. Mixing both is an error.
func ParseEntityTags(raw string) (tags []EntityTag, err error) {
	if strutil.TrimWS(raw) == "*" {
		return []EntityTag{AnyTag}, nil
	}

	for elem := range strutil.SplitList(raw) {
		tag, err := ParseEntityTag(elem)
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return nil, ErrMalformed
	}

	return tags, nil
}

func isToken(str string) bool {
	if len(str) == 0 {
		return false
	}

	for i := 0; i < len(str); i++ {
		if !tokenChars[str[i]] {
			return false
		}
	}

	return true
}

// tchar = "!" / "#" / "$" / "%" / "&" / "'" / "*" / "+" / "-" / "." /
//
//	"^" / "_" / "`" / "|" / "~" / DIGIT / ALPHA
var tokenChars = func() (table [256]bool) {
	for c := '0'; c <= '9'; c++ {
		table[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		table[c] = true
		table[c-'a'+'A'] = true
	}
	for _, c := range "!#$%&'*+-.^_`|~" {
		table[c] = true
	}

	return table
}()
