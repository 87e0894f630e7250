package headers

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Value is a parsed header value. Entities store values in their typed forms only,
// so no decorator ever needs to parse a header twice.
type Value interface {
	String() string
}

// Text is a value without any well-known structure.
type Text string

func (t Text) String() string {
	return string(t)
}

// Number is a non-negative decimal value, e.g. Content-Length.
type Number int64

func (n Number) String() string {
	return strconv.FormatInt(int64(n), 10)
}

// Timestamp is an HTTP-date. Its precision is limited to seconds.
type Timestamp struct {
	time time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Second)}
}

func (t Timestamp) Time() time.Time {
	return t.time
}

func (t Timestamp) String() string {
	return t.time.Format(http.TimeFormat)
}

// Coding is a content coding token, e.g. gzip. The token "*" is only meaningful in
// requests.
type Coding string

const (
	Gzip     Coding = "gzip"
	Identity Coding = "identity"
	AnyCode  Coding = "*"
)

func (c Coding) String() string {
	return string(c)
}

func (c Coding) IsWildcard() bool {
	return c == AnyCode
}

// Is compares two codings case-insensitively. x-gzip is treated as an alias of gzip.
func (c Coding) Is(other Coding) bool {
	return strings.EqualFold(c.normalize(), other.normalize())
}

func (c Coding) normalize() string {
	if strings.EqualFold(string(c), "x-gzip") {
		return string(Gzip)
	}

	return string(c)
}

type Param struct {
	Name, Value string
}

// MediaType represents Content-Type and similar values. Parameters keep their original
// order.
type MediaType struct {
	Type, Subtype string
	Params        []Param
}

func NewMediaType(essence string, params ...Param) MediaType {
	typ, subtype, _ := strings.Cut(essence, "/")
	return MediaType{
		Type:    strings.ToLower(typ),
		Subtype: strings.ToLower(subtype),
		Params:  params,
	}
}

// Essence returns type/subtype without parameters.
func (m MediaType) Essence() string {
	return m.Type + "/" + m.Subtype
}

// Param returns the value of the parameter. Parameter names are case-insensitive.
func (m MediaType) Param(name string) (string, bool) {
	for _, p := range m.Params {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}

	return "", false
}

func (m MediaType) Charset() (string, bool) {
	return m.Param("charset")
}

// WithParam returns a copy of the media type with the parameter set.
func (m MediaType) WithParam(name, value string) MediaType {
	params := make([]Param, 0, len(m.Params)+1)
	for _, p := range m.Params {
		if !strings.EqualFold(p.Name, name) {
			params = append(params, p)
		}
	}

	m.Params = append(params, Param{Name: name, Value: value})
	return m
}

func (m MediaType) IsWildcard() bool {
	return m.Type == "*" || m.Subtype == "*"
}

// IsMultipart tells whether the top-level type is multipart.
func (m MediaType) IsMultipart() bool {
	return m.Type == "multipart"
}

// IsByteRanges tells whether the media type is multipart/byteranges.
func (m MediaType) IsByteRanges() bool {
	return m.Type == "multipart" && m.Subtype == "byteranges"
}

func (m MediaType) String() string {
	var b strings.Builder
	b.WriteString(m.Essence())

	for _, p := range m.Params {
		b.WriteString("; ")
		b.WriteString(p.Name)
		b.WriteByte('=')
		if needsQuoting(p.Value) {
			b.WriteString(strconv.Quote(p.Value))
		} else {
			b.WriteString(p.Value)
		}
	}

	return b.String()
}

func needsQuoting(str string) bool {
	if len(str) == 0 {
		return true
	}

	return strings.ContainsAny(str, " \t\"(),/:;<=>?@[\\]{}")
}

// EntityTag is an opaque validator of a representation.
type EntityTag struct {
	Opaque string
	Weak   bool
	any    bool
}

// AnyTag is the "*" value of If-Match and If-None-Match.
var AnyTag = EntityTag{any: true}

func StrongTag(opaque string) EntityTag {
	return EntityTag{Opaque: opaque}
}

func WeakTag(opaque string) EntityTag {
	return EntityTag{Opaque: opaque, Weak: true}
}

func (e EntityTag) IsWildcard() bool {
	return e.any
}

func (e EntityTag) IsStrong() bool {
	return !e.Weak && !e.any
}

// StrongEqual implements the strong comparison: both tags must be strong and their
// opaque parts must be equal.
func (e EntityTag) StrongEqual(other EntityTag) bool {
	return e.IsStrong() && other.IsStrong() && e.Opaque == other.Opaque
}

func (e EntityTag) String() string {
	if e.any {
		return "*"
	}

	quoted := `"` + e.Opaque + `"`
	if e.Weak {
		return "W/" + quoted
	}

	return quoted
}

// Span is a content range, as it appears in Content-Range. Unsatisfied spans report the
// complete length only.
type Span struct {
	First, Last int64
	Length      int64
	Unsatisfied bool
}

func (s Span) String() string {
	if s.Unsatisfied {
		return "bytes */" + strconv.FormatInt(s.Length, 10)
	}

	return "bytes " + strconv.FormatInt(s.First, 10) + "-" + strconv.FormatInt(s.Last, 10) +
		"/" + strconv.FormatInt(s.Length, 10)
}
