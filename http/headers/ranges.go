package headers

import (
	"strconv"
	"strings"

	"github.com/indigo-web/facet/internal/strutil"
)

const bytesUnit = "bytes"

// ByteRange is a single range-spec of the Range header. Positions are inclusive. An absent
// position is represented by -1, so "5-" is {5, -1} and the suffix range "-3" is {-1, 3}.
type ByteRange struct {
	First, Last int64
}

// IsSuffix tells whether the range requests the last Last bytes.
func (r ByteRange) IsSuffix() bool {
	return r.First == -1
}

// Resolve converts the range into absolute inclusive positions within a body of the given
// length. A range is satisfiable only if both of its bounds lie inside the body; positions
// past the end are not clamped.
func (r ByteRange) Resolve(length int64) (first, last int64, ok bool) {
	switch {
	case r.IsSuffix():
		if r.Last <= 0 || length == 0 {
			return 0, 0, false
		}

		return max(0, length-r.Last), length - 1, true
	case r.Last == -1:
		return r.First, length - 1, r.First < length
	default:
		return r.First, r.Last, r.First <= r.Last && r.Last < length
	}
}

func (r ByteRange) String() string {
	switch {
	case r.IsSuffix():
		return "-" + strconv.FormatInt(r.Last, 10)
	case r.Last == -1:
		return strconv.FormatInt(r.First, 10) + "-"
	default:
		return strconv.FormatInt(r.First, 10) + "-" + strconv.FormatInt(r.Last, 10)
	}
}

// ParseRanges parses the Range header value. Only the bytes unit is supported. Ranges
// are returned in the order they were specified.
func ParseRanges(raw string) (ranges []ByteRange, err error) {
	unit, set, found := strings.Cut(strutil.TrimWS(raw), "=")
	if !found || !strings.EqualFold(strutil.TrimWS(unit), bytesUnit) {
		return nil, ErrMalformed
	}

	for spec := range strutil.SplitList(set) {
		r, err := parseRangeSpec(spec)
		if err != nil {
			return nil, err
		}

		ranges = append(ranges, r)
	}

	if len(ranges) == 0 {
		return nil, ErrMalformed
	}

	return ranges, nil
}

func parseRangeSpec(spec string) (ByteRange, error) {
	first, last, found := strings.Cut(spec, "-")
	if !found {
		return ByteRange{}, ErrMalformed
	}

	first, last = strutil.TrimWS(first), strutil.TrimWS(last)

	if len(first) == 0 {
		// suffix-range = "-" suffix-length
		n, err := parsePos(last)
		if err != nil {
			return ByteRange{}, err
		}

		return ByteRange{First: -1, Last: n}, nil
	}

	from, err := parsePos(first)
	if err != nil {
		return ByteRange{}, err
	}

	if len(last) == 0 {
		return ByteRange{First: from, Last: -1}, nil
	}

	to, err := parsePos(last)
	if err != nil {
		return ByteRange{}, err
	}

	// An int-range is invalid if the last-pos value is present and less than the first-pos.
	if from > to {
		return ByteRange{}, ErrMalformed
	}

	return ByteRange{First: from, Last: to}, nil
}

func parsePos(str string) (int64, error) {
	if len(str) == 0 {
		return 0, ErrMalformed
	}

	for i := 0; i < len(str); i++ {
		if str[i] < '0' || str[i] > '9' {
			return 0, ErrMalformed
		}
	}

	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		// overflow
		return 0, ErrMalformed
	}

	return n, nil
}
