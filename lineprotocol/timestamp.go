package lineprotocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arloliu/tsline/errs"
)

// timeLayouts are the accepted date/time string layouts, tried in order.
// Layouts without a zone parse as UTC; fractional seconds after the seconds
// element are accepted by every layout.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type tsKind uint8

const (
	tsAbsent tsKind = iota
	tsEpoch
	tsString
	tsTime
)

// Timestamp is the optional time of a point. The zero Timestamp means the
// point carries no timestamp segment and the server assigns the ingest time.
//
// A non-zero Timestamp holds one of three shapes:
//   - a raw integer epoch already in the target precision (Epoch), passed
//     through undivided at encode time,
//   - a date/time string (TimeString), parsed at encode time,
//   - an absolute time.Time (TimeAt).
type Timestamp struct {
	kind tsKind
	num  int64
	str  string
	abs  time.Time
}

// Epoch returns a Timestamp carrying an integer already in the target
// precision. Encoding passes it through undivided; the caller guarantees the
// unit matches the encode precision.
func Epoch(v int64) Timestamp {
	return Timestamp{kind: tsEpoch, num: v}
}

// TimeAt returns a Timestamp for an absolute time.
func TimeAt(t time.Time) Timestamp {
	return Timestamp{kind: tsTime, abs: t}
}

// TimeString returns a Timestamp that parses s at encode time. Supported
// layouts: RFC 3339 with optional fractional seconds, the same without a
// zone (treated as UTC), space-separated date-times, and bare dates. An
// unparseable string surfaces errs.ErrInvalidTimestamp from the encode call.
func TimeString(s string) Timestamp {
	return Timestamp{kind: tsString, str: s}
}

// TimestampOf converts a dynamic value into a Timestamp: nil (absent),
// Timestamp itself, time.Time, integer epochs, integral json.Number, and
// date/time strings. Any other type fails with errs.ErrInvalidTimestamp.
func TimestampOf(v any) (Timestamp, error) {
	switch v := v.(type) {
	case nil:
		return Timestamp{}, nil
	case Timestamp:
		return v, nil
	case time.Time:
		return TimeAt(v), nil
	case string:
		return TimeString(v), nil
	case int:
		return Epoch(int64(v)), nil
	case int64:
		return Epoch(v), nil
	case int32:
		return Epoch(int64(v)), nil
	case uint:
		return Epoch(int64(v)), nil
	case uint64:
		return Epoch(int64(v)), nil
	case uint32:
		return Epoch(int64(v)), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return Timestamp{}, fmt.Errorf("%w: non-integral number %q", errs.ErrInvalidTimestamp, string(v))
		}

		return Epoch(i), nil
	default:
		return Timestamp{}, fmt.Errorf("%w: unsupported type %T", errs.ErrInvalidTimestamp, v)
	}
}

// IsZero reports whether the Timestamp is absent.
func (ts Timestamp) IsZero() bool {
	return ts.kind == tsAbsent
}

// epoch resolves the Timestamp to an integer in the given precision. Raw
// integers pass through unchanged; strings and absolute times normalize to
// UTC, convert to nanoseconds since the Unix epoch, and divide down to the
// precision with truncation toward zero.
func (ts Timestamp) epoch(p Precision) (int64, error) {
	switch ts.kind {
	case tsEpoch:
		return ts.num, nil
	case tsTime:
		return p.fromNanos(ts.abs.UTC().UnixNano()), nil
	case tsString:
		t, err := parseTimeString(ts.str)
		if err != nil {
			return 0, err
		}

		return p.fromNanos(t.UTC().UnixNano()), nil
	default:
		return 0, nil
	}
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: cannot parse %q", errs.ErrInvalidTimestamp, s)
}
