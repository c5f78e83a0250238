package lineprotocol

import (
	"fmt"

	"github.com/arloliu/tsline/errs"
)

// Precision is the time unit timestamps are encoded in. The zero value is
// Nanosecond. Values outside the defined constants behave as Nanosecond for
// timestamp math, mirroring the looseness of the wire dialect.
type Precision uint8

const (
	// Nanosecond is the default precision; timestamps pass through undivided.
	Nanosecond Precision = iota
	// Microsecond divides nanosecond epochs by 1e3.
	Microsecond
	// Millisecond divides nanosecond epochs by 1e6.
	Millisecond
	// Second divides nanosecond epochs by 1e9.
	Second
	// Minute divides nanosecond epochs by 60*1e9.
	Minute
	// Hour divides nanosecond epochs by 3600*1e9.
	Hour
)

// ParsePrecision maps a wire precision letter to its Precision.
//
// Accepted values are "n" or "ns", "u", "ms", "s", "m", "h", and the empty
// string (nanosecond). Anything else fails with errs.ErrInvalidPrecision.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "", "n", "ns":
		return Nanosecond, nil
	case "u":
		return Microsecond, nil
	case "ms":
		return Millisecond, nil
	case "s":
		return Second, nil
	case "m":
		return Minute, nil
	case "h":
		return Hour, nil
	default:
		return Nanosecond, fmt.Errorf("%w: %q", errs.ErrInvalidPrecision, s)
	}
}

// String renders the wire letter used in write and query parameters.
func (p Precision) String() string {
	switch p {
	case Microsecond:
		return "u"
	case Millisecond:
		return "ms"
	case Second:
		return "s"
	case Minute:
		return "m"
	case Hour:
		return "h"
	default:
		return "n"
	}
}

// divisor returns the nanosecond divisor of the precision unit.
func (p Precision) divisor() int64 {
	switch p {
	case Microsecond:
		return 1e3
	case Millisecond:
		return 1e6
	case Second:
		return 1e9
	case Minute:
		return 60 * 1e9
	case Hour:
		return 3600 * 1e9
	default:
		return 1
	}
}

// fromNanos converts nanoseconds since the epoch into the precision unit,
// truncating toward zero.
func (p Precision) fromNanos(ns int64) int64 {
	if d := p.divisor(); d != 1 {
		return ns / d
	}

	return ns
}
