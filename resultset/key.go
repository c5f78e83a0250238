package resultset

import (
	"maps"
	"slices"
	"strings"

	"github.com/arloliu/tsline/internal/hash"
)

// DefaultSeriesName keys series the server returns without a name, as system
// queries do.
const DefaultSeriesName = "results"

// SeriesKey identifies one series: a measurement name plus its exact tag
// set. Keys compare and hash by content, independent of tag map order.
type SeriesKey struct {
	Measurement string
	Tags        map[string]string
}

// String renders the canonical form: the measurement name followed by
// ",key=value" pairs in sorted key order.
func (k SeriesKey) String() string {
	if len(k.Tags) == 0 {
		return k.Measurement
	}

	keys := make([]string, 0, len(k.Tags))
	for tk := range k.Tags {
		keys = append(keys, tk)
	}
	slices.Sort(keys)

	var sb strings.Builder
	sb.WriteString(k.Measurement)
	for _, tk := range keys {
		sb.WriteByte(',')
		sb.WriteString(tk)
		sb.WriteByte('=')
		sb.WriteString(k.Tags[tk])
	}

	return sb.String()
}

// Hash returns the content hash of the key: equal keys hash equal no matter
// how their tag maps were built.
func (k SeriesKey) Hash() uint64 {
	return hash.Series(k.Measurement, k.Tags)
}

// Equal reports whether both keys name the same measurement with identical
// tag sets.
func (k SeriesKey) Equal(other SeriesKey) bool {
	return k.Measurement == other.Measurement && maps.Equal(k.Tags, other.Tags)
}

// Match reports whether the key passes the given filters. An empty
// measurement matches any name. A non-empty tag filter requires every
// requested key to exist in the key's tags with an equal value; series
// missing a requested key do not match.
func (k SeriesKey) Match(measurement string, tags map[string]string) bool {
	if measurement != "" && k.Measurement != measurement {
		return false
	}

	for rk, rv := range tags {
		v, ok := k.Tags[rk]
		if !ok || v != rv {
			return false
		}
	}

	return true
}
