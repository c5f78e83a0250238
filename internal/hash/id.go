// Package hash provides the xxHash64-based identities used to compare and
// bucket series.
package hash

import (
	"slices"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Series computes the xxHash64 identity of a series: the measurement name
// combined with its tag set. The result is independent of tag map iteration
// order, so two series with the same tags always hash equal.
func Series(measurement string, tags map[string]string) uint64 {
	if len(tags) == 0 {
		return xxhash.Sum64String(measurement)
	}

	d := xxhash.New()
	_, _ = d.WriteString(measurement)

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		_, _ = d.WriteString(",")
		_, _ = d.WriteString(k)
		_, _ = d.WriteString("=")
		_, _ = d.WriteString(tags[k])
	}

	return d.Sum64()
}
