package resultset

import (
	"iter"

	"github.com/arloliu/tsline/errs"
)

// Point is one decoded row, keyed by column name.
type Point map[string]any

// ResultSet is a read-only, lazily-iterable view over one statement result.
// It holds the decoded series as-is and zips columns with rows on each
// iteration pass, so every sequence it returns is restartable.
type ResultSet struct {
	result Result
	err    error
}

// New wraps a statement result. It fails with *errs.ClientError when the
// result carries a server-reported error, so a failing query surfaces at
// construction instead of on first access.
func New(result Result) (*ResultSet, error) {
	if result.Err != "" {
		return nil, &errs.ClientError{Message: result.Err}
	}

	return &ResultSet{result: result}, nil
}

// NewLenient wraps a statement result without failing on a server-reported
// error; the error is stored and exposed through Err instead.
func NewLenient(result Result) *ResultSet {
	rs := &ResultSet{result: result}
	if result.Err != "" {
		rs.err = &errs.ClientError{Message: result.Err}
	}

	return rs
}

// Err returns the server-reported error a lenient construction stored, or
// nil.
func (rs *ResultSet) Err() error {
	return rs.err
}

// StatementID returns the statement index this result answers within a
// multi-statement query.
func (rs *ResultSet) StatementID() int {
	return rs.result.StatementID
}

// Len returns the number of series entries in the result, not the number of
// points.
func (rs *ResultSet) Len() int {
	return len(rs.result.Series)
}

// Series returns the raw decoded series in insertion order. The slice is
// the ResultSet's own storage; callers must treat it as read-only.
func (rs *ResultSet) Series() []Series {
	return rs.result.Series
}

// Messages returns the server notices attached to the result.
func (rs *ResultSet) Messages() []Message {
	return rs.result.Messages
}

// Keys returns one SeriesKey per series entry, in insertion order.
func (rs *ResultSet) Keys() []SeriesKey {
	keys := make([]SeriesKey, 0, len(rs.result.Series))
	for i := range rs.result.Series {
		keys = append(keys, rs.result.Series[i].Key())
	}

	return keys
}

// Points returns a restartable lazy sequence of the rows of every series
// passing the filters, in series insertion order.
//
// An empty measurement matches any series name. A nil or empty tags map
// matches any tag set; otherwise every requested tag key must exist in the
// series' tags with an equal value. Both filters given means both must pass.
//
// Example:
//
//	for pt := range rs.Points("cpu", map[string]string{"host": "server01"}) {
//		fmt.Println(pt["time"], pt["value"])
//	}
func (rs *ResultSet) Points(measurement string, tags map[string]string) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i := range rs.result.Series {
			s := &rs.result.Series[i]
			if !s.Key().Match(measurement, tags) {
				continue
			}
			for pt := range s.All() {
				if !yield(pt) {
					return
				}
			}
		}
	}
}

// AllPoints returns a restartable lazy sequence of every row of every
// series.
func (rs *ResultSet) AllPoints() iter.Seq[Point] {
	return rs.Points("", nil)
}

// Items returns the (key, lazy points) pair of each series entry, in
// insertion order. Each points sequence is independently restartable.
func (rs *ResultSet) Items() iter.Seq2[SeriesKey, iter.Seq[Point]] {
	return func(yield func(SeriesKey, iter.Seq[Point]) bool) {
		for i := range rs.result.Series {
			s := &rs.result.Series[i]
			if !yield(s.Key(), s.All()) {
				return
			}
		}
	}
}
