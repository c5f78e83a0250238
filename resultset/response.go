package resultset

import (
	"iter"

	"github.com/arloliu/tsline/errs"
)

// Response is the top-level JSON document the query API returns; a chunked
// response is a concatenation of these.
type Response struct {
	Results []Result `json:"results,omitempty"`
	Err     string   `json:"error,omitempty"`
}

// Error returns the response-level error, or the first result-level error,
// or nil.
func (r *Response) Error() error {
	if r.Err != "" {
		return &errs.ClientError{Message: r.Err}
	}
	for i := range r.Results {
		if r.Results[i].Err != "" {
			return &errs.ClientError{Message: r.Results[i].Err}
		}
	}

	return nil
}

// Result is one statement result within a response.
type Result struct {
	StatementID int       `json:"statement_id,omitempty"`
	Series      []Series  `json:"series,omitempty"`
	Messages    []Message `json:"messages,omitempty"`
	Partial     bool      `json:"partial,omitempty"`
	Err         string    `json:"error,omitempty"`
}

// Message is a server notice attached to a result.
type Message struct {
	Level string `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Series is one series of a result: a measurement name, the tag set
// identifying it, its columns, and its rows.
type Series struct {
	Name    string            `json:"name,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Columns []string          `json:"columns,omitempty"`
	Values  [][]any           `json:"values,omitempty"`
	Partial bool              `json:"partial,omitempty"`

	// Points carries the rows of the legacy response schema; Values wins
	// when both are present.
	Points [][]any `json:"points,omitempty"`
}

// rows returns the series rows regardless of schema vintage.
func (s *Series) rows() [][]any {
	if len(s.Values) > 0 {
		return s.Values
	}

	return s.Points
}

// Key returns the series key. A series the server returned unnamed, as with
// system queries, keys under DefaultSeriesName.
func (s *Series) Key() SeriesKey {
	name := s.Name
	if name == "" {
		name = DefaultSeriesName
	}

	return SeriesKey{Measurement: name, Tags: s.Tags}
}

// SameSeries reports whether both series identify the same measurement and
// tag set.
func (s *Series) SameSeries(other *Series) bool {
	return s.Key().Hash() == other.Key().Hash()
}

// All returns a restartable lazy sequence of the series rows, each zipped
// with the column names into a Point. Rows shorter than the column list
// yield only the columns they cover; excess row values are dropped.
func (s *Series) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, row := range s.rows() {
			pt := make(Point, len(s.Columns))
			for i, col := range s.Columns {
				if i < len(row) {
					pt[col] = row[i]
				}
			}
			if !yield(pt) {
				return
			}
		}
	}
}
