package lineprotocol

// Point is one measurement sample: a measurement name, optional tags, field
// values, and an optional timestamp.
//
// Tags index the point for filtering and grouping and are plain strings on
// the wire. Fields carry the data itself and accept the dynamic types
// FieldValueOf understands. The encoder treats both maps as read-only
// snapshots and never mutates them.
type Point struct {
	// Measurement names the series category the point belongs to.
	Measurement string

	// Tags are the indexed key/value pairs, rendered in sorted key order.
	// Tags with an empty key or value are dropped.
	Tags map[string]string

	// Fields are the value columns, rendered in sorted key order.
	Fields map[string]any

	// Time is the optional point time; the zero Timestamp omits the
	// timestamp segment so the ingest server assigns one.
	Time Timestamp
}

// Batch is the unit of encoding: a sequence of points plus optional static
// tags applied to every point. Static tags merge under each point's own
// tags; the point wins on key collision.
type Batch struct {
	Points []Point
	Tags   map[string]string
}
