// Package lineprotocol serializes measurement points into the line-protocol
// text format ingested by InfluxDB-compatible time-series databases.
//
// # Wire Format
//
// Each point renders as one newline-terminated line of up to three
// space-separated segments:
//
//	measurement[,tag=value...] field=value[,field=value...] [timestamp]
//
// Tags and fields render in ascending lexicographic key order; the ingest
// server relies on sorted tags for fast deduplication. The timestamp segment
// is omitted when the point carries no time, letting the server assign one.
//
// # Leniency
//
// The encoder is deliberately lenient about its inputs: tags with an empty
// key or value, fields with an empty key, fields whose value renders to
// nothing (empty strings, nulls), and fields of unsupported dynamic types
// are silently dropped rather than failing the batch. The single fatal
// condition is a timestamp that cannot be resolved (an unparseable string or
// an unsupported dynamic type), which fails the whole encode with
// errs.ErrInvalidTimestamp before anything is written.
//
// # Field Types
//
// Field values form a closed set of variants: StringValue (double-quoted),
// IntValue (decimal digits with the trailing 'i' integer marker), FloatValue
// (shortest round-trip decimal), BoolValue (true/false), and NullValue
// (dropped). FieldValueOf normalizes the dynamic types commonly found in
// caller maps - strings, booleans, all integer widths, floats, json.Number
// and nil - onto those variants.
//
// # Timestamps
//
// A Timestamp holds either a raw integer epoch already in the target
// precision (passed through undivided), a date/time string parsed at encode
// time, or an absolute time.Time. Strings and times normalize to UTC,
// convert to nanoseconds since the Unix epoch, and divide down to the encode
// precision with truncation toward zero.
//
// # Usage
//
//	batch := lineprotocol.Batch{
//		Points: []lineprotocol.Point{{
//			Measurement: "cpu_load_short",
//			Tags:        map[string]string{"host": "server01", "region": "us-west"},
//			Fields:      map[string]any{"value": 0.64},
//			Time:        lineprotocol.TimeString("2009-11-10T23:00:00.123456Z"),
//		}},
//	}
//
//	data, err := lineprotocol.Marshal(batch, lineprotocol.Nanosecond)
//	// data: cpu_load_short,host=server01,region=us-west value=0.64 1257894000123456000\n
package lineprotocol
