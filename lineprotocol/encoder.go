package lineprotocol

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/arloliu/tsline/internal/options"
	"github.com/arloliu/tsline/internal/pool"
)

// Option configures an Encoder.
type Option = options.Option[*Encoder]

// WithPrecision sets the precision timestamps are divided down to.
// The default is Nanosecond.
func WithPrecision(p Precision) Option {
	return options.NoError(func(e *Encoder) {
		e.precision = p
	})
}

// Encoder serializes point batches into line protocol on an io.Writer.
//
// Each Encode call renders the entire batch into a pooled buffer and flushes
// it with a single Write, so a failing batch leaves nothing on the writer.
//
// Example:
//
//	enc, err := lineprotocol.NewEncoder(conn, lineprotocol.WithPrecision(lineprotocol.Second))
//	if err != nil {
//		return err
//	}
//	if err := enc.Encode(batch); err != nil {
//		return err
//	}
type Encoder struct {
	w         io.Writer
	precision Precision
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) (*Encoder, error) {
	enc := &Encoder{w: w}
	if err := options.Apply(enc, opts...); err != nil {
		return nil, err
	}

	return enc, nil
}

// Encode renders the batch and writes it to the underlying writer.
func (e *Encoder) Encode(batch Batch) error {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)

	b, err := appendBatch(buf.B, batch, e.precision)
	if err != nil {
		return err
	}
	buf.B = b

	if _, err := buf.WriteTo(e.w); err != nil {
		return fmt.Errorf("write lines: %w", err)
	}

	return nil
}

// Marshal encodes the batch at the given precision and returns the wire
// bytes, one newline-terminated line per point.
//
// Example:
//
//	data, err := lineprotocol.Marshal(lineprotocol.Batch{
//		Points: []lineprotocol.Point{{
//			Measurement: "cpu_load_short",
//			Tags:        map[string]string{"host": "server01"},
//			Fields:      map[string]any{"value": 0.64},
//		}},
//	}, lineprotocol.Nanosecond)
//	// data: "cpu_load_short,host=server01 value=0.64\n"
func Marshal(batch Batch, precision Precision) ([]byte, error) {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)

	b, err := appendBatch(buf.B, batch, precision)
	if err != nil {
		return nil, err
	}
	buf.B = b

	out := make([]byte, len(b))
	copy(out, b)

	return out, nil
}

// MarshalString is Marshal returning the encoded batch as a string.
func MarshalString(batch Batch, precision Precision) (string, error) {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)

	b, err := appendBatch(buf.B, batch, precision)
	if err != nil {
		return "", err
	}
	buf.B = b

	return string(b), nil
}

// appendBatch renders every point line followed by a newline. An empty batch
// still renders the terminating newline, matching the join-then-terminate
// construction of the format.
func appendBatch(dst []byte, batch Batch, precision Precision) ([]byte, error) {
	if len(batch.Points) == 0 {
		return append(dst, '\n'), nil
	}

	var err error
	for i := range batch.Points {
		dst, err = appendPoint(dst, &batch.Points[i], batch.Tags, precision)
		if err != nil {
			return nil, err
		}
		dst = append(dst, '\n')
	}

	return dst, nil
}

func appendPoint(dst []byte, pt *Point, static map[string]string, precision Precision) ([]byte, error) {
	dst = appendTagEscaped(dst, pt.Measurement)
	dst = appendTags(dst, static, pt.Tags)
	dst = append(dst, ' ')
	dst = appendFields(dst, pt.Fields)

	if !pt.Time.IsZero() {
		epoch, err := pt.Time.epoch(precision)
		if err != nil {
			return nil, err
		}
		dst = append(dst, ' ')
		dst = strconv.AppendInt(dst, epoch, 10)
	}

	return dst, nil
}

// appendTags renders ",key=value" pairs in sorted key order, merging static
// tags under the point's own. Tags with an empty key or value are dropped.
func appendTags(dst []byte, static, tags map[string]string) []byte {
	total := len(static) + len(tags)
	if total == 0 {
		return dst
	}

	keys, cleanup := pool.GetStringSlice(total)
	defer cleanup()

	for k := range static {
		if _, shadowed := tags[k]; !shadowed {
			keys = append(keys, k)
		}
	}
	for k := range tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v, ok := tags[k]
		if !ok {
			v = static[k]
		}
		if k == "" || v == "" {
			continue
		}
		dst = append(dst, ',')
		dst = appendTagEscaped(dst, k)
		dst = append(dst, '=')
		dst = appendTagEscaped(dst, v)
	}

	return dst
}

// appendFields renders "key=value" pairs in sorted key order, separated by
// commas. Fields with an empty key, an unsupported value type, or a value
// that renders to nothing are dropped.
func appendFields(dst []byte, fields map[string]any) []byte {
	if len(fields) == 0 {
		return dst
	}

	keys, cleanup := pool.GetStringSlice(len(fields))
	defer cleanup()

	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	first := true
	for _, k := range keys {
		fv, ok := FieldValueOf(fields[k])
		if !ok || k == "" || fv.empty() {
			continue
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = appendTagEscaped(dst, k)
		dst = append(dst, '=')
		dst = fv.appendTo(dst)
	}

	return dst
}
