package lineprotocol

import (
	"encoding/json"
	"strconv"
)

// FieldValue is the closed set of value shapes a field can carry on the
// wire. The concrete variants are StringValue, IntValue, FloatValue,
// BoolValue, and NullValue; the encoder dispatches exhaustively over them.
type FieldValue interface {
	// appendTo appends the wire rendering of the value to dst.
	appendTo(dst []byte) []byte
	// empty reports whether the value renders to nothing, dropping its field.
	empty() bool
}

var (
	_ FieldValue = StringValue("")
	_ FieldValue = IntValue(0)
	_ FieldValue = FloatValue(0)
	_ FieldValue = BoolValue(false)
	_ FieldValue = NullValue{}
)

// StringValue renders double-quoted with backslash, quote, and newline
// escapes. The empty string renders to nothing, dropping its field.
type StringValue string

func (v StringValue) appendTo(dst []byte) []byte {
	return appendQuoted(dst, string(v))
}

func (v StringValue) empty() bool {
	return v == ""
}

// IntValue renders as decimal digits with the trailing 'i' marker the wire
// protocol requires for the value to ingest as an integer column.
type IntValue int64

func (v IntValue) appendTo(dst []byte) []byte {
	dst = strconv.AppendInt(dst, int64(v), 10)
	return append(dst, 'i')
}

func (v IntValue) empty() bool {
	return false
}

// FloatValue renders as the shortest plain-decimal string that round-trips
// the float64 exactly; nothing is rounded away.
type FloatValue float64

func (v FloatValue) appendTo(dst []byte) []byte {
	return strconv.AppendFloat(dst, float64(v), 'f', -1, 64)
}

func (v FloatValue) empty() bool {
	return false
}

// BoolValue renders as the literal true or false.
type BoolValue bool

func (v BoolValue) appendTo(dst []byte) []byte {
	return strconv.AppendBool(dst, bool(v))
}

func (v BoolValue) empty() bool {
	return false
}

// NullValue renders to nothing; a null field drops from its line.
type NullValue struct{}

func (NullValue) appendTo(dst []byte) []byte {
	return dst
}

func (NullValue) empty() bool {
	return true
}

// FieldValueOf normalizes a dynamic field value onto its FieldValue variant.
//
// Supported inputs: the FieldValue variants themselves, strings, booleans,
// every signed and unsigned integer width, float32/float64, json.Number, and
// nil. The second return is false for any other type; the encoder drops such
// fields silently instead of failing the batch.
func FieldValueOf(v any) (FieldValue, bool) {
	switch v := v.(type) {
	case nil:
		return NullValue{}, true
	case FieldValue:
		return v, true
	case string:
		return StringValue(v), true
	case bool:
		return BoolValue(v), true
	case int:
		return IntValue(v), true
	case int64:
		return IntValue(v), true
	case int32:
		return IntValue(v), true
	case int16:
		return IntValue(v), true
	case int8:
		return IntValue(v), true
	case uint:
		return IntValue(v), true
	case uint64:
		return IntValue(v), true
	case uint32:
		return IntValue(v), true
	case uint16:
		return IntValue(v), true
	case uint8:
		return IntValue(v), true
	case float64:
		return FloatValue(v), true
	case float32:
		return FloatValue(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return IntValue(i), true
		}
		if f, err := v.Float64(); err == nil {
			return FloatValue(f), true
		}

		return nil, false
	default:
		return nil, false
	}
}
