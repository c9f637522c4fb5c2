package rosmsg

import "fmt"

// Time is the ROS1 wire shape: two unsigned 32-bit words.
type Time struct {
	Sec  uint32
	Nsec uint32
}

// Duration may be negative, but carries the same two-word shape on the wire
// as Time.
type Duration struct {
	Sec  int32
	Nsec uint32
}

// Variant is a tagged scalar leaf value: one of the builtin primitive types,
// TIME/DURATION, or STRING. The zero value is not meaningful; use one of the
// New* constructors.
type Variant struct {
	tag   BuiltinType
	value any
}

func newVariant(tag BuiltinType, value any) Variant {
	return Variant{tag: tag, value: value}
}

// NewBool, NewInt8, ... construct a Variant of the named type.
func NewBool(v bool) Variant        { return newVariant(BOOL, v) }
func NewByte(v uint8) Variant       { return newVariant(BYTE, v) }
func NewChar(v uint8) Variant       { return newVariant(CHAR, v) }
func NewInt8(v int8) Variant        { return newVariant(INT8, v) }
func NewUint8(v uint8) Variant      { return newVariant(UINT8, v) }
func NewInt16(v int16) Variant      { return newVariant(INT16, v) }
func NewUint16(v uint16) Variant    { return newVariant(UINT16, v) }
func NewInt32(v int32) Variant      { return newVariant(INT32, v) }
func NewUint32(v uint32) Variant    { return newVariant(UINT32, v) }
func NewInt64(v int64) Variant      { return newVariant(INT64, v) }
func NewUint64(v uint64) Variant    { return newVariant(UINT64, v) }
func NewFloat32(v float32) Variant  { return newVariant(FLOAT32, v) }
func NewFloat64(v float64) Variant  { return newVariant(FLOAT64, v) }
func NewString(v string) Variant    { return newVariant(STRING, v) }
func NewTime(v Time) Variant        { return newVariant(TIME, v) }
func NewDuration(v Duration) Variant { return newVariant(DURATION, v) }

// Type returns the tag under which this Variant was constructed.
func (v Variant) Type() BuiltinType { return v.tag }

// ConversionError reports a lossless extract attempted against a Variant
// carrying a different tag.
type ConversionError struct {
	From BuiltinType
	To   string
}

func (e ConversionError) Error() string {
	return fmt.Sprintf("cannot convert Variant<%s> to %s", e.From, e.To)
}

// Bool performs a lossless extract; it fails unless the tag is exactly BOOL.
func (v Variant) Bool() (bool, error) {
	if v.tag != BOOL {
		return false, ConversionError{v.tag, "bool"}
	}
	return v.value.(bool), nil
}

// String performs a lossless extract; it fails unless the tag is exactly STRING.
func (v Variant) String() (string, error) {
	if v.tag != STRING {
		return "", ConversionError{v.tag, "string"}
	}
	return v.value.(string), nil
}

// TimeValue performs a lossless extract; it fails unless the tag is exactly TIME.
func (v Variant) TimeValue() (Time, error) {
	if v.tag != TIME {
		return Time{}, ConversionError{v.tag, "Time"}
	}
	return v.value.(Time), nil
}

// DurationValue performs a lossless extract; it fails unless the tag is exactly DURATION.
func (v Variant) DurationValue() (Duration, error) {
	if v.tag != DURATION {
		return Duration{}, ConversionError{v.tag, "Duration"}
	}
	return v.value.(Duration), nil
}

// ToFloat64 is the always-succeeding widening conversion used for numeric
// comparisons. TIME/DURATION widen to seconds-plus-fractional-nanoseconds.
func (v Variant) ToFloat64() float64 {
	switch x := v.value.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return float64(x)
	case uint8:
		return float64(x)
	case int16:
		return float64(x)
	case uint16:
		return float64(x)
	case int32:
		return float64(x)
	case uint32:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case Time:
		return float64(x.Sec) + float64(x.Nsec)/1e9
	case Duration:
		return float64(x.Sec) + float64(x.Nsec)/1e9
	default:
		return 0
	}
}

// ToInt64 is an always-succeeding widening conversion used by the MessagePack
// emitter for every numeric type other than UINT64/FLOAT32/FLOAT64.
func (v Variant) ToInt64() int64 {
	switch x := v.value.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return int64(x)
	case uint8:
		return int64(x)
	case int16:
		return int64(x)
	case uint16:
		return int64(x)
	case int32:
		return int64(x)
	case uint32:
		return int64(x)
	case int64:
		return x
	case uint64:
		return int64(x)
	case float32:
		return int64(x)
	case float64:
		return int64(x)
	case Time:
		return int64(x.Sec)*1_000_000_000 + int64(x.Nsec)
	case Duration:
		return int64(x.Sec)*1_000_000_000 + int64(x.Nsec)
	default:
		return 0
	}
}

// Raw exposes the underlying Go value for callers (the JSON and MessagePack
// bridges) that need a type switch rather than a named accessor.
func (v Variant) Raw() any { return v.value }
