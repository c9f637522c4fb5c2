package rosjson

import (
	json "github.com/goccy/go-json"

	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/walker"
)

// ParseCursor parses text as JSON and returns a walker.Cursor positioned at
// its root, for driving walker.Encode. text must be a JSON object at the
// top level (the root message); anything else is a JSONParse error.
func ParseCursor(text string) (walker.Cursor, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, rosmsg.Wrap(rosmsg.JSONParse, err, "invalid JSON")
	}
	if _, ok := v.(map[string]any); !ok {
		return nil, rosmsg.Errorf(rosmsg.JSONParse, "expected a JSON object at the top level, got %T", v)
	}
	return &cursor{stack: []any{v}}, nil
}

// cursor implements walker.Cursor over a generic JSON value tree produced by
// goccy/go-json's Unmarshal-into-any (objects as map[string]any, arrays as
// []any, numbers as float64).
type cursor struct {
	stack []any
}

func (c *cursor) current() any { return c.stack[len(c.stack)-1] }

// Field always pushes, so every call has a matching Up: a missing or
// non-object current node pushes nil, which makes every descendant of a
// missing composite field see "missing" too.
func (c *cursor) Field(name string) bool {
	m, ok := c.current().(map[string]any)
	if !ok {
		c.stack = append(c.stack, nil)
		return false
	}
	v, ok := m[name]
	if !ok {
		c.stack = append(c.stack, nil)
		return false
	}
	c.stack = append(c.stack, v)
	return true
}

func (c *cursor) Up() {
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *cursor) ArrayLen() (int, error) {
	arr, ok := c.current().([]any)
	if !ok {
		return 0, rosmsg.Errorf(rosmsg.JSONShapeMismatch, "expected a JSON array, got %T", c.current())
	}
	return len(arr), nil
}

func (c *cursor) Index(i int) {
	arr, _ := c.current().([]any)
	if i < 0 || i >= len(arr) {
		c.stack = append(c.stack, nil)
		return
	}
	c.stack = append(c.stack, arr[i])
}

func (c *cursor) Scalar(b rosmsg.BuiltinType) (rosmsg.Variant, error) {
	switch b {
	case rosmsg.TIME:
		sec, nsec := c.stampMembers()
		return rosmsg.NewTime(rosmsg.Time{Sec: uint32(sec), Nsec: uint32(nsec)}), nil
	case rosmsg.DURATION:
		sec, nsec := c.stampMembers()
		return rosmsg.NewDuration(rosmsg.Duration{Sec: int32(sec), Nsec: uint32(nsec)}), nil
	case rosmsg.STRING:
		s, ok := c.current().(string)
		if !ok {
			return rosmsg.Variant{}, rosmsg.Errorf(rosmsg.JSONShapeMismatch, "expected a JSON string, got %T", c.current())
		}
		return rosmsg.NewString(s), nil
	case rosmsg.CHAR:
		s, ok := c.current().(string)
		if !ok || len(s) == 0 {
			return rosmsg.Variant{}, rosmsg.Errorf(rosmsg.JSONShapeMismatch, "expected a 1-character JSON string")
		}
		return rosmsg.NewChar(s[0]), nil
	case rosmsg.BOOL:
		v, ok := c.current().(bool)
		if !ok {
			return rosmsg.Variant{}, rosmsg.Errorf(rosmsg.JSONShapeMismatch, "expected a JSON bool, got %T", c.current())
		}
		return rosmsg.NewBool(v), nil
	default:
		f, ok := c.current().(float64)
		if !ok {
			return rosmsg.Variant{}, rosmsg.Errorf(rosmsg.JSONShapeMismatch, "expected a JSON number, got %T", c.current())
		}
		return variantFromFloat(b, f), nil
	}
}

// stampMembers reads the {"secs"|"sec", "nsecs"|"nanosec"} members of the
// current node, accepting either naming convention, and defaulting absent
// members to zero like any other missing field.
func (c *cursor) stampMembers() (sec, nsec float64) {
	m, _ := c.current().(map[string]any)
	if m == nil {
		return 0, 0
	}
	return firstNumber(m, "secs", "sec"), firstNumber(m, "nsecs", "nanosec")
}

func firstNumber(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := v.(float64); ok {
				return f
			}
		}
	}
	return 0
}

func variantFromFloat(b rosmsg.BuiltinType, f float64) rosmsg.Variant {
	switch b {
	case rosmsg.BYTE:
		return rosmsg.NewByte(uint8(f))
	case rosmsg.UINT8:
		return rosmsg.NewUint8(uint8(f))
	case rosmsg.INT8:
		return rosmsg.NewInt8(int8(f))
	case rosmsg.INT16:
		return rosmsg.NewInt16(int16(f))
	case rosmsg.UINT16:
		return rosmsg.NewUint16(uint16(f))
	case rosmsg.INT32:
		return rosmsg.NewInt32(int32(f))
	case rosmsg.UINT32:
		return rosmsg.NewUint32(uint32(f))
	case rosmsg.INT64:
		return rosmsg.NewInt64(int64(f))
	case rosmsg.UINT64:
		return rosmsg.NewUint64(uint64(f))
	case rosmsg.FLOAT32:
		return rosmsg.NewFloat32(float32(f))
	case rosmsg.FLOAT64:
		return rosmsg.NewFloat64(f)
	default:
		return rosmsg.Variant{}
	}
}
