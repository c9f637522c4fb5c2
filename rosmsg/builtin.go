// Package rosmsg holds the data model shared by every stage of the
// introspection engine: builtin types, the resolved type/field/message
// graph, and the tagged Variant leaf value.
package rosmsg

import "fmt"

// BuiltinType is the closed enumeration of primitive wire types. OTHER marks
// a field whose type is a composite message rather than a primitive.
type BuiltinType int

const (
	BOOL BuiltinType = iota + 1
	BYTE
	CHAR
	INT8
	UINT8
	INT16
	UINT16
	INT32
	UINT32
	INT64
	UINT64
	FLOAT32
	FLOAT64
	TIME
	DURATION
	STRING
	OTHER
)

// nolint:gochecknoglobals
var builtinNames = map[BuiltinType]string{
	BOOL:     "bool",
	BYTE:     "byte",
	CHAR:     "char",
	INT8:     "int8",
	UINT8:    "uint8",
	INT16:    "int16",
	UINT16:   "uint16",
	INT32:    "int32",
	UINT32:   "uint32",
	INT64:    "int64",
	UINT64:   "uint64",
	FLOAT32:  "float32",
	FLOAT64:  "float64",
	TIME:     "time",
	DURATION: "duration",
	STRING:   "string",
	OTHER:    "OTHER",
}

// nolint:gochecknoglobals
var namesToBuiltin = func() map[string]BuiltinType {
	m := make(map[string]BuiltinType, len(builtinNames))
	for k, v := range builtinNames {
		m[v] = k
	}
	return m
}()

func (b BuiltinType) String() string {
	if name, ok := builtinNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BuiltinType(%d)", int(b))
}

// LookupBuiltin resolves a lowercase type token (as it appears in a message
// definition) to a BuiltinType. The second return is false for package-scoped
// composite types.
func LookupBuiltin(name string) (BuiltinType, bool) {
	b, ok := namesToBuiltin[name]
	return b, ok
}

// IsByteWide reports whether a single element of this builtin type occupies
// exactly one byte on the wire with no internal structure - the condition
// under which a dynamic array of that element may be extracted as a blob
// rather than walked element by element.
func IsByteWide(b BuiltinType) bool {
	switch b {
	case UINT8, INT8, CHAR, BYTE, BOOL:
		return true
	default:
		return false
	}
}
