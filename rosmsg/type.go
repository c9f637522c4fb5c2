package rosmsg

import "strings"

// ArrayKind distinguishes the three array shapes a field can take.
type ArrayKind int

const (
	// ArrayNone marks a scalar (non-array) field.
	ArrayNone ArrayKind = iota
	// ArrayFixed marks a field with a compile-time-known element count.
	ArrayFixed
	// ArrayDynamic marks a field whose length is carried on the wire.
	ArrayDynamic
)

// DynamicSize is the sentinel arraySize() value for a dynamic array.
const DynamicSize = -1

// Type identifies a field's wire type: either a builtin primitive or a
// package-qualified composite ("pkg/Name"). Equality between two Types is
// defined on BaseName alone.
type Type struct {
	BaseName  string
	Package   string
	Name      string
	Builtin   BuiltinType
	ArrayKind ArrayKind
	ArraySize int // meaningful when ArrayKind != ArrayNone; DynamicSize if dynamic
}

// NewBuiltinType constructs a scalar Type for one of the primitive builtins.
func NewBuiltinType(b BuiltinType) Type {
	return Type{BaseName: b.String(), Builtin: b}
}

// NewCompositeType constructs a Type referencing a message in another (or
// the same) package.
func NewCompositeType(pkg, name string) Type {
	base := name
	if pkg != "" {
		base = pkg + "/" + name
	}
	return Type{BaseName: base, Package: pkg, Name: name, Builtin: OTHER}
}

// IsArray reports whether the field carrying this type is any kind of array.
func (t Type) IsArray() bool {
	return t.ArrayKind != ArrayNone
}

// ArraySizeOrScalar returns -1 for a dynamic array, the declared length for
// a fixed array, and 0 for a scalar (a scalar field is never indexed so the
// value is unused in that case).
func (t Type) ArraySizeOrScalar() int {
	switch t.ArrayKind {
	case ArrayDynamic:
		return DynamicSize
	case ArrayFixed:
		return t.ArraySize
	default:
		return 0
	}
}

// IsBuiltin reports whether this type is a primitive rather than a
// composite message reference.
func (t Type) IsBuiltin() bool {
	return t.Builtin != OTHER
}

// Equal implements the base-name identity rule: two Types name the same
// message/primitive iff their base names match.
func (t Type) Equal(other Type) bool {
	return t.BaseName == other.BaseName
}

// ROSField is one line of a compiled message: a name, a type, and - for
// constants - an inline literal value that is never present on the wire.
type ROSField struct {
	Name       string
	Type       Type
	IsConstant bool
	Default    string // raw literal text for constants; unused otherwise
}

// ArraySize returns -1 for a dynamic array, or the declared length for a
// fixed array.
func (f ROSField) ArraySize() int {
	return f.Type.ArraySizeOrScalar()
}

// IsArray is true for either a fixed or dynamic array field.
func (f ROSField) IsArray() bool {
	return f.Type.IsArray()
}

// ROSMessage is an ordered sequence of fields plus the type identifying the
// message itself. Field order is both wire order and field-tree child order.
type ROSMessage struct {
	Type   Type
	Fields []ROSField
}

// MessageLibrary maps every composite type reachable from a root message to
// its compiled ROSMessage. Lookup is keyed on the BaseName used by Type.
type MessageLibrary struct {
	messages map[string]*ROSMessage
}

// NewMessageLibrary returns an empty library ready for Add calls.
func NewMessageLibrary() *MessageLibrary {
	return &MessageLibrary{messages: make(map[string]*ROSMessage)}
}

// Add registers a compiled message under its own type's base name.
func (l *MessageLibrary) Add(msg *ROSMessage) {
	l.messages[msg.Type.BaseName] = msg
}

// Lookup resolves a base name (as produced by Type.BaseName) to its
// compiled message. Resolution is an exact, case-sensitive match.
func (l *MessageLibrary) Lookup(baseName string) (*ROSMessage, bool) {
	m, ok := l.messages[baseName]
	return m, ok
}

// PackageOf splits a "pkg/Name" base name into its package and bare name.
// A base name with no slash (a malformed reference) returns an empty package.
func PackageOf(baseName string) (pkg, name string) {
	idx := strings.LastIndex(baseName, "/")
	if idx < 0 {
		return "", baseName
	}
	return baseName[:idx], baseName[idx+1:]
}
