package walker

import (
	"github.com/wkalt/rosintrospect/fieldtree"
	"github.com/wkalt/rosintrospect/rosmsg"
)

// Cursor is the capability the JSON bridge's encode direction exposes to
// the walker: a position in a nested source tree that can be descended
// into by field name or array index and read as a scalar. It generalizes a
// decode/encode pair of walkers sharing one field-tree traversal shape.
type Cursor interface {
	// Field descends into the named field of the current object node,
	// always pushing a new current node (a null placeholder when the field
	// is absent) so every Field call has a matching Up. ok is false when
	// the field is absent, in which case the walker encodes the zero value
	// for its type; for a composite field, descending past a null
	// placeholder makes every descendant see "missing" too.
	Field(name string) (ok bool)
	// Up returns to the node Field or Index descended from.
	Up()
	// ArrayLen reports the length of the current array node.
	ArrayLen() (int, error)
	// Index descends into the i-th element of the current array node.
	Index(i int)
	// Scalar reads the current node as a Variant of the requested builtin
	// type. A STRING/CHAR/BOOL/TIME/DURATION builtin is read directly with
	// the matching shape; any other builtin is a plain number.
	Scalar(builtin rosmsg.BuiltinType) (rosmsg.Variant, error)
}

// Encode walks tree, pulling values from cur and writing them to enc in
// field-tree preorder - the mirror image of Decode.
func Encode(tree *fieldtree.Node, cur Cursor, enc Encoder) error {
	return encodeMessage(tree, cur, enc)
}

func encodeMessage(node *fieldtree.Node, cur Cursor, enc Encoder) error {
	for _, child := range node.Children {
		if err := encodeField(child, cur, enc); err != nil {
			return err
		}
	}
	return nil
}

func encodeField(fieldNode *fieldtree.Node, cur Cursor, enc Encoder) error {
	field := *fieldNode.Field
	present := cur.Field(field.Name)
	defer cur.Up()

	isArray := field.IsArray()
	isDynamic := isArray && field.ArraySize() == rosmsg.DynamicSize
	size := 1
	if isArray {
		switch {
		case !present && isDynamic:
			size = 0
		case !present:
			size = field.ArraySize() // fixed array: missing still encodes N zero elements
		case isDynamic:
			n, err := cur.ArrayLen()
			if err != nil {
				return err
			}
			size = n
		default:
			n, err := cur.ArrayLen()
			if err != nil {
				return err
			}
			if n != field.ArraySize() {
				return rosmsg.Errorf(rosmsg.JSONShapeMismatch,
					"field %q expects a fixed array of length %d, got %d", field.Name, field.ArraySize(), n)
			}
			size = n
		}
		// Only dynamic arrays carry a length prefix on the wire; a fixed
		// array's length is implied by the schema.
		if isDynamic {
			enc.WriteArrayLength(size)
		}
	}

	for i := 0; i < size; i++ {
		if isArray {
			cur.Index(i)
		}
		var err error
		switch {
		case field.Type.Builtin == rosmsg.STRING:
			err = encodeScalarField(cur, enc, present, rosmsg.STRING)
		case field.Type.IsBuiltin():
			err = encodeScalarField(cur, enc, present, field.Type.Builtin)
		default:
			err = encodeMessage(fieldNode, cur, enc)
		}
		if isArray {
			cur.Up()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeScalarField(cur Cursor, enc Encoder, present bool, b rosmsg.BuiltinType) error {
	if !present {
		return writeScalar(enc, b, zeroVariant(b))
	}
	v, err := cur.Scalar(b)
	if err != nil {
		return err
	}
	return writeScalar(enc, b, v)
}

// zeroVariant is the default value encoded when the JSON source omits a
// field.
func zeroVariant(b rosmsg.BuiltinType) rosmsg.Variant {
	switch b {
	case rosmsg.BOOL:
		return rosmsg.NewBool(false)
	case rosmsg.BYTE:
		return rosmsg.NewByte(0)
	case rosmsg.CHAR:
		return rosmsg.NewChar(0)
	case rosmsg.INT8:
		return rosmsg.NewInt8(0)
	case rosmsg.UINT8:
		return rosmsg.NewUint8(0)
	case rosmsg.INT16:
		return rosmsg.NewInt16(0)
	case rosmsg.UINT16:
		return rosmsg.NewUint16(0)
	case rosmsg.INT32:
		return rosmsg.NewInt32(0)
	case rosmsg.UINT32:
		return rosmsg.NewUint32(0)
	case rosmsg.INT64:
		return rosmsg.NewInt64(0)
	case rosmsg.UINT64:
		return rosmsg.NewUint64(0)
	case rosmsg.FLOAT32:
		return rosmsg.NewFloat32(0)
	case rosmsg.FLOAT64:
		return rosmsg.NewFloat64(0)
	case rosmsg.STRING:
		return rosmsg.NewString("")
	case rosmsg.TIME:
		return rosmsg.NewTime(rosmsg.Time{})
	case rosmsg.DURATION:
		return rosmsg.NewDuration(rosmsg.Duration{})
	default:
		return rosmsg.Variant{}
	}
}
