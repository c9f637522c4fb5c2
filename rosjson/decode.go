package rosjson

import (
	"strconv"

	"github.com/wkalt/rosintrospect/fieldtree"
	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/walker"
)

// Decode walks tree against dec, the same way walker.Decode does, but emits
// a JSON document directly instead of a FlatMessage. The returned bool
// mirrors walker.Decode's completeness flag: false if any dynamic array of
// non-byte-wide elements exceeded policy.MaxArraySize.
//
// Unlike the FlatMessage surface, the JSON document always renders every
// decoded element - the large-array policy only gates the completeness
// flag here, since a JSON array has no equivalent of an omitted tail that
// still leaves the document well-formed and fully drained.
func Decode(tree *fieldtree.Node, dec walker.Decoder, policy walker.Policy, opts Options) (string, bool, error) {
	w := newWriter(opts.Indent)
	complete := true
	if err := decodeMessage(dec, tree, w, policy, &complete, opts); err != nil {
		return "", false, err
	}
	return w.String(), complete, nil
}

func decodeMessage(
	dec walker.Decoder, node *fieldtree.Node, w *writer, policy walker.Policy, complete *bool, opts Options,
) error {
	w.beginObject()
	wrote := false
	for _, child := range node.Children {
		if wrote {
			w.comma()
		}
		w.key(child.Name())
		if err := decodeField(dec, child, w, policy, complete, opts); err != nil {
			return err
		}
		wrote = true
	}
	if !opts.IgnoreConstants && node.Message != nil {
		for i := range node.Message.Fields {
			f := node.Message.Fields[i]
			if !f.IsConstant {
				continue
			}
			if wrote {
				w.comma()
			}
			w.key(f.Name)
			w.raw(formatConstantLiteral(f))
			wrote = true
		}
	}
	w.endObject()
	return nil
}

func decodeField(
	dec walker.Decoder, fieldNode *fieldtree.Node, w *writer, policy walker.Policy, complete *bool, opts Options,
) error {
	field := *fieldNode.Field
	isArray := field.IsArray()

	size := 1
	if isArray {
		n := field.ArraySize()
		if n == rosmsg.DynamicSize {
			v, err := dec.ReadArrayLength()
			if err != nil {
				return err
			}
			n = v
		}
		size = n
	}

	isDynamicArray := isArray && field.ArraySize() == rosmsg.DynamicSize
	if isDynamicArray && size > policy.MaxArraySize {
		if rosmsg.IsByteWide(field.Type.Builtin) {
			data, err := dec.ReadBytes(size)
			if err != nil {
				return err
			}
			writeByteArray(w, data)
			return nil
		}
		*complete = false
	}

	if !isArray {
		return decodeScalarOrComposite(dec, fieldNode, w, policy, complete, opts)
	}

	if size == 0 {
		w.raw("[]")
		return nil
	}
	w.beginArray()
	for i := 0; i < size; i++ {
		if i > 0 {
			w.comma()
		}
		w.newline()
		if err := decodeScalarOrComposite(dec, fieldNode, w, policy, complete, opts); err != nil {
			return err
		}
	}
	w.endArray()
	return nil
}

func decodeScalarOrComposite(
	dec walker.Decoder, fieldNode *fieldtree.Node, w *writer, policy walker.Policy, complete *bool, opts Options,
) error {
	field := *fieldNode.Field
	switch {
	case field.Type.Builtin == rosmsg.STRING:
		s, err := dec.ReadString()
		if err != nil {
			return err
		}
		w.raw(quote(s))
	case field.Type.Builtin == rosmsg.CHAR:
		v, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		w.raw(quote(string(rune(v))))
	case field.Type.Builtin == rosmsg.TIME:
		t, err := dec.ReadTime()
		if err != nil {
			return err
		}
		writeStamp(w, int64(t.Sec), int64(t.Nsec))
	case field.Type.Builtin == rosmsg.DURATION:
		d, err := dec.ReadDuration()
		if err != nil {
			return err
		}
		writeStamp(w, int64(d.Sec), int64(d.Nsec))
	case field.Type.IsBuiltin():
		s, err := formatScalar(dec, field.Type.Builtin)
		if err != nil {
			return err
		}
		w.raw(s)
	default:
		return decodeMessage(dec, fieldNode, w, policy, complete, opts)
	}
	return nil
}

// writeStamp renders the ROS1 {"secs", "nsecs"} shape used on the
// binary->JSON path regardless of ROS1/ROS2 origin.
func writeStamp(w *writer, sec, nsec int64) {
	w.beginObject()
	w.key("secs")
	w.raw(strconv.FormatInt(sec, 10))
	w.comma()
	w.key("nsecs")
	w.raw(strconv.FormatInt(nsec, 10))
	w.endObject()
}

func writeByteArray(w *writer, data []byte) {
	if len(data) == 0 {
		w.raw("[]")
		return
	}
	w.beginArray()
	for i, b := range data {
		if i > 0 {
			w.comma()
		}
		w.newline()
		w.raw(strconv.FormatUint(uint64(b), 10))
	}
	w.endArray()
}

func formatScalar(dec walker.Decoder, b rosmsg.BuiltinType) (string, error) {
	switch b {
	case rosmsg.BOOL:
		v, err := dec.ReadBool()
		return strconv.FormatBool(v), err
	case rosmsg.BYTE, rosmsg.UINT8:
		v, err := dec.ReadUint8()
		return strconv.FormatUint(uint64(v), 10), err
	case rosmsg.INT8:
		v, err := dec.ReadInt8()
		return strconv.FormatInt(int64(v), 10), err
	case rosmsg.INT16:
		v, err := dec.ReadInt16()
		return strconv.FormatInt(int64(v), 10), err
	case rosmsg.UINT16:
		v, err := dec.ReadUint16()
		return strconv.FormatUint(uint64(v), 10), err
	case rosmsg.INT32:
		v, err := dec.ReadInt32()
		return strconv.FormatInt(int64(v), 10), err
	case rosmsg.UINT32:
		v, err := dec.ReadUint32()
		return strconv.FormatUint(uint64(v), 10), err
	case rosmsg.INT64:
		v, err := dec.ReadInt64()
		return strconv.FormatInt(v, 10), err
	case rosmsg.UINT64:
		v, err := dec.ReadUint64()
		return strconv.FormatUint(v, 10), err
	case rosmsg.FLOAT32:
		v, err := dec.ReadFloat32()
		return formatFloat(float64(v), 32), err
	case rosmsg.FLOAT64:
		v, err := dec.ReadFloat64()
		return formatFloat(v, 64), err
	default:
		return "", rosmsg.Errorf(rosmsg.Unsupported, "cannot render %s as a JSON scalar", b)
	}
}

func formatConstantLiteral(f rosmsg.ROSField) string {
	if f.Type.Builtin == rosmsg.STRING {
		return quote(f.Default)
	}
	if f.Default == "" {
		return "0"
	}
	return f.Default
}
