// Package rosmsgpack implements the MessagePack emitter: a flat,
// already-decoded message becomes a single MessagePack map keyed by each
// leaf's rendered path.
package rosmsgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/walker"
)

// Encode converts flat's value entries into a single top-level MessagePack
// map keyed by (string path, scalar) pairs. Blob entries carry no scalar
// value and are not represented. The output buffer grows exponentially as
// msgpack.Encoder needs it and is returned already truncated to the written
// length (io.Writer semantics give us this for free via bytes.Buffer).
func Encode(flat *walker.FlatMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.EncodeMapLen(len(flat.Values)); err != nil {
		return nil, err
	}
	for _, entry := range flat.Values {
		if err := enc.EncodeString(entry.Leaf.Path()); err != nil {
			return nil, err
		}
		if err := encodeValue(enc, entry.Value); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// encodeValue maps UINT64/FLOAT64/FLOAT32/BOOL/STRING to their native
// MessagePack shape; every other numeric type (including TIME/DURATION, via
// the default case) widens to a signed int64.
func encodeValue(enc *msgpack.Encoder, v rosmsg.Variant) error {
	switch v.Type() {
	case rosmsg.UINT64:
		raw, _ := v.Raw().(uint64)
		return enc.EncodeUint64(raw)
	case rosmsg.FLOAT64:
		raw, _ := v.Raw().(float64)
		return enc.EncodeFloat64(raw)
	case rosmsg.FLOAT32:
		raw, _ := v.Raw().(float32)
		return enc.EncodeFloat32(raw)
	case rosmsg.BOOL:
		raw, _ := v.Raw().(bool)
		return enc.EncodeBool(raw)
	case rosmsg.STRING:
		raw, _ := v.Raw().(string)
		return enc.EncodeString(raw)
	default:
		return enc.EncodeInt64(v.ToInt64())
	}
}
