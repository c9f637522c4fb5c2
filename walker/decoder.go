// Package walker implements the introspective walker: the schema+buffer
// coroutine that drives a backend decoder or encoder in lock-step with the
// compiled field tree.
package walker

import "github.com/wkalt/rosintrospect/rosmsg"

// Decoder is the capability set a backend (ROS1, CDR) exposes to the
// decode-direction walker. Implementations are cursors: Init binds a fresh
// buffer and resets position; every read advances the cursor and fails with
// a rosmsg.BufferUnderrun-kinded error when insufficient bytes remain.
type Decoder interface { //nolint:interfacebloat
	Init(buf []byte) error

	ReadBool() (bool, error)
	ReadInt8() (int8, error)
	ReadUint8() (uint8, error)
	ReadInt16() (int16, error)
	ReadUint16() (uint16, error)
	ReadInt32() (int32, error)
	ReadUint32() (uint32, error)
	ReadInt64() (int64, error)
	ReadUint64() (uint64, error)
	ReadFloat32() (float32, error)
	ReadFloat64() (float64, error)
	ReadTime() (rosmsg.Time, error)
	ReadDuration() (rosmsg.Duration, error)
	ReadString() (string, error)

	// ReadArrayLength reads the u32 length prefix of a dynamic array.
	ReadArrayLength() (int, error)

	// ReadBytes returns the next n bytes as a slice aliasing the backend's
	// own buffer; the walker itself decides whether to copy it (blob
	// policy) or keep the alias.
	ReadBytes(n int) ([]byte, error)

	Remaining() int
}

// Encoder is the symmetric capability set for the JSON->binary encode
// direction.
type Encoder interface { //nolint:interfacebloat
	Init()
	Bytes() []byte

	WriteBool(bool)
	WriteInt8(int8)
	WriteUint8(uint8)
	WriteInt16(int16)
	WriteUint16(uint16)
	WriteInt32(int32)
	WriteUint32(uint32)
	WriteInt64(int64)
	WriteUint64(uint64)
	WriteFloat32(float32)
	WriteFloat64(float64)
	WriteTime(rosmsg.Time)
	WriteDuration(rosmsg.Duration)
	WriteString(string)

	// WriteArrayLength writes the u32 length prefix of a dynamic array.
	WriteArrayLength(n int)

	WriteBytes([]byte)
}

// readScalar dispatches a non-string builtin read (TIME and DURATION
// included) to the matching Decoder method and wraps the result as a Variant. OTHER reaching
// here means a composite type was misused as a scalar, and is rejected with
// a typed Unsupported error.
func readScalar(dec Decoder, b rosmsg.BuiltinType) (rosmsg.Variant, error) {
	switch b {
	case rosmsg.BOOL:
		v, err := dec.ReadBool()
		return rosmsg.NewBool(v), err
	case rosmsg.BYTE:
		v, err := dec.ReadUint8()
		return rosmsg.NewByte(v), err
	case rosmsg.CHAR:
		v, err := dec.ReadUint8()
		return rosmsg.NewChar(v), err
	case rosmsg.INT8:
		v, err := dec.ReadInt8()
		return rosmsg.NewInt8(v), err
	case rosmsg.UINT8:
		v, err := dec.ReadUint8()
		return rosmsg.NewUint8(v), err
	case rosmsg.INT16:
		v, err := dec.ReadInt16()
		return rosmsg.NewInt16(v), err
	case rosmsg.UINT16:
		v, err := dec.ReadUint16()
		return rosmsg.NewUint16(v), err
	case rosmsg.INT32:
		v, err := dec.ReadInt32()
		return rosmsg.NewInt32(v), err
	case rosmsg.UINT32:
		v, err := dec.ReadUint32()
		return rosmsg.NewUint32(v), err
	case rosmsg.INT64:
		v, err := dec.ReadInt64()
		return rosmsg.NewInt64(v), err
	case rosmsg.UINT64:
		v, err := dec.ReadUint64()
		return rosmsg.NewUint64(v), err
	case rosmsg.FLOAT32:
		v, err := dec.ReadFloat32()
		return rosmsg.NewFloat32(v), err
	case rosmsg.FLOAT64:
		v, err := dec.ReadFloat64()
		return rosmsg.NewFloat64(v), err
	case rosmsg.TIME:
		v, err := dec.ReadTime()
		return rosmsg.NewTime(v), err
	case rosmsg.DURATION:
		v, err := dec.ReadDuration()
		return rosmsg.NewDuration(v), err
	default:
		return rosmsg.Variant{}, rosmsg.Errorf(rosmsg.Unsupported, "cannot deserialize %s as a scalar", b)
	}
}

// writeScalar is the encode-direction symmetric dispatch.
func writeScalar(enc Encoder, b rosmsg.BuiltinType, v rosmsg.Variant) error {
	switch b {
	case rosmsg.BOOL:
		x, err := v.Bool()
		if err != nil {
			return err
		}
		enc.WriteBool(x)
	case rosmsg.BYTE, rosmsg.UINT8, rosmsg.CHAR:
		enc.WriteUint8(uint8(v.ToInt64()))
	case rosmsg.INT8:
		enc.WriteInt8(int8(v.ToInt64()))
	case rosmsg.INT16:
		enc.WriteInt16(int16(v.ToInt64()))
	case rosmsg.UINT16:
		enc.WriteUint16(uint16(v.ToInt64()))
	case rosmsg.INT32:
		enc.WriteInt32(int32(v.ToInt64()))
	case rosmsg.UINT32:
		enc.WriteUint32(uint32(v.ToInt64()))
	case rosmsg.INT64:
		enc.WriteInt64(v.ToInt64())
	case rosmsg.UINT64:
		enc.WriteUint64(uint64(v.ToInt64()))
	case rosmsg.FLOAT32:
		enc.WriteFloat32(float32(v.ToFloat64()))
	case rosmsg.FLOAT64:
		enc.WriteFloat64(v.ToFloat64())
	case rosmsg.TIME:
		t, err := v.TimeValue()
		if err != nil {
			return err
		}
		enc.WriteTime(t)
	case rosmsg.DURATION:
		d, err := v.DurationValue()
		if err != nil {
			return err
		}
		enc.WriteDuration(d)
	case rosmsg.STRING:
		s, err := v.String()
		if err != nil {
			return err
		}
		enc.WriteString(s)
	default:
		return rosmsg.Errorf(rosmsg.Unsupported, "cannot serialize %s as a scalar", b)
	}
	return nil
}
