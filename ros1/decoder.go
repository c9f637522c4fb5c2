// Package ros1 implements the ROS1 "packed" wire format: fixed-width
// fields written back to back in little-endian order with no alignment
// padding, strings and dynamic arrays carrying a u32 length prefix, and
// TIME/DURATION as two u32 words.
package ros1

import (
	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/wire"
)

// Decoder reads ROS1-packed bytes. It implements walker.Decoder without
// importing that package, so walker can import ros1's consumers instead of
// the reverse.
type Decoder struct {
	r wire.Reader
}

// NewDecoder returns a Decoder bound to buf.
func NewDecoder(buf []byte) *Decoder {
	d := &Decoder{}
	d.r.Reset(buf)
	return d
}

// Init rebinds the decoder to a fresh buffer, resetting its cursor to zero.
// This lets a single Decoder be reused across many messages on the same
// topic without reallocating.
func (d *Decoder) Init(buf []byte) error {
	d.r.Reset(buf)
	return nil
}

func (d *Decoder) Remaining() int { return d.r.Remaining() }

func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.r.Take(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (d *Decoder) ReadInt8() (int8, error) {
	b, err := d.r.Take(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (d *Decoder) ReadUint8() (uint8, error) {
	b, err := d.r.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadInt16() (int16, error) {
	b, err := d.r.Take(2)
	if err != nil {
		return 0, err
	}
	return int16(wire.ReadUint16(b, false)), nil
}

func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.r.Take(2)
	if err != nil {
		return 0, err
	}
	return wire.ReadUint16(b, false), nil
}

func (d *Decoder) ReadInt32() (int32, error) {
	b, err := d.r.Take(4)
	if err != nil {
		return 0, err
	}
	return int32(wire.ReadUint32(b, false)), nil
}

func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.r.Take(4)
	if err != nil {
		return 0, err
	}
	return wire.ReadUint32(b, false), nil
}

func (d *Decoder) ReadInt64() (int64, error) {
	b, err := d.r.Take(8)
	if err != nil {
		return 0, err
	}
	return int64(wire.ReadUint64(b, false)), nil
}

func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.r.Take(8)
	if err != nil {
		return 0, err
	}
	return wire.ReadUint64(b, false), nil
}

func (d *Decoder) ReadFloat32() (float32, error) {
	b, err := d.r.Take(4)
	if err != nil {
		return 0, err
	}
	return wire.Float32frombits(wire.ReadUint32(b, false)), nil
}

func (d *Decoder) ReadFloat64() (float64, error) {
	b, err := d.r.Take(8)
	if err != nil {
		return 0, err
	}
	return wire.Float64frombits(wire.ReadUint64(b, false)), nil
}

func (d *Decoder) ReadTime() (rosmsg.Time, error) {
	b, err := d.r.Take(8)
	if err != nil {
		return rosmsg.Time{}, err
	}
	return rosmsg.Time{Sec: wire.ReadUint32(b, false), Nsec: wire.ReadUint32(b[4:], false)}, nil
}

func (d *Decoder) ReadDuration() (rosmsg.Duration, error) {
	b, err := d.r.Take(8)
	if err != nil {
		return rosmsg.Duration{}, err
	}
	return rosmsg.Duration{Sec: int32(wire.ReadUint32(b, false)), Nsec: wire.ReadUint32(b[4:], false)}, nil
}

func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadArrayLength()
	if err != nil {
		return "", err
	}
	b, err := d.r.Take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) ReadArrayLength() (int, error) {
	b, err := d.r.Take(4)
	if err != nil {
		return 0, err
	}
	return int(wire.ReadUint32(b, false)), nil
}

func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	return d.r.Take(n)
}
