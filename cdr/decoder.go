package cdr

import (
	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/wire"
)

// Decoder reads a CDR-encapsulated buffer. It implements walker.Decoder
// without importing that package.
type Decoder struct {
	defaultVersion Version
	r              wire.Reader
	header         Header
	origin         int // always 4: the byte offset right after the header
}

// NewDecoder returns a Decoder that will resolve the encapsulation header
// against defaultVersion (the engine configuration's default_cdr_version).
func NewDecoder(defaultVersion Version) *Decoder {
	return &Decoder{defaultVersion: defaultVersion, origin: 4}
}

// Init parses buf's 4-byte encapsulation header and resets the cursor to
// just past it.
func (d *Decoder) Init(buf []byte) error {
	h, err := ParseHeader(buf, d.defaultVersion)
	if err != nil {
		return err
	}
	d.header = h
	d.r.Reset(buf)
	if _, err := d.r.Take(4); err != nil {
		return err
	}
	return nil
}

func (d *Decoder) Remaining() int { return d.r.Remaining() }

// align consumes the padding bytes required before a value of natural width
// w, relative to origin.
func (d *Decoder) align(w int) error {
	if w == 8 {
		w = d.header.AlignCap()
	}
	offset := d.r.Pos() - d.origin
	pad := (w - offset%w) % w
	if pad == 0 {
		return nil
	}
	return d.r.Skip(pad)
}

func (d *Decoder) take(w int) ([]byte, error) {
	if err := d.align(w); err != nil {
		return nil, err
	}
	return d.r.Take(w)
}

func (d *Decoder) u16(b []byte) uint16 { return wire.ReadUint16(b, !d.header.LittleEndian) }
func (d *Decoder) u32(b []byte) uint32 { return wire.ReadUint32(b, !d.header.LittleEndian) }
func (d *Decoder) u64(b []byte) uint64 { return wire.ReadUint64(b, !d.header.LittleEndian) }

func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (d *Decoder) ReadInt8() (int8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (d *Decoder) ReadUint8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadInt16() (int16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return int16(d.u16(b)), nil
}

func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return d.u16(b), nil
}

func (d *Decoder) ReadInt32() (int32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return int32(d.u32(b)), nil
}

func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return d.u32(b), nil
}

func (d *Decoder) ReadInt64() (int64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return int64(d.u64(b)), nil
}

func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return d.u64(b), nil
}

func (d *Decoder) ReadFloat32() (float32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return wire.Float32frombits(d.u32(b)), nil
}

func (d *Decoder) ReadFloat64() (float64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return wire.Float64frombits(d.u64(b)), nil
}

// ReadTime reads a builtin_interfaces/Time-shaped (sec, nanosec) pair. Each
// word aligns independently as its own 4-byte integer.
func (d *Decoder) ReadTime() (rosmsg.Time, error) {
	sec, err := d.ReadUint32()
	if err != nil {
		return rosmsg.Time{}, err
	}
	nsec, err := d.ReadUint32()
	if err != nil {
		return rosmsg.Time{}, err
	}
	return rosmsg.Time{Sec: sec, Nsec: nsec}, nil
}

func (d *Decoder) ReadDuration() (rosmsg.Duration, error) {
	sec, err := d.ReadInt32()
	if err != nil {
		return rosmsg.Duration{}, err
	}
	nsec, err := d.ReadUint32()
	if err != nil {
		return rosmsg.Duration{}, err
	}
	return rosmsg.Duration{Sec: sec, Nsec: nsec}, nil
}

// ReadString reads a u32-aligned length (which counts a trailing NUL on the
// wire), the raw bytes, and drops the trailing NUL if present.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadArrayLength()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := d.r.Take(n)
	if err != nil {
		return "", err
	}
	if b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b), nil
}

// ReadArrayLength reads the u32 length prefix of a dynamic array or string,
// aligned as a 4-byte integer.
func (d *Decoder) ReadArrayLength() (int, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return int(d.u32(b)), nil
}

// ReadBytes reads n raw bytes with no alignment: adjacent scalar array
// elements of the same width carry no per-element padding.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	return d.r.Take(n)
}
