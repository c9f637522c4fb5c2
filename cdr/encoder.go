package cdr

import (
	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/wire"
)

// Encoder writes a CDR-encapsulated buffer, mirroring Decoder.
type Encoder struct {
	header Header
	w      wire.Writer
	origin int
}

// NewEncoder returns an Encoder that will emit the given header as the
// first 4 bytes of every buffer it produces.
func NewEncoder(header Header) *Encoder {
	return &Encoder{header: header, origin: 4}
}

// Init resets the output buffer and writes the 4-byte encapsulation header.
func (e *Encoder) Init() {
	e.w.Reset()
	endianness := byte(0)
	if e.header.LittleEndian {
		endianness = 1
	}
	e.w.WriteByte(0)
	e.w.WriteByte(byte(e.header.Encoding) | endianness)
	e.w.WriteByte(0)
	e.w.WriteByte(0)
}

func (e *Encoder) Bytes() []byte { return e.w.Bytes() }

func (e *Encoder) align(w int) {
	if w == 8 {
		w = e.header.AlignCap()
	}
	offset := e.w.Len() - e.origin
	pad := (w - offset%w) % w
	for i := 0; i < pad; i++ {
		e.w.WriteByte(0)
	}
}

func (e *Encoder) bigEndian() bool { return !e.header.LittleEndian }

func (e *Encoder) WriteBool(v bool) {
	e.align(1)
	if v {
		e.w.WriteByte(1)
	} else {
		e.w.WriteByte(0)
	}
}

func (e *Encoder) WriteInt8(v int8)   { e.align(1); e.w.WriteByte(byte(v)) }
func (e *Encoder) WriteUint8(v uint8) { e.align(1); e.w.WriteByte(v) }

func (e *Encoder) WriteInt16(v int16) { e.WriteUint16(uint16(v)) }
func (e *Encoder) WriteUint16(v uint16) {
	e.align(2)
	if e.bigEndian() {
		e.w.PutUint16BE(v)
	} else {
		e.w.PutUint16LE(v)
	}
}

func (e *Encoder) WriteInt32(v int32) { e.WriteUint32(uint32(v)) }
func (e *Encoder) WriteUint32(v uint32) {
	e.align(4)
	if e.bigEndian() {
		e.w.PutUint32BE(v)
	} else {
		e.w.PutUint32LE(v)
	}
}

func (e *Encoder) WriteInt64(v int64) { e.WriteUint64(uint64(v)) }
func (e *Encoder) WriteUint64(v uint64) {
	e.align(8)
	if e.bigEndian() {
		e.w.PutUint64BE(v)
	} else {
		e.w.PutUint64LE(v)
	}
}

func (e *Encoder) WriteFloat32(v float32) { e.WriteUint32(wire.Float32bits(v)) }
func (e *Encoder) WriteFloat64(v float64) { e.WriteUint64(wire.Float64bits(v)) }

func (e *Encoder) WriteTime(t rosmsg.Time) {
	e.WriteUint32(t.Sec)
	e.WriteUint32(t.Nsec)
}

func (e *Encoder) WriteDuration(d rosmsg.Duration) {
	e.WriteInt32(d.Sec)
	e.WriteUint32(d.Nsec)
}

// WriteString writes the u32 length (including the trailing NUL it adds)
// followed by the raw bytes and a trailing NUL.
func (e *Encoder) WriteString(s string) {
	e.WriteArrayLength(len(s) + 1)
	e.w.Write([]byte(s))
	e.w.WriteByte(0)
}

func (e *Encoder) WriteArrayLength(n int) { e.WriteUint32(uint32(n)) }

// WriteBytes writes raw bytes with no per-element alignment.
func (e *Encoder) WriteBytes(b []byte) { e.w.Write(b) }
