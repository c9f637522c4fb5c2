package ros1

import (
	"github.com/wkalt/rosintrospect/rosmsg"
	"github.com/wkalt/rosintrospect/wire"
)

// Encoder writes ROS1-packed bytes. It implements walker.Encoder.
type Encoder struct {
	w wire.Writer
}

// NewEncoder returns an Encoder with its own growable output buffer.
func NewEncoder() *Encoder {
	e := &Encoder{}
	e.w = *wire.NewWriter()
	return e
}

func (e *Encoder) Init()         { e.w.Reset() }
func (e *Encoder) Bytes() []byte { return e.w.Bytes() }

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.w.WriteByte(1)
	} else {
		e.w.WriteByte(0)
	}
}

func (e *Encoder) WriteInt8(v int8)   { e.w.WriteByte(byte(v)) }
func (e *Encoder) WriteUint8(v uint8) { e.w.WriteByte(v) }

func (e *Encoder) WriteInt16(v int16)   { e.w.PutUint16LE(uint16(v)) }
func (e *Encoder) WriteUint16(v uint16) { e.w.PutUint16LE(v) }

func (e *Encoder) WriteInt32(v int32)   { e.w.PutUint32LE(uint32(v)) }
func (e *Encoder) WriteUint32(v uint32) { e.w.PutUint32LE(v) }

func (e *Encoder) WriteInt64(v int64)   { e.w.PutUint64LE(uint64(v)) }
func (e *Encoder) WriteUint64(v uint64) { e.w.PutUint64LE(v) }

func (e *Encoder) WriteFloat32(v float32) { e.w.PutUint32LE(wire.Float32bits(v)) }
func (e *Encoder) WriteFloat64(v float64) { e.w.PutUint64LE(wire.Float64bits(v)) }

func (e *Encoder) WriteTime(t rosmsg.Time) {
	e.w.PutUint32LE(t.Sec)
	e.w.PutUint32LE(t.Nsec)
}

func (e *Encoder) WriteDuration(d rosmsg.Duration) {
	e.w.PutUint32LE(uint32(d.Sec))
	e.w.PutUint32LE(d.Nsec)
}

func (e *Encoder) WriteString(s string) {
	e.w.PutUint32LE(uint32(len(s)))
	e.w.Write([]byte(s))
}

func (e *Encoder) WriteArrayLength(n int) { e.w.PutUint32LE(uint32(n)) }

func (e *Encoder) WriteBytes(b []byte) { e.w.Write(b) }
