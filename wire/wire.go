// Package wire implements the low-level byte codec shared by the ROS1 and
// CDR backends: primitive encode/decode, endianness swap, and a growable
// write buffer. Neither backend duplicates this arithmetic; each only
// supplies the framing (headers, alignment, length prefixes) around it.
package wire

import (
	"encoding/binary"
	"math"

	"github.com/wkalt/rosintrospect/rosmsg"
)

// Reader is a bounds-checked cursor over an input buffer. All reads fail
// with rosmsg.BufferUnderrun when fewer bytes remain than requested; no read
// ever touches memory past the declared length.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reads starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Reset rebinds the reader to a new buffer and resets the cursor, so the
// same Reader can be reused across many decode calls.
func (r *Reader) Reset(buf []byte) {
	r.buf = buf
	r.pos = 0
}

// Pos returns the current cursor offset from the start of the buffer.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Take returns the next n bytes and advances the cursor, or fails with
// BufferUnderrun if fewer than n bytes remain.
func (r *Reader) Take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, rosmsg.Errorf(rosmsg.BufferUnderrun, "need %d bytes, %d remain", n, r.Remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (r *Reader) Skip(n int) error {
	if r.Remaining() < n {
		return rosmsg.Errorf(rosmsg.BufferUnderrun, "need to skip %d bytes, %d remain", n, r.Remaining())
	}
	r.pos += n
	return nil
}

// Writer is a growable output buffer. It expands by doubling.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer with a small initial capacity.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Reset empties the buffer while retaining its capacity.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

func (w *Writer) grow(n int) {
	need := len(w.buf) + n
	if need <= cap(w.buf) {
		return
	}
	newCap := cap(w.buf)
	if newCap == 0 {
		newCap = 64
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]byte, len(w.buf), newCap)
	copy(grown, w.buf)
	w.buf = grown
}

// Write appends raw bytes.
func (w *Writer) Write(b []byte) {
	w.grow(len(b))
	w.buf = append(w.buf, b...)
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) {
	w.grow(1)
	w.buf = append(w.buf, b)
}

// PutUint16LE/BE, PutUint32LE/BE, PutUint64LE/BE append a fixed-width
// integer in the named byte order.
func (w *Writer) PutUint16LE(v uint16) {
	w.grow(2)
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) PutUint16BE(v uint16) {
	w.grow(2)
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *Writer) PutUint32LE(v uint32) {
	w.grow(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) PutUint32BE(v uint32) {
	w.grow(4)
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *Writer) PutUint64LE(v uint64) {
	w.grow(8)
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) PutUint64BE(v uint64) {
	w.grow(8)
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

// Primitive decode helpers. Each takes an explicit byte order so a backend
// can select little- or big-endian per its own encapsulation rule; ROS1
// always passes LittleEndian.

func ReadUint16(b []byte, bigEndian bool) uint16 {
	if bigEndian {
		return binary.BigEndian.Uint16(b)
	}
	return binary.LittleEndian.Uint16(b)
}

func ReadUint32(b []byte, bigEndian bool) uint32 {
	if bigEndian {
		return binary.BigEndian.Uint32(b)
	}
	return binary.LittleEndian.Uint32(b)
}

func ReadUint64(b []byte, bigEndian bool) uint64 {
	if bigEndian {
		return binary.BigEndian.Uint64(b)
	}
	return binary.LittleEndian.Uint64(b)
}

func Float32frombits(bits uint32) float32 { return math.Float32frombits(bits) }
func Float64frombits(bits uint64) float64 { return math.Float64frombits(bits) }
func Float32bits(v float32) uint32        { return math.Float32bits(v) }
func Float64bits(v float64) uint64        { return math.Float64bits(v) }
