// Package cdr implements the CDR/DDS encapsulated wire format used by ROS2:
// a 4-byte encapsulation header selecting encoding and endianness, followed
// by natural-alignment padding computed relative to an origin fixed at
// offset 4.
package cdr

import "github.com/wkalt/rosintrospect/rosmsg"

// Encoding is the CDR encapsulation kind carried in the upper 7 bits of the
// header's second byte (the low bit of that byte is endianness, handled
// separately).
type Encoding uint8

const (
	PlainCDR    Encoding = 0x0
	PLCDR       Encoding = 0x2
	PlainCDR2   Encoding = 0x6
	DelimitCDR2 Encoding = 0x8
	PLCDR2      Encoding = 0xA
)

// Version is the DDS-CDR revision, which determines the alignment cap: 4
// under XCDRv2, 8 otherwise.
type Version int

const (
	DDSCDR Version = iota + 1
	XCDRv1
	XCDRv2
)

// Header is the decoded 4-byte encapsulation prefix.
type Header struct {
	Encoding     Encoding
	LittleEndian bool
	Version      Version
}

// AlignCap returns the effective width substituted for an 8-byte-wide value.
func (h Header) AlignCap() int {
	if h.Version == XCDRv2 {
		return 4
	}
	return 8
}

// ParseHeader validates and decodes the 4-byte encapsulation prefix at the
// start of buf, resolving the wire encoding against defaultVersion. Any
// violation - byte 0 nonzero, an unrecognized encoding, or an encoding
// incompatible with defaultVersion - is a fatal InvalidEncapsulation error.
func ParseHeader(buf []byte, defaultVersion Version) (Header, error) {
	if len(buf) < 4 {
		return Header{}, rosmsg.Errorf(rosmsg.BufferUnderrun, "buffer too short for CDR header: %d bytes", len(buf))
	}
	if buf[0] != 0 {
		return Header{}, rosmsg.Errorf(rosmsg.InvalidEncapsulation, "expected header byte 0 to be 0x00, got 0x%02x", buf[0])
	}

	b := buf[1]
	littleEndian := b&0x1 == 1
	enc := Encoding(b &^ 0x1)

	h := Header{Encoding: enc, LittleEndian: littleEndian}
	switch enc {
	case PlainCDR2, DelimitCDR2, PLCDR2:
		if defaultVersion != XCDRv2 {
			return Header{}, rosmsg.Errorf(rosmsg.InvalidEncapsulation,
				"encoding %#x requires XCDRv2, got default version %d", enc, defaultVersion)
		}
		h.Version = XCDRv2
	case PLCDR:
		if defaultVersion != XCDRv1 {
			return Header{}, rosmsg.Errorf(rosmsg.InvalidEncapsulation,
				"encoding %#x requires XCDRv1, got default version %d", enc, defaultVersion)
		}
		h.Version = XCDRv1
	case PlainCDR:
		if defaultVersion != DDSCDR && defaultVersion != XCDRv1 {
			return Header{}, rosmsg.Errorf(rosmsg.InvalidEncapsulation,
				"encoding %#x requires DDS_CDR or XCDRv1, got default version %d", enc, defaultVersion)
		}
		h.Version = defaultVersion
	default:
		return Header{}, rosmsg.Errorf(rosmsg.InvalidEncapsulation, "unrecognized CDR encoding flag 0x%02x", byte(enc))
	}
	return h, nil
}
