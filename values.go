// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"fmt"
	"time"

	"golang.org/x/exp/constraints"
)

// Value is one of the primitive value types a Varbind can carry: Null,
// Integer, Counter, Gauge, TimeTicks, OctetString, ObjectIdentifier or
// Unknown. The set is closed; other packages cannot implement Value.
type Value interface {
	// Type returns the tag the value is encoded with.
	Type() Asn1BER
	// Size returns the number of bytes of the complete encoded TLV.
	Size() int
	String() string

	appendTo(dst []byte) []byte
}

// Null is the ASN.1 NULL value, used as the placeholder value of every
// varbind in a GetRequest.
type Null struct{}

func (Null) Type() Asn1BER  { return TagNull }
func (Null) Size() int      { return 2 }
func (Null) String() string { return "Null" }

func (Null) appendTo(dst []byte) []byte {
	return append(dst, byte(TagNull), 0)
}

func decodeNull(b []byte) (Null, int, error) {
	payload, n, err := expectTLV(b, byte(TagNull), NodeNull)
	if err != nil {
		return Null{}, 0, err
	}
	if len(payload) != 0 {
		return Null{}, 0, newError(NodeNull, KindProtocol, "non-empty payload of %d bytes", len(payload))
	}
	return Null{}, n, nil
}

// Integer is a 32-bit INTEGER. The payload is the value's 32-bit pattern as
// an unsigned big-endian magnitude in the fewest bytes that hold it, so
// Integer(255) is the single byte 0xff and negative values take 4 bytes.
type Integer int32

func (i Integer) Type() Asn1BER  { return TagInteger }
func (i Integer) Size() int      { return magnitudeSize(i) }
func (i Integer) String() string { return fmt.Sprintf("%d", int32(i)) }

func (i Integer) appendTo(dst []byte) []byte {
	return appendMagnitude(dst, TagInteger, i)
}

// Counter is a Counter32: a non-negative integer that wraps at 2^32.
type Counter uint32

func (c Counter) Type() Asn1BER  { return TagCounter }
func (c Counter) Size() int      { return magnitudeSize(c) }
func (c Counter) String() string { return fmt.Sprintf("%d", uint32(c)) }

func (c Counter) appendTo(dst []byte) []byte {
	return appendMagnitude(dst, TagCounter, c)
}

// Gauge is a Gauge32: a non-negative integer that may go up and down.
type Gauge uint32

func (g Gauge) Type() Asn1BER  { return TagGauge }
func (g Gauge) Size() int      { return magnitudeSize(g) }
func (g Gauge) String() string { return fmt.Sprintf("%d", uint32(g)) }

func (g Gauge) appendTo(dst []byte) []byte {
	return appendMagnitude(dst, TagGauge, g)
}

// TimeTicks counts hundredths of a second since an epoch chosen by the agent.
type TimeTicks uint32

const (
	ticksPerSecond = 100
	ticksPerMinute = 60 * ticksPerSecond
	ticksPerHour   = 60 * ticksPerMinute
	ticksPerDay    = 24 * ticksPerHour
)

func (t TimeTicks) Type() Asn1BER { return TagTimeTicks }
func (t TimeTicks) Size() int     { return magnitudeSize(t) }

func (t TimeTicks) appendTo(dst []byte) []byte {
	return appendMagnitude(dst, TagTimeTicks, t)
}

// Days returns the number of whole days.
func (t TimeTicks) Days() int { return int(uint32(t) / ticksPerDay) }

// Hours returns the hours within the current day.
func (t TimeTicks) Hours() int { return int(uint32(t)/ticksPerHour) % 24 }

// Minutes returns the minutes within the current hour.
func (t TimeTicks) Minutes() int { return int(uint32(t)/ticksPerMinute) % 60 }

// Seconds returns the seconds within the current minute.
func (t TimeTicks) Seconds() int { return int(uint32(t)/ticksPerSecond) % 60 }

// Centiseconds returns the hundredths within the current second.
func (t TimeTicks) Centiseconds() int { return int(uint32(t) % ticksPerSecond) }

// Duration converts t to a time.Duration.
func (t TimeTicks) Duration() time.Duration {
	return time.Duration(t) * 10 * time.Millisecond
}

// String renders t as "(ticks) d:hh:mm:ss.cc".
func (t TimeTicks) String() string {
	return fmt.Sprintf("(%d) %d:%02d:%02d:%02d.%02d", uint32(t),
		t.Days(), t.Hours(), t.Minutes(), t.Seconds(), t.Centiseconds())
}

// NewTimeTicks converts d to TimeTicks, truncating to hundredths and wrapping
// at 2^32 like the sysUpTime counter does.
func NewTimeTicks(d time.Duration) TimeTicks {
	return TimeTicks(uint64(d/(10*time.Millisecond)) & 0xffffffff)
}

// OctetString is an opaque byte string; it also carries display text.
type OctetString []byte

func (o OctetString) Type() Asn1BER  { return TagOctetString }
func (o OctetString) Size() int      { return tlvSize(len(o)) }
func (o OctetString) String() string { return string(o) }

func (o OctetString) appendTo(dst []byte) []byte {
	dst = Header{Tag: byte(TagOctetString), Length: uint32(len(o))}.appendTo(dst)
	return append(dst, o...)
}

func decodeOctetString(b []byte) (OctetString, int, error) {
	payload, n, err := expectTLV(b, byte(TagOctetString), NodeOctetString)
	if err != nil {
		return nil, 0, err
	}
	o := make(OctetString, len(payload))
	copy(o, payload)
	return o, n, nil
}

// Unknown stands in for a value whose tag the codec does not interpret. Only
// the tag and declared length survive decoding; encoding emits Length zero
// bytes in place of the original payload.
type Unknown struct {
	Tag    byte
	Length uint32
}

func (u Unknown) Type() Asn1BER { return Asn1BER(u.Tag) }
func (u Unknown) Size() int     { return tlvSize(int(u.Length)) }

func (u Unknown) String() string {
	return fmt.Sprintf("Unknown(tag %#02x, %d bytes)", u.Tag, u.Length)
}

func (u Unknown) appendTo(dst []byte) []byte {
	dst = Header{Tag: u.Tag, Length: u.Length}.appendTo(dst)
	return append(dst, make([]byte, u.Length)...)
}

func decodeUnknown(b []byte) (Unknown, int, error) {
	h, n, err := parseHeader(b, NodeUnknown)
	if err != nil {
		return Unknown{}, 0, err
	}
	return Unknown{Tag: h.Tag, Length: h.Length}, n + int(h.Length), nil
}

// decodeValue decodes the value TLV at the start of b, dispatching on its
// tag byte. Unrecognised tags decode as Unknown.
func decodeValue(b []byte) (Value, int, error) {
	if len(b) < 1 {
		return nil, 0, errTruncated(NodeVarbind, 1, 0)
	}
	switch Asn1BER(b[0]) {
	case TagInteger:
		return asValue(decodeMagnitude[Integer](b, TagInteger, NodeInteger))
	case TagCounter:
		return asValue(decodeMagnitude[Counter](b, TagCounter, NodeCounter))
	case TagGauge:
		return asValue(decodeMagnitude[Gauge](b, TagGauge, NodeGauge))
	case TagTimeTicks:
		return asValue(decodeMagnitude[TimeTicks](b, TagTimeTicks, NodeTimeTicks))
	case TagOctetString:
		return asValue(decodeOctetString(b))
	case TagObjectIdentifier:
		return asValue(decodeObjectIdentifier(b))
	case TagNull:
		return asValue(decodeNull(b))
	default:
		return asValue(decodeUnknown(b))
	}
}

func asValue[T Value](v T, n int, err error) (Value, int, error) {
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

// -- fixed-width integers ----------------------------------------------------

// magnitudeWidth returns the fewest bytes (1-4) holding u.
func magnitudeWidth(u uint32) int {
	switch {
	case u <= 0xff:
		return 1
	case u <= 0xffff:
		return 2
	case u <= 0xffffff:
		return 3
	}
	return 4
}

func magnitudeSize[T constraints.Integer](v T) int {
	return 2 + magnitudeWidth(uint32(v))
}

// appendMagnitude appends a TLV carrying the 32-bit pattern of v as a
// minimal-width big-endian magnitude.
func appendMagnitude[T constraints.Integer](dst []byte, tag Asn1BER, v T) []byte {
	u := uint32(v)
	width := magnitudeWidth(u)
	dst = append(dst, byte(tag), byte(width))
	for i := width - 1; i >= 0; i-- {
		dst = append(dst, byte(u>>uint(8*i)))
	}
	return dst
}

// decodeMagnitude decodes a fixed-width integer TLV with the given tag.
// Integer payloads must be 1-4 bytes. The unsigned types also accept longer
// payloads whose excess leading bytes are zero, as produced by encoders that
// prepend 0x00 to keep the sign bit clear.
func decodeMagnitude[T constraints.Integer](b []byte, tag Asn1BER, node NodeKind) (T, int, error) {
	payload, n, err := expectTLV(b, byte(tag), node)
	if err != nil {
		return 0, 0, err
	}
	if len(payload) == 0 {
		return 0, 0, newError(node, KindProtocol, "empty integer payload")
	}
	if len(payload) > 4 {
		if tag == TagInteger {
			return 0, 0, newError(node, KindProtocol, "%d byte integer exceeds 32 bits", len(payload))
		}
		for _, octet := range payload[:len(payload)-4] {
			if octet != 0 {
				return 0, 0, newError(node, KindProtocol, "%d byte value exceeds 32 bits", len(payload))
			}
		}
		payload = payload[len(payload)-4:]
	}
	var u uint32
	for _, octet := range payload {
		u = u<<8 | uint32(octet)
	}
	return T(u), n, nil
}
