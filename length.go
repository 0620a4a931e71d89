// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import "encoding/binary"

// maxLengthOctets is the number of magnitude octets a long-form length may
// carry; lengths are held in a uint32.
const maxLengthOctets = 4

// lengthSize returns the number of bytes appendLength writes for n.
func lengthSize(n uint32) int {
	if n <= 127 {
		return 1
	}
	l := 2
	for n > 0xff {
		l++
		n >>= 8
	}
	return l
}

// appendLength appends the BER definite-length encoding of n: short form up
// to 127, otherwise 0x80|count followed by the big-endian magnitude with
// leading zero octets stripped.
func appendLength(dst []byte, n uint32) []byte {
	if n <= 127 {
		return append(dst, byte(n))
	}
	var buf [maxLengthOctets]byte
	binary.BigEndian.PutUint32(buf[:], n)
	octets := buf[:]
	for octets[0] == 0 {
		octets = octets[1:]
	}
	dst = append(dst, 0x80|byte(len(octets)))
	return append(dst, octets...)
}

// parseLength decodes a BER length field at the start of b and returns the
// value together with the number of bytes it occupied.
//
// Indefinite lengths (0x80) are prohibited in SNMP (RFC 3417 section 8) and
// rejected like any other malformed length.
func parseLength(b []byte) (length uint32, consumed int, err error) {
	if len(b) < 1 {
		return 0, 0, errTruncated(NodeLength, 1, 0)
	}
	first := b[0]
	if first&0x80 == 0 {
		return uint32(first), 1, nil
	}

	numOctets := int(first & 0x7f)
	switch {
	case numOctets == 0:
		return 0, 0, newError(NodeLength, KindProtocol, "indefinite length not supported")
	case numOctets > maxLengthOctets:
		return 0, 0, newError(NodeLength, KindProtocol, "%d length octets exceed the %d supported", numOctets, maxLengthOctets)
	case numOctets > len(b)-1:
		return 0, 0, errTruncated(NodeLength, numOctets, len(b)-1)
	}

	for _, octet := range b[1 : 1+numOctets] {
		length = length<<8 | uint32(octet)
	}
	return length, 1 + numOctets, nil
}
