// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

// maxSubidentifierOctets caps the number of base-128 digits of one OID
// sub-identifier. Five digits hold any uint32.
const maxSubidentifierOctets = 5

// base128Size returns the number of bytes appendBase128 writes for v.
func base128Size(v uint32) int {
	l := 1
	for v >>= 7; v > 0; v >>= 7 {
		l++
	}
	return l
}

// appendBase128 appends v as base-128 digits, most significant first, with
// the continuation bit set on every byte but the last.
func appendBase128(dst []byte, v uint32) []byte {
	for i := base128Size(v) - 1; i >= 0; i-- {
		o := byte(v>>uint(i*7)) & 0x7f
		if i != 0 {
			o |= 0x80
		}
		dst = append(dst, o)
	}
	return dst
}

// parseBase128 decodes one base-128 sub-identifier from the start of b.
func parseBase128(b []byte) (v uint32, consumed int, err error) {
	var acc uint64
	for consumed < len(b) {
		if consumed == maxSubidentifierOctets {
			return 0, 0, newError(NodeSubidentifier, KindProtocol, "base 128 integer too large")
		}
		octet := b[consumed]
		acc = acc<<7 | uint64(octet&0x7f)
		consumed++
		if octet&0x80 == 0 {
			if acc > 0xffffffff {
				return 0, 0, newError(NodeSubidentifier, KindProtocol, "base 128 integer overflows 32 bits")
			}
			return uint32(acc), consumed, nil
		}
	}
	return 0, 0, newError(NodeSubidentifier, KindProtocol, "truncated base 128 integer")
}
