// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

// Header is the tag and length prefix shared by every TLV node. Length is the
// exact byte count of the payload that follows the header.
type Header struct {
	Tag    byte
	Length uint32
}

// Size returns the number of bytes the header itself occupies on the wire.
func (h Header) Size() int {
	return 1 + lengthSize(h.Length)
}

func (h Header) appendTo(dst []byte) []byte {
	dst = append(dst, h.Tag)
	return appendLength(dst, h.Length)
}

// parseHeader decodes the header at the start of b. The declared length must
// fit in what remains of b after the header. node identifies the caller in
// returned errors.
func parseHeader(b []byte, node NodeKind) (Header, int, error) {
	if len(b) < 1 {
		return Header{}, 0, errTruncated(node, 1, 0)
	}
	length, n, err := parseLength(b[1:])
	if err != nil {
		return Header{}, 0, err
	}
	h := Header{Tag: b[0], Length: length}
	consumed := 1 + n
	if uint64(length) > uint64(len(b)-consumed) {
		return Header{}, 0, newError(node, KindProtocol, "declared length %d exceeds remaining %d bytes", length, len(b)-consumed)
	}
	return h, consumed, nil
}

// expectTLV decodes a header that must carry tag and returns the payload
// slice and the total number of bytes the TLV spans.
func expectTLV(b []byte, tag byte, node NodeKind) (payload []byte, consumed int, err error) {
	h, n, err := parseHeader(b, node)
	if err != nil {
		return nil, 0, err
	}
	if h.Tag != tag {
		return nil, 0, newError(node, KindBadType, "got tag %#02x, expected %#02x", h.Tag, tag)
	}
	end := n + int(h.Length)
	return b[n:end], end, nil
}

// tlvSize returns the encoded size of a TLV whose payload is payloadLen bytes.
func tlvSize(payloadLen int) int {
	return 1 + lengthSize(uint32(payloadLen)) + payloadLen
}
