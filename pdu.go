// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import "fmt"

// PDU is the operation-specific body of a Message.
//
// ErrorIndex is the 1-based position, in the request, of the varbind that
// caused ErrorStatus; 0 when there is no error.
type PDU struct {
	Type        PDUType
	RequestID   int32
	ErrorStatus SNMPError
	ErrorIndex  uint32
	Varbinds    VarbindList
}

// NewPDU returns a PDU of the given type with no error set.
func NewPDU(t PDUType, requestID int32, varbinds ...Varbind) PDU {
	return PDU{Type: t, RequestID: requestID, Varbinds: varbinds}
}

// ErrorVarbind returns the varbind ErrorIndex points at, or false if the
// index is 0 or out of range.
func (p PDU) ErrorVarbind() (Varbind, bool) {
	if p.ErrorIndex == 0 || uint64(p.ErrorIndex) > uint64(len(p.Varbinds)) {
		return Varbind{}, false
	}
	return p.Varbinds[p.ErrorIndex-1], true
}

func (p PDU) payloadLen() int {
	return Integer(p.RequestID).Size() +
		Integer(p.ErrorStatus).Size() +
		Integer(p.ErrorIndex).Size() +
		p.Varbinds.Size()
}

// Size returns the number of bytes of the encoded PDU.
func (p PDU) Size() int {
	return tlvSize(p.payloadLen())
}

func (p PDU) appendTo(dst []byte) ([]byte, error) {
	if !p.Type.supported() {
		return dst, newError(NodePDU, KindBadType, "cannot encode %s", p.Type)
	}
	dst = Header{Tag: byte(p.Type), Length: uint32(p.payloadLen())}.appendTo(dst)
	dst = Integer(p.RequestID).appendTo(dst)
	dst = Integer(p.ErrorStatus).appendTo(dst)
	dst = Integer(p.ErrorIndex).appendTo(dst)
	return p.Varbinds.appendTo(dst), nil
}

// decodePDU decodes request-id, error-status, error-index and the varbind
// list, in that order, from a Get/GetNext/GetResponse/Set PDU.
func decodePDU(b []byte) (PDU, int, error) {
	h, n, err := parseHeader(b, NodePDU)
	if err != nil {
		return PDU{}, 0, err
	}
	t := PDUType(h.Tag)
	if !t.supported() {
		return PDU{}, 0, newError(NodePDU, KindBadType, "unsupported PDU type %s", t)
	}
	payload := b[n : n+int(h.Length)]

	var fields [3]Integer
	cursor := 0
	for i := range fields {
		v, count, err := decodeMagnitude[Integer](payload[cursor:], TagInteger, NodeInteger)
		if err != nil {
			return PDU{}, 0, err
		}
		fields[i] = v
		cursor += count
	}
	varbinds, count, err := decodeVarbindList(payload[cursor:])
	if err != nil {
		return PDU{}, 0, err
	}
	cursor += count
	if cursor != len(payload) {
		return PDU{}, 0, newError(NodePDU, KindProtocol, "%d trailing bytes", len(payload)-cursor)
	}

	return PDU{
		Type:        t,
		RequestID:   int32(fields[0]),
		ErrorStatus: SNMPError(fields[1]),
		ErrorIndex:  uint32(fields[2]),
		Varbinds:    varbinds,
	}, n + int(h.Length), nil
}

func (p PDU) String() string {
	return fmt.Sprintf("%s RequestID:%d ErrorStatus:%s ErrorIndex:%d Varbinds:%v",
		p.Type, p.RequestID, p.ErrorStatus, p.ErrorIndex, p.Varbinds)
}
