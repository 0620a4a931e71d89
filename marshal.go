// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"bytes"
	"fmt"
)

// Message is the top-level SNMP envelope: version, community and one PDU.
// A Message owns its PDU and everything below it; decode always builds a
// fresh tree.
type Message struct {
	Version   SnmpVersion
	Community string
	PDU       PDU
}

// NewMessage returns a Version1 message carrying pdu.
func NewMessage(community string, pdu PDU) *Message {
	return &Message{Version: Version1, Community: community, PDU: pdu}
}

func (m *Message) payloadLen() int {
	return Integer(m.Version).Size() +
		tlvSize(len(m.Community)) +
		m.PDU.Size()
}

// Size returns the number of bytes Encode produces for m.
func (m *Message) Size() int {
	return tlvSize(m.payloadLen())
}

func (m *Message) String() string {
	return fmt.Sprintf("Version:%s, Community:%s, PDU:%s", m.Version, m.Community, m.PDU)
}

// -- Marshalling Logic --------------------------------------------------------

// Encode marshals m, ready for sending across the wire.
func Encode(m *Message) ([]byte, error) {
	return m.Encode()
}

// Encode marshals m into a newly allocated slice. The only failure is a PDU
// type that cannot be encoded.
func (m *Message) Encode() ([]byte, error) {
	return m.appendTo(make([]byte, 0, m.Size()))
}

// EncodeTo marshals m into buf. Any previous contents of buf are discarded.
func (m *Message) EncodeTo(buf *bytes.Buffer) error {
	buf.Reset()
	out, err := m.appendTo(buf.AvailableBuffer())
	if err != nil {
		return err
	}
	_, err = buf.Write(out)
	return err
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Message) MarshalBinary() ([]byte, error) {
	return m.Encode()
}

func (m *Message) appendTo(dst []byte) ([]byte, error) {
	dst = Header{Tag: byte(TagSequence), Length: uint32(m.payloadLen())}.appendTo(dst)
	dst = Integer(m.Version).appendTo(dst)
	dst = OctetString(m.Community).appendTo(dst)
	return m.PDU.appendTo(dst)
}

// -- Unmarshalling Logic ------------------------------------------------------

// Decode unmarshals one complete message. b must hold exactly one message;
// trailing bytes are a protocol error. On failure the returned error is an
// *Error raised by the innermost node that found the problem.
func Decode(b []byte) (*Message, error) {
	payload, n, err := expectTLV(b, byte(TagSequence), NodeMessage)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, newError(NodeMessage, KindProtocol, "error verifying packet sanity: got %d bytes, message is %d", len(b), n)
	}

	version, cursor, err := decodeMagnitude[Integer](payload, TagInteger, NodeInteger)
	if err != nil {
		return nil, err
	}
	community, count, err := decodeOctetString(payload[cursor:])
	if err != nil {
		return nil, err
	}
	cursor += count
	pdu, count, err := decodePDU(payload[cursor:])
	if err != nil {
		return nil, err
	}
	cursor += count
	if cursor != len(payload) {
		return nil, newError(NodeMessage, KindProtocol, "%d trailing bytes", len(payload)-cursor)
	}

	return &Message{
		Version:   SnmpVersion(version),
		Community: string(community),
		PDU:       pdu,
	}, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. m is only written
// when b decodes successfully.
func (m *Message) UnmarshalBinary(b []byte) error {
	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}
