// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"fmt"
	"slices"
)

// maxVarbinds bounds the number of elements decoded from one VarbindList,
// independent of the declared sequence length.
const maxVarbinds = 1024

// Varbind pairs an OID with exactly one value. A nil Value encodes as Null,
// so the zero Varbind is a valid GetRequest binding.
type Varbind struct {
	Name  ObjectIdentifier
	Value Value
}

// NewVarbind returns a Varbind binding name to value.
func NewVarbind(name ObjectIdentifier, value Value) Varbind {
	return Varbind{Name: name, Value: value}
}

// NullVarbind returns a Varbind binding name to Null, as used in Get and
// GetNext requests.
func NullVarbind(name ObjectIdentifier) Varbind {
	return Varbind{Name: name, Value: Null{}}
}

// Type returns the tag of the active value.
func (vb Varbind) Type() Asn1BER {
	return vb.value().Type()
}

func (vb Varbind) value() Value {
	if vb.Value == nil {
		return Null{}
	}
	return vb.Value
}

// Integer returns the active Integer value. It panics if another variant is
// active.
func (vb Varbind) Integer() Integer { return mustValue[Integer](vb) }

// Counter returns the active Counter value. It panics if another variant is
// active.
func (vb Varbind) Counter() Counter { return mustValue[Counter](vb) }

// Gauge returns the active Gauge value. It panics if another variant is
// active.
func (vb Varbind) Gauge() Gauge { return mustValue[Gauge](vb) }

// TimeTicks returns the active TimeTicks value. It panics if another variant
// is active.
func (vb Varbind) TimeTicks() TimeTicks { return mustValue[TimeTicks](vb) }

// OctetString returns the active OctetString value. It panics if another
// variant is active.
func (vb Varbind) OctetString() OctetString { return mustValue[OctetString](vb) }

// ObjectIdentifier returns the active ObjectIdentifier value. It panics if
// another variant is active.
func (vb Varbind) ObjectIdentifier() ObjectIdentifier { return mustValue[ObjectIdentifier](vb) }

// Unknown returns the active Unknown value. It panics if another variant is
// active.
func (vb Varbind) Unknown() Unknown { return mustValue[Unknown](vb) }

func mustValue[T Value](vb Varbind) T {
	v, ok := vb.value().(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("snmpv1: Varbind %s holds %s, not %T", vb.Name, vb.Type(), want))
	}
	return v
}

// Clone returns a deep copy of vb that shares no memory with it.
func (vb Varbind) Clone() Varbind {
	out := Varbind{Name: ObjectIdentifier{subids: slices.Clone(vb.Name.subids)}}
	switch v := vb.Value.(type) {
	case OctetString:
		out.Value = slices.Clone(v)
	case ObjectIdentifier:
		out.Value = ObjectIdentifier{subids: slices.Clone(v.subids)}
	default:
		out.Value = v
	}
	return out
}

func (vb Varbind) String() string {
	return fmt.Sprintf("%s = %s: %s", vb.Name, vb.Type(), vb.value())
}

func (vb Varbind) payloadLen() int {
	return vb.Name.Size() + vb.value().Size()
}

// Size returns the number of bytes of the encoded Varbind sequence.
func (vb Varbind) Size() int {
	return tlvSize(vb.payloadLen())
}

func (vb Varbind) appendTo(dst []byte) []byte {
	dst = Header{Tag: byte(TagSequence), Length: uint32(vb.payloadLen())}.appendTo(dst)
	dst = vb.Name.appendTo(dst)
	return vb.value().appendTo(dst)
}

// decodeVarbind decodes a SEQUENCE { name, value }. The name and value must
// fill the sequence exactly.
func decodeVarbind(b []byte) (Varbind, int, error) {
	payload, n, err := expectTLV(b, byte(TagSequence), NodeVarbind)
	if err != nil {
		return Varbind{}, 0, err
	}
	name, cursor, err := decodeObjectIdentifier(payload)
	if err != nil {
		return Varbind{}, 0, err
	}
	value, count, err := decodeValue(payload[cursor:])
	if err != nil {
		return Varbind{}, 0, err
	}
	cursor += count
	if cursor != len(payload) {
		return Varbind{}, 0, newError(NodeVarbind, KindProtocol, "%d trailing bytes", len(payload)-cursor)
	}
	return Varbind{Name: name, Value: value}, n, nil
}

// VarbindList is the ordered list of bindings of a PDU. Order is
// significant: responses answer requests position by position.
type VarbindList []Varbind

// Append adds vb at the end of the list.
func (l *VarbindList) Append(vb ...Varbind) {
	*l = append(*l, vb...)
}

// Clone returns a deep copy of l.
func (l VarbindList) Clone() VarbindList {
	if l == nil {
		return nil
	}
	out := make(VarbindList, len(l))
	for i, vb := range l {
		out[i] = vb.Clone()
	}
	return out
}

// payloadLen recomputes the sequence length from every member.
func (l VarbindList) payloadLen() int {
	n := 0
	for _, vb := range l {
		n += vb.Size()
	}
	return n
}

// Size returns the number of bytes of the encoded list.
func (l VarbindList) Size() int {
	return tlvSize(l.payloadLen())
}

func (l VarbindList) appendTo(dst []byte) []byte {
	dst = Header{Tag: byte(TagSequence), Length: uint32(l.payloadLen())}.appendTo(dst)
	for _, vb := range l {
		dst = vb.appendTo(dst)
	}
	return dst
}

// decodeVarbindList decodes varbinds until the declared sequence length is
// used up. Each element is decoded inside the remaining sequence payload,
// which itself lies inside b, and at most maxVarbinds elements are accepted.
func decodeVarbindList(b []byte) (VarbindList, int, error) {
	payload, n, err := expectTLV(b, byte(TagSequence), NodeVarbindList)
	if err != nil {
		return nil, 0, err
	}
	var list VarbindList
	for cursor := 0; cursor < len(payload); {
		if len(list) == maxVarbinds {
			return nil, 0, newError(NodeVarbindList, KindProtocol, "more than %d varbinds", maxVarbinds)
		}
		vb, count, err := decodeVarbind(payload[cursor:])
		if err != nil {
			return nil, 0, err
		}
		list = append(list, vb)
		cursor += count
	}
	return list, n, nil
}
