// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"slices"
	"strconv"
	"strings"
)

// rootSubidentifier is the first encoded sub-identifier of every OID under
// iso.org (1.3): 40*1 + 3.
const rootSubidentifier = 0x2b

// maxOIDArcs limits the number of arcs accepted when building an OID, as in
// RFC 2578 section 3.5.
const maxOIDArcs = 128

// ObjectIdentifier is an OID value. It holds the encoded sub-identifiers, so
// the first element fuses the first two arcs.
//
// Only OIDs rooted at 1.3 can be constructed: the constructors always encode
// the root as 0x2b and reject any other first two arcs. Decoding keeps
// whatever root the wire carries. ObjectIdentifier values are immutable;
// Append returns a new value.
type ObjectIdentifier struct {
	subids []uint32
}

// NewOID builds an ObjectIdentifier from its arcs, which must start with 1, 3.
func NewOID(arcs ...uint32) (ObjectIdentifier, error) {
	if len(arcs) < 2 || arcs[0] != 1 || arcs[1] != 3 {
		return ObjectIdentifier{}, newError(NodeObjectIdentifier, KindBadOID, "%v is not rooted at 1.3", arcs)
	}
	if len(arcs) > maxOIDArcs {
		return ObjectIdentifier{}, newError(NodeObjectIdentifier, KindBadOID, "%d arcs exceed the %d supported", len(arcs), maxOIDArcs)
	}
	subids := make([]uint32, 0, len(arcs)-1)
	subids = append(subids, rootSubidentifier)
	subids = append(subids, arcs[2:]...)
	return ObjectIdentifier{subids: subids}, nil
}

// ParseOID parses dotted-decimal text such as "1.3.6.1.2.1.1.3.0". A single
// leading dot is accepted.
func ParseOID(s string) (ObjectIdentifier, error) {
	text := strings.TrimPrefix(s, ".")
	parts := strings.Split(text, ".")
	if len(parts) > maxOIDArcs {
		return ObjectIdentifier{}, newError(NodeObjectIdentifier, KindBadOID, "%q has more than %d arcs", s, maxOIDArcs)
	}
	arcs := make([]uint32, len(parts))
	for i, part := range parts {
		if part == "" {
			return ObjectIdentifier{}, newError(NodeObjectIdentifier, KindBadOID, "%q has a malformed separator", s)
		}
		for j := 0; j < len(part); j++ {
			if part[j] < '0' || part[j] > '9' {
				return ObjectIdentifier{}, newError(NodeObjectIdentifier, KindBadOID, "%q has invalid character %q", s, part[j])
			}
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return ObjectIdentifier{}, newError(NodeObjectIdentifier, KindBadOID, "%q: arc %q out of range", s, part)
		}
		arcs[i] = uint32(v)
	}
	if len(arcs) < 2 || arcs[0] != 1 || arcs[1] != 3 {
		return ObjectIdentifier{}, newError(NodeObjectIdentifier, KindBadOID, "%q is not rooted at 1.3", s)
	}
	return NewOID(arcs...)
}

// MustParseOID is like ParseOID but panics on error. It is intended for
// package-level OID tables.
func MustParseOID(s string) ObjectIdentifier {
	oid, err := ParseOID(s)
	if err != nil {
		panic(err)
	}
	return oid
}

// Append returns a copy of o with arc added at the end.
func (o ObjectIdentifier) Append(arc uint32) ObjectIdentifier {
	subids := make([]uint32, len(o.subids), len(o.subids)+1)
	copy(subids, o.subids)
	return ObjectIdentifier{subids: append(subids, arc)}
}

// Arcs returns the arcs of o, splitting the encoded root back into its two
// leading arcs.
func (o ObjectIdentifier) Arcs() []uint32 {
	if len(o.subids) == 0 {
		return nil
	}
	arcs := make([]uint32, 0, len(o.subids)+1)
	root := o.subids[0]
	if root < 80 {
		arcs = append(arcs, root/40, root%40)
	} else {
		arcs = append(arcs, 2, root-80)
	}
	return append(arcs, o.subids[1:]...)
}

// Len returns the number of arcs in o.
func (o ObjectIdentifier) Len() int {
	if len(o.subids) == 0 {
		return 0
	}
	return len(o.subids) + 1
}

// Equal reports whether o and p have the same arcs.
func (o ObjectIdentifier) Equal(p ObjectIdentifier) bool {
	return slices.Equal(o.subids, p.subids)
}

// Compare orders OIDs arc by arc; when one is a prefix of the other the
// shorter sorts first. It returns -1, 0 or +1.
func (o ObjectIdentifier) Compare(p ObjectIdentifier) int {
	return slices.Compare(o.subids, p.subids)
}

// Less reports whether o sorts before p.
func (o ObjectIdentifier) Less(p ObjectIdentifier) bool {
	return o.Compare(p) < 0
}

// HasPrefix reports whether prefix names o or one of its ancestors.
func (o ObjectIdentifier) HasPrefix(prefix ObjectIdentifier) bool {
	return len(prefix.subids) <= len(o.subids) && slices.Equal(o.subids[:len(prefix.subids)], prefix.subids)
}

// String renders o in dotted-decimal form without a leading dot.
func (o ObjectIdentifier) String() string {
	arcs := o.Arcs()
	var b strings.Builder
	for i, arc := range arcs {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(uint64(arc), 10))
	}
	return b.String()
}

func (o ObjectIdentifier) Type() Asn1BER { return TagObjectIdentifier }
func (o ObjectIdentifier) Size() int     { return tlvSize(o.payloadLen()) }

func (o ObjectIdentifier) payloadLen() int {
	n := 0
	for _, v := range o.subids {
		n += base128Size(v)
	}
	return n
}

func (o ObjectIdentifier) appendTo(dst []byte) []byte {
	dst = Header{Tag: byte(TagObjectIdentifier), Length: uint32(o.payloadLen())}.appendTo(dst)
	for _, v := range o.subids {
		dst = appendBase128(dst, v)
	}
	return dst
}

// decodeObjectIdentifier consumes sub-identifiers until exactly the declared
// payload length has been used.
func decodeObjectIdentifier(b []byte) (ObjectIdentifier, int, error) {
	payload, n, err := expectTLV(b, byte(TagObjectIdentifier), NodeObjectIdentifier)
	if err != nil {
		return ObjectIdentifier{}, 0, err
	}
	var subids []uint32
	for cursor := 0; cursor < len(payload); {
		v, count, err := parseBase128(payload[cursor:])
		if err != nil {
			return ObjectIdentifier{}, 0, err
		}
		subids = append(subids, v)
		cursor += count
	}
	return ObjectIdentifier{subids: subids}, n, nil
}
