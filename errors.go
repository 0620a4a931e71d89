// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every *Error returned by the codec unwraps to exactly
// one of these, so callers can test the kind with errors.Is.
var (
	// ErrBadType is returned when a tag byte does not match the tag expected
	// for the node being decoded.
	ErrBadType = errors.New("bad type")
	// ErrProtocol is returned for length inconsistencies, truncated buffers
	// and unterminated multi-byte fields.
	ErrProtocol = errors.New("protocol error")
	// ErrBadOID is returned when dotted OID text is malformed or not rooted
	// at 1.3.
	ErrBadOID = errors.New("incorrect OID")
)

// ErrorKind is the fixed category of an *Error.
type ErrorKind uint8

const (
	KindBadType ErrorKind = iota
	KindProtocol
	KindBadOID
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindBadType:
		return ErrBadType
	case KindBadOID:
		return ErrBadOID
	default:
		return ErrProtocol
	}
}

func (k ErrorKind) String() string {
	return k.sentinel().Error()
}

// NodeKind names the node of the message tree that raised an *Error.
type NodeKind uint8

const (
	NodeLength NodeKind = iota
	NodeSubidentifier
	NodeHeader
	NodeNull
	NodeInteger
	NodeCounter
	NodeGauge
	NodeTimeTicks
	NodeOctetString
	NodeObjectIdentifier
	NodeUnknown
	NodeVarbind
	NodeVarbindList
	NodePDU
	NodeMessage
)

var nodeNames = [...]string{
	NodeLength:           "Length",
	NodeSubidentifier:    "Subidentifier",
	NodeHeader:           "Header",
	NodeNull:             "Null",
	NodeInteger:          "Integer",
	NodeCounter:          "Counter",
	NodeGauge:            "Gauge",
	NodeTimeTicks:        "TimeTicks",
	NodeOctetString:      "OctetString",
	NodeObjectIdentifier: "ObjectIdentifier",
	NodeUnknown:          "Unknown",
	NodeVarbind:          "Varbind",
	NodeVarbindList:      "VarbindList",
	NodePDU:              "PDU",
	NodeMessage:          "Message",
}

func (n NodeKind) String() string {
	if int(n) < len(nodeNames) {
		return nodeNames[n]
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(n))
}

// Error is the error type returned by every encode and decode operation of
// the codec. Node is the innermost node that detected the problem; errors
// from child nodes are returned unchanged by their parents.
type Error struct {
	Node   NodeKind
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("snmpv1: %s: %s", e.Node, e.Kind)
	}
	return fmt.Sprintf("snmpv1: %s: %s: %s", e.Node, e.Kind, e.Detail)
}

// Unwrap returns the sentinel matching e.Kind.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

func newError(node NodeKind, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Node: node, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func errTruncated(node NodeKind, need, have int) *Error {
	return newError(node, KindProtocol, "truncated: need %d bytes, have %d", need, have)
}
