// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package snmpv1 is a BER codec for SNMP version 1 messages.
//
// A Message is decoded into a tree of Message -> PDU -> VarbindList ->
// Varbind -> Value and encoded back with byte-exact minimal encodings.
// Decode never reads past the supplied buffer and reports malformed input
// with an *Error whose kind is one of ErrBadType, ErrProtocol or ErrBadOID.
//
// The package also carries the thin collaborators built on top of the
// codec: an Agent that answers requests over UDP or DTLS, a Client that
// issues them, and a pcap reader for offline inspection.
//
// See http://www.rane.com/note161.html for a succint description of the SNMP
// protocol.
package snmpv1

import "fmt"

// Asn1BER is the type of an SNMP value as it appears in the tag byte of its
// BER encoding.
type Asn1BER byte

// Tags understood by the codec. Any other value tag decodes as Unknown.
const (
	TagInteger          Asn1BER = 0x02
	TagOctetString      Asn1BER = 0x04
	TagNull             Asn1BER = 0x05
	TagObjectIdentifier Asn1BER = 0x06
	TagSequence         Asn1BER = 0x30
	TagCounter          Asn1BER = 0x41
	TagGauge            Asn1BER = 0x42
	TagTimeTicks        Asn1BER = 0x43
)

func (a Asn1BER) String() string {
	switch a {
	case TagInteger:
		return "Integer"
	case TagOctetString:
		return "OctetString"
	case TagNull:
		return "Null"
	case TagObjectIdentifier:
		return "ObjectIdentifier"
	case TagSequence:
		return "Sequence"
	case TagCounter:
		return "Counter"
	case TagGauge:
		return "Gauge"
	case TagTimeTicks:
		return "TimeTicks"
	}
	return fmt.Sprintf("Asn1BER(%#02x)", byte(a))
}

// PDUType describes which SNMP Protocol Data Unit is being sent.
type PDUType byte

// The PDU types of SNMPv1. Trap is recognised but cannot be decoded.
const (
	GetRequest     PDUType = 0xa0
	GetNextRequest PDUType = 0xa1
	GetResponse    PDUType = 0xa2
	SetRequest     PDUType = 0xa3
	Trap           PDUType = 0xa4
)

func (p PDUType) String() string {
	switch p {
	case GetRequest:
		return "GetRequest"
	case GetNextRequest:
		return "GetNextRequest"
	case GetResponse:
		return "GetResponse"
	case SetRequest:
		return "SetRequest"
	case Trap:
		return "Trap"
	}
	return fmt.Sprintf("PDUType(%#02x)", byte(p))
}

// supported reports whether p can be decoded and encoded by this package.
func (p PDUType) supported() bool {
	switch p {
	case GetRequest, GetNextRequest, GetResponse, SetRequest:
		return true
	}
	return false
}

// SnmpVersion is the value of the version field of a Message.
type SnmpVersion int32

// Only Version1 semantics are implemented; the other values are decoded
// as-is so a caller can reject them.
const (
	Version1  SnmpVersion = 0x0
	Version2c SnmpVersion = 0x1
	Version3  SnmpVersion = 0x3
)

func (s SnmpVersion) String() string {
	switch s {
	case Version1:
		return "1"
	case Version2c:
		return "2c"
	case Version3:
		return "3"
	}
	return fmt.Sprintf("SnmpVersion(%d)", int32(s))
}

// SNMPError is the error-status field of a PDU.
type SNMPError int32

// SNMPv1 error-status values, RFC 1157 section 4.1.1.
const (
	NoError    SNMPError = 0
	TooBig     SNMPError = 1
	NoSuchName SNMPError = 2
	BadValue   SNMPError = 3
	ReadOnly   SNMPError = 4
	GenErr     SNMPError = 5
)

func (e SNMPError) String() string {
	switch e {
	case NoError:
		return "NoError"
	case TooBig:
		return "TooBig"
	case NoSuchName:
		return "NoSuchName"
	case BadValue:
		return "BadValue"
	case ReadOnly:
		return "ReadOnly"
	case GenErr:
		return "GenErr"
	}
	return fmt.Sprintf("SNMPError(%d)", int32(e))
}
