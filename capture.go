// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Well-known SNMP ports; ReadCapture only looks at UDP packets using one of
// them as source or destination.
const (
	agentPort = 161
	trapPort  = 162
)

// CapturedMessage is one SNMP datagram found in a packet capture. Exactly
// one of Message and Err is set.
type CapturedMessage struct {
	Timestamp time.Time
	Src       string
	Dst       string
	Message   *Message
	Err       error
}

// ReadCapture reads a pcap stream and calls fn for every UDP datagram sent
// to or from an SNMP port. Datagrams that do not decode are passed to fn
// with Err set. Reading stops at the end of the stream or when fn returns
// an error, which ReadCapture then returns.
func ReadCapture(r io.Reader, fn func(CapturedMessage) error) error {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return fmt.Errorf("error reading pcap header: %w", err)
	}
	for {
		data, ci, err := pr.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading packet: %w", err)
		}

		packet := gopacket.NewPacket(data, pr.LinkType(), gopacket.NoCopy)
		udpLayer, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
		if !ok || !isSNMPPort(udpLayer.SrcPort) && !isSNMPPort(udpLayer.DstPort) {
			continue
		}

		cm := CapturedMessage{Timestamp: ci.Timestamp}
		if nl := packet.NetworkLayer(); nl != nil {
			flow := nl.NetworkFlow()
			cm.Src = net.JoinHostPort(flow.Src().String(), strconv.Itoa(int(udpLayer.SrcPort)))
			cm.Dst = net.JoinHostPort(flow.Dst().String(), strconv.Itoa(int(udpLayer.DstPort)))
		}
		cm.Message, cm.Err = Decode(udpLayer.Payload)
		if err := fn(cm); err != nil {
			return err
		}
	}
}

func isSNMPPort(p layers.UDPPort) bool {
	return p == agentPort || p == trapPort
}
