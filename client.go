// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pion/dtls/v3"
)

const (
	defaultPort      = 161
	defaultCommunity = "public"
	defaultTimeout   = 2 * time.Second
)

// Client sends requests to one agent and waits for the matching reply.
// Set the exported fields, then call Connect. A Client issues one request at
// a time; it is not safe for concurrent use.
type Client struct {
	// Target is an ipv4 address or hostname.
	Target string

	// Port is the agent port; the default is 161.
	Port uint16

	// Transport is "udp" (the default) or "dtls".
	Transport string

	// Community is the community string; the default is "public".
	Community string

	// Version is written into every request. Only Version1 is meaningful.
	Version SnmpVersion

	// Timeout bounds a request whose context carries no deadline.
	Timeout time.Duration

	// DTLSConfig is required when Transport is "dtls".
	DTLSConfig *dtls.Config

	Logger Logger

	// Conn is the connection opened by Connect. Tests may set it directly.
	Conn net.Conn

	requestID uint32
}

// Connect opens the connection to the agent. For DTLS the handshake is
// completed before Connect returns.
func (c *Client) Connect(ctx context.Context) error {
	if c.Target == "" {
		return errors.New("client has no Target")
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Community == "" {
		c.Community = defaultCommunity
	}
	atomic.StoreUint32(&c.requestID, rand.Uint32())

	addr := net.JoinHostPort(c.Target, strconv.Itoa(int(c.Port)))
	switch c.Transport {
	case "", udp:
		var d net.Dialer
		conn, err := d.DialContext(ctx, udp, addr)
		if err != nil {
			return fmt.Errorf("error establishing connection to host: %w", err)
		}
		c.Conn = conn
	case dtlsProto:
		if c.DTLSConfig == nil {
			return errors.New("DTLSConfig required for DTLS transport")
		}
		raddr, err := net.ResolveUDPAddr(udp, addr)
		if err != nil {
			return fmt.Errorf("error resolving %s: %w", addr, err)
		}
		conn, err := dtls.Dial(udp, raddr, c.DTLSConfig)
		if err != nil {
			return fmt.Errorf("error establishing DTLS connection: %w", err)
		}
		if err := conn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return fmt.Errorf("DTLS handshake failed: %w", err)
		}
		c.Conn = conn
	default:
		return fmt.Errorf("unsupported transport %q [use: udp/dtls]", c.Transport)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

// Get fetches the values of oids. An error status from the agent is
// reported in the returned PDU, not as an error.
func (c *Client) Get(ctx context.Context, oids ...ObjectIdentifier) (*Message, error) {
	return c.send(ctx, GetRequest, nullVarbinds(oids))
}

// GetNext fetches the lexicographic successors of oids.
func (c *Client) GetNext(ctx context.Context, oids ...ObjectIdentifier) (*Message, error) {
	return c.send(ctx, GetNextRequest, nullVarbinds(oids))
}

// Set writes varbinds.
func (c *Client) Set(ctx context.Context, varbinds ...Varbind) (*Message, error) {
	return c.send(ctx, SetRequest, varbinds)
}

func nullVarbinds(oids []ObjectIdentifier) VarbindList {
	list := make(VarbindList, len(oids))
	for i, oid := range oids {
		list[i] = NullVarbind(oid)
	}
	return list
}

func (c *Client) nextRequestID() int32 {
	return int32(atomic.AddUint32(&c.requestID, 1) & 0x7FFFFFFF)
}

// send writes one request and reads until the reply with the same request
// ID arrives or ctx is done. Replies to other requests are discarded.
func (c *Client) send(ctx context.Context, t PDUType, varbinds VarbindList) (*Message, error) {
	if c.Conn == nil {
		return nil, errors.New("client is not connected")
	}
	if _, ok := ctx.Deadline(); !ok {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	deadline, _ := ctx.Deadline()
	if err := c.Conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("error setting deadline: %w", err)
	}
	defer c.Conn.SetDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() {
		c.Conn.SetDeadline(time.Now())
	})
	defer stop()

	id := c.nextRequestID()
	req := &Message{
		Version:   c.Version,
		Community: c.community(),
		PDU:       NewPDU(t, id, varbinds...),
	}
	out, err := req.Encode()
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if c.Logger.Enabled() {
		c.Logger.Printf("SENDING PACKET: %s", req)
	}
	if _, err := c.Conn.Write(out); err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}

	buf := make([]byte, defaultBufferSize)
	for {
		n, err := c.Conn.Read(buf)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("request %d: %w", id, ctxErr)
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return nil, fmt.Errorf("request %d: %w", id, context.DeadlineExceeded)
			}
			return nil, fmt.Errorf("error reading response: %w", err)
		}
		resp, err := Decode(buf[:n])
		if err != nil {
			c.Logger.Printf("ERROR on unmarshall response: %s", err)
			continue
		}
		if resp.PDU.Type != GetResponse || resp.PDU.RequestID != id {
			c.Logger.Printf("Response ID mismatch: got %s %d, expected %d", resp.PDU.Type, resp.PDU.RequestID, id)
			continue
		}
		return resp, nil
	}
}

func (c *Client) community() string {
	if c.Community == "" {
		return defaultCommunity
	}
	return c.Community
}
