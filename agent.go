// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/dtls/v3"
)

const (
	udp       = "udp"
	dtlsProto = "dtls"

	// Default timeout value for CloseTimeout of 3 seconds
	defaultCloseTimeout = 3 * time.Second
	defaultBufferSize   = 4096
	// RFC 1157 section 4: every implementation must accept 484 byte messages.
	defaultMaxMessageSize = 484
)

var errHandlerPanic = errors.New("handler panic")

// Request is one decoded GetRequest, GetNextRequest or SetRequest.
type Request struct {
	// Addr is the sender: *net.UDPAddr for UDP and DTLS.
	Addr      net.Addr
	Version   SnmpVersion
	Community string
	PDU       PDU
}

// Handler answers agent requests. The returned PDU only needs ErrorStatus,
// ErrorIndex and Varbinds; the agent fills in the type and request ID. A nil
// PDU with a nil error sends no reply.
//
// Handlers must not retain req or its varbinds after returning.
//
//go:generate mockgen -destination=mocks/mock_handler.go -package=mocks github.com/gosnmp/snmpv1 Handler
type Handler interface {
	ServeSNMP(ctx context.Context, req *Request) (*PDU, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *Request) (*PDU, error)

// ServeSNMP calls f(ctx, req).
func (f HandlerFunc) ServeSNMP(ctx context.Context, req *Request) (*PDU, error) {
	return f(ctx, req)
}

// An Agent answers SNMPv1 requests on a UDP or DTLS socket.
// Zero values of the exported fields are replaced by defaults.
type Agent struct {
	done      chan bool
	listening chan bool
	sync.Mutex

	// Handler builds the response for every accepted request.
	Handler Handler

	// Community, when set, must match the community of a request; other
	// requests are dropped without reply.
	Community string

	// BufferSize is the largest datagram read; the default is 4096.
	BufferSize int

	// MaxMessageSize bounds encoded responses. A larger response is
	// replaced by a tooBig error echoing the request varbinds. The default
	// is 484.
	MaxMessageSize int

	// CloseTimeout is the max wait time for the socket to gracefully signal its closure.
	CloseTimeout time.Duration

	// DTLSConfig is required when listening on "dtls://" addresses.
	DTLSConfig *dtls.Config

	Logger  Logger
	Metrics *AgentMetrics

	conn         net.PacketConn
	dtlsListener net.Listener
	dtlsConns    map[net.Conn]struct{}

	ctx    context.Context
	cancel context.CancelFunc

	finish int32 // Atomic flag; set to 1 when closing connection
}

// NewAgent returns an Agent serving h.
func NewAgent(h Handler) *Agent {
	ctx, cancel := context.WithCancel(context.Background())
	return &Agent{
		done:         make(chan bool),
		listening:    make(chan bool, 1), // Buffered because one doesn't have to block on it.
		Handler:      h,
		CloseTimeout: defaultCloseTimeout,
		dtlsConns:    make(map[net.Conn]struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Listening returns a sentinel channel on which one can block
// until the agent is ready to receive requests.
func (a *Agent) Listening() <-chan bool {
	a.Lock()
	defer a.Unlock()
	return a.listening
}

// Addr returns the local address of the active socket, or nil before the
// agent is listening.
func (a *Agent) Addr() net.Addr {
	a.Lock()
	defer a.Unlock()
	switch {
	case a.conn != nil:
		return a.conn.LocalAddr()
	case a.dtlsListener != nil:
		return a.dtlsListener.Addr()
	}
	return nil
}

// Close stops the agent and waits up to CloseTimeout for the serving loop
// to return.
func (a *Agent) Close() {
	if !atomic.CompareAndSwapInt32(&a.finish, 0, 1) {
		return
	}
	a.cancel()

	a.Lock()
	var closeErr error
	switch {
	case a.conn != nil:
		closeErr = a.conn.Close()
	case a.dtlsListener != nil:
		closeErr = a.dtlsListener.Close()
		for c := range a.dtlsConns {
			c.Close()
		}
	default:
		a.Unlock()
		return // No listener to close
	}
	a.Unlock()

	if closeErr != nil {
		a.Logger.Printf("failed to Close() the Agent socket: %s", closeErr)
	}

	select {
	case <-a.done:
	case <-time.After(a.closeTimeout()): // A timeout can prevent blocking forever
		a.Logger.Printf("timeout while awaiting done signal on Agent Close()")
	}
}

// Listen opens addr and serves requests until Close is called. addr is
// "host:port", "udp://host:port" or "dtls://host:port".
func (a *Agent) Listen(addr string) error {
	if a.Handler == nil {
		return errors.New("agent has no Handler")
	}

	proto := udp
	if splitted := strings.SplitN(addr, "://", 2); len(splitted) > 1 {
		proto = splitted[0]
		addr = splitted[1]
	}

	switch proto {
	case udp:
		conn, err := net.ListenPacket(udp, addr)
		if err != nil {
			return err
		}
		return a.Serve(conn)
	case dtlsProto:
		return a.listenDTLS(addr)
	default:
		return fmt.Errorf("not implemented network protocol: %s [use: udp/dtls]", proto)
	}
}

// Serve answers requests arriving on conn until Close is called. conn is
// closed when Serve returns.
func (a *Agent) Serve(conn net.PacketConn) error {
	a.Lock()
	a.conn = conn
	a.Unlock()
	defer conn.Close()

	// Mark that we are listening now.
	a.listening <- true
	defer close(a.done)

	buf := make([]byte, a.bufferSize())
	for atomic.LoadInt32(&a.finish) == 0 {
		rlen, remote, err := conn.ReadFrom(buf)
		if err != nil {
			if atomic.LoadInt32(&a.finish) == 1 {
				// err most likely comes from reading from a closed connection
				break
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			a.Logger.Printf("Agent: error in read %s\n", err)
			continue
		}

		reply := a.respond(a.ctx, buf[:rlen], remote)
		if reply == nil {
			continue
		}
		if _, err := conn.WriteTo(reply, remote); err != nil {
			a.Logger.Printf("Agent: error sending response to %s: %s\n", remote, err)
			a.Metrics.dropped(dropWrite)
		}
	}
	return nil
}

// listenDTLS serves requests over DTLS, one goroutine per peer session.
func (a *Agent) listenDTLS(addr string) error {
	if a.DTLSConfig == nil {
		return errors.New("DTLSConfig required for DTLS agent")
	}

	udpAddr, err := net.ResolveUDPAddr(udp, addr)
	if err != nil {
		return err
	}

	listener, err := dtls.Listen(udp, udpAddr, a.DTLSConfig)
	if err != nil {
		return err
	}
	a.Lock()
	a.dtlsListener = listener
	a.Unlock()
	a.listening <- true
	defer close(a.done)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if atomic.LoadInt32(&a.finish) == 1 {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			a.Logger.Printf("Agent: DTLS accept error: %s\n", err)
			continue
		}
		a.Lock()
		if atomic.LoadInt32(&a.finish) == 1 {
			a.Unlock()
			conn.Close()
			return nil
		}
		a.dtlsConns[conn] = struct{}{}
		a.Unlock()
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.handleDTLSConnection(conn.(*dtls.Conn))
		}()
	}
}

// handleDTLSConnection answers every request of one DTLS session until the
// peer goes away or the agent is closed.
func (a *Agent) handleDTLSConnection(conn *dtls.Conn) {
	defer func() {
		a.Lock()
		delete(a.dtlsConns, conn)
		a.Unlock()
		conn.Close()
	}()

	buf := make([]byte, a.bufferSize())
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if atomic.LoadInt32(&a.finish) == 0 {
				a.Logger.Printf("DTLS read error: %s\n", err)
			}
			return
		}
		reply := a.respond(a.ctx, buf[:n], conn.RemoteAddr())
		if reply == nil {
			continue
		}
		if _, err := conn.Write(reply); err != nil {
			a.Logger.Printf("DTLS: failed to send response: %s\n", err)
			a.Metrics.dropped(dropWrite)
			return
		}
	}
}

// respond turns one datagram into the encoded reply, or nil when nothing
// should be sent. Every failure is confined to the datagram that caused it.
func (a *Agent) respond(ctx context.Context, data []byte, addr net.Addr) []byte {
	msg, err := Decode(data)
	if err != nil {
		a.Logger.Printf("Agent: error decoding datagram from %s: %s\n", addr, err)
		a.Metrics.decodeError(err)
		return nil
	}
	if a.Community != "" && msg.Community != a.Community {
		a.Logger.Printf("Agent: dropping request from %s with community %q\n", addr, msg.Community)
		a.Metrics.dropped(dropBadCommunity)
		return nil
	}
	switch msg.PDU.Type {
	case GetRequest, GetNextRequest, SetRequest:
	default:
		a.Logger.Printf("Agent: dropping %s from %s\n", msg.PDU.Type, addr)
		a.Metrics.dropped(dropNotRequest)
		return nil
	}
	a.Metrics.request(msg.PDU.Type)
	if a.Logger.Enabled() {
		a.Logger.Printf("Agent: got %s from %s\n", msg, addr)
	}

	resp, err := a.serve(ctx, &Request{
		Addr:      addr,
		Version:   msg.Version,
		Community: msg.Community,
		PDU:       msg.PDU,
	})
	switch {
	case errors.Is(err, errHandlerPanic):
		a.Logger.Printf("Agent: %s\n", err)
		a.Metrics.dropped(dropPanic)
		return nil
	case err != nil:
		a.Logger.Printf("Agent: handler error for request %d: %s\n", msg.PDU.RequestID, err)
		resp = &PDU{ErrorStatus: GenErr, Varbinds: msg.PDU.Varbinds}
	case resp == nil:
		a.Metrics.dropped(dropNoResponse)
		return nil
	}

	out := &Message{Version: msg.Version, Community: msg.Community, PDU: *resp}
	out.PDU.Type = GetResponse
	out.PDU.RequestID = msg.PDU.RequestID
	if out.Size() > a.maxMessageSize() {
		a.Logger.Printf("Agent: response to request %d is %d bytes, replying tooBig\n", msg.PDU.RequestID, out.Size())
		out.PDU = PDU{
			Type:        GetResponse,
			RequestID:   msg.PDU.RequestID,
			ErrorStatus: TooBig,
			Varbinds:    msg.PDU.Varbinds,
		}
	}

	b, err := out.Encode()
	if err != nil {
		a.Logger.Printf("Agent: error encoding response: %s\n", err)
		a.Metrics.dropped(dropEncode)
		return nil
	}
	a.Metrics.response(out.PDU.ErrorStatus, len(b))
	return b
}

// serve calls the handler, converting a panic into an error.
func (a *Agent) serve(ctx context.Context, req *Request) (resp *PDU, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("%w: %v", errHandlerPanic, r)
		}
	}()
	return a.Handler.ServeSNMP(ctx, req)
}

func (a *Agent) bufferSize() int {
	if a.BufferSize < 1 {
		return defaultBufferSize
	}
	return a.BufferSize
}

func (a *Agent) maxMessageSize() int {
	if a.MaxMessageSize < 1 {
		return defaultMaxMessageSize
	}
	return a.MaxMessageSize
}

func (a *Agent) closeTimeout() time.Duration {
	if a.CloseTimeout <= 0 {
		return defaultCloseTimeout
	}
	return a.CloseTimeout
}
