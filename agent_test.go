// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1_test

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gosnmp/snmpv1"
	"github.com/gosnmp/snmpv1/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = snmpv1.NewLogger(log.New(io.Discard, "", 0))

// startAgent serves h on a loopback UDP socket and returns the agent and a
// client connected to it.
func startAgent(t *testing.T, h snmpv1.Handler, configure func(*snmpv1.Agent)) (*snmpv1.Agent, *snmpv1.Client) {
	t.Helper()

	agent := snmpv1.NewAgent(h)
	agent.Logger = discardLogger
	if configure != nil {
		configure(agent)
	}

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- agent.Serve(conn) }()
	select {
	case <-agent.Listening():
	case <-time.After(2 * time.Second):
		t.Fatal("agent did not start listening")
	}
	t.Cleanup(func() {
		agent.Close()
		assert.NoError(t, <-errc)
	})

	client := &snmpv1.Client{
		Target:    "127.0.0.1",
		Port:      uint16(conn.LocalAddr().(*net.UDPAddr).Port),
		Community: "public",
		Timeout:   2 * time.Second,
		Logger:    discardLogger,
	}
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { client.Close() })
	return agent, client
}

func echoTimeTicks(_ context.Context, req *snmpv1.Request) (*snmpv1.PDU, error) {
	out := make(snmpv1.VarbindList, len(req.PDU.Varbinds))
	for i, vb := range req.PDU.Varbinds {
		out[i] = snmpv1.NewVarbind(vb.Name, snmpv1.TimeTicks(11111))
	}
	return &snmpv1.PDU{Varbinds: out}, nil
}

func TestAgentGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockHandler(ctrl)
	handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req *snmpv1.Request) (*snmpv1.PDU, error) {
			assert.Equal(t, snmpv1.GetRequest, req.PDU.Type)
			assert.Equal(t, "public", req.Community)
			assert.Equal(t, snmpv1.Version1, req.Version)
			assert.Len(t, req.PDU.Varbinds, 2)
			return echoTimeTicks(ctx, req)
		}).Times(1)

	_, client := startAgent(t, handler, nil)

	resp, err := client.Get(context.Background(), snmpv1.SysUpTime, snmpv1.SysDescr)
	require.NoError(t, err)
	assert.Equal(t, snmpv1.GetResponse, resp.PDU.Type)
	assert.Equal(t, "public", resp.Community)
	require.Len(t, resp.PDU.Varbinds, 2)
	assert.True(t, resp.PDU.Varbinds[0].Name.Equal(snmpv1.SysUpTime))
	assert.Equal(t, 51, resp.PDU.Varbinds[0].TimeTicks().Seconds())
}

func TestAgentSurvivesMalformedDatagrams(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockHandler(ctrl)
	handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).DoAndReturn(echoTimeTicks).Times(1)

	reg := prometheus.NewRegistry()
	metrics, err := snmpv1.NewAgentMetrics("test", reg)
	require.NoError(t, err)
	_, client := startAgent(t, handler, func(a *snmpv1.Agent) { a.Metrics = metrics })

	garbage := [][]byte{
		{0x30},
		{0x30, 0x80, 0x00, 0x00},
		{0x30, 0x03, 0x02, 0x01, 0x00, 0xff},
		[]byte(strings.Repeat("\xff", 100)),
	}
	for _, g := range garbage {
		_, err := client.Conn.Write(g)
		require.NoError(t, err)
	}

	resp, err := client.Get(context.Background(), snmpv1.SysUpTime)
	require.NoError(t, err)
	assert.Equal(t, snmpv1.NoError, resp.PDU.ErrorStatus)

	// Datagrams on one loopback socket are handled in order, so every
	// malformed one was counted before the reply was sent.
	assert.Equal(t, float64(len(garbage)), testutil.ToFloat64(metrics.DecodeErrors.WithLabelValues("protocol error"))+
		testutil.ToFloat64(metrics.DecodeErrors.WithLabelValues("bad type")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Requests.WithLabelValues("GetRequest")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Responses.WithLabelValues("NoError")))
}

func TestAgentDropsWrongCommunity(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockHandler(ctrl)
	handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).DoAndReturn(echoTimeTicks).Times(1)

	reg := prometheus.NewRegistry()
	metrics, err := snmpv1.NewAgentMetrics("test", reg)
	require.NoError(t, err)
	_, client := startAgent(t, handler, func(a *snmpv1.Agent) {
		a.Community = "secret"
		a.Metrics = metrics
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, snmpv1.SysUpTime)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Dropped.WithLabelValues("bad_community")))

	client.Community = "secret"
	_, err = client.Get(context.Background(), snmpv1.SysUpTime)
	require.NoError(t, err)
}

func TestAgentDropsResponses(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockHandler(ctrl)
	handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).DoAndReturn(echoTimeTicks).Times(1)

	reg := prometheus.NewRegistry()
	metrics, err := snmpv1.NewAgentMetrics("test", reg)
	require.NoError(t, err)
	_, client := startAgent(t, handler, func(a *snmpv1.Agent) { a.Metrics = metrics })

	stray, err := snmpv1.NewMessage("public", snmpv1.NewPDU(snmpv1.GetResponse, 9, snmpv1.NullVarbind(snmpv1.SysDescr))).Encode()
	require.NoError(t, err)
	_, err = client.Conn.Write(stray)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), snmpv1.SysUpTime)
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Dropped.WithLabelValues("not_request")))
}

func TestAgentHandlerPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockHandler(ctrl)
	gomock.InOrder(
		handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, *snmpv1.Request) (*snmpv1.PDU, error) {
				panic("boom")
			}),
		handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).DoAndReturn(echoTimeTicks),
	)

	_, client := startAgent(t, handler, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := client.Get(ctx, snmpv1.SysUpTime)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	resp, err := client.Get(context.Background(), snmpv1.SysUpTime)
	require.NoError(t, err)
	assert.Equal(t, snmpv1.NoError, resp.PDU.ErrorStatus)
}

func TestAgentHandlerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockHandler(ctrl)
	handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).Return(nil, errors.New("backend down"))

	_, client := startAgent(t, handler, nil)

	resp, err := client.Get(context.Background(), snmpv1.SysUpTime, snmpv1.SysDescr)
	require.NoError(t, err)
	assert.Equal(t, snmpv1.GenErr, resp.PDU.ErrorStatus)
	assert.Len(t, resp.PDU.Varbinds, 2)
}

func TestAgentTooBig(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockHandler(ctrl)
	handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *snmpv1.Request) (*snmpv1.PDU, error) {
			big := snmpv1.OctetString(strings.Repeat("x", 600))
			return &snmpv1.PDU{Varbinds: snmpv1.VarbindList{snmpv1.NewVarbind(req.PDU.Varbinds[0].Name, big)}}, nil
		})

	_, client := startAgent(t, handler, nil)

	resp, err := client.Get(context.Background(), snmpv1.SysDescr)
	require.NoError(t, err)
	assert.Equal(t, snmpv1.TooBig, resp.PDU.ErrorStatus)
	assert.Equal(t, uint32(0), resp.PDU.ErrorIndex)
	require.Len(t, resp.PDU.Varbinds, 1)
	assert.Equal(t, snmpv1.TagNull, resp.PDU.Varbinds[0].Type())
}

func TestAgentNoResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockHandler(ctrl)
	handler.EXPECT().ServeSNMP(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, client := startAgent(t, handler, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := client.Get(ctx, snmpv1.SysUpTime)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAgentSystemTable(t *testing.T) {
	_, client := startAgent(t, snmpv1.NewSystemTable("Test agent SNMP", time.Now()), nil)

	resp, err := client.Get(context.Background(), snmpv1.SysUpTime, snmpv1.SysDescr)
	require.NoError(t, err)
	require.Len(t, resp.PDU.Varbinds, 2)
	assert.Equal(t, snmpv1.TagTimeTicks, resp.PDU.Varbinds[0].Type())
	assert.Equal(t, snmpv1.OctetString("Test agent SNMP"), resp.PDU.Varbinds[1].OctetString())

	resp, err = client.GetNext(context.Background(), snmpv1.SysDescr)
	require.NoError(t, err)
	assert.True(t, resp.PDU.Varbinds[0].Name.Equal(snmpv1.SysUpTime))

	resp, err = client.Set(context.Background(), snmpv1.NewVarbind(snmpv1.SysDescr, snmpv1.OctetString("x")))
	require.NoError(t, err)
	assert.Equal(t, snmpv1.ReadOnly, resp.PDU.ErrorStatus)
	assert.Equal(t, uint32(1), resp.PDU.ErrorIndex)
}

func TestAgentListenUnsupportedProtocol(t *testing.T) {
	agent := snmpv1.NewAgent(snmpv1.NewTable())
	err := agent.Listen("tcp://127.0.0.1:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not implemented network protocol")

	err = snmpv1.NewAgent(nil).Listen("127.0.0.1:0")
	require.Error(t, err)

	err = agent.Listen("dtls://127.0.0.1:0")
	require.ErrorContains(t, err, "DTLSConfig required")
}

func TestAgentListenAndClose(t *testing.T) {
	agent := snmpv1.NewAgent(snmpv1.NewTable())
	agent.Logger = discardLogger
	agent.CloseTimeout = time.Second

	errc := make(chan error, 1)
	go func() { errc <- agent.Listen("udp://127.0.0.1:0") }()
	<-agent.Listening()
	require.NotNil(t, agent.Addr())

	agent.Close()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after Close")
	}
	// A second Close is a no-op.
	agent.Close()
}
