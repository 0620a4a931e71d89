// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Reasons an Agent drops a datagram without replying.
const (
	dropBadCommunity = "bad_community"
	dropNotRequest   = "not_request"
	dropNoResponse   = "no_response"
	dropEncode       = "encode_error"
	dropPanic        = "handler_panic"
	dropWrite        = "write_error"
)

// AgentMetrics holds the Prometheus collectors an Agent updates. A nil
// *AgentMetrics is valid and records nothing.
type AgentMetrics struct {
	Requests      *prometheus.CounterVec
	DecodeErrors  *prometheus.CounterVec
	Dropped       *prometheus.CounterVec
	Responses     *prometheus.CounterVec
	ResponseBytes prometheus.Histogram
}

// NewAgentMetrics creates the agent collectors and registers them on reg.
func NewAgentMetrics(namespace string, reg prometheus.Registerer) (*AgentMetrics, error) {
	m := &AgentMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of SNMP requests decoded, by PDU type",
		}, []string{"pdu_type"}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Total number of datagrams that failed to decode, by error kind",
		}, []string{"kind"}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_total",
			Help:      "Total number of decoded requests that got no reply, by reason",
		}, []string{"reason"}),
		Responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Total number of responses sent, by error status",
		}, []string{"error_status"}),
		ResponseBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_size_bytes",
			Help:      "Size of encoded SNMP responses",
			Buckets:   []float64{64, 128, 256, 484, 1024, 2048, 4096},
		}),
	}
	for _, c := range []prometheus.Collector{m.Requests, m.DecodeErrors, m.Dropped, m.Responses, m.ResponseBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *AgentMetrics) request(t PDUType) {
	if m != nil {
		m.Requests.WithLabelValues(t.String()).Inc()
	}
}

func (m *AgentMetrics) decodeError(err error) {
	if m == nil {
		return
	}
	kind := "unknown"
	var e *Error
	if errors.As(err, &e) {
		kind = e.Kind.String()
	}
	m.DecodeErrors.WithLabelValues(kind).Inc()
}

func (m *AgentMetrics) dropped(reason string) {
	if m != nil {
		m.Dropped.WithLabelValues(reason).Inc()
	}
}

func (m *AgentMetrics) response(status SNMPError, size int) {
	if m != nil {
		m.Responses.WithLabelValues(status.String()).Inc()
		m.ResponseBytes.Observe(float64(size))
	}
}
