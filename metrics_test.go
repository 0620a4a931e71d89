// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewAgentMetrics("snmp", reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	_, err = NewAgentMetrics("snmp", reg)
	require.Error(t, err, "registering the same collectors twice must fail")

	_, err = NewAgentMetrics("other", reg)
	require.NoError(t, err)
}

func TestAgentMetricsLabels(t *testing.T) {
	m, err := NewAgentMetrics("snmp", prometheus.NewRegistry())
	require.NoError(t, err)

	m.request(GetNextRequest)
	m.decodeError(newError(NodeObjectIdentifier, KindBadOID, "empty"))
	m.decodeError(errors.New("plain"))
	m.dropped(dropBadCommunity)
	m.response(NoSuchName, 100)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GetNextRequest")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("incorrect OID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dropped.WithLabelValues("bad_community")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Responses.WithLabelValues("NoSuchName")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ResponseBytes))
}

func TestNilAgentMetrics(t *testing.T) {
	var m *AgentMetrics
	assert.NotPanics(t, func() {
		m.request(GetRequest)
		m.decodeError(errors.New("x"))
		m.dropped(dropPanic)
		m.response(NoError, 10)
	})
}
