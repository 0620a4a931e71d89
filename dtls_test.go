// Copyright 2025 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/gosnmp/snmpv1"
	"github.com/pion/dtls/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateTestCert creates a self-signed certificate for testing.
func generateTestCert(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName:   "test-agent",
			Organization: []string{"Test"},
		},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:              []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	keyBytes, err := x509.MarshalECPrivateKey(priv)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes})

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)

	caPool := x509.NewCertPool()
	ok := caPool.AppendCertsFromPEM(certPEM)
	require.True(t, ok)

	return cert, caPool
}

// startDTLSAgent serves h on a loopback DTLS socket and returns its port.
func startDTLSAgent(t *testing.T, h snmpv1.Handler, cert tls.Certificate) uint16 {
	t.Helper()

	agent := snmpv1.NewAgent(h)
	agent.Logger = discardLogger
	agent.DTLSConfig = &dtls.Config{
		Certificates:         []tls.Certificate{cert},
		ExtendedMasterSecret: dtls.RequireExtendedMasterSecret,
	}

	errc := make(chan error, 1)
	go func() { errc <- agent.Listen("dtls://127.0.0.1:0") }()
	select {
	case <-agent.Listening():
	case err := <-errc:
		t.Fatalf("DTLS listen failed: %s", err)
	case <-time.After(2 * time.Second):
		t.Fatal("agent did not start listening")
	}
	t.Cleanup(func() {
		agent.Close()
		assert.NoError(t, <-errc)
	})
	return uint16(agent.Addr().(*net.UDPAddr).Port)
}

func TestDTLSGetSysUpTime(t *testing.T) {
	cert, caPool := generateTestCert(t)
	port := startDTLSAgent(t, snmpv1.NewSystemTable("DTLS agent", time.Now()), cert)

	client := &snmpv1.Client{
		Target:    "127.0.0.1",
		Port:      port,
		Transport: "dtls",
		DTLSConfig: &dtls.Config{
			RootCAs:              caPool,
			ServerName:           "localhost",
			ExtendedMasterSecret: dtls.RequireExtendedMasterSecret,
		},
		Timeout: 5 * time.Second,
		Logger:  discardLogger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx), "DTLS Connect should succeed")
	defer client.Close()

	dtlsConn, ok := client.Conn.(*dtls.Conn)
	require.True(t, ok, "Connection should be *dtls.Conn")
	_, handshakeComplete := dtlsConn.ConnectionState()
	require.True(t, handshakeComplete, "Handshake should be complete")

	for i := 0; i < 2; i++ {
		resp, err := client.Get(ctx, snmpv1.SysUpTime, snmpv1.SysDescr)
		require.NoError(t, err)
		require.Len(t, resp.PDU.Varbinds, 2)
		assert.Equal(t, snmpv1.TagTimeTicks, resp.PDU.Varbinds[0].Type())
		assert.Equal(t, snmpv1.OctetString("DTLS agent"), resp.PDU.Varbinds[1].OctetString())
	}
}

func TestDTLSUntrustedAgent(t *testing.T) {
	cert, _ := generateTestCert(t)
	_, otherPool := generateTestCert(t)
	port := startDTLSAgent(t, snmpv1.NewTable(), cert)

	client := &snmpv1.Client{
		Target:     "127.0.0.1",
		Port:       port,
		Transport:  "dtls",
		DTLSConfig: &dtls.Config{RootCAs: otherPool, ServerName: "localhost"},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := client.Connect(ctx)
	require.Error(t, err)
	assert.Nil(t, client.Conn)
}
