// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Command snmpagent answers SNMPv1 Get, GetNext and Set requests for the
// MIB-II system group.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gosnmp/snmpv1"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	listenAddr  string
	community   string
	sysDescr    string
	metricsAddr string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "snmpagent",
	Short: "Minimal SNMPv1 agent",
	Long: `snmpagent serves sysDescr.0 and sysUpTime.0 over SNMPv1 and exposes
Prometheus metrics about the requests it handles.`,
	Example: `# Listen on the standard port
	snmpagent --listen udp://0.0.0.0:161

	# Unprivileged port, custom description, metrics on :9161
	snmpagent --listen 127.0.0.1:2001 --descr "Test agent" --metrics :9161`,
	SilenceUsage: true,
	RunE:         runAgent,
}

func init() {
	rootCmd.Flags().StringVarP(&listenAddr, "listen", "l", "udp://0.0.0.0:161", "address to listen on (udp:// or host:port)")
	rootCmd.Flags().StringVarP(&community, "community", "c", "public", "accepted community; empty accepts any")
	rootCmd.Flags().StringVar(&sysDescr, "descr", "snmpv1 agent", "value of sysDescr.0")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every request")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAgent(cmd *cobra.Command, args []string) error {
	registry := prometheus.NewRegistry()
	metrics, err := snmpv1.NewAgentMetrics("snmpagent", registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	agent := snmpv1.NewAgent(snmpv1.NewSystemTable(sysDescr, time.Now()))
	agent.Community = community
	agent.Metrics = metrics
	if verbose {
		agent.Logger = snmpv1.NewLogger(log.New(os.Stderr, "", log.LstdFlags))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %s", err)
			}
		}()
		defer srv.Close()
	}

	errc := make(chan error, 1)
	go func() { errc <- agent.Listen(listenAddr) }()

	select {
	case err := <-errc:
		return err
	case <-agent.Listening():
		fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", agent.Addr())
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		agent.Close()
	}
	return nil
}
