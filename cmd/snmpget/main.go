// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Command snmpget sends one SNMPv1 GetRequest or GetNextRequest and prints
// the reply.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gosnmp/snmpv1"
	"github.com/spf13/cobra"
)

var (
	port      uint16
	community string
	next      bool
	timeout   time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "snmpget TARGET OID...",
	Short: "Query an SNMPv1 agent",
	Example: `# sysUpTime.0 and sysDescr.0
	snmpget 127.0.0.1 -p 2001 1.3.6.1.2.1.1.3.0 1.3.6.1.2.1.1.1.0

	# Successor of the system group
	snmpget --next 127.0.0.1 1.3.6.1.2.1.1`,
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
	RunE:         runGet,
}

func init() {
	rootCmd.Flags().Uint16VarP(&port, "port", "p", 161, "agent port")
	rootCmd.Flags().StringVarP(&community, "community", "c", "public", "community string")
	rootCmd.Flags().BoolVarP(&next, "next", "n", false, "send GetNextRequest instead of GetRequest")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Second, "time to wait for the reply")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log packets")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	oids := make([]snmpv1.ObjectIdentifier, 0, len(args)-1)
	for _, arg := range args[1:] {
		oid, err := snmpv1.ParseOID(arg)
		if err != nil {
			return err
		}
		oids = append(oids, oid)
	}

	client := &snmpv1.Client{
		Target:    args[0],
		Port:      port,
		Community: community,
		Version:   snmpv1.Version1,
		Timeout:   timeout,
	}
	if verbose {
		client.Logger = snmpv1.NewLogger(log.New(os.Stderr, "", log.LstdFlags))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	var resp *snmpv1.Message
	var err error
	if next {
		resp, err = client.GetNext(ctx, oids...)
	} else {
		resp, err = client.Get(ctx, oids...)
	}
	if err != nil {
		return err
	}
	return printResponse(cmd.OutOrStdout(), resp.PDU)
}

func printResponse(w io.Writer, pdu snmpv1.PDU) error {
	if pdu.ErrorStatus != snmpv1.NoError {
		if vb, ok := pdu.ErrorVarbind(); ok {
			return fmt.Errorf("agent returned %s for %s", pdu.ErrorStatus, vb.Name)
		}
		return fmt.Errorf("agent returned %s", pdu.ErrorStatus)
	}
	for _, vb := range pdu.Varbinds {
		switch vb.Type() {
		case snmpv1.TagTimeTicks:
			tt := vb.TimeTicks()
			fmt.Fprintf(w, "%s: TimeTicks=%d:%d:%d:%d.%d\n", vb.Name, tt.Days(), tt.Hours(), tt.Minutes(), tt.Seconds(), tt.Centiseconds())
		case snmpv1.TagOctetString:
			fmt.Fprintf(w, "%s: OctetString=%s\n", vb.Name, vb.OctetString())
		case snmpv1.TagObjectIdentifier:
			fmt.Fprintf(w, "%s: OID=%s\n", vb.Name, vb.ObjectIdentifier())
		case snmpv1.TagInteger:
			fmt.Fprintf(w, "%s: Integer=%d\n", vb.Name, vb.Integer())
		case snmpv1.TagCounter:
			fmt.Fprintf(w, "%s: Counter=%d\n", vb.Name, vb.Counter())
		case snmpv1.TagGauge:
			fmt.Fprintf(w, "%s: Gauge=%d\n", vb.Name, vb.Gauge())
		case snmpv1.TagNull:
			fmt.Fprintf(w, "%s: Null\n", vb.Name)
		default:
			fmt.Fprintf(w, "%s: Unknown,Type=%#02x\n", vb.Name, byte(vb.Type()))
		}
	}
	return nil
}
