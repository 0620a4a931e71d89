// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Command snmpdump prints the SNMP messages found in pcap files.
package main

import (
	"fmt"
	"os"

	"github.com/gosnmp/snmpv1"
	"github.com/spf13/cobra"
)

var errorsOnly bool

var rootCmd = &cobra.Command{
	Use:   "snmpdump FILE...",
	Short: "Decode SNMP messages from packet captures",
	Example: `# Everything exchanged on ports 161 and 162
	snmpdump capture.pcap

	# Only datagrams that fail to decode
	snmpdump --errors capture.pcap`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runDump,
}

func init() {
	rootCmd.Flags().BoolVarP(&errorsOnly, "errors", "e", false, "print only datagrams that fail to decode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = snmpv1.ReadCapture(f, func(cm snmpv1.CapturedMessage) error {
			stamp := cm.Timestamp.Format("15:04:05.000000")
			if cm.Err != nil {
				_, err := fmt.Fprintf(out, "%s %s > %s: %s\n", stamp, cm.Src, cm.Dst, cm.Err)
				return err
			}
			if errorsOnly {
				return nil
			}
			_, err := fmt.Fprintf(out, "%s %s > %s: %s\n", stamp, cm.Src, cm.Dst, cm.Message)
			return err
		})
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
