// Copyright 2021 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

// LoggerInterface is the subset of *log.Logger the agent and client use.
type LoggerInterface interface {
	Print(v ...any)
	Printf(format string, v ...any)
}

// Logger forwards to a LoggerInterface. The zero Logger discards everything.
type Logger struct {
	logger LoggerInterface
}

// NewLogger returns a Logger writing to logger. A nil logger disables output.
func NewLogger(logger LoggerInterface) Logger {
	return Logger{logger: logger}
}
