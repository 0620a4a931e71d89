// Copyright 2021 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

//go:build !snmpv1_nodebug

package snmpv1

func (l Logger) Print(v ...any) {
	if l.logger != nil {
		l.logger.Print(v...)
	}
}

func (l Logger) Printf(format string, v ...any) {
	if l.logger != nil {
		l.logger.Printf(format, v...)
	}
}

// Enabled reports whether a logger has been set. Use it to guard expensive
// argument formatting such as dumping a whole Message.
func (l Logger) Enabled() bool {
	return l.logger != nil
}
