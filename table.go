// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MIB-II system group objects served by NewSystemTable.
var (
	SysDescr  = MustParseOID("1.3.6.1.2.1.1.1.0")
	SysUpTime = MustParseOID("1.3.6.1.2.1.1.3.0")
)

type tableEntry struct {
	oid      ObjectIdentifier
	value    Value
	fn       func() Value
	writable bool
}

func (e *tableEntry) get() Value {
	if e.fn != nil {
		return e.fn()
	}
	return e.value
}

// Table is a Handler serving a fixed set of OIDs kept in OID order. It is
// safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	entries []*tableEntry
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{}
}

// NewSystemTable returns a Table answering sysDescr.0 with descr and
// sysUpTime.0 with the time elapsed since start.
func NewSystemTable(descr string, start time.Time) *Table {
	t := NewTable()
	t.Add(SysDescr, OctetString(descr))
	t.AddFunc(SysUpTime, func() Value {
		return NewTimeTicks(time.Since(start))
	})
	return t
}

// Add registers a read-only value at oid, replacing any previous entry.
func (t *Table) Add(oid ObjectIdentifier, v Value) {
	t.insert(&tableEntry{oid: oid, value: v})
}

// AddWritable registers a value at oid that SetRequest may replace with
// another value of the same type.
func (t *Table) AddWritable(oid ObjectIdentifier, v Value) {
	if v == nil {
		v = Null{}
	}
	t.insert(&tableEntry{oid: oid, value: v, writable: true})
}

// AddFunc registers a read-only value computed by fn on every request.
func (t *Table) AddFunc(oid ObjectIdentifier, fn func() Value) {
	t.insert(&tableEntry{oid: oid, fn: fn})
}

func (t *Table) insert(e *tableEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, found := t.search(e.oid)
	if found {
		t.entries[i] = e
		return
	}
	t.entries = slices.Insert(t.entries, i, e)
}

// search returns the position of oid, or where it would be inserted.
func (t *Table) search(oid ObjectIdentifier) (int, bool) {
	return slices.BinarySearchFunc(t.entries, oid, func(e *tableEntry, target ObjectIdentifier) int {
		return e.oid.Compare(target)
	})
}

// Lookup returns the current value at oid.
func (t *Table) Lookup(oid ObjectIdentifier) (Value, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i, found := t.search(oid); found {
		return t.entries[i].get(), true
	}
	return nil, false
}

// Len returns the number of registered OIDs.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// ServeSNMP answers Get, GetNext and Set requests from the table. On error
// the response carries the request varbinds unchanged and a 1-based
// ErrorIndex naming the first varbind that failed.
func (t *Table) ServeSNMP(_ context.Context, req *Request) (*PDU, error) {
	switch req.PDU.Type {
	case GetRequest:
		return t.get(req.PDU.Varbinds), nil
	case GetNextRequest:
		return t.getNext(req.PDU.Varbinds), nil
	case SetRequest:
		return t.set(req.PDU.Varbinds), nil
	}
	return nil, nil
}

func (t *Table) get(request VarbindList) *PDU {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(VarbindList, 0, len(request))
	for i, vb := range request {
		idx, found := t.search(vb.Name)
		if !found {
			return failed(request, NoSuchName, i)
		}
		out.Append(NewVarbind(vb.Name, t.entries[idx].get()))
	}
	return &PDU{Varbinds: out}
}

func (t *Table) getNext(request VarbindList) *PDU {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(VarbindList, 0, len(request))
	for i, vb := range request {
		idx, found := t.search(vb.Name)
		if found {
			idx++
		}
		if idx >= len(t.entries) {
			return failed(request, NoSuchName, i)
		}
		e := t.entries[idx]
		out.Append(NewVarbind(e.oid, e.get()))
	}
	return &PDU{Varbinds: out}
}

// set validates every varbind before applying any of them, so a failed
// SetRequest leaves the table unchanged.
func (t *Table) set(request VarbindList) *PDU {
	t.mu.Lock()
	defer t.mu.Unlock()
	targets := make([]*tableEntry, len(request))
	for i, vb := range request {
		idx, found := t.search(vb.Name)
		if !found {
			return failed(request, NoSuchName, i)
		}
		e := t.entries[idx]
		switch {
		case !e.writable:
			return failed(request, ReadOnly, i)
		case vb.Type() != e.value.Type():
			return failed(request, BadValue, i)
		}
		targets[i] = e
	}
	for i, e := range targets {
		e.value = request[i].Clone().value()
	}
	return &PDU{Varbinds: request.Clone()}
}

func failed(request VarbindList, status SNMPError, i int) *PDU {
	return &PDU{
		ErrorStatus: status,
		ErrorIndex:  uint32(i + 1),
		Varbinds:    request.Clone(),
	}
}
