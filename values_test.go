// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpv1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testsValueEncoding = []struct {
	name    string
	value   Value
	encoded []byte
}{
	{"null", Null{}, []byte{0x05, 0x00}},
	{"integer_zero", Integer(0), []byte{0x02, 0x01, 0x00}},
	{"integer_127", Integer(127), []byte{0x02, 0x01, 0x7f}},
	{"integer_255", Integer(255), []byte{0x02, 0x01, 0xff}},
	{"integer_256", Integer(256), []byte{0x02, 0x02, 0x01, 0x00}},
	{"integer_3_bytes", Integer(0x11223), []byte{0x02, 0x03, 0x01, 0x12, 0x23}},
	{"integer_request_id", Integer(0x11223344), []byte{0x02, 0x04, 0x11, 0x22, 0x33, 0x44}},
	{"integer_minus_one", Integer(-1), []byte{0x02, 0x04, 0xff, 0xff, 0xff, 0xff}},
	{"counter_max", Counter(0xffffffff), []byte{0x41, 0x04, 0xff, 0xff, 0xff, 0xff}},
	{"gauge", Gauge(1000), []byte{0x42, 0x02, 0x03, 0xe8}},
	{"timeticks", TimeTicks(11111), []byte{0x43, 0x02, 0x2b, 0x67}},
	{"octet_string", OctetString("public"), []byte{0x04, 0x06, 'p', 'u', 'b', 'l', 'i', 'c'}},
	{"octet_string_empty", OctetString{}, []byte{0x04, 0x00}},
	{"oid", MustParseOID("1.3.6.1.2.1.1.3.0"), []byte{0x06, 0x08, 0x2b, 0x06, 0x01, 0x02, 0x01, 0x01, 0x03, 0x00}},
}

func TestValueEncoding(t *testing.T) {
	for _, tt := range testsValueEncoding {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.value.appendTo(nil)
			assert.Equal(t, tt.encoded, got)
			assert.Equal(t, len(tt.encoded), tt.value.Size())
			assert.Equal(t, Asn1BER(tt.encoded[0]), tt.value.Type())

			decoded, n, err := decodeValue(tt.encoded)
			require.NoError(t, err)
			assert.Equal(t, len(tt.encoded), n)
			assert.Equal(t, tt.value.String(), decoded.String())
			assert.Equal(t, tt.value.Type(), decoded.Type())
		})
	}
}

func TestIntegerWidthIsMinimal(t *testing.T) {
	// Integer(255) and Integer(256) straddle the one-byte boundary.
	assert.Equal(t, 3, Integer(255).Size())
	assert.Equal(t, 4, Integer(256).Size())
	assert.Equal(t, 5, Integer(1<<16).Size())
	assert.Equal(t, 6, Integer(1<<24).Size())
}

func TestDecodeMagnitude(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    uint32
		wantErr error
	}{
		{"counter_zero_padded", []byte{0x41, 0x05, 0x00, 0xff, 0xff, 0xff, 0xff}, 0xffffffff, nil},
		{"counter_too_wide", []byte{0x41, 0x05, 0x01, 0x00, 0x00, 0x00, 0x00}, 0, ErrProtocol},
		{"counter_empty", []byte{0x41, 0x00}, 0, ErrProtocol},
		{"counter_truncated", []byte{0x41, 0x02, 0x01}, 0, ErrProtocol},
		{"counter_wrong_tag", []byte{0x42, 0x01, 0x01}, 0, ErrBadType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, n, err := decodeMagnitude[Counter](tt.data, TagCounter, NodeCounter)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var e *Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, NodeCounter, e.Node)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Counter(tt.want), v)
			assert.Equal(t, len(tt.data), n)
		})
	}

	_, _, err := decodeMagnitude[Integer]([]byte{0x02, 0x05, 0x00, 0x00, 0x00, 0x00, 0x01}, TagInteger, NodeInteger)
	require.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeNull(t *testing.T) {
	_, n, err := decodeNull([]byte{0x05, 0x00, 0xff})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, _, err = decodeNull([]byte{0x05, 0x01, 0x00})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, NodeNull, e.Node)
	assert.Equal(t, KindProtocol, e.Kind)
}

func TestDecodeOctetStringCopies(t *testing.T) {
	wire := []byte{0x04, 0x03, 'a', 'b', 'c'}
	s, _, err := decodeOctetString(wire)
	require.NoError(t, err)
	wire[2] = 'x'
	assert.Equal(t, OctetString("abc"), s)
}

func TestUnknownValue(t *testing.T) {
	v, n, err := decodeValue([]byte{0x47, 0x03, 0x01, 0x02, 0x03, 0x05, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Equal(t, Unknown{Tag: 0x47, Length: 3}, v)

	// The payload is not kept: encoding emits zero bytes in its place.
	assert.Equal(t, []byte{0x47, 0x03, 0x00, 0x00, 0x00}, v.appendTo(nil))
	assert.Equal(t, Asn1BER(0x47), v.Type())
}

func TestTimeTicks(t *testing.T) {
	tt := TimeTicks(11111)
	assert.Equal(t, 0, tt.Days())
	assert.Equal(t, 0, tt.Hours())
	assert.Equal(t, 1, tt.Minutes())
	assert.Equal(t, 51, tt.Seconds())
	assert.Equal(t, 11, tt.Centiseconds())
	assert.Equal(t, "(11111) 0:00:01:51.11", tt.String())
	assert.Equal(t, 111110*time.Millisecond, tt.Duration())

	day := TimeTicks(ticksPerDay + 2*ticksPerHour + 3*ticksPerMinute + 4*ticksPerSecond + 5)
	assert.Equal(t, 1, day.Days())
	assert.Equal(t, 2, day.Hours())
	assert.Equal(t, 3, day.Minutes())
	assert.Equal(t, 4, day.Seconds())
	assert.Equal(t, 5, day.Centiseconds())

	assert.Equal(t, TimeTicks(150), NewTimeTicks(1509*time.Millisecond))
}

func TestDecodeValueEmpty(t *testing.T) {
	_, _, err := decodeValue(nil)
	require.ErrorIs(t, err, ErrProtocol)
}
