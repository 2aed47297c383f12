// go-gnss
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-gnss.
//
// go-gnss is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-gnss is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-gnss; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package gnss

import (
	"testing"

	testutil "github.com/ZaparooProject/go-gnss/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gga = []byte(testutil.GGASentence)

func TestFindField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		index  int
		want   int
		wantOK bool
	}{
		{name: "address field", index: 0, want: 0, wantOK: true},
		{name: "time", index: 1, want: 7, wantOK: true},
		{name: "latitude", index: 2, want: 14, wantOK: true},
		{name: "empty field before star", index: 14, wantOK: false},
		{name: "empty field between commas", index: 13, wantOK: false},
		{name: "past the last field", index: 15, wantOK: false},
		{name: "negative index", index: -1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pos, ok := FindField(tt.index, gga)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, pos)
			}
		})
	}
}

func TestField_DistinguishesEmptyFromMissing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   string
		index  int
		status FieldStatus
	}{
		{name: "present", index: 9, want: "545.4", status: FieldFound},
		{name: "address", index: 0, want: "$GPGGA", status: FieldFound},
		{name: "empty", index: 13, status: FieldEmpty},
		{name: "empty before checksum", index: 14, status: FieldEmpty},
		{name: "missing", index: 15, status: FieldOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, status := Field(tt.index, gga)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "out of range", FieldOutOfRange.String())
	assert.Equal(t, "empty", FieldEmpty.String())
}

func TestFieldFloat(t *testing.T) {
	t.Parallel()

	sentence := []byte("$PTEST,12abc,abc,1e3x,-.5,.,+7.25*00\r\n")
	padded := []byte("$GPGGA,123519, 4807.038,\tN,  ,E*00\r\n")

	tests := []struct {
		name     string
		sentence []byte
		index    int
		want     float64
		wantOK   bool
	}{
		{name: "latitude", sentence: gga, index: 2, want: 4807.038, wantOK: true},
		{name: "altitude", sentence: gga, index: 9, want: 545.4, wantOK: true},
		{name: "trailing letters ignored", sentence: sentence, index: 1, want: 12, wantOK: true},
		{name: "no number", sentence: sentence, index: 2, wantOK: false},
		{name: "exponent", sentence: sentence, index: 3, want: 1000, wantOK: true},
		{name: "leading dot", sentence: sentence, index: 4, want: -0.5, wantOK: true},
		{name: "lone dot", sentence: sentence, index: 5, wantOK: false},
		{name: "plus sign", sentence: sentence, index: 6, want: 7.25, wantOK: true},
		{name: "empty", sentence: gga, index: 13, wantOK: false},
		{name: "missing", sentence: gga, index: 40, wantOK: false},
		{name: "leading blanks skipped", sentence: padded, index: 2, want: 4807.038, wantOK: true},
		{name: "blank field", sentence: padded, index: 4, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := FieldFloat(tt.index, tt.sentence)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFieldInt(t *testing.T) {
	t.Parallel()

	sentence := []byte("$PTEST,0x1F,ff,-42,12abc,010,zz*00\r\n")

	tests := []struct {
		name   string
		index  int
		base   int
		want   int64
		wantOK bool
	}{
		{name: "auto hex", index: 1, base: 0, want: 31, wantOK: true},
		{name: "explicit hex with prefix", index: 1, base: 16, want: 31, wantOK: true},
		{name: "hex digits", index: 2, base: 16, want: 255, wantOK: true},
		{name: "not decimal", index: 2, base: 10, wantOK: false},
		{name: "negative", index: 3, base: 10, want: -42, wantOK: true},
		{name: "prefix only", index: 4, base: 10, want: 12, wantOK: true},
		{name: "auto octal", index: 5, base: 0, want: 8, wantOK: true},
		{name: "decimal with leading zero", index: 5, base: 10, want: 10, wantOK: true},
		{name: "base 36", index: 6, base: 36, want: 35*36 + 35, wantOK: true},
		{name: "bad base", index: 3, base: 1, wantOK: false},
		{name: "missing", index: 9, base: 10, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := FieldInt(tt.index, sentence, tt.base)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	satellites, ok := FieldInt(7, gga, 10)
	require.True(t, ok)
	assert.Equal(t, int64(8), satellites)

	satellites, ok = FieldInt(1, []byte("$GPGGA,  08,*00\r\n"), 10)
	require.True(t, ok)
	assert.Equal(t, int64(8), satellites)
}

func TestFieldChar(t *testing.T) {
	t.Parallel()

	c, ok := FieldChar(3, gga)
	require.True(t, ok)
	assert.Equal(t, byte('N'), c)

	_, ok = FieldChar(13, gga)
	assert.False(t, ok)

	padded := []byte("$GPGGA,123519,4807.038, N,  ,E*00\r\n")
	c, ok = FieldChar(3, padded)
	require.True(t, ok)
	assert.Equal(t, byte('N'), c)

	_, ok = FieldChar(4, padded)
	assert.False(t, ok, "a blank field has no character")

	angle, ok := FieldAngle(2, padded)
	require.True(t, ok)
	assert.InDelta(t, 48.1173, angle, 1e-4)
}

func TestFieldAngle(t *testing.T) {
	t.Parallel()

	rmc := []byte(testutil.RMCSentence)

	tests := []struct {
		name     string
		sentence []byte
		index    int
		want     float64
		wantOK   bool
	}{
		{name: "north latitude", sentence: gga, index: 2, want: 48.1173, wantOK: true},
		{name: "east longitude", sentence: gga, index: 4, want: 11.516666667, wantOK: true},
		{name: "west longitude", sentence: rmc, index: 5, want: -123.185333333, wantOK: true},
		{name: "south latitude", sentence: []byte("$GPGLL,3345.600,S,,,*00"), index: 1, want: -33.76, wantOK: true},
		{name: "bad hemisphere", sentence: []byte("$GPGLL,3345.600,X*00"), index: 1, wantOK: false},
		{name: "missing hemisphere", sentence: []byte("$GPGLL,3345.600,*00"), index: 1, wantOK: false},
		{name: "missing value", sentence: []byte("$GPGLL,,N*00"), index: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := FieldAngle(tt.index, tt.sentence)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}
