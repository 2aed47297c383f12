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

package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		devicePath  string
		ignorePaths []string
		expected    bool
	}{
		{name: "empty ignore list", devicePath: "/dev/ttyACM0", ignorePaths: []string{}, expected: false},
		{name: "empty device path", devicePath: "", ignorePaths: []string{"/dev/ttyACM0"}, expected: false},
		{name: "exact match unix path", devicePath: "/dev/ttyACM0", ignorePaths: []string{"/dev/ttyACM0"}, expected: true},
		{name: "exact match windows path", devicePath: "COM4", ignorePaths: []string{"COM4"}, expected: true},
		{name: "case insensitive match", devicePath: "/dev/ttyACM0", ignorePaths: []string{"/DEV/TTYACM0"}, expected: true},
		{name: "no match", devicePath: "/dev/ttyACM1", ignorePaths: []string{"/dev/ttyACM0"}, expected: false},
		{
			name:        "multiple paths with match",
			devicePath:  "/dev/ttyUSB1",
			ignorePaths: []string{"/dev/ttyUSB0", "/dev/ttyUSB1", "COM2"},
			expected:    true,
		},
		{name: "i2c path format", devicePath: "/dev/i2c-1:0x42", ignorePaths: []string{"/dev/i2c-1:0x42"}, expected: true},
		{name: "i2c other address", devicePath: "/dev/i2c-1:0x43", ignorePaths: []string{"/dev/i2c-1:0x42"}, expected: false},
		{name: "relative components", devicePath: "/dev/../dev/ttyACM0", ignorePaths: []string{"/dev/ttyACM0"}, expected: true},
		{name: "empty strings in list", devicePath: "/dev/ttyACM0", ignorePaths: []string{"", "/dev/ttyACM0"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsPathIgnored(tt.devicePath, tt.ignorePaths))
		})
	}
}

func TestVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vid      string
		pid      string
		expected string
	}{
		{name: "u-blox receiver", vid: "1546", pid: "01a8", expected: "1546:01A8"},
		{name: "padded ids", vid: " 2341 ", pid: "0043", expected: "2341:0043"},
		{name: "missing product", vid: "1546", expected: ""},
		{name: "missing vendor", pid: "01A8", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, VIDPID(tt.vid, tt.pid))
		})
	}
}

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	blocklist := DefaultBlocklist()
	assert.True(t, IsBlocked("2341:0043", blocklist))
	assert.True(t, IsBlocked(" 2341:0043 ", blocklist))
	assert.False(t, IsBlocked("1546:01A8", blocklist), "u-blox receivers are never blocked")
	assert.False(t, IsBlocked("1546:01A8", nil))
	assert.True(t, IsBlocked("2341:0042", blocklist), "Arduino Mega")
	assert.False(t, IsBlocked("", []string{""}), "unknown ids are never blocked")
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	assert.Equal(t, Safe, opts.Mode)
	assert.Nil(t, opts.IgnorePaths)
	assert.Equal(t, DefaultBlocklist(), opts.Blocklist)
	assert.Positive(t, opts.Timeout)
}
