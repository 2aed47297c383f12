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

// Package i2c detects u-blox receivers on Linux I2C buses
package i2c

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ZaparooProject/go-gnss/detection"
)

const (
	// DefaultAddress is the u-blox DDC (I2C) address
	DefaultAddress = 0x42

	// Registers of the DDC interface
	regCountHigh = 0xFD
	regStream    = 0xFF

	// maxSniff bounds how much of the stream Full mode reads to identify a receiver
	maxSniff = 64
)

// detector implements the Detector interface for I2C devices
type detector struct{}

// New creates a new I2C detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "i2c"
}

// Detect searches for receivers at DefaultAddress on every I2C bus
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if opts == nil {
		defaults := detection.DefaultOptions()
		opts = &defaults
	}
	return detectPlatform(ctx, opts)
}

// DevicePath returns the detection path for a bus and address, e.g. "/dev/i2c-1:0x42"
func DevicePath(bus string, addr uint8) string {
	return fmt.Sprintf("%s:0x%02X", bus, addr)
}

// availableCount decodes the big-endian byte count held in 0xFD/0xFE.
// 0xFFFF is what an idle bus reads back and means no device.
func availableCount(b [2]byte) (int, bool) {
	n := int(b[0])<<8 | int(b[1])
	if n == 0xFFFF {
		return 0, false
	}
	return n, true
}

// looksLikeGNSS reports whether data contains the start of an NMEA sentence
// or a UBX sync pair.
func looksLikeGNSS(data []byte) bool {
	return bytes.Contains(data, []byte("$G")) || bytes.Contains(data, []byte{0xB5, 0x62})
}

func newDeviceInfo(bus string, addr uint8, confidence detection.Confidence) detection.DeviceInfo {
	return detection.DeviceInfo{
		Transport:  "i2c",
		Path:       DevicePath(bus, addr),
		Name:       fmt.Sprintf("I2C device at %s address 0x%02X", bus, addr),
		Confidence: confidence,
		Metadata: map[string]string{
			"bus":     bus,
			"address": fmt.Sprintf("0x%02X", addr),
		},
	}
}
