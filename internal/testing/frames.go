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

// Package testing provides receiver byte streams for tests
package testing

import "github.com/ZaparooProject/go-gnss/internal/frame"

// Well-known sentences with valid checksums
const (
	GGASentence = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n"
	RMCSentence = "$GPRMC,225446,A,4916.45,N,12311.12,W,000.5,054.7,191194,020.3,E*68\r\n"
)

// BuildNMEA returns a complete sentence for payload
func BuildNMEA(payload string) []byte {
	return frame.EncodeNMEA([]byte(payload))
}

// BuildUBX returns a complete UBX frame. It panics on an oversized payload,
// which only a broken test can produce.
func BuildUBX(class, id byte, payload []byte) []byte {
	out, err := frame.EncodeUBX(class, id, payload)
	if err != nil {
		panic(err)
	}
	return out
}

// BuildPMREQ returns the empty-payload RXM-PMREQ frame B5 62 02 41 00 00 43 CB
func BuildPMREQ() []byte {
	return BuildUBX(0x02, 0x41, nil)
}

// BuildNAVPVT returns a NAV-PVT frame with a 92 byte payload whose bytes
// count up from seed.
func BuildNAVPVT(seed byte) []byte {
	payload := make([]byte, 92)
	for i := range payload {
		payload[i] = seed + byte(i)
	}
	return BuildUBX(0x01, 0x07, payload)
}

// Noise returns n bytes that contain neither '$' nor the UBX sync byte, so
// no detector can start a frame inside them.
func Noise(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		b := byte('a' + i%26)
		if i%7 == 3 {
			b = 0xFF
		}
		out[i] = b
	}
	return out
}

// Corrupt returns a copy of data with the byte at index flipped
func Corrupt(data []byte, index int) []byte {
	out := append([]byte(nil), data...)
	out[index] ^= 0x01
	return out
}

// Concat joins byte slices
func Concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
