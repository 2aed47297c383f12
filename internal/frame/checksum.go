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

package frame

// NMEAChecksum returns the XOR of every byte in payload. The payload is the
// text strictly between '$' and '*'.
func NMEAChecksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum ^= b
	}
	return sum
}

// AppendNMEAChecksum appends sum as two uppercase hex digits, high nibble first.
func AppendNMEAChecksum(dst []byte, sum byte) []byte {
	return append(dst, hexDigits[sum>>4], hexDigits[sum&0x0F])
}

// VerifyNMEAChecksum reports whether digits carries the checksum of payload.
// Only uppercase hex digits are accepted, matching what receivers emit.
func VerifyNMEAChecksum(payload []byte, digits [2]byte) bool {
	sum := NMEAChecksum(payload)
	return digits[0] == hexDigits[sum>>4] && digits[1] == hexDigits[sum&0x0F]
}

// UBXChecksum computes the two running sums over body, which must start at
// the class byte and end with the last payload byte.
func UBXChecksum(body []byte) (ckA, ckB byte) {
	for _, b := range body {
		ckA += b
		ckB += ckA
	}
	return ckA, ckB
}

// VerifyUBXChecksum reports whether ckA and ckB match the checksum of body.
func VerifyUBXChecksum(body []byte, ckA, ckB byte) bool {
	a, b := UBXChecksum(body)
	return a == ckA && b == ckB
}

func isPrintable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}
