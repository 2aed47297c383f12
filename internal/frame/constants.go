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

// Package frame provides framing, checksums and frame detection for the NMEA
// and UBX protocols spoken by u-blox GNSS receivers
package frame

import "errors"

// NMEA frame markers
const (
	NMEAStart     = '$'  // Sentence start
	NMEAStar      = '*'  // Checksum delimiter
	NMEAFieldSep  = ','  // Field separator
	NMEATerminal1 = '\r' // First terminator byte
	NMEATerminal2 = '\n' // Second terminator byte
)

// UBX frame markers
const (
	UBXSync1 = 0xB5 // First sync byte
	UBXSync2 = 0x62 // Second sync byte
)

// Frame size limits
const (
	NMEAOverhead  = 6      // '$' + '*' + 2 checksum digits + CR + LF
	UBXHeaderLen  = 6      // sync(2) + class + id + length(2)
	UBXOverhead   = 8      // header + CK_A + CK_B
	MaxUBXPayload = 0xFFFF // Length field is 16 bits
)

// ErrPayloadTooLarge is returned when a UBX payload does not fit the length field.
var ErrPayloadTooLarge = errors.New("ubx payload exceeds 65535 bytes")

const hexDigits = "0123456789ABCDEF"
