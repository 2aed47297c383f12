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

// UBXDetector recognizes u-blox binary frames:
// 0xB5 0x62 class id len_lo len_hi payload CK_A CK_B.
type UBXDetector struct{}

// Protocol returns ProtocolUBX
func (UBXDetector) Protocol() Protocol {
	return ProtocolUBX
}

// Detect scans one UBX frame. A checksum mismatch rejects the frame even when
// the sync bytes and length were valid.
func (UBXDetector) Detect(c Cursor, limit int) (Status, int) {
	b := budget{limit: limit}

	for _, sync := range []byte{UBXSync1, UBXSync2} {
		if !b.take(1) {
			return StatusWait, 0
		}
		if c.Next() != sync {
			return StatusNotFound, 0
		}
	}

	if !b.take(4) {
		return StatusWait, 0
	}
	var ckA, ckB byte
	var header [4]byte
	for i := range header {
		header[i] = c.Next()
		ckA += header[i]
		ckB += ckA
	}

	length := int(header[2]) + int(header[3])<<8
	for ; length > 0; length-- {
		if !b.take(1) {
			return StatusWait, 0
		}
		ckA += c.Next()
		ckB += ckA
	}

	for _, want := range []byte{ckA, ckB} {
		if !b.take(1) {
			return StatusWait, 0
		}
		if c.Next() != want {
			return StatusNotFound, 0
		}
	}
	return StatusFound, b.used
}

// EncodeUBX builds a complete UBX frame for class, id and payload.
func EncodeUBX(class, id byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxUBXPayload {
		return nil, ErrPayloadTooLarge
	}
	out := make([]byte, UBXHeaderLen+len(payload), UBXOverhead+len(payload))
	out[0] = UBXSync1
	out[1] = UBXSync2
	out[2] = class
	out[3] = id
	out[4] = byte(len(payload))
	out[5] = byte(len(payload) >> 8)
	copy(out[UBXHeaderLen:], payload)

	ckA, ckB := UBXChecksum(out[2:])
	return append(out, ckA, ckB), nil
}

// UBXHeader splits a complete frame produced by UBXDetector into its class,
// id and payload. It returns false when frame is too short for its length field.
func UBXHeader(frame []byte) (class, id byte, payload []byte, ok bool) {
	if len(frame) < UBXOverhead || frame[0] != UBXSync1 || frame[1] != UBXSync2 {
		return 0, 0, nil, false
	}
	length := int(frame[4]) | int(frame[5])<<8
	if len(frame) < UBXOverhead+length {
		return 0, 0, nil, false
	}
	return frame[2], frame[3], frame[UBXHeaderLen : UBXHeaderLen+length], true
}
