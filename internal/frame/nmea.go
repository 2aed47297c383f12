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

// NMEADetector recognizes "$<printable>*HH\r\n" sentences.
type NMEADetector struct{}

// Protocol returns ProtocolNMEA
func (NMEADetector) Protocol() Protocol {
	return ProtocolNMEA
}

// Detect scans one NMEA sentence. There is no backtracking: the first byte
// that breaks the structure rejects the candidate.
func (NMEADetector) Detect(c Cursor, limit int) (Status, int) {
	b := budget{limit: limit}

	if !b.take(1) {
		return StatusWait, 0
	}
	if c.Next() != NMEAStart {
		return StatusNotFound, 0
	}

	var sum byte
	for {
		if !b.take(1) {
			return StatusWait, 0
		}
		ch := c.Next()
		if ch == NMEAStar {
			break
		}
		if !isPrintable(ch) {
			return StatusNotFound, 0
		}
		sum ^= ch
	}

	for _, want := range []byte{hexDigits[sum>>4], hexDigits[sum&0x0F], NMEATerminal1, NMEATerminal2} {
		if !b.take(1) {
			return StatusWait, 0
		}
		if c.Next() != want {
			return StatusNotFound, 0
		}
	}
	return StatusFound, b.used
}

// EncodeNMEA wraps payload as a complete sentence: '$', payload, '*', the
// checksum digits and CRLF. A leading '$' in payload is not duplicated.
func EncodeNMEA(payload []byte) []byte {
	if len(payload) > 0 && payload[0] == NMEAStart {
		payload = payload[1:]
	}
	out := make([]byte, 0, len(payload)+NMEAOverhead)
	out = append(out, NMEAStart)
	out = append(out, payload...)
	out = append(out, NMEAStar)
	out = AppendNMEAChecksum(out, NMEAChecksum(payload))
	return append(out, NMEATerminal1, NMEATerminal2)
}
