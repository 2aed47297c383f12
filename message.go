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
	"fmt"

	"github.com/ZaparooProject/go-gnss/internal/frame"
)

// Kind classifies a span returned by the parser
type Kind int

const (
	// KindWait means no complete span is available yet; call again once
	// more bytes have arrived.
	KindWait Kind = iota
	// KindNMEA is a validated NMEA sentence including '$' and CRLF.
	KindNMEA
	// KindUBX is a validated UBX frame including sync bytes and checksum.
	KindUBX
	// KindUnknown is a run of bytes that belongs to no recognized frame.
	KindUnknown
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindWait:
		return "WAIT"
	case KindNMEA:
		return "NMEA"
	case KindUBX:
		return "UBX"
	case KindUnknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func kindOf(p frame.Protocol) Kind {
	switch p {
	case frame.ProtocolNMEA:
		return KindNMEA
	case frame.ProtocolUBX:
		return KindUBX
	default:
		return KindUnknown
	}
}

// Message is one span pulled from the stream. Data aliases the buffer passed
// to Parser.Next or Device.ReadMessage and is empty for KindWait.
type Message struct {
	Data []byte
	Kind Kind
}

// Len returns the span length in bytes
func (m Message) Len() int {
	return len(m.Data)
}

// IsFrame reports whether the message is a validated NMEA or UBX frame
func (m Message) IsFrame() bool {
	return m.Kind == KindNMEA || m.Kind == KindUBX
}

// Clone returns a copy of m that does not alias the read buffer
func (m Message) Clone() Message {
	if m.Data == nil {
		return m
	}
	return Message{Kind: m.Kind, Data: append([]byte(nil), m.Data...)}
}

// UBX returns the class, id and payload of a UBX message
func (m Message) UBX() (class, id byte, payload []byte, ok bool) {
	if m.Kind != KindUBX {
		return 0, 0, nil, false
	}
	return frame.UBXHeader(m.Data)
}

// Sentence returns an NMEA message without its CRLF terminator
func (m Message) Sentence() (string, bool) {
	if m.Kind != KindNMEA || len(m.Data) < 2 {
		return "", false
	}
	return string(m.Data[:len(m.Data)-2]), true
}

// String returns a short description of the message
func (m Message) String() string {
	switch m.Kind {
	case KindNMEA:
		s, _ := m.Sentence()
		return fmt.Sprintf("NMEA(%d) %s", len(m.Data), s)
	case KindUBX:
		class, id, payload, _ := m.UBX()
		return fmt.Sprintf("UBX(%d) class=0x%02X id=0x%02X payload=%d", len(m.Data), class, id, len(payload))
	case KindUnknown:
		return fmt.Sprintf("UNKNOWN(%d)", len(m.Data))
	default:
		return m.Kind.String()
	}
}

// EncodeNMEA frames payload as "$<payload>*HH\r\n". A leading '$' in payload
// is ignored.
func EncodeNMEA(payload []byte) []byte {
	return frame.EncodeNMEA(payload)
}

// EncodeUBX frames payload as a UBX message. It fails with
// ErrPayloadTooLarge for payloads over 65535 bytes.
func EncodeUBX(class, id byte, payload []byte) ([]byte, error) {
	return frame.EncodeUBX(class, id, payload)
}
