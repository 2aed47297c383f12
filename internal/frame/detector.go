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

// Status is the outcome of one detection attempt.
type Status int

const (
	// StatusNotFound means the bytes at the cursor are not a frame of this protocol.
	StatusNotFound Status = iota
	// StatusWait means the bytes so far are a valid prefix but the budget ran out.
	StatusWait
	// StatusFound means a complete, validated frame was recognized.
	StatusFound
)

// String returns a human-readable status name
func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not found"
	case StatusWait:
		return "wait"
	case StatusFound:
		return "found"
	default:
		return "unknown"
	}
}

// Cursor is a sequential byte source positioned at a candidate frame start.
// Implementations must return bytes in order and never be read past the
// budget handed to Detect.
type Cursor interface {
	Next() byte
}

// Detector recognizes one protocol's frames.
type Detector interface {
	// Protocol names the protocol this detector recognizes.
	Protocol() Protocol

	// Detect scans at most budget bytes from c. On StatusFound the returned
	// length is the exact frame length in bytes; otherwise it is 0.
	Detect(c Cursor, budget int) (Status, int)
}

// Protocol identifies a framing protocol.
type Protocol int

const (
	ProtocolNMEA Protocol = iota + 1
	ProtocolUBX
)

// String returns the protocol name
func (p Protocol) String() string {
	switch p {
	case ProtocolNMEA:
		return "NMEA"
	case ProtocolUBX:
		return "UBX"
	default:
		return "unknown"
	}
}

// DefaultDetectors returns the detectors in the order they are tried at each
// stream position.
func DefaultDetectors() []Detector {
	return []Detector{NMEADetector{}, UBXDetector{}}
}

// budget counts consumed bytes against a fixed limit.
type budget struct {
	used  int
	limit int
}

// take reserves n more bytes and reports whether they are available.
func (b *budget) take(n int) bool {
	b.used += n
	return b.used <= b.limit
}
