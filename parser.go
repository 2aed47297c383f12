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
	"github.com/ZaparooProject/go-gnss/internal/frame"
	"github.com/ZaparooProject/go-gnss/internal/pipe"
)

// DefaultBufferSize is the default capacity of the receive window in bytes
const DefaultBufferSize = 1024

// ParserStats counts what the parser has seen since it was created
type ParserStats struct {
	NMEAFrames   uint64
	UBXFrames    uint64
	UnknownSpans uint64
	UnknownBytes uint64
	DroppedBytes uint64
	Waits        uint64
}

// Parser splits a raw receiver byte stream into NMEA sentences, UBX frames
// and unknown spans. Bytes go in with Write and come out, classified, with
// Next. It holds no goroutines and never blocks.
//
// Parser is not safe for concurrent use; confine it to one goroutine and
// hand messages to others with Message.Clone.
type Parser struct {
	window    *pipe.Window
	detectors []frame.Detector
	stats     ParserStats
}

// NewParser creates a parser whose window holds size bytes. A size below 1
// selects DefaultBufferSize.
func NewParser(size int) *Parser {
	if size < 1 {
		size = DefaultBufferSize
	}
	return &Parser{
		window:    pipe.New(size),
		detectors: frame.DefaultDetectors(),
	}
}

// Write appends received bytes and returns how many were accepted. When the
// window is full the newest bytes are dropped and counted in
// ParserStats.DroppedBytes; poll often enough to avoid that.
func (p *Parser) Write(b []byte) int {
	n := p.window.Write(b)
	if dropped := len(b) - n; dropped > 0 {
		p.stats.DroppedBytes += uint64(dropped)
		debugf("receive window full, dropped %d bytes", dropped)
	}
	return n
}

// Next returns the next span from the window, copied into buf. len(buf) is
// the largest span that may be returned; a frame that cannot fit in buf is
// returned as unknown bytes instead of waiting forever.
//
// Unknown bytes in front of a frame are always returned as their own span
// first, so a frame is never merged with the noise before it. Next returns
// KindWait when the window holds only the start of a frame, or nothing.
func (p *Parser) Next(buf []byte) Message {
	budget := len(buf)
	size := p.window.Len()
	bufLimited := budget < size
	if !bufLimited {
		budget = size
	}
	// A partial frame can only complete if more bytes can still arrive and
	// the caller's buffer is not what cut the scan short.
	canWait := p.window.Free() > 0 && !bufLimited

	unknown := 0
	for budget > 0 {
		for _, d := range p.detectors {
			p.window.Mark(unknown)
			status, n := d.Detect(p.window, budget)

			if status != frame.StatusNotFound && unknown > 0 {
				return p.take(buf, KindUnknown, unknown)
			}
			if status == frame.StatusWait && canWait {
				p.stats.Waits++
				return Message{Kind: KindWait}
			}
			if status == frame.StatusFound {
				return p.take(buf, kindOf(d.Protocol()), n)
			}
		}
		unknown++
		budget--
	}

	if unknown > 0 {
		return p.take(buf, KindUnknown, unknown)
	}
	p.stats.Waits++
	return Message{Kind: KindWait}
}

// take consumes n bytes into buf and records the span
func (p *Parser) take(buf []byte, kind Kind, n int) Message {
	n = p.window.Read(buf[:n])
	switch kind {
	case KindNMEA:
		p.stats.NMEAFrames++
	case KindUBX:
		p.stats.UBXFrames++
	case KindUnknown:
		p.stats.UnknownSpans++
		p.stats.UnknownBytes += uint64(n)
		debugf("skipped %d unknown bytes", n)
	case KindWait:
	}
	return Message{Kind: kind, Data: buf[:n]}
}

// Buffered returns the number of bytes waiting in the window
func (p *Parser) Buffered() int {
	return p.window.Len()
}

// Free returns the space left in the window
func (p *Parser) Free() int {
	return p.window.Free()
}

// Cap returns the window capacity
func (p *Parser) Cap() int {
	return p.window.Cap()
}

// Stats returns a snapshot of the parser counters
func (p *Parser) Stats() ParserStats {
	return p.stats
}

// Reset discards all buffered bytes. Counters are kept.
func (p *Parser) Reset() {
	p.window.Reset()
}
