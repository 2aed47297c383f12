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

package testing

import "sync"

// VirtualReceiver simulates a receiver that emits a scripted byte stream in
// chunks of a fixed size, the way a UART driver hands over whatever arrived
// since the last read.
type VirtualReceiver struct {
	stream    []byte
	chunkSize int
	pos       int
	mu        sync.Mutex
}

// NewVirtualReceiver creates a receiver that emits stream chunkSize bytes at a time
func NewVirtualReceiver(stream []byte, chunkSize int) *VirtualReceiver {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &VirtualReceiver{
		stream:    append([]byte(nil), stream...),
		chunkSize: chunkSize,
	}
}

// Read implements io.Reader, returning at most one chunk per call and
// 0 bytes once the stream is exhausted.
func (v *VirtualReceiver) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := v.chunkSize
	if rest := len(v.stream) - v.pos; n > rest {
		n = rest
	}
	n = copy(p, v.stream[v.pos:v.pos+n])
	v.pos += n
	return n, nil
}

// Done reports whether the whole stream has been read
func (v *VirtualReceiver) Done() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos >= len(v.stream)
}
