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

// Package pipe provides the fixed-capacity byte window the frame detectors scan.
package pipe

// Window is a ring buffer with a committed read position and a provisional
// cursor used for lookahead. Bytes are only released by Read or Discard, so
// a detector can scan ahead with Next and give up without losing data.
//
// Window is not safe for concurrent use.
type Window struct {
	buf    []byte
	read   int // committed read index
	cursor int // provisional read index, counted from read
	size   int // committed unread bytes
}

// New returns a window that holds at most capacity bytes.
func New(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{buf: make([]byte, capacity)}
}

// Cap returns the fixed capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}

// Len returns the number of unread bytes.
func (w *Window) Len() int {
	return w.size
}

// Free returns the number of bytes that can still be written.
func (w *Window) Free() int {
	return len(w.buf) - w.size
}

// Write appends as much of p as fits and returns the number of bytes
// accepted. Bytes beyond the free space are dropped.
func (w *Window) Write(p []byte) int {
	n := len(p)
	if free := w.Free(); n > free {
		n = free
	}
	end := (w.read + w.size) % len(w.buf)
	for i := 0; i < n; i++ {
		w.buf[end] = p[i]
		end++
		if end == len(w.buf) {
			end = 0
		}
	}
	w.size += n
	return n
}

// Peek returns the byte off positions past the read position without
// consuming it.
func (w *Window) Peek(off int) (byte, bool) {
	if off < 0 || off >= w.size {
		return 0, false
	}
	return w.buf[(w.read+off)%len(w.buf)], true
}

// Mark places the lookahead cursor n bytes past the read position.
func (w *Window) Mark(n int) {
	switch {
	case n < 0:
		n = 0
	case n > w.size:
		n = w.size
	}
	w.cursor = n
}

// Next returns the byte under the cursor and advances it. Past the end of
// the buffered data it returns 0 and leaves the cursor in place.
func (w *Window) Next() byte {
	if w.cursor >= w.size {
		return 0
	}
	b := w.buf[(w.read+w.cursor)%len(w.buf)]
	w.cursor++
	return b
}

// Read consumes up to len(p) bytes into p and returns the count copied.
func (w *Window) Read(p []byte) int {
	n := len(p)
	if n > w.size {
		n = w.size
	}
	first := n
	if tail := len(w.buf) - w.read; first > tail {
		first = tail
	}
	copy(p, w.buf[w.read:w.read+first])
	copy(p[first:n], w.buf[:n-first])
	w.advance(n)
	return n
}

// Discard drops up to n unread bytes and returns the count dropped.
func (w *Window) Discard(n int) int {
	if n > w.size {
		n = w.size
	}
	if n < 0 {
		n = 0
	}
	w.advance(n)
	return n
}

// Reset empties the window.
func (w *Window) Reset() {
	w.read, w.cursor, w.size = 0, 0, 0
}

func (w *Window) advance(n int) {
	w.read = (w.read + n) % len(w.buf)
	w.size -= n
	w.cursor = 0
}
