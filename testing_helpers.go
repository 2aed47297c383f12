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
	"sync"
	"time"
)

// MockTransport is an in-memory transport for tests. Received data is
// scripted with Queue; everything written is captured.
type MockTransport struct {
	readErr     error
	writeErr    error
	rx          [][]byte
	writes      [][]byte
	timeout     time.Duration
	readCalls   int
	writeCalls  int
	readErrN    int
	writeErrN   int
	writeLimit  int
	mu          sync.Mutex
	closed      bool
	echoOnWrite bool
}

// NewMockTransport creates a connected mock transport with nothing to read
func NewMockTransport() *MockTransport {
	return &MockTransport{timeout: time.Second}
}

// Queue schedules chunks to be returned by successive Read calls. A chunk
// larger than the caller's buffer is returned over several reads.
func (m *MockTransport) Queue(chunks ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.rx = append(m.rx, append([]byte(nil), c...))
	}
}

// Pending returns the number of queued bytes not read yet
func (m *MockTransport) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.rx {
		n += len(c)
	}
	return n
}

// Read implements Transport
func (m *MockTransport) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readCalls++

	if m.closed {
		return 0, NewClosedError("Read", "mock")
	}
	if m.readErrN > 0 {
		m.readErrN--
		return 0, m.readErr
	}
	if len(m.rx) == 0 {
		return 0, nil
	}

	n := copy(p, m.rx[0])
	if n == len(m.rx[0]) {
		m.rx = m.rx[1:]
	} else {
		m.rx[0] = m.rx[0][n:]
	}
	return n, nil
}

// Write implements Transport
func (m *MockTransport) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeCalls++

	if m.closed {
		return 0, NewClosedError("Write", "mock")
	}
	if m.writeErrN > 0 {
		m.writeErrN--
		return 0, m.writeErr
	}

	n := len(p)
	if m.writeLimit > 0 && n > m.writeLimit {
		n = m.writeLimit
	}
	m.writes = append(m.writes, append([]byte(nil), p[:n]...))
	if m.echoOnWrite {
		m.rx = append(m.rx, append([]byte(nil), p[:n]...))
	}
	return n, nil
}

// SetReadError makes the next count Read calls fail with err
func (m *MockTransport) SetReadError(err error, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
	m.readErrN = count
}

// SetWriteError makes the next count Write calls fail with err
func (m *MockTransport) SetWriteError(err error, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
	m.writeErrN = count
}

// SetWriteLimit caps the number of bytes accepted per Write call (0 = no cap)
func (m *MockTransport) SetWriteLimit(limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeLimit = limit
}

// SetEcho makes every write readable back, like a receiver that answers
// anything it is sent.
func (m *MockTransport) SetEcho(echo bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.echoOnWrite = echo
}

// Written returns every byte written so far, concatenated
func (m *MockTransport) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []byte
	for _, w := range m.writes {
		out = append(out, w...)
	}
	return out
}

// Writes returns each Write call's data
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// ReadCalls returns the number of Read calls
func (m *MockTransport) ReadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readCalls
}

// WriteCalls returns the number of Write calls
func (m *MockTransport) WriteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeCalls
}

// Close implements Transport
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetTimeout implements Transport
func (m *MockTransport) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return nil
}

// Timeout returns the last timeout set
func (m *MockTransport) Timeout() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeout
}

// IsConnected implements Transport
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type implements Transport
func (*MockTransport) Type() TransportType {
	return TransportMock
}

var _ Transport = (*MockTransport)(nil)
