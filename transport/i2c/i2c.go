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

// Package i2c provides the u-blox DDC (I2C) transport
package i2c

import (
	"fmt"
	"sync"
	"time"

	gnss "github.com/ZaparooProject/go-gnss"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// DefaultAddress is the u-blox DDC address
	DefaultAddress = 0x42

	// DDC registers
	regCountHigh = 0xFD
	regStream    = 0xFF

	// idleCount is what the count registers read when no receiver answers
	idleCount = 0xFFFF

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz

	// maxWriteChunk bounds a single bus write
	maxWriteChunk = 255
)

// txer is the part of *i2c.Dev the transport uses
type txer interface {
	Tx(w, r []byte) error
}

type closer interface {
	Close() error
}

// Option configures a Transport
type Option func(*Transport)

// WithAddress sets the 7-bit I2C address of the receiver
func WithAddress(addr uint16) Option {
	return func(t *Transport) {
		t.addr = addr
	}
}

// WithSpeed sets the bus clock
func WithSpeed(freq physic.Frequency) Option {
	return func(t *Transport) {
		t.speed = freq
	}
}

// Transport implements gnss.Transport over the u-blox DDC protocol. A read
// fetches the pending byte count from registers 0xFD/0xFE once and then
// streams at most that many bytes from register 0xFF; it never waits for
// more data.
type Transport struct {
	dev     txer
	bus     closer
	busName string
	timeout time.Duration
	speed   physic.Frequency
	mu      sync.Mutex
	addr    uint16
	closed  bool
}

// New opens busName (e.g. "/dev/i2c-1" or "1") and addresses the receiver on it
func New(busName string, opts ...Option) (*Transport, error) {
	t := &Transport{
		busName: busName,
		addr:    DefaultAddress,
		speed:   maxClockFreq,
		timeout: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(t)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	// Ignore error, continue with default speed
	_ = bus.SetSpeed(t.speed)

	t.dev = &i2c.Dev{Addr: t.addr, Bus: bus}
	t.bus = bus
	return t, nil
}

// newWithDev builds a transport on an existing device, for tests
func newWithDev(dev txer, busName string) *Transport {
	return &Transport{
		dev:     dev,
		busName: busName,
		addr:    DefaultAddress,
		timeout: 50 * time.Millisecond,
	}
}

// Available returns the number of bytes the receiver has buffered
func (t *Transport) Available() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.dev == nil {
		return 0, gnss.NewClosedError("Available", t.busName)
	}
	return t.available()
}

// available reads the count registers. A receiver busy with its own bus
// work NACKs; the read is repeated until the transport timeout runs out.
func (t *Transport) available() (int, error) {
	var raw [2]byte
	deadline := time.Now().Add(t.timeout)
	for {
		err := t.dev.Tx([]byte{regCountHigh}, raw[:])
		if err == nil {
			break
		}
		if !time.Now().Before(deadline) {
			return 0, gnss.NewReadError("Available", t.busName, err)
		}
		time.Sleep(time.Millisecond)
	}
	n := int(raw[0])<<8 | int(raw[1])
	if n == idleCount {
		return 0, nil
	}
	return n, nil
}

// Read implements gnss.Transport
func (t *Transport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.dev == nil {
		return 0, gnss.NewClosedError("Read", t.busName)
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := t.available()
	if err != nil {
		return 0, err
	}
	n = min(n, len(p))
	if n == 0 {
		return 0, nil
	}

	if err := t.dev.Tx([]byte{regStream}, p[:n]); err != nil {
		return 0, gnss.NewReadError("Read", t.busName, err)
	}
	return n, nil
}

// Write implements gnss.Transport. Each bus transfer is prefixed with the
// stream register selector.
func (t *Transport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.dev == nil {
		return 0, gnss.NewClosedError("Write", t.busName)
	}

	written := 0
	buf := make([]byte, 0, maxWriteChunk+1)
	for written < len(p) {
		chunk := p[written:min(len(p), written+maxWriteChunk)]
		buf = append(buf[:0], regStream)
		buf = append(buf, chunk...)
		if err := t.dev.Tx(buf, nil); err != nil {
			return written, gnss.NewWriteError("Write", t.busName, err)
		}
		written += len(chunk)
	}
	return written, nil
}

// SetTimeout sets how long a read keeps retrying a NACKed count register
// access. Zero tries once.
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = timeout
	return nil
}

// Close closes the transport connection
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.bus != nil {
		if err := t.bus.Close(); err != nil {
			return fmt.Errorf("failed to close I2C bus %s: %w", t.busName, err)
		}
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dev != nil && !t.closed
}

// Type returns the transport type
func (*Transport) Type() gnss.TransportType {
	return gnss.TransportI2C
}

var _ gnss.Transport = (*Transport)(nil)
