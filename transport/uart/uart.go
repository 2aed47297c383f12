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

// Package uart provides the serial port transport
package uart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gnss "github.com/ZaparooProject/go-gnss"
	"github.com/ZaparooProject/go-gnss/internal/transport"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the factory default UART rate of u-blox receivers
	DefaultBaudRate = 9600
	// DefaultReadTimeout bounds how long a read waits on a quiet line
	DefaultReadTimeout = 50 * time.Millisecond

	// pollChunk is the number of bytes the poll interval leaves room for
	pollChunk = 256

	// A USB receiver that was just plugged in can report busy while the
	// system finishes enumerating it.
	openRetries    = 3
	openRetryDelay = 200 * time.Millisecond
)

// openPort is replaced in tests
var openPort = func(name string, mode *serial.Mode) (port, error) {
	return serial.Open(name, mode)
}

// port is the part of serial.Port the transport uses
type port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	SetReadTimeout(t time.Duration) error
	SetMode(mode *serial.Mode) error
	ResetInputBuffer() error
}

// Option configures a Transport
type Option func(*Transport)

// WithBaudRate sets the line speed
func WithBaudRate(baud int) Option {
	return func(t *Transport) {
		t.baudRate = baud
	}
}

// WithReadTimeout sets how long a read waits for the first byte
func WithReadTimeout(timeout time.Duration) Option {
	return func(t *Transport) {
		t.timeout = timeout
	}
}

// Transport implements gnss.Transport over a serial port. A read returns
// whatever arrived within the read timeout; a quiet line yields a zero
// length read rather than an error.
type Transport struct {
	port     port
	portName string
	timeout  time.Duration
	baudRate int
	mu       sync.Mutex
	closed   bool
}

// New opens portName (e.g. "/dev/ttyACM0" or "COM3")
func New(portName string, opts ...Option) (*Transport, error) {
	t := &Transport{
		portName: portName,
		baudRate: DefaultBaudRate,
		timeout:  DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.baudRate <= 0 {
		return nil, fmt.Errorf("%w: baud rate %d", gnss.ErrInvalidParameter, t.baudRate)
	}

	p, err := transport.WithRetry(transport.RetryConfig{
		Description: "open " + portName,
		MaxRetries:  openRetries,
		RetryDelay:  openRetryDelay,
		OnRetry: func(attempt int) {
			gnss.Logger().Debugw("serial port busy, retrying", "port", portName, "attempt", attempt)
		},
	}, func() (port, bool, error) {
		p, err := openPort(portName, t.mode())
		if err != nil {
			var portErr *serial.PortError
			if errors.As(err, &portErr) && portErr.Code() == serial.PortBusy {
				return nil, true, nil
			}
			return nil, false, err
		}
		return p, false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	if err := p.SetReadTimeout(t.timeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}
	// Drop whatever queued up before we were listening.
	_ = p.ResetInputBuffer()

	t.port = p
	return t, nil
}

// newWithPort builds a transport on an already open port, for tests
func newWithPort(p port, portName string) *Transport {
	return &Transport{
		port:     p,
		portName: portName,
		baudRate: DefaultBaudRate,
		timeout:  DefaultReadTimeout,
	}
}

func (t *Transport) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: t.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

func (t *Transport) ready(op string) error {
	if t.closed || t.port == nil {
		return gnss.NewClosedError(op, t.portName)
	}
	return nil
}

// Read implements gnss.Transport
func (t *Transport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("Read"); err != nil {
		return 0, err
	}
	n, err := t.port.Read(p)
	if err != nil {
		return n, classify("Read", t.portName, err)
	}
	return n, nil
}

// Write implements gnss.Transport
func (t *Transport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("Write"); err != nil {
		return 0, err
	}
	n, err := t.port.Write(p)
	if err != nil {
		return n, classify("Write", t.portName, err)
	}
	return n, nil
}

// classify turns a serial error into a gnss.TransportError. A port that went
// away (unplugged receiver) is permanent.
func classify(op, portName string, err error) error {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortClosed, serial.PortNotFound:
			return gnss.NewTransportError(op, portName, fmt.Errorf("%w: %w", gnss.ErrTransportClosed, err),
				gnss.ErrorTypePermanent)
		default:
		}
	}
	if op == "Write" {
		return gnss.NewWriteError(op, portName, err)
	}
	return gnss.NewReadError(op, portName, err)
}

// SetTimeout sets the read timeout for the transport
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = timeout
	if t.port == nil {
		return nil
	}
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set read timeout on %s: %w", t.portName, err)
	}
	return nil
}

// SetBaudRate changes the line speed, e.g. after reconfiguring the receiver
// port with UBX-CFG-PRT.
func (t *Transport) SetBaudRate(baud int) error {
	if baud <= 0 {
		return fmt.Errorf("%w: baud rate %d", gnss.ErrInvalidParameter, baud)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("SetBaudRate"); err != nil {
		return err
	}
	t.baudRate = baud
	if err := t.port.SetMode(t.mode()); err != nil {
		return fmt.Errorf("failed to set baud rate %d on %s: %w", baud, t.portName, err)
	}
	return nil
}

// BaudRate returns the configured line speed
func (t *Transport) BaudRate() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.baudRate
}

// PreferredPollInterval returns the time the line needs to deliver a few
// hundred bytes at the current baud rate, clamped to 5..100 ms.
func (t *Transport) PreferredPollInterval() time.Duration {
	t.mu.Lock()
	baud := t.baudRate
	t.mu.Unlock()
	if baud <= 0 {
		return 0
	}
	// 10 bits per byte on an 8N1 line
	d := time.Duration(pollChunk*10) * time.Second / time.Duration(baud)
	return min(max(d, 5*time.Millisecond), 100*time.Millisecond)
}

// Close closes the transport connection
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.port == nil {
		t.closed = true
		return nil
	}
	t.closed = true
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", t.portName, err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil && !t.closed
}

// Type returns the transport type
func (*Transport) Type() gnss.TransportType {
	return gnss.TransportUART
}

var (
	_ gnss.Transport          = (*Transport)(nil)
	_ gnss.PollIntervalHinter = (*Transport)(nil)
)
