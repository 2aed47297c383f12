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
	"context"
	"fmt"
	"time"
)

// Transport defines the byte-stream interface to a GNSS receiver.
// This can be implemented by UART or I2C backends.
type Transport interface {
	// Read copies bytes the receiver has already produced into p. It does not
	// wait for a full frame; returning 0 bytes with a nil error is normal.
	Read(p []byte) (int, error)

	// Write sends p to the receiver
	Write(p []byte) (int, error)

	// Close closes the transport connection
	Close() error

	// SetTimeout sets the read timeout for the transport
	SetTimeout(timeout time.Duration) error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportI2C represents I2C bus transport (u-blox DDC).
	TransportI2C TransportType = "i2c"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TransportWithRetry wraps a Transport with retry capabilities. The framing
// core never retries on its own; wrap the transport to opt in.
type TransportWithRetry struct {
	transport Transport
	config    *RetryConfig
}

// NewTransportWithRetry creates a new transport wrapper with retry logic
func NewTransportWithRetry(transport Transport, config *RetryConfig) *TransportWithRetry {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &TransportWithRetry{
		transport: transport,
		config:    config,
	}
}

// Read reads with retry logic. Bytes that arrive together with a retryable
// error are kept and returned without retrying; a failing link shows up
// again on the next call.
func (t *TransportWithRetry) Read(p []byte) (int, error) {
	var got int
	err := RetryWithConfig(context.Background(), t.config, func() error {
		n, err := t.transport.Read(p[got:])
		got += n
		if err != nil {
			if got > 0 && IsRetryable(err) {
				return nil
			}
			return &TransportError{
				Op:        "Read",
				Err:       err,
				Type:      GetErrorType(err),
				Retryable: IsRetryable(err),
			}
		}
		return nil
	})
	return got, err
}

// Write writes with retry logic. A partial write is retried from the first
// unsent byte.
func (t *TransportWithRetry) Write(p []byte) (int, error) {
	var sent int
	err := RetryWithConfig(context.Background(), t.config, func() error {
		n, err := t.transport.Write(p[sent:])
		sent += n
		if err != nil {
			return &TransportError{
				Op:        "Write",
				Err:       err,
				Type:      GetErrorType(err),
				Retryable: IsRetryable(err),
			}
		}
		if sent < len(p) {
			return NewTransportError("Write", "", ErrShortWrite, ErrorTypeTransient)
		}
		return nil
	})
	return sent, err
}

// Close closes the transport connection
func (t *TransportWithRetry) Close() error {
	if err := t.transport.Close(); err != nil {
		return fmt.Errorf("failed to close underlying transport: %w", err)
	}
	return nil
}

// SetTimeout sets the read timeout for the transport
func (t *TransportWithRetry) SetTimeout(timeout time.Duration) error {
	if err := t.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on underlying transport: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *TransportWithRetry) IsConnected() bool {
	return t.transport.IsConnected()
}

// Type returns the transport type
func (t *TransportWithRetry) Type() TransportType {
	return t.transport.Type()
}

// SetRetryConfig updates the retry configuration
func (t *TransportWithRetry) SetRetryConfig(config *RetryConfig) {
	t.config = config
}

// Unwrap returns the wrapped transport
func (t *TransportWithRetry) Unwrap() Transport {
	return t.transport
}
