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
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "transport timeout retryable", err: ErrTransportTimeout, want: true},
		{name: "transport read retryable", err: ErrTransportRead, want: true},
		{name: "transport write retryable", err: ErrTransportWrite, want: true},
		{name: "communication failed retryable", err: ErrCommunicationFailed, want: true},
		{name: "short write retryable", err: ErrShortWrite, want: true},
		{name: "closed transport not retryable", err: ErrTransportClosed, want: false},
		{name: "no response not retryable", err: ErrNoResponse, want: false},
		{name: "payload too large not retryable", err: ErrPayloadTooLarge, want: false},
		{name: "invalid parameter not retryable", err: ErrInvalidParameter, want: false},
		{name: "wrapped with %w stays retryable", err: fmt.Errorf("outer: %w", ErrTransportTimeout), want: true},
		{name: "flattened message is not retryable", err: errors.New("outer: " + ErrTransportTimeout.Error()), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryable_TransportError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		transport *TransportError
		name      string
		want      bool
	}{
		{
			name: "transport error retryable=true",
			transport: &TransportError{
				Err:       errors.New("test error"),
				Op:        "read",
				Port:      "/dev/ttyACM0",
				Type:      ErrorTypeTransient,
				Retryable: true,
			},
			want: true,
		},
		{
			name: "retryable underlying error but retryable=false",
			transport: &TransportError{
				Err:       ErrTransportTimeout,
				Op:        "read",
				Port:      "/dev/ttyACM0",
				Type:      ErrorTypeTimeout,
				Retryable: false,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.transport); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{name: "nil error", err: nil, want: ErrorTypePermanent},
		{name: "transport timeout", err: ErrTransportTimeout, want: ErrorTypeTimeout},
		{name: "transport read", err: ErrTransportRead, want: ErrorTypeTransient},
		{name: "transport write", err: ErrTransportWrite, want: ErrorTypeTransient},
		{name: "communication failed", err: ErrCommunicationFailed, want: ErrorTypeTransient},
		{name: "unknown error", err: errors.New("unknown error"), want: ErrorTypePermanent},
		{name: "timeout transport error", err: NewTimeoutError("read", "i2c-1"), want: ErrorTypeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetErrorType(tt.err); got != tt.want {
				t.Errorf("GetErrorType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewTransportError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err           error
		name          string
		op            string
		port          string
		errType       ErrorType
		wantRetryable bool
	}{
		{
			name:          "permanent",
			op:            "open",
			port:          "/dev/ttyACM0",
			err:           errors.New("permission denied"),
			errType:       ErrorTypePermanent,
			wantRetryable: false,
		},
		{
			name:          "transient with empty port",
			op:            "write",
			err:           errors.New("connection lost"),
			errType:       ErrorTypeTransient,
			wantRetryable: true,
		},
		{
			name:          "timeout",
			op:            "read",
			port:          "/dev/i2c-1",
			err:           ErrTransportTimeout,
			errType:       ErrorTypeTimeout,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			te := NewTransportError(tt.op, tt.port, tt.err, tt.errType)

			if te.Op != tt.op {
				t.Errorf("Op = %q, want %q", te.Op, tt.op)
			}
			if te.Port != tt.port {
				t.Errorf("Port = %q, want %q", te.Port, tt.port)
			}
			if !errors.Is(te, tt.err) {
				t.Errorf("errors.Is(te, %v) = false", tt.err)
			}
			if te.Type != tt.errType {
				t.Errorf("Type = %v, want %v", te.Type, tt.errType)
			}
			if te.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", te.Retryable, tt.wantRetryable)
			}
		})
	}
}

func TestTransportError_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		te   *TransportError
		want []string
	}{
		{
			name: "with port",
			te:   &TransportError{Err: errors.New("connection failed"), Op: "read", Port: "/dev/ttyACM0"},
			want: []string{"read", "/dev/ttyACM0", "connection failed"},
		},
		{
			name: "without port",
			te:   &TransportError{Err: errors.New("device busy"), Op: "write"},
			want: []string{"write", "device busy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.te.Error()
			for _, substr := range tt.want {
				if !strings.Contains(got, substr) {
					t.Errorf("Error() = %q, should contain %q", got, substr)
				}
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	t.Parallel()
	cause := errors.New("EIO")

	read := NewReadError("read", "i2c-1", cause)
	if !errors.Is(read, ErrTransportRead) || !errors.Is(read, cause) {
		t.Errorf("NewReadError() should wrap both ErrTransportRead and the cause: %v", read)
	}
	if !read.Retryable {
		t.Error("read errors should be retryable")
	}

	write := NewWriteError("write", "i2c-1", cause)
	if !errors.Is(write, ErrTransportWrite) || !errors.Is(write, cause) {
		t.Errorf("NewWriteError() should wrap both ErrTransportWrite and the cause: %v", write)
	}

	closed := NewClosedError("read", "i2c-1")
	if closed.Retryable || !errors.Is(closed, ErrTransportClosed) {
		t.Errorf("NewClosedError() = %+v, want permanent ErrTransportClosed", closed)
	}

	tooLarge := NewDataTooLargeError("write", "/dev/ttyACM0")
	if tooLarge.Type != ErrorTypePermanent || tooLarge.Retryable {
		t.Error("data too large errors should be permanent")
	}

	timeout := NewTimeoutError("read", "/dev/ttyACM0")
	if timeout.Type != ErrorTypeTimeout || !timeout.Retryable {
		t.Error("timeout errors should be retryable timeouts")
	}
}

func TestErrorType_String(t *testing.T) {
	t.Parallel()
	if got := ErrorTypeTimeout.String(); got != "timeout" {
		t.Errorf("String() = %q, want %q", got, "timeout")
	}
	if got := ErrorType(42).String(); got != "ErrorType(42)" {
		t.Errorf("String() = %q, want %q", got, "ErrorType(42)")
	}
}
