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
)

// TransportContext is a Transport whose reads and writes can be abandoned
// through a context.
type TransportContext interface {
	Transport

	// ReadContext reads like Read but returns early once ctx is done
	ReadContext(ctx context.Context, p []byte) (int, error)

	// WriteContext writes like Write but returns early once ctx is done
	WriteContext(ctx context.Context, p []byte) (int, error)
}

// transportContextAdapter wraps a Transport to provide context support
type transportContextAdapter struct {
	Transport
}

type ioResult struct {
	err error
	n   int
}

// ReadContext implements TransportContext. The read runs on its own
// goroutine into a private buffer, so p is never written after a
// cancellation has been reported.
func (t *transportContextAdapter) ReadContext(ctx context.Context, p []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled before read: %w", ctx.Err())
	default:
	}

	buf := make([]byte, len(p))
	resultChan := make(chan ioResult, 1)
	go func() {
		n, err := t.Read(buf)
		resultChan <- ioResult{err: err, n: n}
	}()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled while reading: %w", ctx.Err())
	case res := <-resultChan:
		copy(p, buf[:res.n])
		return res.n, res.err
	}
}

// WriteContext implements TransportContext. A write that is already on the
// wire when ctx is cancelled still completes in the background.
func (t *transportContextAdapter) WriteContext(ctx context.Context, p []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled before write: %w", ctx.Err())
	default:
	}

	resultChan := make(chan ioResult, 1)
	go func() {
		n, err := t.Write(p)
		resultChan <- ioResult{err: err, n: n}
	}()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled while writing: %w", ctx.Err())
	case res := <-resultChan:
		return res.n, res.err
	}
}

// AsTransportContext converts a Transport to TransportContext
func AsTransportContext(t Transport) TransportContext {
	if tc, ok := t.(TransportContext); ok {
		return tc
	}
	return &transportContextAdapter{Transport: t}
}
