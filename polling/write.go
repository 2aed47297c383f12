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

package polling

import (
	"context"
	"fmt"

	gnss "github.com/ZaparooProject/go-gnss"
)

// writeRequest represents a pending write operation
type writeRequest struct {
	ctx    context.Context
	result chan error
	data   []byte
}

// Send queues raw bytes for the device and waits until the reader goroutine
// has written them, ctx is done, or the reader stops.
func (r *Reader) Send(ctx context.Context, data []byte) error {
	r.mu.Lock()
	writes, done := r.writes, r.done
	r.mu.Unlock()
	if !r.running.Load() || writes == nil {
		return ErrReaderNotRunning
	}

	req := &writeRequest{
		ctx:    ctx,
		data:   append([]byte(nil), data...),
		result: make(chan error, 1),
	}

	select {
	case writes <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return ErrReaderStopped
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return ErrReaderStopped
	}
}

// SendNMEA frames payload as an NMEA sentence and sends it through the reader
func (r *Reader) SendNMEA(ctx context.Context, payload []byte) error {
	return r.Send(ctx, gnss.EncodeNMEA(payload))
}

// SendUBX frames payload as a UBX message and sends it through the reader
func (r *Reader) SendUBX(ctx context.Context, class, id byte, payload []byte) error {
	msg, err := gnss.EncodeUBX(class, id, payload)
	if err != nil {
		return gnss.NewDataTooLargeError("SendUBX", string(r.device.Transport().Type()))
	}
	return r.Send(ctx, msg)
}

// handleWrite executes a queued write on the reader goroutine
func (r *Reader) handleWrite(ctx context.Context, req *writeRequest) {
	// The caller may have given up while the request was queued.
	select {
	case <-req.ctx.Done():
		sendWriteResult(req, req.ctx.Err())
		return
	default:
	}

	_, err := r.device.SendContext(ctx, req.data)
	if err != nil {
		err = fmt.Errorf("queued write failed: %w", err)
	} else {
		r.writesSent.Add(1)
	}
	sendWriteResult(req, err)
}

// sendWriteResult hands the result back without blocking
func sendWriteResult(req *writeRequest, err error) {
	select {
	case req.result <- err:
	default:
	}
}
