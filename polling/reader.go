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
	"errors"
	"sync"
	"sync/atomic"
	"time"

	gnss "github.com/ZaparooProject/go-gnss"
	"golang.org/x/sync/errgroup"
)

// Reader errors
var (
	ErrReaderRunning    = errors.New("reader is already running")
	ErrReaderNotRunning = errors.New("reader is not running")
	ErrReaderStopped    = errors.New("reader was stopped")
)

// Callbacks receive frames and events from the reader goroutine. Messages
// are copies and may be kept. A callback error is counted and passed to
// OnError; it never stops the reader.
type Callbacks struct {
	OnNMEA       func(msg gnss.Message) error
	OnUBX        func(msg gnss.Message) error
	OnUnknown    func(msg gnss.Message) error
	OnError      func(err error)
	OnLinkChange func(state LinkState)
}

// Metrics tracks operational metrics for a Reader
type Metrics struct {
	LastFrame       time.Time     // Time the last frame arrived
	PollCycles      int64         // Total number of polling cycles
	PollErrors      int64         // Number of transport errors
	NMEAFrames      int64         // Number of NMEA sentences delivered
	UBXFrames       int64         // Number of UBX frames delivered
	UnknownSpans    int64         // Number of unknown spans delivered
	CallbackErrors  int64         // Number of callback errors
	WritesSent      int64         // Number of queued writes sent
	LastPollLatency time.Duration // Duration of last polling operation
}

// Reader confines a Device to one goroutine. It drains every complete frame
// each cycle, then sleeps: the base poll interval while data flows, growing
// up to IdleBackoff while the receiver is quiet. Writes submitted with Send
// are executed on the same goroutine between polls.
type Reader struct {
	device    *gnss.Device
	config    *Config
	callbacks Callbacks
	group     *errgroup.Group
	cancel    context.CancelFunc
	writes    chan *writeRequest
	done      chan struct{}
	mu        sync.Mutex
	running   atomic.Bool

	// metrics
	pollCycles      atomic.Int64
	pollErrors      atomic.Int64
	nmeaFrames      atomic.Int64
	ubxFrames       atomic.Int64
	unknownSpans    atomic.Int64
	callbackErrors  atomic.Int64
	writesSent      atomic.Int64
	lastPollLatency atomic.Int64 // nanoseconds
	lastFrame       atomic.Int64 // unix nanoseconds

	// adaptive polling state
	currentInterval atomic.Int64 // nanoseconds
	linkState       atomic.Int32
}

// NewReader creates a reader for device. A nil config uses DefaultConfig.
func NewReader(device *gnss.Device, config *Config, callbacks Callbacks) (*Reader, error) {
	if device == nil {
		return nil, errors.New("device cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Reader{
		device:    device,
		config:    config.resolve(device.Transport()),
		callbacks: callbacks,
	}
	r.currentInterval.Store(int64(r.config.PollInterval))
	return r, nil
}

// Start begins polling in the background. The reader runs until ctx is
// cancelled, Stop is called, or the transport fails.
func (r *Reader) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running.CompareAndSwap(false, true) {
		return ErrReaderRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(loopCtx)
	r.cancel = cancel
	r.group = group
	r.writes = make(chan *writeRequest)
	r.done = make(chan struct{})

	done, writes := r.done, r.writes
	group.Go(func() error {
		defer close(done)
		defer r.running.Store(false)
		return r.loop(groupCtx, writes)
	})
	return nil
}

// Stop cancels the loop and waits for it to exit. It returns the error that
// ended the loop, if it was anything other than the cancellation.
func (r *Reader) Stop() error {
	r.mu.Lock()
	cancel, group := r.cancel, r.group
	r.mu.Unlock()
	if group == nil {
		return nil
	}

	cancel()
	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Wait blocks until the loop exits on its own and returns the reason
func (r *Reader) Wait() error {
	r.mu.Lock()
	group := r.group
	r.mu.Unlock()
	if group == nil {
		return ErrReaderNotRunning
	}
	return group.Wait()
}

// IsRunning returns whether the reader loop is active
func (r *Reader) IsRunning() bool {
	return r.running.Load()
}

// Metrics returns current operational metrics
func (r *Reader) Metrics() Metrics {
	m := Metrics{
		PollCycles:      r.pollCycles.Load(),
		PollErrors:      r.pollErrors.Load(),
		NMEAFrames:      r.nmeaFrames.Load(),
		UBXFrames:       r.ubxFrames.Load(),
		UnknownSpans:    r.unknownSpans.Load(),
		CallbackErrors:  r.callbackErrors.Load(),
		WritesSent:      r.writesSent.Load(),
		LastPollLatency: time.Duration(r.lastPollLatency.Load()),
	}
	if ns := r.lastFrame.Load(); ns != 0 {
		m.LastFrame = time.Unix(0, ns)
	}
	return m
}

// CurrentPollInterval returns the current adaptive polling interval
func (r *Reader) CurrentPollInterval() time.Duration {
	return time.Duration(r.currentInterval.Load())
}

// LinkState returns whether the receiver is currently producing frames
func (r *Reader) LinkState() LinkState {
	return LinkState(r.linkState.Load())
}

// loop runs polling until ctx is done or the transport fails
func (r *Reader) loop(ctx context.Context, writes <-chan *writeRequest) error {
	buf := make([]byte, r.config.BufferSize)
	link := newLinkTracker(r.config.StaleTimeout, time.Now())
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-writes:
			r.handleWrite(ctx, req)
			continue
		case <-timer.C:
		}

		start := time.Now()
		spans, frames, err := r.poll(ctx, buf)
		r.pollCycles.Add(1)
		r.lastPollLatency.Store(int64(time.Since(start)))

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.pollErrors.Add(1)
			r.reportError(err)
			return err
		}

		if state, changed := link.observe(start, frames); changed {
			r.linkState.Store(int32(state))
			if r.callbacks.OnLinkChange != nil {
				r.callbacks.OnLinkChange(state)
			}
		}

		timer.Reset(r.adjustPollInterval(spans > 0))
	}
}

// poll drains the device and returns the number of spans delivered and how
// many of them were NMEA or UBX frames.
func (r *Reader) poll(ctx context.Context, buf []byte) (spans, frames int, err error) {
	for spans < r.config.MaxFramesPerPoll {
		msg, err := r.device.ReadMessageContext(ctx, buf)
		if err != nil {
			return spans, frames, err
		}
		if msg.Kind == gnss.KindWait {
			break
		}
		spans++
		if msg.IsFrame() {
			frames++
		}
		r.dispatch(msg.Clone())
	}
	return spans, frames, nil
}

func (r *Reader) dispatch(msg gnss.Message) {
	var cb func(gnss.Message) error
	switch msg.Kind {
	case gnss.KindNMEA:
		r.nmeaFrames.Add(1)
		r.lastFrame.Store(time.Now().UnixNano())
		cb = r.callbacks.OnNMEA
	case gnss.KindUBX:
		r.ubxFrames.Add(1)
		r.lastFrame.Store(time.Now().UnixNano())
		cb = r.callbacks.OnUBX
	case gnss.KindUnknown:
		r.unknownSpans.Add(1)
		cb = r.callbacks.OnUnknown
	case gnss.KindWait:
	}
	if cb == nil {
		return
	}
	if err := cb(msg); err != nil {
		r.callbackErrors.Add(1)
		r.reportError(err)
	}
}

func (r *Reader) reportError(err error) {
	if r.callbacks.OnError != nil {
		r.callbacks.OnError(err)
	}
}

// adjustPollInterval implements adaptive polling: back to the base interval
// when data arrived, doubling up to IdleBackoff while idle.
func (r *Reader) adjustPollInterval(gotData bool) time.Duration {
	next := r.config.PollInterval
	if !gotData {
		next = min(2*time.Duration(r.currentInterval.Load()), r.config.IdleBackoff)
	}
	r.currentInterval.Store(int64(next))
	return next
}
