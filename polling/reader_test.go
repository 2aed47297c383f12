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
	"testing"
	"time"

	gnss "github.com/ZaparooProject/go-gnss"
	testutil "github.com/ZaparooProject/go-gnss/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects everything the reader hands to its callbacks
type recorder struct {
	nmea    []string
	ubx     []gnss.Message
	unknown []gnss.Message
	errs    []error
	links   []LinkState
	mu      sync.Mutex
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnNMEA: func(msg gnss.Message) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.nmea = append(r.nmea, string(msg.Data))
			return nil
		},
		OnUBX: func(msg gnss.Message) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.ubx = append(r.ubx, msg)
			return nil
		},
		OnUnknown: func(msg gnss.Message) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.unknown = append(r.unknown, msg)
			return nil
		},
		OnError: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
		OnLinkChange: func(state LinkState) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.links = append(r.links, state)
		},
	}
}

func (r *recorder) counts() (nmea, ubx, unknown, errs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nmea), len(r.ubx), len(r.unknown), len(r.errs)
}

func (r *recorder) linkStates() []LinkState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LinkState(nil), r.links...)
}

func fastConfig() *Config {
	cfg := DefaultConfig()
	cfg.PollInterval = time.Millisecond
	cfg.IdleBackoff = 4 * time.Millisecond
	return cfg
}

func newTestReader(t *testing.T, cfg *Config, cb Callbacks) (*Reader, *gnss.MockTransport) {
	t.Helper()
	mock := gnss.NewMockTransport()
	device, err := gnss.New(mock, gnss.WithPowerOffOnClose(false))
	require.NoError(t, err)
	reader, err := NewReader(device, cfg, cb)
	require.NoError(t, err)
	return reader, mock
}

func TestNewReader(t *testing.T) {
	t.Parallel()

	_, err := NewReader(nil, nil, Callbacks{})
	require.Error(t, err)

	device, err := gnss.New(gnss.NewMockTransport())
	require.NoError(t, err)

	_, err = NewReader(device, &Config{}, Callbacks{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	reader, err := NewReader(device, nil, Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, time.Millisecond, reader.CurrentPollInterval(), "mock transport interval")
	assert.False(t, reader.IsRunning())
	assert.Equal(t, LinkUnknown, reader.LinkState())
}

func TestReader_DeliversFrames(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	reader, mock := newTestReader(t, fastConfig(), rec.callbacks())

	navpvt := testutil.BuildNAVPVT(1)
	mock.Queue(
		[]byte(testutil.GGASentence),
		testutil.Noise(5),
		navpvt,
		[]byte(testutil.RMCSentence),
	)

	require.NoError(t, reader.Start(context.Background()))
	assert.True(t, reader.IsRunning())

	require.Eventually(t, func() bool {
		nmea, ubx, unknown, _ := rec.counts()
		return nmea == 2 && ubx == 1 && unknown == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, reader.Stop())
	assert.False(t, reader.IsRunning())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{testutil.GGASentence, testutil.RMCSentence}, rec.nmea,
		"delivered messages are copies and survive later frames")
	class, id, payload, ok := rec.ubx[0].UBX()
	require.True(t, ok)
	assert.Equal(t, byte(0x01), class)
	assert.Equal(t, byte(0x07), id)
	assert.Len(t, payload, 92)
	assert.Equal(t, testutil.Noise(5), rec.unknown[0].Data)

	m := reader.Metrics()
	assert.Equal(t, int64(2), m.NMEAFrames)
	assert.Equal(t, int64(1), m.UBXFrames)
	assert.Equal(t, int64(1), m.UnknownSpans)
	assert.Positive(t, m.PollCycles)
	assert.False(t, m.LastFrame.IsZero())
	assert.Zero(t, m.PollErrors)
}

func TestReader_CallbackError(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		errs []error
	)
	errHandler := errors.New("handler failed")
	cb := Callbacks{
		OnNMEA: func(gnss.Message) error { return errHandler },
		OnError: func(err error) {
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, err)
		},
	}
	reader, mock := newTestReader(t, fastConfig(), cb)
	mock.Queue([]byte(testutil.GGASentence))

	require.NoError(t, reader.Start(context.Background()))
	require.Eventually(t, func() bool {
		return reader.Metrics().CallbackErrors == 1
	}, time.Second, time.Millisecond)
	assert.True(t, reader.IsRunning(), "a failing callback does not stop the reader")
	require.NoError(t, reader.Stop())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], errHandler)
}

func TestReader_IdleBackoff(t *testing.T) {
	t.Parallel()

	reader, _ := newTestReader(t, fastConfig(), Callbacks{})
	require.NoError(t, reader.Start(context.Background()))
	defer func() { _ = reader.Stop() }()

	require.Eventually(t, func() bool {
		return reader.CurrentPollInterval() == 4*time.Millisecond
	}, time.Second, time.Millisecond)
}

func TestReader_AdjustPollInterval(t *testing.T) {
	t.Parallel()

	reader, _ := newTestReader(t, &Config{
		PollInterval:     10 * time.Millisecond,
		IdleBackoff:      50 * time.Millisecond,
		BufferSize:       gnss.DefaultBufferSize,
		MaxFramesPerPoll: 1,
	}, Callbacks{})

	steps := []struct {
		want    time.Duration
		gotData bool
	}{
		{gotData: false, want: 20 * time.Millisecond},
		{gotData: false, want: 40 * time.Millisecond},
		{gotData: false, want: 50 * time.Millisecond},
		{gotData: false, want: 50 * time.Millisecond},
		{gotData: true, want: 10 * time.Millisecond},
	}
	for i, s := range steps {
		assert.Equal(t, s.want, reader.adjustPollInterval(s.gotData), "step %d", i)
		assert.Equal(t, s.want, reader.CurrentPollInterval(), "step %d", i)
	}
}

func TestReader_LinkChanges(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	cfg := fastConfig()
	cfg.StaleTimeout = 20 * time.Millisecond
	reader, mock := newTestReader(t, cfg, rec.callbacks())
	mock.Queue([]byte(testutil.GGASentence))

	require.NoError(t, reader.Start(context.Background()))
	require.Eventually(t, func() bool {
		return len(rec.linkStates()) == 2
	}, time.Second, time.Millisecond)
	require.NoError(t, reader.Stop())

	assert.Equal(t, []LinkState{LinkReceiving, LinkStale}, rec.linkStates())
	assert.Equal(t, LinkStale, reader.LinkState())
}

func TestReader_Send(t *testing.T) {
	t.Parallel()

	reader, mock := newTestReader(t, fastConfig(), Callbacks{})
	ctx := context.Background()

	require.ErrorIs(t, reader.Send(ctx, []byte{0x01}), ErrReaderNotRunning)

	require.NoError(t, reader.Start(ctx))
	require.NoError(t, reader.SendNMEA(ctx, []byte("PUBX,00")))
	require.NoError(t, reader.SendUBX(ctx, 0x02, 0x41, nil))
	require.ErrorIs(t, reader.SendUBX(ctx, 0x06, 0x01, make([]byte, 70000)), gnss.ErrPayloadTooLarge)
	require.NoError(t, reader.Stop())

	assert.Equal(t, testutil.Concat(testutil.BuildNMEA("PUBX,00"), testutil.BuildPMREQ()), mock.Written())
	assert.Equal(t, int64(2), reader.Metrics().WritesSent)

	require.ErrorIs(t, reader.Send(ctx, []byte{0x01}), ErrReaderNotRunning)
}

func TestReader_SendCancelled(t *testing.T) {
	t.Parallel()

	reader, mock := newTestReader(t, fastConfig(), Callbacks{})
	require.NoError(t, reader.Start(context.Background()))
	defer func() { _ = reader.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, reader.Send(ctx, []byte{0x01}), context.Canceled)
	assert.Empty(t, mock.Written())
}

func TestReader_SendWriteError(t *testing.T) {
	t.Parallel()

	reader, mock := newTestReader(t, fastConfig(), Callbacks{})
	mock.SetWriteError(gnss.ErrTransportWrite, 1)
	require.NoError(t, reader.Start(context.Background()))
	defer func() { _ = reader.Stop() }()

	err := reader.Send(context.Background(), []byte{0x01})
	require.ErrorIs(t, err, gnss.ErrTransportWrite)
	assert.Zero(t, reader.Metrics().WritesSent)
	assert.True(t, reader.IsRunning(), "a failed write does not stop the reader")
}

func TestReader_TransportError(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	reader, mock := newTestReader(t, fastConfig(), rec.callbacks())
	errBus := errors.New("bus fault")
	mock.SetReadError(errBus, 1)

	require.NoError(t, reader.Start(context.Background()))
	err := reader.Wait()
	require.ErrorIs(t, err, errBus)
	assert.False(t, reader.IsRunning())

	_, _, _, errs := rec.counts()
	assert.Equal(t, 1, errs)
	assert.Equal(t, int64(1), reader.Metrics().PollErrors)
	require.ErrorIs(t, reader.Stop(), errBus)
}

func TestReader_Lifecycle(t *testing.T) {
	t.Parallel()

	reader, _ := newTestReader(t, fastConfig(), Callbacks{})
	require.ErrorIs(t, reader.Wait(), ErrReaderNotRunning)
	require.NoError(t, reader.Stop(), "stopping a reader that never started is a no-op")

	ctx := context.Background()
	require.NoError(t, reader.Start(ctx))
	require.ErrorIs(t, reader.Start(ctx), ErrReaderRunning)
	require.NoError(t, reader.Stop())

	require.NoError(t, reader.Start(ctx), "a stopped reader can be restarted")
	require.NoError(t, reader.Stop())
}

func TestReader_ParentContextCancel(t *testing.T) {
	t.Parallel()

	reader, _ := newTestReader(t, fastConfig(), Callbacks{})
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, reader.Start(ctx))

	cancel()
	require.ErrorIs(t, reader.Wait(), context.Canceled)
	assert.False(t, reader.IsRunning())
}
