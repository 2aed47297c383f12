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
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// UBX messages sent by the device
const (
	ubxClassRXM   = 0x02
	ubxIDRXMPMREQ = 0x41

	// pmreqFlagBackup asks the receiver to enter backup mode
	pmreqFlagBackup = 0x00000002
)

// wakeByte is sent on Init; the receiver ignores it but wakes from power save
const wakeByte = 0xFF

// initPollInterval is the delay between reads while Init waits for data
const initPollInterval = 10 * time.Millisecond

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// RetryConfig configures retry behavior for transport operations
	RetryConfig *RetryConfig
	// Timeout is the transport read timeout
	Timeout time.Duration
	// InitTimeout bounds how long Init waits for the first received byte
	InitTimeout time.Duration
	// BufferSize is the receive window capacity in bytes
	BufferSize int
	// PowerOffOnClose sends a backup mode request before closing
	PowerOffOnClose bool
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Timeout:         time.Second,
		InitTimeout:     time.Second,
		BufferSize:      DefaultBufferSize,
		PowerOffOnClose: true,
	}
}

// Device is a GNSS receiver reached over a Transport. It frames outgoing
// NMEA and UBX messages and splits the incoming byte stream with a Parser.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called from
// a single goroutine or protected with external synchronization. The polling
// package runs a Device on its own goroutine and hands frames out by value.
type Device struct {
	transport Transport
	config    *DeviceConfig
	parser    *Parser
	logger    *zap.SugaredLogger
	rx        []byte
	closed    bool
}

// New creates a new device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidParameter)
	}
	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	device.parser = NewParser(device.config.BufferSize)
	device.rx = make([]byte, device.parser.Cap())
	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Config returns a copy of the device configuration
func (d *Device) Config() DeviceConfig {
	return *d.config
}

// SetTimeout sets the transport read timeout
func (d *Device) SetTimeout(timeout time.Duration) error {
	d.config.Timeout = timeout
	if err := d.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on transport: %w", err)
	}
	return nil
}

// SetRetryConfig updates the retry configuration, wrapping the transport in
// a TransportWithRetry the first time it is called.
func (d *Device) SetRetryConfig(config *RetryConfig) {
	if config == nil {
		config = DefaultRetryConfig()
	}
	d.config.RetryConfig = config
	if tr, ok := d.transport.(*TransportWithRetry); ok {
		tr.SetRetryConfig(config)
		return
	}
	d.transport = NewTransportWithRetry(d.transport, config)
}

func (d *Device) log() *zap.SugaredLogger {
	if d.logger != nil {
		return d.logger
	}
	return Logger()
}

// Init wakes the receiver and waits until it produces data. Bytes received
// while waiting stay buffered for ReadMessage.
func (d *Device) Init(ctx context.Context) error {
	if d.closed {
		return ErrDeviceClosed
	}
	if _, err := d.Send([]byte{wakeByte}); err != nil {
		return fmt.Errorf("failed to wake receiver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.InitTimeout)
	defer cancel()

	ticker := time.NewTicker(initPollInterval)
	defer ticker.Stop()

	for {
		if _, err := d.fill(d.transport.Read); err != nil {
			return err
		}
		if d.parser.Buffered() > 0 {
			d.log().Debugw("receiver responded", "bytes", d.parser.Buffered(), "transport", d.transport.Type())
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w within %v", ErrNoResponse, d.config.InitTimeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Send writes raw bytes to the receiver. A short write is an error.
func (d *Device) Send(p []byte) (int, error) {
	if d.closed {
		return 0, ErrDeviceClosed
	}
	n, err := d.transport.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write to transport: %w", err)
	}
	if n < len(p) {
		return n, fmt.Errorf("%w: sent %d of %d bytes", ErrShortWrite, n, len(p))
	}
	debugf("sent %d bytes", n)
	return n, nil
}

// SendNMEA frames payload as "$<payload>*HH\r\n" and sends it. A leading '$'
// in payload is ignored. It returns the number of framed bytes sent.
func (d *Device) SendNMEA(payload []byte) (int, error) {
	return d.Send(EncodeNMEA(payload))
}

// SendUBX frames payload as a UBX message of the given class and id and sends it
func (d *Device) SendUBX(class, id byte, payload []byte) (int, error) {
	msg, err := EncodeUBX(class, id, payload)
	if err != nil {
		return 0, NewDataTooLargeError("SendUBX", string(d.transport.Type()))
	}
	return d.Send(msg)
}

// fill moves whatever the transport has ready into the receive window
func (d *Device) fill(read func([]byte) (int, error)) (int, error) {
	free := d.parser.Free()
	if free == 0 {
		return 0, nil
	}
	n, err := read(d.rx[:free])
	if n > 0 {
		d.parser.Write(d.rx[:n])
	}
	if err != nil {
		return n, fmt.Errorf("failed to read from transport: %w", err)
	}
	return n, nil
}

// ReadMessage reads what the receiver has produced and returns the next
// message, copied into buf. It does not wait: with no complete frame
// available it returns a KindWait message. len(buf) bounds the message size.
func (d *Device) ReadMessage(buf []byte) (Message, error) {
	if d.closed {
		return Message{}, ErrDeviceClosed
	}
	if len(buf) == 0 {
		return Message{}, ErrBufferTooSmall
	}
	if _, err := d.fill(d.transport.Read); err != nil {
		return Message{}, err
	}
	return d.parser.Next(buf), nil
}

// ReadMessageContext is ReadMessage with a transport read that is abandoned
// once ctx is done.
func (d *Device) ReadMessageContext(ctx context.Context, buf []byte) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	if d.closed {
		return Message{}, ErrDeviceClosed
	}
	if len(buf) == 0 {
		return Message{}, ErrBufferTooSmall
	}
	read := func(p []byte) (int, error) {
		return AsTransportContext(d.transport).ReadContext(ctx, p)
	}
	if _, err := d.fill(read); err != nil {
		return Message{}, err
	}
	return d.parser.Next(buf), nil
}

// SendContext is Send with a transport write that is abandoned once ctx is done
func (d *Device) SendContext(ctx context.Context, p []byte) (int, error) {
	if d.closed {
		return 0, ErrDeviceClosed
	}
	n, err := AsTransportContext(d.transport).WriteContext(ctx, p)
	if err != nil {
		return n, fmt.Errorf("failed to write to transport: %w", err)
	}
	if n < len(p) {
		return n, fmt.Errorf("%w: sent %d of %d bytes", ErrShortWrite, n, len(p))
	}
	return n, nil
}

// Stats returns the parser counters
func (d *Device) Stats() ParserStats {
	return d.parser.Stats()
}

// PowerOff asks the receiver to enter backup mode with UBX-RXM-PMREQ. The
// receiver stays off until woken by Init or an external interrupt.
func (d *Device) PowerOff() error {
	if _, err := d.SendUBX(ubxClassRXM, ubxIDRXMPMREQ, pmreqPayload(0, pmreqFlagBackup)); err != nil {
		return fmt.Errorf("failed to send power off request: %w", err)
	}
	d.log().Debugw("receiver powered off", "transport", d.transport.Type())
	return nil
}

func pmreqPayload(duration time.Duration, flags uint32) []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload[0:4], uint32(duration/time.Millisecond))
	binary.LittleEndian.PutUint32(payload[4:8], flags)
	return payload
}

// Close powers the receiver off (unless disabled with WithPowerOffOnClose)
// and closes the transport. Closing twice is a no-op.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}

	var powerErr error
	if d.config.PowerOffOnClose {
		powerErr = d.PowerOff()
		if powerErr != nil {
			d.log().Warnw("power off failed", "error", powerErr)
		}
	}
	d.closed = true
	debugln("closing transport", d.transport.Type())

	var closeErr error
	if err := d.transport.Close(); err != nil {
		closeErr = fmt.Errorf("failed to close transport: %w", err)
	}
	return errors.Join(powerErr, closeErr)
}
