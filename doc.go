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

/*
Package gnss provides a pure Go library for talking to GNSS receivers that
mix NMEA 0183 sentences and u-blox UBX binary frames on one byte stream.

The core is a streaming framer. Bytes go into a bounded receive window and
come out as spans: validated NMEA sentences, validated UBX frames, and runs of
unknown bytes that belong to neither. Frames are never merged with the noise
in front of them, and a corrupted frame is reported as unknown bytes rather
than stalling the stream.

Features:
  - Incremental framing of NMEA and UBX with checksum validation
  - Transports for UART and I2C (u-blox DDC)
  - Automatic receiver detection on serial ports and I2C buses
  - NMEA field accessors (numbers, characters, latitude/longitude)
  - Background reader with adaptive polling and queued writes
  - Retry logic with configurable backoff
  - Receiver power off (UBX-RXM-PMREQ) on close

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-gnss"
	    "github.com/ZaparooProject/go-gnss/transport/uart"
	)

	transport, err := uart.New("/dev/ttyACM0", uart.WithBaudRate(38400))
	if err != nil {
	    log.Fatal(err)
	}

	device, err := gnss.New(transport, gnss.WithBufferSize(2048))
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if err := device.Init(ctx); err != nil {
	    log.Fatal(err)
	}

	buf := make([]byte, 1024)
	for {
	    msg, err := device.ReadMessage(buf)
	    if err != nil {
	        log.Fatal(err)
	    }
	    switch msg.Kind {
	    case gnss.KindWait:
	        time.Sleep(20 * time.Millisecond)
	    case gnss.KindNMEA:
	        lat, _ := gnss.FieldAngle(2, msg.Data)
	        fmt.Println("latitude", lat)
	    case gnss.KindUBX:
	        class, id, payload, _ := msg.UBX()
	        fmt.Printf("UBX %02x-%02x (%d bytes)\n", class, id, len(payload))
	    }
	}

Parsing Without a Device:

The Parser can be fed from any source, such as a log file:

	p := gnss.NewParser(4096)
	p.Write(chunk)
	for msg := p.Next(buf); msg.Kind != gnss.KindWait; msg = p.Next(buf) {
	    handle(msg)
	}

Transport Selection:

  - UART: USB or TTL serial, any baud rate the receiver is configured for
  - I2C: u-blox DDC at address 0x42, for embedded boards

Error Handling:

Transport failures are wrapped in *TransportError and can be inspected:

	if errors.Is(err, gnss.ErrTransportClosed) {
	    // Reconnect
	}
	if gnss.IsRetryable(err) {
	    // Try again later
	}

Thread Safety:

Device and Parser are not safe for concurrent use. The polling package runs a
Device on its own goroutine when frames must be consumed in the background.
*/
package gnss
