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

// Package uart detects GNSS receivers on serial ports
package uart

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZaparooProject/go-gnss/detection"
	"github.com/ZaparooProject/go-gnss/internal/transport"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	// UbloxVID is the USB vendor ID of u-blox AG
	UbloxVID = "1546"

	// probeBaudRate is the factory default UART rate of u-blox receivers
	probeBaudRate = 9600
	// probeWindow is how long a probe listens; receivers emit at 1 Hz by default
	probeWindow   = 1500 * time.Millisecond
	probeReadSize = 256
)

// usbBridgeVIDs are USB to serial bridges commonly found on GNSS breakout boards
var usbBridgeVIDs = map[string]string{
	"0403": "FTDI",
	"10C4": "Silicon Labs CP210x",
	"067B": "Prolific",
	"1A86": "WCH CH340",
}

// Port is a serial port as listed by the operating system
type Port struct {
	Name         string
	VID          string
	PID          string
	SerialNumber string
	Product      string
	IsUSB        bool
}

// Package level hooks, replaced in tests
var (
	listPorts = enumeratePorts
	probePort = listenForGNSS
)

// detector implements the Detector interface for serial ports
type detector struct{}

// New creates a new UART detector
func New() detection.Detector {
	return &detector{}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "uart"
}

// Detect lists serial ports and rates them. u-blox USB devices are reported
// with High confidence. Other USB serial bridges are reported with Low
// confidence, raised to High when a probe hears NMEA or UBX traffic; Passive
// mode never probes and skips them.
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if opts == nil {
		defaults := detection.DefaultOptions()
		opts = &defaults
	}

	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	var devices []detection.DeviceInfo
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return devices, detection.ErrDetectionTimeout
		}

		device, ok := classify(port, opts)
		if !ok {
			continue
		}
		if device.Confidence < detection.High && opts.Mode != detection.Passive {
			if probePort(ctx, port.Name) {
				device.Confidence = detection.High
				device.Metadata["probe"] = "gnss traffic"
			}
		}
		devices = append(devices, device)
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

// classify turns a port into a DeviceInfo, or reports false when the port
// should not be considered at all.
func classify(port Port, opts *detection.Options) (detection.DeviceInfo, bool) {
	if detection.IsPathIgnored(port.Name, opts.IgnorePaths) {
		return detection.DeviceInfo{}, false
	}

	vidpid := detection.VIDPID(port.VID, port.PID)
	if detection.IsBlocked(vidpid, opts.Blocklist) {
		return detection.DeviceInfo{}, false
	}

	device := detection.DeviceInfo{
		Transport:  "uart",
		Path:       port.Name,
		Name:       port.Name,
		Confidence: detection.Low,
		Metadata:   map[string]string{},
	}
	if port.Product != "" {
		device.Name = port.Product
		device.Metadata["product"] = port.Product
	}
	if port.SerialNumber != "" {
		device.Metadata["serial"] = port.SerialNumber
	}
	if vidpid != "" {
		device.Metadata["vidpid"] = vidpid
	}

	switch {
	case port.IsUSB && strings.EqualFold(port.VID, UbloxVID):
		device.Confidence = detection.High
		device.Metadata["vendor"] = "u-blox"
	case port.IsUSB:
		if vendor, ok := usbBridgeVIDs[strings.ToUpper(port.VID)]; ok {
			device.Metadata["vendor"] = vendor
		}
		if opts.Mode == detection.Passive {
			return detection.DeviceInfo{}, false
		}
	default:
		// Built-in UARTs are only worth opening when the caller asked for it.
		if opts.Mode != detection.Full {
			return detection.DeviceInfo{}, false
		}
	}
	return device, true
}

func enumeratePorts() ([]Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	ports := make([]Port, 0, len(details))
	for _, d := range details {
		ports = append(ports, Port{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return ports, nil
}

// listenForGNSS opens the port without writing to it and
// reports whether NMEA or UBX traffic shows up within probeWindow.
func listenForGNSS(ctx context.Context, name string) bool {
	port, err := serial.Open(name, &serial.Mode{BaudRate: probeBaudRate})
	if err != nil {
		return false
	}
	defer func() { _ = port.Close() }()

	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		return false
	}

	var seen []byte
	buf := make([]byte, probeReadSize)
	found, err := transport.TimeoutRetry(ctx, probeWindow, 0, func() (bool, bool, error) {
		n, err := port.Read(buf)
		if err != nil {
			return false, false, err
		}
		seen = append(seen, buf[:n]...)
		if looksLikeGNSS(seen) {
			return true, false, nil
		}
		return false, true, nil
	})
	return err == nil && found
}

func looksLikeGNSS(data []byte) bool {
	return bytes.Contains(data, []byte("$G")) || bytes.Contains(data, []byte{0xB5, 0x62})
}
