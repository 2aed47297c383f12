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

//go:build linux

package i2c

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/ZaparooProject/go-gnss/detection"
	"golang.org/x/sys/unix"
)

// funcI2C is the I2C_FUNC_I2C bit of the adapter functionality mask
const funcI2C = 0x00000001

// detectPlatform searches for receivers on Linux I2C buses
func detectPlatform(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	buses, err := findBuses()
	if err != nil {
		return nil, err
	}
	if len(buses) == 0 {
		return nil, detection.ErrNoDevicesFound
	}

	var devices []detection.DeviceInfo
	for _, bus := range buses {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		path := DevicePath(bus, DefaultAddress)
		if detection.IsPathIgnored(path, opts.IgnorePaths) {
			continue
		}

		// Passive mode never opens the bus.
		if opts.Mode == detection.Passive {
			devices = append(devices, newDeviceInfo(bus, DefaultAddress, detection.Low))
			continue
		}

		device, ok := probe(bus, DefaultAddress, opts.Mode)
		if ok {
			devices = append(devices, device)
		}
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

// probe reads the DDC byte count and, in Full mode, a sample of the stream
func probe(bus string, addr uint8, mode detection.Mode) (detection.DeviceInfo, bool) {
	fd, err := unix.Open(bus, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return detection.DeviceInfo{}, false
	}
	defer func() { _ = unix.Close(fd) }()

	if err := unix.IoctlSetInt(fd, unix.I2C_SLAVE, int(addr)); err != nil {
		return detection.DeviceInfo{}, false
	}

	var raw [2]byte
	if err := readRegister(fd, regCountHigh, raw[:]); err != nil {
		return detection.DeviceInfo{}, false
	}
	count, ok := availableCount(raw)
	if !ok {
		return detection.DeviceInfo{}, false
	}

	device := newDeviceInfo(bus, addr, detection.Medium)
	device.Metadata["available"] = strconv.Itoa(count)

	if mode == detection.Full && count > 0 {
		sample := make([]byte, min(count, maxSniff))
		if err := readRegister(fd, regStream, sample); err == nil && looksLikeGNSS(sample) {
			device.Confidence = detection.High
		}
	}
	return device, true
}

// readRegister sets the register pointer and reads len(p) bytes from it
func readRegister(fd int, reg byte, p []byte) error {
	if _, err := unix.Write(fd, []byte{reg}); err != nil {
		return fmt.Errorf("select register 0x%02X: %w", reg, err)
	}
	n, err := unix.Read(fd, p)
	if err != nil {
		return fmt.Errorf("read register 0x%02X: %w", reg, err)
	}
	if n != len(p) {
		return fmt.Errorf("read register 0x%02X: got %d of %d bytes", reg, n, len(p))
	}
	return nil
}

// findBuses returns the I2C bus device nodes that support plain I2C transfers
func findBuses() ([]string, error) {
	matches, err := filepath.Glob("/dev/i2c-*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for I2C devices: %w", err)
	}

	buses := make([]string, 0, len(matches))
	for _, path := range matches {
		fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
		if err != nil {
			continue
		}
		funcs, err := unix.IoctlGetUint32(fd, unix.I2C_FUNCS)
		_ = unix.Close(fd)
		if err != nil || funcs&funcI2C == 0 {
			continue
		}
		buses = append(buses, path)
	}
	return buses, nil
}
