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
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithBufferSize sets the capacity of the receive window in bytes
func WithBufferSize(size int) Option {
	return func(d *Device) error {
		if size < 1 {
			return ErrInvalidParameter
		}
		d.config.BufferSize = size
		return nil
	}
}

// WithRetryConfig wraps the transport so failed reads and writes are retried
func WithRetryConfig(config *RetryConfig) Option {
	return func(d *Device) error {
		d.SetRetryConfig(config)
		return nil
	}
}

// WithTimeout sets the transport read timeout
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		return d.SetTimeout(timeout)
	}
}

// WithInitTimeout sets how long Init waits for the receiver to answer
func WithInitTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return ErrInvalidParameter
		}
		d.config.InitTimeout = timeout
		return nil
	}
}

// WithPowerOffOnClose controls whether Close puts the receiver into backup
// mode before closing the transport. It is on by default.
func WithPowerOffOnClose(enabled bool) Option {
	return func(d *Device) error {
		d.config.PowerOffOnClose = enabled
		return nil
	}
}

// WithLogger sets the logger used by the device. Without it the package
// logger installed with SetLogger is used.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(d *Device) error {
		d.logger = logger
		return nil
	}
}
