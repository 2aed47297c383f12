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

// Package polling runs a gnss.Device on its own goroutine and hands the
// frames it receives to callbacks.
package polling

import (
	"errors"
	"fmt"
	"time"

	gnss "github.com/ZaparooProject/go-gnss"
)

// ErrInvalidConfig is returned for a Config that cannot be used
var ErrInvalidConfig = errors.New("invalid polling config")

// Config holds the reader's timing and buffer settings
type Config struct {
	// PollInterval is the delay between reads while data flows. Zero picks
	// gnss.RecommendedPollInterval for the device's transport.
	PollInterval time.Duration
	// IdleBackoff caps the delay between reads while the receiver is quiet
	IdleBackoff time.Duration
	// StaleTimeout is how long without a frame before the link counts as lost
	StaleTimeout time.Duration
	// BufferSize is the largest message handed to a callback
	BufferSize int
	// MaxFramesPerPoll bounds the frames drained in one cycle so queued
	// writes are not starved
	MaxFramesPerPoll int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		IdleBackoff:      500 * time.Millisecond,
		StaleTimeout:     3 * time.Second,
		BufferSize:       gnss.DefaultBufferSize,
		MaxFramesPerPoll: 64,
	}
}

// Validate checks the config for values the reader cannot run with
func (c *Config) Validate() error {
	switch {
	case c.PollInterval < 0:
		return fmt.Errorf("%w: negative poll interval %v", ErrInvalidConfig, c.PollInterval)
	case c.IdleBackoff < 0:
		return fmt.Errorf("%w: negative idle backoff %v", ErrInvalidConfig, c.IdleBackoff)
	case c.StaleTimeout < 0:
		return fmt.Errorf("%w: negative stale timeout %v", ErrInvalidConfig, c.StaleTimeout)
	case c.BufferSize < 1:
		return fmt.Errorf("%w: buffer size %d", ErrInvalidConfig, c.BufferSize)
	case c.MaxFramesPerPoll < 1:
		return fmt.Errorf("%w: max frames per poll %d", ErrInvalidConfig, c.MaxFramesPerPoll)
	default:
		return nil
	}
}

// resolve returns a copy with the automatic values filled in
func (c *Config) resolve(transport gnss.Transport) *Config {
	out := *c
	if out.PollInterval == 0 {
		out.PollInterval = gnss.RecommendedPollInterval(transport)
	}
	if out.IdleBackoff < out.PollInterval {
		out.IdleBackoff = out.PollInterval
	}
	return &out
}
