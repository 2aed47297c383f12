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
	"testing"
	"time"

	gnss "github.com/ZaparooProject/go-gnss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		modify  func(*Config)
		name    string
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "explicit poll interval", modify: func(c *Config) { c.PollInterval = 10 * time.Millisecond }},
		{name: "negative poll interval", modify: func(c *Config) { c.PollInterval = -1 }, wantErr: true},
		{name: "negative idle backoff", modify: func(c *Config) { c.IdleBackoff = -1 }, wantErr: true},
		{name: "negative stale timeout", modify: func(c *Config) { c.StaleTimeout = -1 }, wantErr: true},
		{name: "zero buffer", modify: func(c *Config) { c.BufferSize = 0 }, wantErr: true},
		{name: "zero frames per poll", modify: func(c *Config) { c.MaxFramesPerPoll = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	t.Parallel()

	mock := gnss.NewMockTransport()

	cfg := DefaultConfig()
	resolved := cfg.resolve(mock)
	assert.Equal(t, gnss.RecommendedPollInterval(mock), resolved.PollInterval)
	assert.Zero(t, cfg.PollInterval, "resolve must not modify the caller's config")

	cfg = &Config{PollInterval: time.Second, IdleBackoff: 100 * time.Millisecond}
	resolved = cfg.resolve(mock)
	assert.Equal(t, time.Second, resolved.PollInterval)
	assert.Equal(t, time.Second, resolved.IdleBackoff, "idle backoff is never shorter than the poll interval")
}
