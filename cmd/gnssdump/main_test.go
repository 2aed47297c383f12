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

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/go-gnss/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func emptyFlags(configPath string) *flags {
	var (
		device, i2cBus string
		baud           int
		debug, decode  bool
		timeout        time.Duration
	)
	return &flags{
		configPath: &configPath,
		device:     &device,
		baud:       &baud,
		i2cBus:     &i2cBus,
		debug:      &debug,
		decode:     &decode,
		timeout:    &timeout,
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(emptyFlags(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "gnssdump.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: i2c\ndevice: \"1\"\ndecode: true\n"), 0o600))
	cfg, err = loadConfig(emptyFlags(path))
	require.NoError(t, err)
	assert.Equal(t, config.TransportI2C, cfg.Transport)
	assert.True(t, cfg.Decode)

	_, err = loadConfig(emptyFlags(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}

func TestNewTransport_Unsupported(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Transport = "spi"
	_, err := newTransport(cfg)
	require.ErrorContains(t, err, "unsupported transport type")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LogLevel = "warn"
	log, err := newLogger(cfg)
	require.NoError(t, err)
	assert.False(t, log.Desugar().Core().Enabled(zapcore.DebugLevel), "debug is filtered at warn level")

	cfg.LogLevel = "nope"
	_, err = newLogger(cfg)
	require.Error(t, err)
}
