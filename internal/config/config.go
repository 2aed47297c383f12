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

// Package config loads the gnssdump configuration file
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	gnss "github.com/ZaparooProject/go-gnss"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Transport names accepted in the config file. An empty transport means the
// receiver is found with detection.
const (
	TransportAuto = ""
	TransportUART = "uart"
	TransportI2C  = "i2c"
)

// DefaultI2CAddress is the u-blox DDC address
const DefaultI2CAddress = 0x42

// Config describes which receiver to open and how to read it
type Config struct {
	Transport    string        `yaml:"transport"`
	Device       string        `yaml:"device"`
	LogLevel     string        `yaml:"log_level"`
	PollInterval time.Duration `yaml:"poll_interval"`
	InitTimeout  time.Duration `yaml:"init_timeout"`
	Baud         int           `yaml:"baud"`
	BufferSize   int           `yaml:"buffer_size"`
	I2CAddress   uint16        `yaml:"i2c_address"`
	Decode       bool          `yaml:"decode"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Transport:   TransportAuto,
		LogLevel:    "info",
		InitTimeout: time.Second,
		Baud:        9600,
		BufferSize:  gnss.DefaultBufferSize,
		I2CAddress:  DefaultI2CAddress,
	}
}

// Load reads path, fills unset values from Default and validates the result
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document. Unknown keys are an error.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.InitTimeout <= 0 {
		c.InitTimeout = def.InitTimeout
	}
	if c.Baud == 0 {
		c.Baud = def.Baud
	}
	if c.BufferSize == 0 {
		c.BufferSize = def.BufferSize
	}
	if c.I2CAddress == 0 {
		c.I2CAddress = def.I2CAddress
	}
}

// Validate checks values a receiver cannot be opened with
func (c Config) Validate() error {
	switch c.Transport {
	case TransportAuto, TransportUART, TransportI2C:
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", TransportUART, TransportI2C, c.Transport)
	}
	if c.Transport == TransportUART && c.Device == "" {
		return errors.New("device is required when transport is uart")
	}
	if c.Baud < 0 {
		return fmt.Errorf("baud must be > 0, got %d", c.Baud)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer_size must be > 0, got %d", c.BufferSize)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative, got %v", c.PollInterval)
	}
	if c.I2CAddress > 0x7F {
		return fmt.Errorf("i2c_address 0x%X is not a 7-bit address", c.I2CAddress)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns log_level as a zap level
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
