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

// Command gnssdump prints the NMEA and UBX frames a GNSS receiver produces
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	gnss "github.com/ZaparooProject/go-gnss"
	"github.com/ZaparooProject/go-gnss/detection"
	// Import all detectors to register them
	_ "github.com/ZaparooProject/go-gnss/detection/i2c"
	_ "github.com/ZaparooProject/go-gnss/detection/uart"
	"github.com/ZaparooProject/go-gnss/internal/config"
	"github.com/ZaparooProject/go-gnss/polling"
	"github.com/ZaparooProject/go-gnss/transport/i2c"
	"github.com/ZaparooProject/go-gnss/transport/uart"
	"go.uber.org/zap"
)

type flags struct {
	configPath *string
	device     *string
	baud       *int
	i2cBus     *string
	debug      *bool
	decode     *bool
	timeout    *time.Duration
}

func parseFlags() *flags {
	f := &flags{
		configPath: flag.String("config", "", "YAML configuration file"),
		device: flag.String("device", "",
			"Serial device path (e.g., /dev/ttyACM0 or COM3). Leave empty for auto-detection."),
		baud:    flag.Int("baud", 0, "Serial baud rate (default: 9600)"),
		i2cBus:  flag.String("i2c", "", "I2C bus to open instead of a serial port (e.g., 1)"),
		debug:   flag.Bool("debug", false, "Enable debug output"),
		decode:  flag.Bool("decode", false, "Decode NMEA sentences"),
		timeout: flag.Duration("timeout", 0, "Stop after this long (default: run until interrupted)"),
	}
	flag.Parse()
	return f
}

// loadConfig reads the config file, if any, and applies flags on top
func loadConfig(f *flags) (config.Config, error) {
	cfg := config.Default()
	if *f.configPath != "" {
		loaded, err := config.Load(*f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "device":
			cfg.Device = *f.device
			if cfg.Transport == config.TransportAuto {
				cfg.Transport = config.TransportUART
			}
		case "baud":
			cfg.Baud = *f.baud
		case "i2c":
			cfg.Transport = config.TransportI2C
			cfg.Device = *f.i2cBus
		case "debug":
			if *f.debug {
				cfg.LogLevel = "debug"
			}
		case "decode":
			cfg.Decode = *f.decode
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.SugaredLogger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableStacktrace = true
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// newTransport opens the receiver named in cfg
func newTransport(cfg config.Config) (gnss.Transport, error) {
	switch cfg.Transport {
	case config.TransportI2C:
		transport, err := i2c.New(cfg.Device, i2c.WithAddress(cfg.I2CAddress))
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C transport: %w", err)
		}
		return transport, nil
	case config.TransportUART:
		transport, err := uart.New(cfg.Device, uart.WithBaudRate(cfg.Baud))
		if err != nil {
			return nil, fmt.Errorf("failed to create UART transport: %w", err)
		}
		return transport, nil
	default:
		return nil, fmt.Errorf("unsupported transport type: %q", cfg.Transport)
	}
}

// detectTransport finds a receiver and opens the most likely one
func detectTransport(ctx context.Context, cfg config.Config, out *Output) (gnss.Transport, error) {
	opts := detection.DefaultOptions()
	devices, err := detection.DetectAll(ctx, &opts)
	if err != nil {
		return nil, fmt.Errorf("auto-detection failed: %w", err)
	}

	device := devices[0]
	out.DeviceFound(device)
	switch device.Transport {
	case "i2c":
		cfg.Transport = config.TransportI2C
		cfg.Device = strings.TrimPrefix(device.Metadata["bus"], "/dev/i2c-")
	case "uart":
		cfg.Transport = config.TransportUART
		cfg.Device = device.Path
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", device.Transport)
	}
	return newTransport(cfg)
}

func run(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) error {
	out := NewOutput(os.Stdout, cfg.Decode)

	var (
		transport gnss.Transport
		err       error
	)
	if cfg.Transport == config.TransportAuto {
		_, _ = fmt.Println("Auto-detecting GNSS receivers...")
		transport, err = detectTransport(ctx, cfg, out)
	} else {
		_, _ = fmt.Printf("Opening device: %s\n", cfg.Device)
		transport, err = newTransport(cfg)
	}
	if err != nil {
		return err
	}

	device, err := gnss.New(transport,
		gnss.WithBufferSize(cfg.BufferSize),
		gnss.WithInitTimeout(cfg.InitTimeout),
		gnss.WithLogger(log),
	)
	if err != nil {
		_ = transport.Close()
		return fmt.Errorf("failed to create device: %w", err)
	}
	defer func() {
		if err := device.Close(); err != nil {
			log.Warnw("failed to close device", "error", err)
		}
	}()

	if err := device.Init(ctx); err != nil {
		if !errors.Is(err, gnss.ErrNoResponse) {
			return fmt.Errorf("failed to initialize receiver: %w", err)
		}
		log.Warnw("receiver is quiet, listening anyway", "error", err)
	}

	pollConfig := polling.DefaultConfig()
	pollConfig.PollInterval = cfg.PollInterval
	pollConfig.BufferSize = cfg.BufferSize

	reader, err := polling.NewReader(device, pollConfig, polling.Callbacks{
		OnNMEA:    out.NMEA,
		OnUBX:     out.UBX,
		OnUnknown: out.Unknown,
		OnError: func(err error) {
			log.Warnw("reader error", "error", err)
		},
		OnLinkChange: func(state polling.LinkState) {
			log.Infow("link state changed", "state", state)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	if err := reader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reader: %w", err)
	}

	err = reader.Wait()
	m := reader.Metrics()
	log.Infow("reader stopped",
		"nmea", m.NMEAFrames, "ubx", m.UBXFrames, "unknown", m.UnknownSpans,
		"dropped", device.Stats().DroppedBytes)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func main() {
	f := parseFlags()

	cfg, err := loadConfig(f)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	log, err := newLogger(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	gnss.SetLogger(log)
	if *f.debug {
		gnss.SetDebugEnabled(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *f.timeout)
		defer cancel()
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Errorw("gnssdump failed", "error", err)
		stop()
		os.Exit(1)
	}
}
