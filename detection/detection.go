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

// Package detection finds GNSS receivers attached over UART or I2C.
//
// Transport specific detectors register themselves on import:
//
//	import (
//	    "github.com/ZaparooProject/go-gnss/detection"
//	    _ "github.com/ZaparooProject/go-gnss/detection/i2c"
//	    _ "github.com/ZaparooProject/go-gnss/detection/uart"
//	)
//
//	devices, err := detection.DetectAll(ctx, nil)
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no GNSS receivers found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrDetectionTimeout    = errors.New("detection timed out")
	ErrUnknownTransport    = errors.New("no detector registered for transport")
)

// Mode controls how intrusive detection may be
type Mode int

const (
	// Passive only lists devices; nothing is opened
	Passive Mode = iota
	// Safe opens devices and reads, but never writes
	Safe
	// Full may write to devices to confirm them
	Full
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case Passive:
		return "passive"
	case Safe:
		return "safe"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Confidence is how sure a detector is that a device is a GNSS receiver
type Confidence int

const (
	// Low means the device could be anything on a plausible port
	Low Confidence = iota
	// Medium means the device sits where a receiver is expected
	Medium
	// High means the device was identified as a receiver
	High
)

// String returns the confidence name
func (c Confidence) String() string {
	switch c {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("Confidence(%d)", int(c))
	}
}

// DeviceInfo describes a detected device
type DeviceInfo struct {
	Metadata   map[string]string
	Transport  string
	Path       string
	Name       string
	Confidence Confidence
}

// String returns a one line description of the device
func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s %s (%s, %s confidence)", d.Transport, d.Path, d.Name, d.Confidence)
}

// Options configures detection
type Options struct {
	// Blocklist holds VID:PID pairs that are never probed
	Blocklist []string
	// IgnorePaths holds device paths that are skipped
	IgnorePaths []string
	// Timeout bounds the whole detection run
	Timeout time.Duration
	// Mode controls how intrusive probing may be
	Mode Mode
	// MinConfidence drops devices below this confidence
	MinConfidence Confidence
}

// DefaultOptions returns safe detection options
func DefaultOptions() Options {
	return Options{
		Mode:          Safe,
		Timeout:       5 * time.Second,
		Blocklist:     DefaultBlocklist(),
		MinConfidence: Low,
	}
}

// Detector finds devices reachable over one transport
type Detector interface {
	// Detect returns the devices found. It returns ErrNoDevicesFound or
	// ErrUnsupportedPlatform when it has nothing to report.
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)

	// Transport returns the transport name, e.g. "uart"
	Transport() string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Detector)
)

// RegisterDetector adds a detector, replacing any detector registered for
// the same transport.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Transport()] = d
}

// Detectors returns the registered detectors ordered by transport name
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Detector, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Transport() < out[j].Transport() })
	return out
}

// DetectAll runs every registered detector concurrently and returns the
// devices found, most confident first. A nil opts uses DefaultOptions.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	return detect(ctx, opts, Detectors())
}

// DetectByTransport runs the detector registered for transport
func DetectByTransport(ctx context.Context, transport string, opts *Options) ([]DeviceInfo, error) {
	registryMu.RLock()
	d, ok := registry[transport]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransport, transport)
	}
	return detect(ctx, opts, []Detector{d})
}

func detect(ctx context.Context, opts *Options, detectors []Detector) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var (
		mu      sync.Mutex
		devices []DeviceInfo
		errs    []error
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range detectors {
		g.Go(func() error {
			found, err := d.Detect(gctx, opts)
			mu.Lock()
			defer mu.Unlock()
			devices = append(devices, found...)
			if err != nil && !errors.Is(err, ErrNoDevicesFound) && !errors.Is(err, ErrUnsupportedPlatform) {
				errs = append(errs, fmt.Errorf("%s: %w", d.Transport(), err))
			}
			return nil
		})
	}
	_ = g.Wait()

	devices = filter(devices, opts)
	if len(devices) > 0 {
		sortDevices(devices)
		return devices, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, ErrDetectionTimeout
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoDevicesFound, errors.Join(errs...))
	}
	return nil, ErrNoDevicesFound
}

func filter(devices []DeviceInfo, opts *Options) []DeviceInfo {
	out := devices[:0]
	for _, d := range devices {
		if d.Confidence < opts.MinConfidence || IsPathIgnored(d.Path, opts.IgnorePaths) {
			continue
		}
		if vidpid := d.Metadata["vidpid"]; vidpid != "" && IsBlocked(vidpid, opts.Blocklist) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func sortDevices(devices []DeviceInfo) {
	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].Confidence != devices[j].Confidence {
			return devices[i].Confidence > devices[j].Confidence
		}
		if devices[i].Transport != devices[j].Transport {
			return devices[i].Transport < devices[j].Transport
		}
		return devices[i].Path < devices[j].Path
	})
}
