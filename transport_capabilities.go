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
)

// PollIntervalHinter is implemented by transports that know how often they
// need to be drained to keep the receive window from overflowing.
type PollIntervalHinter interface {
	// PreferredPollInterval returns the longest safe delay between reads
	PreferredPollInterval() time.Duration
}

// Default poll intervals per transport type
const (
	defaultUARTPollInterval = 20 * time.Millisecond
	defaultI2CPollInterval  = 100 * time.Millisecond
	defaultPollInterval     = 50 * time.Millisecond
)

// RecommendedPollInterval returns how often t should be read. Transports
// that implement PollIntervalHinter decide for themselves; wrappers such as
// TransportWithRetry are looked through.
func RecommendedPollInterval(t Transport) time.Duration {
	for t != nil {
		if hinter, ok := t.(PollIntervalHinter); ok {
			if d := hinter.PreferredPollInterval(); d > 0 {
				return d
			}
		}
		unwrapper, ok := t.(interface{ Unwrap() Transport })
		if !ok {
			break
		}
		t = unwrapper.Unwrap()
	}
	if t == nil {
		return defaultPollInterval
	}

	switch t.Type() {
	case TransportUART:
		return defaultUARTPollInterval
	case TransportI2C:
		// The DDC interface buffers on the receiver side, so I2C can be
		// polled lazily.
		return defaultI2CPollInterval
	case TransportMock:
		return time.Millisecond
	default:
		return defaultPollInterval
	}
}
