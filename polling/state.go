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
	"fmt"
	"time"
)

// LinkState describes whether the receiver is currently producing frames
type LinkState int

const (
	// LinkUnknown is the state before the first poll
	LinkUnknown LinkState = iota
	// LinkReceiving means frames arrived within the stale timeout
	LinkReceiving
	// LinkStale means no frame arrived for longer than the stale timeout
	LinkStale
)

// String returns the state name
func (s LinkState) String() string {
	switch s {
	case LinkUnknown:
		return "unknown"
	case LinkReceiving:
		return "receiving"
	case LinkStale:
		return "stale"
	default:
		return fmt.Sprintf("LinkState(%d)", int(s))
	}
}

// linkTracker is the receive-side state machine. It is only touched by the
// reader goroutine.
type linkTracker struct {
	lastFrame    time.Time
	started      time.Time
	staleTimeout time.Duration
	state        LinkState
}

func newLinkTracker(staleTimeout time.Duration, now time.Time) *linkTracker {
	return &linkTracker{staleTimeout: staleTimeout, started: now}
}

// observe records one poll cycle and reports the new state when it changed
func (l *linkTracker) observe(now time.Time, frames int) (LinkState, bool) {
	prev := l.state
	if frames > 0 {
		l.lastFrame = now
		l.state = LinkReceiving
		return l.state, l.state != prev
	}
	if l.staleTimeout <= 0 {
		return l.state, false
	}

	since := l.lastFrame
	if since.IsZero() {
		since = l.started
	}
	if now.Sub(since) > l.staleTimeout {
		l.state = LinkStale
	}
	return l.state, l.state != prev
}
