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


package detection

import (
	"path/filepath"
	"slices"
	"strings"
)

// DefaultBlocklist returns USB serial devices that are never GNSS receivers.
// Opening them has side effects (the Arduino boards reset), so detection
// skips them before any port is touched. Entries are VID:PID in hex.
func DefaultBlocklist() []string {
	return []string{
		"2341:0043", // Arduino Uno
		"2341:0001", // Arduino Uno, older firmware
		"2341:0042", // Arduino Mega 2560
	}
}

// VIDPID joins a USB vendor and product ID into the VID:PID form used by
// blocklists. It returns "" when either ID is unknown.
func VIDPID(vid, pid string) string {
	vid, pid = strings.TrimSpace(vid), strings.TrimSpace(pid)
	if vid == "" || pid == "" {
		return ""
	}
	return strings.ToUpper(vid + ":" + pid)
}

// IsBlocked reports whether vidpid appears in blocklist, ignoring case
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.TrimSpace(vidpid)
	if vidpid == "" {
		return false
	}
	return slices.ContainsFunc(blocklist, func(blocked string) bool {
		return strings.EqualFold(vidpid, strings.TrimSpace(blocked))
	})
}

// IsPathIgnored reports whether devicePath is one of ignorePaths. Paths are
// cleaned and compared without case, so "COM4" matches "com4".
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	device := filepath.Clean(devicePath)
	return slices.ContainsFunc(ignorePaths, func(ignored string) bool {
		return ignored != "" && strings.EqualFold(device, filepath.Clean(ignored))
	})
}
