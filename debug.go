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
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	debugEnabled atomic.Bool
	debugLogger  atomic.Pointer[zap.SugaredLogger]
)

func init() {
	debugLogger.Store(zap.NewNop().Sugar())
}

// SetDebugEnabled turns library debug output on or off. Output goes to the
// logger installed with SetLogger; with no logger installed, enabling debug
// output installs a development logger writing to stderr.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
	if !enabled {
		return
	}
	if debugLogger.Load().Desugar().Core().Enabled(zap.DebugLevel) {
		return
	}
	if l, err := zap.NewDevelopment(); err == nil {
		debugLogger.Store(l.Sugar())
	}
}

// SetLogger installs the logger used for library debug output
func SetLogger(logger *zap.SugaredLogger) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	debugLogger.Store(logger)
}

// Logger returns the logger used for library debug output
func Logger() *zap.SugaredLogger {
	return debugLogger.Load()
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		debugLogger.Load().Debugf(format, args...)
	}
}

func debugln(args ...any) {
	if debugEnabled.Load() {
		debugLogger.Load().Debugln(args...)
	}
}
