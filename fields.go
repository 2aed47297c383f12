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
	"strconv"
)

// FieldStatus is the result of a strict field lookup
type FieldStatus int

const (
	// FieldFound means the field exists and has content
	FieldFound FieldStatus = iota
	// FieldEmpty means the field exists but has no content (",,")
	FieldEmpty
	// FieldOutOfRange means the sentence has fewer fields than requested
	FieldOutOfRange
)

// String returns the status name
func (s FieldStatus) String() string {
	switch s {
	case FieldFound:
		return "found"
	case FieldEmpty:
		return "empty"
	case FieldOutOfRange:
		return "out of range"
	default:
		return "invalid"
	}
}

func isFieldEnd(b byte) bool {
	return b == ',' || b == '*' || b == '\r' || b == '\n'
}

// FindField returns the offset of the first byte of field index in an NMEA
// sentence. Field 0 is the address field including '$' ("$GPGGA").
// An empty field and a missing field both report false; use Field when the
// difference matters.
func FindField(index int, sentence []byte) (int, bool) {
	pos, status := locateField(index, sentence)
	return pos, status == FieldFound
}

// Field returns the text of field index, telling an empty field apart from a
// missing one.
func Field(index int, sentence []byte) (string, FieldStatus) {
	start, status := locateField(index, sentence)
	if status != FieldFound {
		return "", status
	}
	end := start
	for end < len(sentence) && !isFieldEnd(sentence[end]) {
		end++
	}
	return string(sentence[start:end]), FieldFound
}

func locateField(index int, sentence []byte) (int, FieldStatus) {
	if index < 0 {
		return 0, FieldOutOfRange
	}
	pos := 0
	for ; pos < len(sentence) && index > 0; pos++ {
		if sentence[pos] == ',' {
			index--
		}
	}
	if index > 0 {
		return 0, FieldOutOfRange
	}
	if pos >= len(sentence) || isFieldEnd(sentence[pos]) {
		return pos, FieldEmpty
	}
	return pos, FieldFound
}

// valueStart returns the offset of the first non-blank byte of field index
func valueStart(index int, sentence []byte) (int, bool) {
	pos, ok := FindField(index, sentence)
	if !ok {
		return 0, false
	}
	for pos < len(sentence) && (sentence[pos] == ' ' || sentence[pos] == '\t') {
		pos++
	}
	if pos >= len(sentence) || isFieldEnd(sentence[pos]) {
		return 0, false
	}
	return pos, true
}

// FieldFloat parses the leading number of field index. Leading blanks are
// skipped. It succeeds when at least one character forms a number; trailing
// characters are ignored.
func FieldFloat(index int, sentence []byte) (float64, bool) {
	pos, ok := valueStart(index, sentence)
	if !ok {
		return 0, false
	}
	n := floatPrefix(sentence[pos:])
	if n == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(sentence[pos:pos+n]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FieldInt parses the leading integer of field index in the given base
// (2 to 36, or 0 to detect a 0x or 0 prefix).
func FieldInt(index int, sentence []byte, base int) (int64, bool) {
	pos, ok := valueStart(index, sentence)
	if !ok {
		return 0, false
	}
	text, base := intPrefix(sentence[pos:], base)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FieldChar returns the first non-blank character of field index
func FieldChar(index int, sentence []byte) (byte, bool) {
	pos, ok := valueStart(index, sentence)
	if !ok {
		return 0, false
	}
	return sentence[pos], true
}

// FieldAngle decodes a ddmm.mmmm (or dddmm.mmmm) angle in field index with
// its hemisphere letter in field index+1, returning decimal degrees. South
// and west are negative.
func FieldAngle(index int, sentence []byte) (float64, bool) {
	v, ok := FieldFloat(index, sentence)
	if !ok {
		return 0, false
	}
	hemisphere, ok := FieldChar(index+1, sentence)
	if !ok {
		return 0, false
	}
	switch hemisphere {
	case 'N', 'E', 'S', 'W':
	default:
		return 0, false
	}

	v *= 0.01
	degrees := float64(int(v))
	v = (v-degrees)/0.6 + degrees
	if hemisphere == 'S' || hemisphere == 'W' {
		v = -v
	}
	return v, true
}

// floatPrefix returns the length of the longest decimal number at the start
// of b: [sign] digits [. digits] [e [sign] digits].
func floatPrefix(b []byte) int {
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	digits := 0
	for i < len(b) && isDigit(b[i]) {
		i++
		digits++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for i < len(b) && isDigit(b[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1
		if j < len(b) && (b[j] == '+' || b[j] == '-') {
			j++
		}
		if j < len(b) && isDigit(b[j]) {
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

// intPrefix returns the signed digits at the start of b valid in base, and
// the base to parse them with.
func intPrefix(b []byte, base int) (string, int) {
	i := 0
	sign := ""
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		if b[i] == '-' {
			sign = "-"
		}
		i++
	}
	hasHexPrefix := i+1 < len(b) && b[i] == '0' && (b[i+1] == 'x' || b[i+1] == 'X') &&
		i+2 < len(b) && digitValue(b[i+2]) < 16
	switch {
	case base == 0 && hasHexPrefix:
		base = 16
		i += 2
	case base == 0 && i < len(b) && b[i] == '0':
		base = 8
	case base == 0:
		base = 10
	case base == 16 && hasHexPrefix:
		i += 2
	}
	if base < 2 || base > 36 {
		return "", base
	}
	start := i
	for i < len(b) && digitValue(b[i]) < base {
		i++
	}
	if i == start {
		return "", base
	}
	return sign + string(b[start:i]), base
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func digitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10
	default:
		return 36
	}
}
