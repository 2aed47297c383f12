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
	"fmt"
	"io"
	"strings"

	gnss "github.com/ZaparooProject/go-gnss"
	"github.com/ZaparooProject/go-gnss/detection"
	"github.com/adrianmo/go-nmea"
)

// Output handles consistent formatting of received frames
type Output struct {
	w      io.Writer
	decode bool
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer, decode bool) *Output {
	return &Output{w: w, decode: decode}
}

// DeviceFound prints the receiver picked by auto-detection
func (o *Output) DeviceFound(device detection.DeviceInfo) {
	_, _ = fmt.Fprintf(o.w, "Found %s\n", device.String())
}

// NMEA prints a sentence, decoded when requested
func (o *Output) NMEA(msg gnss.Message) error {
	sentence, _ := msg.Sentence()
	_, _ = fmt.Fprintf(o.w, "NMEA %3d %s\n", msg.Len(), sentence)
	if !o.decode {
		return nil
	}
	decoded, err := decodeNMEA(sentence)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(o.w, "     %s\n", decoded)
	return nil
}

// UBX prints a binary frame's class, id and payload length
func (o *Output) UBX(msg gnss.Message) error {
	class, id, payload, ok := msg.UBX()
	if !ok {
		return fmt.Errorf("malformed UBX frame of %d bytes", msg.Len())
	}
	_, _ = fmt.Fprintf(o.w, "UBX  %3d %s (0x%02X 0x%02X) payload %d bytes\n",
		msg.Len(), ubxName(class, id), class, id, len(payload))
	return nil
}

// Unknown prints the size of a span no detector claimed
func (o *Output) Unknown(msg gnss.Message) error {
	_, _ = fmt.Fprintf(o.w, "???  %3d bytes skipped\n", msg.Len())
	return nil
}

// decodeNMEA summarizes a sentence with go-nmea. Sentence types go-nmea does
// not special-case are printed by type.
func decodeNMEA(sentence string) (string, error) {
	s, err := nmea.Parse(sentence)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", sentence, err)
	}

	switch m := s.(type) {
	case nmea.GGA:
		return fmt.Sprintf("fix %s, %d sats, lat %.6f lon %.6f alt %.1f m",
			m.FixQuality, m.NumSatellites, m.Latitude, m.Longitude, m.Altitude), nil
	case nmea.RMC:
		return fmt.Sprintf("%s %s, validity %s, lat %.6f lon %.6f, %.1f kn",
			m.Date, m.Time, m.Validity, m.Latitude, m.Longitude, m.Speed), nil
	case nmea.GSA:
		return fmt.Sprintf("mode %s/%s, %d sats, pdop %.1f",
			m.Mode, m.FixType, len(m.SV), m.PDOP), nil
	case nmea.GSV:
		return fmt.Sprintf("%d satellites in view (message %d of %d)",
			m.NumberSVsInView, m.MessageNumber, m.TotalMessages), nil
	case nmea.VTG:
		return fmt.Sprintf("track %.1f deg, %.1f km/h", m.TrueTrack, m.GroundSpeedKPH), nil
	default:
		return fmt.Sprintf("%s sentence from %s", strings.ToUpper(s.DataType()), s.TalkerID()), nil
	}
}

// ubxNames covers the messages a receiver sends in its default configuration
var ubxNames = map[[2]byte]string{
	{0x01, 0x07}: "NAV-PVT",
	{0x01, 0x35}: "NAV-SAT",
	{0x02, 0x41}: "RXM-PMREQ",
	{0x05, 0x00}: "ACK-NAK",
	{0x05, 0x01}: "ACK-ACK",
	{0x0A, 0x04}: "MON-VER",
}

func ubxName(class, id byte) string {
	if name, ok := ubxNames[[2]byte{class, id}]; ok {
		return name
	}
	return "UBX"
}
