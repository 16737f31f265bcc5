/*
   AGC I/O channel space.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package agcchannel implements the AGC's 256-slot I/O channel space: a flat
// array of 15-bit channel registers with a handful of special slots wired to
// the scaler, the superbank select, and the external DSKY/downlink
// peripherals. Read/Write/PollInterrupts are called synchronously from the
// execution core's Step, never from a goroutine of their own.
package agcchannel

import (
	"log/slog"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agctimer"
	"github.com/rcornwell/ragc/util/debug"
)

// Channel trace mask bits for util/debug.
const (
	TraceRead  = 1 << iota // log every channel read
	TraceWrite             // log every channel write
)

// traceMask gates the util/debug channel trace; main enables it alongside
// debug logging.
var traceMask int

// SetTrace sets the channel I/O trace mask.
func SetTrace(mask int) {
	traceMask = mask
}

// Peripheral is the non-blocking collaborator contract channel space drives
// an external device through: DSKY keyboard/display and downlink telemetry
// both implement this, generalized from the teacher's richer
// StartIO/HaltIO/InitDev Device interface down to the three operations the
// AGC's flat channel space actually needs.
type Peripheral interface {
	Read(channel int) uint16
	Write(channel int, value uint16)
	PollInterrupts() uint16
}

const numChannels = 256

// Space implements the I/O channel array: 256 slots, indexed by the low 8
// bits of the channel number.
type Space struct {
	channels [numChannels]uint16
	Timers   *agctimer.Timers
	DSKY     Peripheral
	Downlink Peripheral
}

// New returns a channel space with channels 30-33 preset high the way real
// hardware powers up. Reads of channels 30, 31 and 33 return 0o77777
// whatever is stored; a channel 32 read ORs the DSKY's PROCEED bit into the
// stored bits other than that one.
func New(timers *agctimer.Timers) *Space {
	s := &Space{Timers: timers}
	s.channels[0o30] = 0o37777
	s.channels[0o31] = 0o77777
	s.channels[0o32] = 0o77777
	s.channels[0o33] = 0o77777
	return s
}

// Reset clears the channel array back to its powered-up state.
func (s *Space) Reset() {
	s.channels = [numChannels]uint16{}
	s.channels[0o30] = 0o37777
	s.channels[0o31] = 0o77777
	s.channels[0o32] = 0o77777
	s.channels[0o33] = 0o77777
}

// Read returns the value of a channel, applying the special per-channel read
// rules from the hardware channel map. Channels 1/2 (register L/Q) are
// handled by the execution core directly, not here, since they alias the
// register file rather than channel storage.
func (s *Space) Read(channel int) uint16 {
	val := s.read(channel)
	debug.DebugChanf(channel, traceMask, TraceRead, "read %05o", val)
	return val
}

func (s *Space) read(channel int) uint16 {
	idx := channel & 0xFF
	switch idx {
	case agcaddr.ChannelHiScalar:
		return uint16((s.Timers.ReadScaler() >> 14) & 0o37777)
	case agcaddr.ChannelLoScalar:
		return uint16(s.Timers.ReadScaler() & 0o37777)

	case agcaddr.ChannelSuperbnk:
		return s.channels[idx] & 0o00160

	case agcaddr.ChannelPYJets, agcaddr.ChannelRollJets, agcaddr.ChannelDSAlmout, agcaddr.Channel12:
		return s.channels[idx]

	case agcaddr.Channel13:
		return s.channels[idx] & 0x47CF

	case agcaddr.ChannelDSKY:
		return 0

	case agcaddr.ChannelMNKeyin, agcaddr.ChannelNavKeyin, 0o163:
		if s.DSKY != nil {
			return s.DSKY.Read(idx)
		}
		return 0

	case agcaddr.Channel30, agcaddr.Channel31:
		return 0o77777

	case agcaddr.Channel32:
		val := uint16(0o77777)
		if s.DSKY != nil {
			val = s.DSKY.Read(idx)
		}
		return val | (s.channels[idx] & 0o57777)

	case agcaddr.Channel33:
		return 0o77777

	case agcaddr.Channel34, agcaddr.Channel35:
		if s.Downlink != nil {
			return s.Downlink.Read(idx)
		}
		return 0o77777

	default:
		return s.channels[idx]
	}
}

// Write stores a value to a channel, applying masking/forwarding rules; both
// peripherals see every write so they can pick out the channels they care
// about, matching the reference model's broadcast-to-both-then-switch shape.
func (s *Space) Write(channel int, value uint16) {
	idx := channel & 0xFF
	debug.DebugChanf(idx, traceMask, TraceWrite, "write %05o", value)

	if s.DSKY != nil {
		s.DSKY.Write(idx, value)
	}
	if s.Downlink != nil {
		s.Downlink.Write(idx, value)
	}

	switch idx {
	case agcaddr.ChannelSuperbnk:
		s.channels[idx] = value & 0o00160

	case agcaddr.Channel13:
		s.channels[idx] = value
		s.Timers.SetTime6Enable(value&0o40000 != 0)

	case agcaddr.Channel32:
		slog.Warn("agcchannel: write to input-only channel 32 ignored")

	case agcaddr.Channel34:
		s.Timers.SetDownruptFlags(0x1)

	case agcaddr.Channel35:
		s.Timers.SetDownruptFlags(0x2)

	default:
		s.channels[idx] = value
	}
}

// PollInterrupts aggregates pending interrupt bits from both peripherals.
func (s *Space) PollInterrupts() uint16 {
	var val uint16
	if s.DSKY != nil {
		val |= s.DSKY.PollInterrupts()
	}
	if s.Downlink != nil {
		val |= s.Downlink.PollInterrupts()
	}
	return val
}
