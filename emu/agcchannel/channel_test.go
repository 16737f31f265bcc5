/*
   AGC I/O channel space tests.

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

package agcchannel

import (
	"testing"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcirq"
	"github.com/rcornwell/ragc/emu/agctimer"
	"github.com/rcornwell/ragc/emu/agcunprog"
)

func TestScalerChannels(t *testing.T) {
	timers := agctimer.New()
	s := New(timers)
	var unprog agcunprog.Queue

	if got := s.Read(agcaddr.ChannelLoScalar); got != 0 {
		t.Fatalf("LOSCALAR before any MCTs = %o, want 0", got)
	}

	// 27 MCTs are 81 internal ticks, one scaler increment.
	timers.Pump(27, &unprog)

	if got := s.Read(agcaddr.ChannelLoScalar); got != 1 {
		t.Errorf("LOSCALAR = %o, want 1", got)
	}
	if got := s.Read(agcaddr.ChannelHiScalar); got != 0 {
		t.Errorf("HISCALAR = %o, want 0", got)
	}
}

func TestChannel13Time6Enable(t *testing.T) {
	timers := agctimer.New()
	s := New(timers)

	s.Write(agcaddr.Channel13, 0o40000)
	if !timers.Time6Enabled() {
		t.Error("channel 13 bit 15 should enable TIME6")
	}

	s.Write(agcaddr.Channel13, 0o00000)
	if timers.Time6Enabled() {
		t.Error("clearing channel 13 bit 15 should disable TIME6")
	}
}

func TestChannel13ReadMask(t *testing.T) {
	s := New(agctimer.New())

	s.Write(agcaddr.Channel13, 0o77777)
	if got := s.Read(agcaddr.Channel13); got != 0o77777&0x47CF {
		t.Errorf("channel 13 read = %o, want %o", got, 0o77777&0x47CF)
	}
}

func TestSuperbankMask(t *testing.T) {
	s := New(agctimer.New())

	s.Write(agcaddr.ChannelSuperbnk, 0o7777)
	if got := s.Read(agcaddr.ChannelSuperbnk); got != 0o160 {
		t.Errorf("SUPERBNK = %o, want %o", got, 0o160)
	}
}

func TestDownlinkChannelsResetDownruptPhase(t *testing.T) {
	timers := agctimer.New()
	s := New(timers)
	var unprog agcunprog.Queue

	var fired int
	count := func(mask uint16) {
		if mask&(1<<agcirq.Downrupt) != 0 {
			fired++
		}
	}

	count(timers.Pump(1000, &unprog))
	if fired != 0 {
		t.Fatalf("downrupt fired early")
	}

	// Writing both downlink words rewinds the phase so the next interrupt
	// arrives a full period after the pair.
	s.Write(agcaddr.Channel34, 0o1234)
	s.Write(agcaddr.Channel35, 0o4321)

	count(timers.Pump(1700, &unprog))
	if fired != 0 {
		t.Fatalf("downrupt fired before the full period elapsed")
	}
	count(timers.Pump(6, &unprog))
	if fired != 1 {
		t.Errorf("downrupt fired %d times, want 1", fired)
	}
}

func TestInputChannelsIdleHigh(t *testing.T) {
	s := New(agctimer.New())

	for _, ch := range []int{agcaddr.Channel30, agcaddr.Channel31, agcaddr.Channel32, agcaddr.Channel33} {
		if got := s.Read(ch); got != 0o77777 {
			t.Errorf("channel %o idle = %o, want 77777 (inverted-active)", ch, got)
		}
	}
}

func TestStoredChannelRoundTrip(t *testing.T) {
	s := New(agctimer.New())

	for _, ch := range []int{agcaddr.ChannelPYJets, agcaddr.ChannelRollJets, agcaddr.ChannelDSAlmout, agcaddr.Channel12, agcaddr.Channel14} {
		s.Write(ch, 0o12345)
		if got := s.Read(ch); got != 0o12345 {
			t.Errorf("channel %o = %o, want 12345", ch, got)
		}
	}
}
