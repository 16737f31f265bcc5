/*
   AGC DSKY and downlink peripheral adapters.

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

// Package agcperiph implements the two external collaborators the channel
// interface exposes: a minimal DSKY keyboard/display and a downlink
// telemetry pair. The DSKY keyboard is a lock-free SPSC queue over a Go
// channel with a select+default non-blocking send/receive, the way the
// teacher's emu/timer.go's enable/done channel-based lifecycle never lets a
// Start/Stop caller block on the worker; the downlink keeps only the last
// word written to each of its two channels.
package agcperiph

import (
	"log/slog"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcirq"
)

const keyQueueDepth = 8

// proceedReleased is channel 32's idle PROCEED bit: channels 30-33 are
// inverted-active, so bit 14 reads high until the pushbutton is held.
const proceedReleased = 0o20000

// keyRset is the RSET keycode, which also clears the restart lamp.
const keyRset = 0o22

// DSKY implements a minimal verb/noun keyboard and lamp register set:
// channel 15 (MNKEYIN) surfaces the last accepted keycode, channel 32
// carries the PROCEED pushbutton, and channel 0o163 holds the lamp/flash
// flags the flight software drives through channels 11, 13, and 0o163.
type DSKY struct {
	keys        chan uint16
	keypressVal uint16
	proceed     uint16
	outputFlags uint16
	lastDskyVal uint16
}

// NewDSKY returns a DSKY peripheral with an empty keyboard queue and the
// PROCEED button released.
func NewDSKY() *DSKY {
	return &DSKY{
		keys:    make(chan uint16, keyQueueDepth),
		proceed: proceedReleased,
	}
}

// PushKey enqueues a keycode as if the operator pressed a DSKY key, silently
// dropping it (with a log warning) if the queue is already full — there is
// no hardware guarantee every keystroke survives a burst on real DSKY
// either.
func (d *DSKY) PushKey(code uint16) {
	select {
	case d.keys <- code:
	default:
		slog.Warn("agcperiph: DSKY key queue full, dropping keystroke", "code", code)
	}
}

// SetProceed simulates holding or releasing the PROCEED pushbutton, read
// back through channel 32 bit 14 with the inverted-active convention.
func (d *DSKY) SetProceed(pressed bool) {
	if pressed {
		d.proceed = 0
	} else {
		d.proceed = proceedReleased
	}
}

// Read implements the DSKY's share of the channel-space per-channel rules.
// Channel 15 returns the keycode latched by the last PollInterrupts, the
// order flight software observes it: KEY1 fires first, then the ISR reads
// the channel.
func (d *DSKY) Read(channel int) uint16 {
	switch channel {
	case agcaddr.ChannelMNKeyin:
		return d.keypressVal & 0o37
	case agcaddr.Channel30, agcaddr.Channel31, agcaddr.Channel33:
		return 0o77777
	case agcaddr.Channel32:
		return d.proceed
	case 0o163:
		return d.outputFlags & 0o1771
	default:
		return 0
	}
}

// Write routes the display-driving channels into the lamp flags: channel 11
// folds its indicator bits in, channel 13 bit 10 drives the flash flag, and
// channel 0o163 (which GOJ uses to light the restart lamp) replaces the
// flags outright. Channel 10's relay rows are latched but not decoded into
// digits; rendering the display is outside this build's scope.
func (d *DSKY) Write(channel int, value uint16) {
	switch channel {
	case agcaddr.ChannelDSKY:
		d.lastDskyVal = value
	case agcaddr.ChannelDSAlmout:
		d.outputFlags = (d.outputFlags & 0o77607) | (value & 0o00170)
	case agcaddr.Channel13:
		if value&0o01000 != 0 {
			d.outputFlags |= 0o00400
		} else {
			d.outputFlags &= 0o77377
		}
	case 0o163:
		d.outputFlags = value
	}
}

// PollInterrupts accepts the next queued keypress, latching its code for the
// channel-15 read and clearing the restart lamp on RSET, and reports KEY1.
func (d *DSKY) PollInterrupts() uint16 {
	select {
	case k := <-d.keys:
		d.keypressVal = k
		if d.keypressVal == keyRset {
			d.outputFlags &^= 0o00200
		}
		return 1 << agcirq.Key1
	default:
		return 0
	}
}

// Downlink implements the two-word downlist telemetry serializer, channels
// 34/35. Writes to either channel store a word, and agcchannel.Space
// forwards a flags bit to the timer's downrupt phase counter; this adapter
// only buffers the last word written per channel for readback, the
// actual telemetry stream being outside this system's scope.
type Downlink struct {
	word1, word2 uint16
	rupt         uint16
}

// NewDownlink returns a downlink peripheral with no telemetry queued.
func NewDownlink() *Downlink {
	return &Downlink{}
}

// Read returns the last word written to a downlink channel.
func (d *Downlink) Read(channel int) uint16 {
	switch channel {
	case agcaddr.Channel34:
		return d.word1
	case agcaddr.Channel35:
		return d.word2
	default:
		return 0
	}
}

// Write stores a downlist word. The agcchannel.Space caller is responsible
// for forwarding the matching SetDownruptFlags bit to the timer; this
// adapter only tracks the word content for a later Read.
func (d *Downlink) Write(channel int, value uint16) {
	switch channel {
	case agcaddr.Channel34:
		d.word1 = value
	case agcaddr.Channel35:
		d.word2 = value
	}
}

// PollInterrupts reports no interrupts of its own: DOWNRUPT is raised by the
// timer's scaler-driven phase counter, not by the peripheral itself.
func (d *Downlink) PollInterrupts() uint16 {
	return d.rupt
}
