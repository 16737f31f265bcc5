/*
   AGC scaler and timer peripheral.

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

// Package agctimer implements the AGC's 33-stage scaler and the TIME1-6
// counters and DOWNRUPT pulse it drives. Step pumps it one instruction's
// worth of MCTs at a time and collects any interrupt bits raised.
//
// Like the teacher's emu/timer package, this lives as a small owned
// component constructed once and driven by explicit calls rather than the
// teacher's own goroutine+channel+time.Ticker shape: the scaler advances in
// lockstep with MCTs consumed by the execution core, not wall-clock time,
// so there is no background goroutine here — Pump is called synchronously
// from Core.Step.
package agctimer

import (
	"log/slog"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcirq"
	"github.com/rcornwell/ragc/emu/agcunprog"
)

// downruptPeriod is the MCT count between DOWNRUPT pulses (20ms at the
// AGC's 11.7us MCT rate).
const downruptPeriod = 1706

// Timers holds the scaler and the six TIME registers.
type Timers struct {
	time6Enable bool
	scalerMCTs  uint16
	downrupt    uint32
	downruptBit uint8

	scaler uint32

	timer1 uint32
	timer3 uint16
	timer4 uint16
	timer5 uint16
	timer6 uint16
}

// New returns a freshly reset timer block. downrupt starts at 1 to match
// hardware's staggered initial phase.
func New() *Timers {
	return &Timers{downrupt: 1}
}

// Reset clears the TIME registers. The scaler and downrupt phase are left
// running, matching the reference model's reset scope.
func (t *Timers) Reset() {
	t.timer1 = 0
	t.timer3 = 0
	t.timer4 = 0
	t.timer5 = 0
	t.timer6 = 0
}

// SetDownruptFlags ORs in a DOWNRUPT-word-written flag (bit 0 for word 1,
// bit 1 for word 2); once both are set the downrupt counter is cleared so
// the next pulse waits a full period, matching yaAGC's downlink pacing.
func (t *Timers) SetDownruptFlags(flags uint8) {
	t.downruptBit |= flags
	if t.downruptBit == 0x3 {
		t.downruptBit = 0
		t.downrupt = 0
	}
}

// SetTime6Enable enables or disables the TIME6 DINC counter.
func (t *Timers) SetTime6Enable(v bool) {
	t.time6Enable = v
}

// Time6Enabled reports whether TIME6 is currently counting.
func (t *Timers) Time6Enabled() bool {
	return t.time6Enable
}

// ReadScaler returns the raw 33-stage scaler count, the source of the
// HISCALAR/LOSCALAR channel reads.
func (t *Timers) ReadScaler() uint32 {
	return t.scaler
}

// Pump advances the scaler and timers by mcts MCTs, pushing any counter
// pulses into unprog, and returns the bitmask of interrupts raised.
func (t *Timers) Pump(mcts uint16, unprog *agcunprog.Queue) uint16 {
	var rupt uint16

	t.scalerMCTs += mcts * 3

	t.downrupt += uint32(mcts)
	if t.downrupt >= downruptPeriod {
		t.downrupt = 0
		rupt |= 1 << agcirq.Downrupt
	}

	for t.scalerMCTs >= 80 {
		t.scalerMCTs -= 80
		rupt |= t.incrementScaler(unprog)
	}

	return rupt
}

func (t *Timers) incrementScaler(unprog *agcunprog.Queue) uint16 {
	var rupt uint16

	t.scaler++
	switch t.scaler & 0o37 {
	case 0: // +5ms: TIME5
		unprog.Push(agcunprog.PINC)
		rupt |= t.handleTimer5()
	case 8: // +7.5ms: TIME4
		unprog.Push(agcunprog.PINC)
		rupt |= t.handleTimer4()
	case 16: // +10ms: TIME1/TIME3
		unprog.Push(agcunprog.PINC)
		unprog.Push(agcunprog.PINC)
		rupt |= t.handleTimer1Timer3(unprog)
	}

	if t.time6Enable && t.scaler%2 == 0 {
		if t.timer6 == 0o77777 || t.timer6 == 0o00000 {
			t.time6Enable = false
			rupt |= 1 << agcirq.Time6
		} else {
			unprog.Push(agcunprog.DINC)
			if t.timer6&0o40000 == 0o40000 {
				t.timer6++
			} else {
				t.timer6--
			}
		}
	}

	return rupt
}

func (t *Timers) handleTimer4() uint16 {
	t.timer4 = (t.timer4 + 1) & 0o77777
	if t.timer4 == 0o40000 {
		t.timer4 = 0
		return 1 << agcirq.Time4
	}
	return 0
}

func (t *Timers) handleTimer5() uint16 {
	t.timer5 = (t.timer5 + 1) & 0o77777
	if t.timer5 == 0o40000 {
		t.timer5 = 0
		return 1 << agcirq.Time5
	}
	return 0
}

func (t *Timers) handleTimer1Timer3(unprog *agcunprog.Queue) uint16 {
	t.timer1++
	if t.timer1&0o37777 == 0o00000 {
		unprog.Push(agcunprog.PINC)
	}

	t.timer3 = (t.timer3 + 1) & 0o77777
	if t.timer3 == 0o40000 {
		t.timer3 = 0
		return 1 << agcirq.Time3
	}
	return 0
}

// Read implements the memory-mapped view of the timer registers.
func (t *Timers) Read(offset int) uint16 {
	var res uint16
	switch offset {
	case agcaddr.MMTime2:
		res = uint16((t.timer1 >> 14) & 0o37777)
	case agcaddr.MMTime1:
		res = uint16(t.timer1 & 0o37777)
	case agcaddr.MMTime3:
		res = t.timer3
	case agcaddr.MMTime4:
		res = t.timer4
	case agcaddr.MMTime5:
		res = t.timer5
	case agcaddr.MMTime6:
		res = t.timer6
	}
	slog.Debug("agctimer: read", "offset", offset, "value", res)
	return res
}

// Write implements the memory-mapped view of the timer registers. TIME2 is
// not independently settable: hardware packs it into the top bits of the
// TIME1 counter, so a TIME2 write sets the combined TIME1/TIME2 counter.
func (t *Timers) Write(offset int, value uint16) {
	switch offset {
	case agcaddr.MMTime2, agcaddr.MMTime1:
		t.timer1 = uint32(value)
	case agcaddr.MMTime3:
		t.timer3 = value & 0o77777
	case agcaddr.MMTime4:
		t.timer4 = value & 0o77777
	case agcaddr.MMTime5:
		t.timer5 = value & 0o77777
	case agcaddr.MMTime6:
		t.timer6 = value & 0o77777
	}
}
