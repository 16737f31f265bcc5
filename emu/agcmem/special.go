/*
   AGC special registers.

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

package agcmem

import (
	"log/slog"

	"github.com/rcornwell/ragc/emu/agcaddr"
)

// inputCounters are the CDU/OPT/PIPA registers: read-only from the CPU's
// perspective. Peripherals drive them through the unprogrammed-sequence
// path (PINC/MINC/PCDU/MCDU), never a direct Write.
var inputCounters = map[int]bool{
	agcaddr.SGCDUX:  true,
	agcaddr.SGCDUY:  true,
	agcaddr.SGCDUZ:  true,
	agcaddr.SGOptY:  true,
	agcaddr.SGOptX:  true,
	agcaddr.SGPipaX: true,
	agcaddr.SGPipaY: true,
	agcaddr.SGPipaZ: true,
}

// Special implements the block of special registers from SG_CDUX through
// SG_ALTM: input counters, INLINK, and the various command/output slots.
type Special struct {
	regs map[int]uint16
}

// NewSpecial returns a freshly reset special-register block.
func NewSpecial() *Special {
	return &Special{regs: make(map[int]uint16)}
}

// Reset clears all special registers.
func (s *Special) Reset() {
	s.regs = make(map[int]uint16)
}

// Read returns the stored value of a special register.
func (s *Special) Read(offset int) uint16 {
	return s.regs[offset] & 0x7FFF
}

// Write stores a value. Writes to the read-only input counters are
// logged and discarded; everything else (INLINK, the RCH/CMD/OUTLINK
// slots) stores normally.
func (s *Special) Write(offset int, value uint16) {
	if inputCounters[offset] {
		slog.Warn("agcmem: CPU write to read-only input counter ignored", "offset", offset)
		return
	}
	s.regs[offset] = value & 0x7FFF
}

// SetInputCounter is the peripheral-side path into the read-only input
// counters, bypassing the CPU write guard above. The DSKY and downlink
// never drive the CDU/OPT/PIPA counters, so nothing in the hosted build
// calls this; an IMU or radar peripheral would, through the
// counter-pulse (PINC/MINC/PCDU/MCDU) sequence.
func (s *Special) SetInputCounter(offset int, value uint16) {
	s.regs[offset] = value & 0x7FFF
}
