/*
   AGC memory map.

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
	"github.com/rcornwell/ragc/emu/agcregs"
	"github.com/rcornwell/ragc/emu/agctimer"
)

// Map dispatches the 12-bit (0..0o7777) CPU address space across the
// register file, edit registers, timers, special registers, erasable RAM,
// and fixed ROM, the way the teacher's emu/memory.GetWord/PutWord dispatches
// an S/370 absolute address across its own device/storage layout.
type Map struct {
	Regs    *agcregs.Regs
	Edit    *EditRegs
	Timers  *agctimer.Timers
	Special *Special
	RAM     *RAM
	ROM     *ROM
}

// NewMap wires a fresh memory map around an already-constructed register
// file and timer block; RAM/ROM/Special/Edit are owned outright.
func NewMap(regs *agcregs.Regs, timers *agctimer.Timers) *Map {
	return &Map{
		Regs:    regs,
		Edit:    NewEditRegs(),
		Timers:  timers,
		Special: NewSpecial(),
		RAM:     NewRAM(),
	}
}

// SetROM installs the fixed-memory image loaded from a rope file. A Map has
// no ROM until this is called; reads of fixed memory before that return
// zero as if unpopulated.
func (m *Map) SetROM(rom *ROM) {
	m.ROM = rom
}

// Reset clears every owned component except ROM, which is fixed memory and
// outlives a restart.
func (m *Map) Reset() {
	m.Regs.Reset()
	m.Edit.Reset()
	m.Timers.Reset()
	m.Special.Reset()
	m.RAM.Reset()
}

// erasableBank returns the erasable bank a 12-bit address below 0o2000
// selects: banks 0-2 are unswitched and follow the address's high bits,
// the 0o1400..0o1777 window follows EBank.
func (m *Map) erasableBank(addr uint16) int {
	if addr < 0o1400 {
		return int(addr >> 8)
	}
	return int(m.Regs.EBank)
}

// fixedBank returns the fixed bank a 12-bit address at or above 0o2000
// selects: the 0o2000..0o3777 window follows FBank (remapped to banks
// 0o40..0o43 when FBank is 0o30..0o33 and channel 7's superbank bit is
// set), and 0o4000..0o7777 is the unswitched bank-2/bank-3 pair.
func (m *Map) fixedBank(addr uint16, superbank uint16) int {
	switch {
	case addr < 0o4000:
		fb := int(m.Regs.FBank)
		if fb >= 0o30 && fb <= 0o33 && superbank&0o100 != 0 {
			fb += 0o10
		}
		return fb
	case addr < 0o6000:
		return 2
	default:
		return 3
	}
}

// Read returns the 15/16-bit word at a 12-bit CPU address, or a register
// file slot for addresses below 0o20. superbank is channel 7's current
// value, needed only to resolve a fixed-memory address above fixed bank
// 0o27; the caller (the execution core, which alone holds the channel
// space) supplies it since Map has no channel access of its own.
func (m *Map) Read(addr uint16, superbank uint16) uint16 {
	idx := int(addr)
	switch {
	case idx < agcregs.RegMax:
		return m.Regs.Read(idx)

	case IsEditAddress(addr):
		return m.Edit.Read(idx)

	case idx >= agcaddr.MMTime2 && idx <= agcaddr.MMTime6:
		return m.Timers.Read(idx)

	case idx >= agcaddr.SGCDUX && idx <= 0o60:
		return m.Special.Read(idx)

	case idx < 0o2000:
		bank := m.erasableBank(addr)
		offset := idx & 0o377
		return m.RAM.Read(bank, offset)

	default:
		if m.ROM == nil {
			return 0
		}
		bank := m.fixedBank(addr, superbank)
		offset := idx & 0o1777
		return m.ROM.Read(bank, offset)
	}
}

// Write stores a 15/16-bit word at a 12-bit CPU address. Fixed-memory
// writes are silently discarded by the underlying ROM (with a log warning)
// unless debug writes have been enabled for test fixtures. See Read for why
// superbank is a parameter rather than looked up internally.
func (m *Map) Write(addr uint16, value uint16, superbank uint16) {
	idx := int(addr)
	switch {
	case idx < agcregs.RegMax:
		m.Regs.Write(idx, value)

	case IsEditAddress(addr):
		m.Edit.Write(idx, value)

	case idx >= agcaddr.MMTime2 && idx <= agcaddr.MMTime6:
		m.Timers.Write(idx, value)

	case idx >= agcaddr.SGCDUX && idx <= 0o60:
		m.Special.Write(idx, value)

	case idx < 0o2000:
		bank := m.erasableBank(addr)
		offset := idx & 0o377
		m.RAM.Write(bank, offset, value)

	default:
		if m.ROM == nil {
			slog.Warn("agcmem: write before rope loaded, discarded", "addr", addr)
			return
		}
		bank := m.fixedBank(addr, superbank)
		offset := idx & 0o1777
		m.ROM.Write(bank, offset, value)
	}
}
