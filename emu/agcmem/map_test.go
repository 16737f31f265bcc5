/*
   AGC memory map tests.

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
	"testing"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcregs"
	"github.com/rcornwell/ragc/emu/agctimer"
)

// newTestMap builds a map over a rope whose every word encodes its own
// logical bank number, making bank-routing mistakes visible in the read
// value. The rope is laid out in file order, so each physical bank stores
// the logical number it will be indexed under after the permutation; words
// are pre-shifted so the parity drop yields the bank number directly.
func newTestMap() *Map {
	var rope [agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16
	for bank := range rope {
		for w := range rope[bank] {
			rope[bank][w] = uint16(bankPermutation[bank]) << 1
		}
	}
	m := NewMap(agcregs.New(), agctimer.New())
	m.SetROM(NewROM(&rope))
	return m
}

func TestMapErasableUnswitchedBanks(t *testing.T) {
	m := newTestMap()

	m.Write(0o100, 0o111, 0)
	m.Write(0o500, 0o222, 0)
	m.Write(0o1100, 0o333, 0)

	if got := m.RAM.Read(0, 0o100); got != 0o111 {
		t.Errorf("0o100 should land in bank 0: got %o", got)
	}
	if got := m.RAM.Read(1, 0o100); got != 0o222 {
		t.Errorf("0o500 should land in bank 1: got %o", got)
	}
	if got := m.RAM.Read(2, 0o100); got != 0o333 {
		t.Errorf("0o1100 should land in bank 2: got %o", got)
	}
}

func TestMapErasableWindowFollowsEB(t *testing.T) {
	m := newTestMap()

	for ebank := uint16(0); ebank < agcaddr.RAMNumBanks; ebank++ {
		m.Regs.Write(agcregs.RegEB, ebank<<8)
		m.Write(0o1500, 0o100+ebank, 0)
	}
	for ebank := uint16(0); ebank < agcaddr.RAMNumBanks; ebank++ {
		if got := m.RAM.Read(int(ebank), 0o100); got != 0o100+ebank {
			t.Errorf("EB window bank %d: got %o, want %o", ebank, got, 0o100+ebank)
		}
	}
}

func TestMapFixedUnswitchedBanks(t *testing.T) {
	m := newTestMap()

	if got := m.Read(0o4000, 0); got != 2 {
		t.Errorf("0o4000 = %o, want bank 2", got)
	}
	if got := m.Read(0o6000, 0); got != 3 {
		t.Errorf("0o6000 = %o, want bank 3", got)
	}
}

func TestMapFixedWindowFollowsFB(t *testing.T) {
	m := newTestMap()

	for fb := uint16(0); fb < 0o30; fb++ {
		m.Regs.Write(agcregs.RegFB, fb<<10)
		if got := m.Read(0o2000, 0); got != fb {
			t.Errorf("FB %o: read %o, want %o", fb, got, fb)
		}
	}
}

func TestMapSuperbank(t *testing.T) {
	m := newTestMap()

	m.Regs.Write(agcregs.RegFB, 0o30<<10)
	if got := m.Read(0o2000, 0); got != 0o30 {
		t.Errorf("FB 30 without superbank: read %o, want 30", got)
	}
	if got := m.Read(0o2000, 0o100); got != 0o40 {
		t.Errorf("FB 30 with superbank: read %o, want 40", got)
	}

	// Banks below 0o30 ignore the superbank bit.
	m.Regs.Write(agcregs.RegFB, 0o05<<10)
	if got := m.Read(0o2000, 0o100); got != 0o05 {
		t.Errorf("FB 05 with superbank: read %o, want 05", got)
	}
}

func TestMapFixedWriteDiscarded(t *testing.T) {
	m := newTestMap()

	m.Write(0o4000, 0o7777, 0)
	if got := m.Read(0o4000, 0); got != 2 {
		t.Errorf("fixed memory changed by write: got %o", got)
	}

	m.ROM.SetDebugWrite(true)
	m.Write(0o4000, 0o7777, 0)
	if got := m.Read(0o4000, 0); got != 0o7777 {
		t.Errorf("debug write did not take: got %o", got)
	}
}

func TestMapEditRegister(t *testing.T) {
	m := newTestMap()

	m.Write(agcaddr.SGSr, 0o7777, 0)
	if got := m.Read(agcaddr.SGSr, 0); got != 0o3777 {
		t.Errorf("SR via map: got %o, want 3777", got)
	}
}

func TestMapRegisterFile(t *testing.T) {
	m := newTestMap()

	m.Write(agcregs.RegL, 0o12345, 0)
	if got := m.Read(agcregs.RegL, 0); got != 0o12345 {
		t.Errorf("L via map: got %o, want 12345", got)
	}
	if got := m.Read(agcregs.RegZero, 0); got != 0 {
		t.Errorf("ZERO via map: got %o, want 0", got)
	}
}

func TestMapTimerRegisters(t *testing.T) {
	m := newTestMap()

	m.Write(agcaddr.MMTime3, 0o1234, 0)
	if got := m.Read(agcaddr.MMTime3, 0); got != 0o1234 {
		t.Errorf("TIME3 via map: got %o, want 1234", got)
	}
}
