/*
   AGC instruction semantics tests.

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

package agccpu

import (
	"testing"

	"github.com/rcornwell/ragc/emu/agcirq"
	"github.com/rcornwell/ragc/emu/agcregs"
)

// tcf builds a TCF instruction word targeting a fixed-memory address.
func tcf(target uint16) uint16 {
	return 0o10000 | (target & 0o7777)
}

func TestBootChain(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, tcf(0x801), 0)
	c.Mem.Write(0x801, tcf(0x801), 0) // spin in place
	c.Reset()

	for i := 0; i < 10; i++ {
		c.Step()
	}

	if pc := c.read(agcregs.RegZ); pc != 0x801 {
		t.Errorf("Z = %04o, want %04o", pc, 0x801)
	}
	if q := c.read(agcregs.RegQ); q != 0 {
		t.Errorf("Q = %04o, want 0", q)
	}
	if c.gint {
		t.Error("gint should be false after boot")
	}
	if c.isIrupt {
		t.Error("isIrupt should be false after boot")
	}
}

func TestTCSetsQ(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, 0o04000, 0) // TC 0o4000 (0x800)
	c.Reset()

	c.Step()

	if q := c.read(agcregs.RegQ); q != 0x801 {
		t.Errorf("Q = %04o, want %04o", q, 0x801)
	}
	if pc := c.read(agcregs.RegZ); pc != 0x800 {
		t.Errorf("Z = %04o, want %04o", pc, 0x800)
	}
}

func TestADSAccumulate(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, 0o26000|0o200, 0) // ADS 0o200
	c.Reset()

	c.write(agcregs.RegA, 0x3FFF)
	c.write(0o200, 0x0001)

	c.Step()

	if a := c.read(agcregs.RegA); a != 0x4000 {
		t.Errorf("A = %#x, want 0x4000", a)
	}
	if k := c.read(0o200); k != 0x0000 {
		t.Errorf("mem[0o200] = %#x, want 0 (overflow corrected)", k)
	}
	if pc := c.read(agcregs.RegZ); pc != 0x801 {
		t.Errorf("Z = %04o, want %04o", pc, 0x801)
	}
}

func TestCCSFourWay(t *testing.T) {
	cases := []struct {
		k     uint16
		wantZ uint16
		wantA uint16
	}{
		{0o00001, 0x801, 0},
		{0o00000, 0x802, 0},
		{0o77776, 0x803, 0},
		{0o77777, 0x804, 0},
	}
	for _, tc := range cases {
		c := newTestCPU()
		c.Mem.Write(0x800, 0o10000|0o200, 0) // CCS 0o200
		c.Reset()
		c.write(0o200, tc.k)

		c.Step()

		if pc := c.read(agcregs.RegZ); pc != tc.wantZ {
			t.Errorf("CCS k=%05o: Z = %04o, want %04o", tc.k, pc, tc.wantZ)
		}
		if a := c.read(agcregs.RegA); a != tc.wantA {
			t.Errorf("CCS k=%05o: A = %05o, want %05o", tc.k, a, tc.wantA)
		}
	}
}

func TestCSTwiceRestores(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, 0o40000|0o200, 0) // CS 0o200
	c.Mem.Write(0x801, 0o54000|0o201, 0) // TS 0o201
	c.Mem.Write(0x802, 0o40000|0o201, 0) // CS 0o201
	c.Reset()
	c.write(0o200, 0o12345)

	c.Step()
	c.Step()
	c.Step()

	if a := c.readS15(agcregs.RegA); a != 0o12345 {
		t.Errorf("A after CS;TS;CS = %05o, want 12345", a)
	}
}

func TestINCRWrap(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, 0o24000|0o200, 0) // INCR 0o200
	c.Reset()
	c.write(0o200, 0o37777)

	c.Step()

	if k := c.read(0o200); k != 0o00000 {
		t.Errorf("INCR wrap: mem[0o200] = %05o, want 00000", k)
	}
}

func TestMPZeroCase(t *testing.T) {
	c := newTestCPU()

	c.writeS15(agcregs.RegA, 0o00000)
	c.write(0o200, 0o77776)

	c.mp(Inst{InstData: 0o70000 | 0o200})

	if a := c.readS15(agcregs.RegA); a != 0o77777 {
		t.Errorf("A = %05o, want 77777 (negative zero)", a)
	}
	if l := c.read(agcregs.RegL); l != 0o77777 {
		t.Errorf("L = %05o, want 77777 (negative zero)", l)
	}
}

func TestDVQuotientAndRemainderSigns(t *testing.T) {
	cases := []struct {
		upper, lower, k uint16
		wantA, wantL    uint16
	}{
		// 5 / 3 = 1 rem 2, signs per operand combination.
		{0o00000, 0o00005, 0o00003, 0o00001, 0o00002},
		{0o77777, 0o77772, 0o00003, 0o77776, 0o77775},
		{0o00000, 0o00005, 0o77774, 0o77776, 0o00002},
		{0o77777, 0o77772, 0o77774, 0o00001, 0o77775},
	}
	for _, tc := range cases {
		c := newTestCPU()
		c.writeS15(agcregs.RegA, tc.upper)
		c.writeS15(agcregs.RegL, tc.lower)
		c.write(0o200, tc.k)

		c.dv(Inst{InstData: 0o10000 | 0o200})

		if a := c.readS15(agcregs.RegA); a != tc.wantA {
			t.Errorf("DV (%05o,%05o)/%05o: A = %05o, want %05o", tc.upper, tc.lower, tc.k, a, tc.wantA)
		}
		if l := c.readS15(agcregs.RegL); l != tc.wantL {
			t.Errorf("DV (%05o,%05o)/%05o: L = %05o, want %05o", tc.upper, tc.lower, tc.k, l, tc.wantL)
		}
	}
}

func TestDVZeroDividend(t *testing.T) {
	c := newTestCPU()
	c.writeS15(agcregs.RegA, 0o00000)
	c.writeS15(agcregs.RegL, 0o00000)
	c.write(0o200, 0o00003)

	c.dv(Inst{InstData: 0o10000 | 0o200})

	if a := c.readS15(agcregs.RegA); a != 0o00000 {
		t.Errorf("A = %05o, want +0", a)
	}

	// Both dividend and divisor zero, opposite signs: A takes -MAX.
	c2 := newTestCPU()
	c2.writeS15(agcregs.RegA, 0o00000)
	c2.writeS15(agcregs.RegL, 0o00000)
	c2.write(0o200, 0o77777)

	c2.dv(Inst{InstData: 0o10000 | 0o200})

	if a := c2.readS15(agcregs.RegA); a != 0o40000 {
		t.Errorf("A = %05o, want 40000 (-MAX)", a)
	}
}

func TestInterruptAcceptanceAndResume(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, tcf(0x800), 0)
	c.Mem.Write(0x80C, 0o50017, 0) // RESUME at the TIME3 vector
	c.Reset()

	c.gint = true
	c.rupt = 1 << agcirq.Time3

	c.Step()

	if pc := c.read(agcregs.RegZ); pc != 0x80C {
		t.Fatalf("Z after interrupt = %04o, want %04o", pc, 0x80C)
	}
	if shadow := c.read(regPCShadow); shadow != 0x801 {
		t.Errorf("Z shadow = %04o, want %04o", shadow, 0x801)
	}
	if !c.isIrupt {
		t.Error("isIrupt should be true while servicing")
	}
	if c.gint {
		t.Error("gint should be cleared on acceptance")
	}

	// The first Step drains the RUPT bubble and executes the RESUME; the
	// second executes the restored instruction, the TCF back to 0x800.
	c.Step()
	c.Step()

	if pc := c.read(agcregs.RegZ); pc != 0x800 {
		t.Errorf("Z after RESUME = %04o, want %04o", pc, 0x800)
	}
	if c.isIrupt {
		t.Error("isIrupt should be false after RESUME")
	}
	if !c.gint {
		t.Error("gint should be true after RESUME")
	}
}

func TestGOJFromTCTrap(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, tcf(0x800), 0) // TCF in a tight loop
	c.Reset()

	gojStep := -1
	for i := 0; i < tcMonitorCount+10; i++ {
		if mcts := c.Step(); mcts == 2 {
			gojStep = i
			break
		}
	}

	if gojStep != tcMonitorCount {
		t.Errorf("GOJ bubble at step %d, want %d", gojStep, tcMonitorCount)
	}
	if pc := c.read(agcregs.RegZ); pc != 0x800 {
		t.Errorf("Z after GOJ = %04o, want %04o", pc, 0x800)
	}
	if c.gint {
		t.Error("gint should be false after GOJ")
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		instData uint16
		want     Mnem
	}{
		{0o00003, RELINT},
		{0o00004, INHINT},
		{0o00006, EXTEND},
		{0o04000, TC},
		{0o10200, CCS},
		{0o14000, TCF},
		{0o50017, RESUME},
		{0o50020, INDEX},
		{0o52000, DXCH},
		{0o54000, TS},
		{0o56000, XCH},
		{0o30000, CA},
		{0o40000, CS},
		{0o60000, AD},
		{0o70000, MASK},
		{0x8000 | 0o00001, READ},
		{0x8000 | 0o01001, WRITE},
		{0x8000 | 0o10200, DV},
		{0x8000 | 0o16000, BZF},
		{0x8000 | 0o20000, MSU},
		{0x8000 | 0o30000, DCA},
		{0x8000 | 0o40000, DCS},
		{0x8000 | 0o60200, SU},
		{0x8000 | 0o66000, BZMF},
		{0x8000 | 0o70000, MP},
	}
	for _, tc := range cases {
		inst := Decode(0, tc.instData)
		if inst.Mnem != tc.want {
			t.Errorf("Decode(%06o) = %v, want %v", tc.instData, inst.Mnem, tc.want)
		}
	}
}
