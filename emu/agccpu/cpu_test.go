/*
   AGC execution core tests.

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

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcchannel"
	"github.com/rcornwell/ragc/emu/agcmem"
	"github.com/rcornwell/ragc/emu/agcregs"
	"github.com/rcornwell/ragc/emu/agctimer"
)

// newTestCPU builds a CPU around an all-zero rope with ROM debug writes
// enabled, so a test can poke raw instruction words at the boot vector the
// way the reference model's fixtures poke its flat memory array.
func newTestCPU() *CPU {
	var rope [agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16
	rom := agcmem.NewROM(&rope)
	rom.SetDebugWrite(true)

	regs := agcregs.New()
	timers := agctimer.New()
	mem := agcmem.NewMap(regs, timers)
	mem.SetROM(rom)
	channels := agcchannel.New(timers)

	return New(mem, channels, timers)
}

func TestTSOverflowSkip(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, 0o54000+0o100, 0) // TS 0o100
	c.Mem.Write(0x801, 0o30000+0o200, 0) // CA 0o200
	c.Mem.Write(0x802, 0o30000+0o300, 0) // CA 0o300
	c.Reset()

	c.write(agcregs.RegA, 0x4000)
	c.write(0o300, 0x00AA)
	c.write(0o200, 0x00BB)

	c.Step()
	if pc := c.read(agcregs.RegZ); pc != 0x802 {
		t.Fatalf("pc after step 1 = %04o, want 0802", pc)
	}
	if a := c.read(agcregs.RegA); a != 0x0001 {
		t.Fatalf("A after step 1 = %04o, want 0001", a)
	}

	c.Step()
	if pc := c.read(agcregs.RegZ); pc != 0x803 {
		t.Fatalf("pc after step 2 = %04o, want 0803", pc)
	}
	if a := c.read(agcregs.RegA); a != 0x00AA {
		t.Fatalf("A after step 2 = %04o, want 00AA", a)
	}
}

func TestLXCHNoOverflow(t *testing.T) {
	c := newTestCPU()
	inst := Inst{InstData: 0o00000} // K address 0: swap with REG_A

	c.writeS16(agcregs.RegA, 0o000001)
	c.writeS16(agcregs.RegL, 0o177777)

	c.lxch(inst)

	if l := c.read(agcregs.RegL); l != 0o000001 {
		t.Fatalf("L after lxch = %06o, want 000001", l)
	}
	if a := c.read(agcregs.RegA); a != 0o177777 {
		t.Fatalf("A after lxch = %06o, want 177777", a)
	}
}

func TestLXCHWithOverflow(t *testing.T) {
	c := newTestCPU()
	inst := Inst{InstData: 0o00000}

	c.writeS16(agcregs.RegA, 0o137777)
	c.writeS16(agcregs.RegL, 0o000001)

	c.lxch(inst)

	if a := c.read(agcregs.RegA); a != 0o000001 {
		t.Fatalf("A after lxch = %06o, want 000001", a)
	}
	if l := c.read(agcregs.RegL); l != 0o077777 {
		t.Fatalf("L after lxch = %06o, want 077777", l)
	}
}

// TestCCSAbsoluteValue guards against a sign-handling regression found
// while porting this instruction: CCS must take the absolute value of A
// before storing the |A|-1 result, not just flip the sign bit.
func TestCCSAbsoluteValue(t *testing.T) {
	c := newTestCPU()

	c.Mem.Write(0x800, 0o10000, 0)
	c.Reset()
	c.write(agcregs.RegA, 0xfc2e)

	c.Step()

	if pc := c.read(agcregs.RegZ); pc != 0x803 {
		t.Fatalf("pc after step = %04o, want 0803", pc)
	}
	if a := c.read(agcregs.RegA); a != 0x03d0 {
		t.Fatalf("A after step = %04x, want 03d0", a)
	}
}

// ioFixture loads EXTEND followed by one extended I/O instruction at the
// boot vector, the same two-word sequence the reference model's fixtures
// use to reach extended-mode decode.
func ioFixture(t *testing.T, instData uint16) *CPU {
	t.Helper()
	c := newTestCPU()
	c.Mem.Write(0x800, 0o00006, 0) // EXTEND
	c.Mem.Write(0x801, instData, 0)
	c.Reset()
	return c
}

func runIO(t *testing.T, c *CPU) {
	t.Helper()
	c.Step()
	c.Step()
	if pc := c.read(agcregs.RegZ); pc != 0x802 {
		t.Fatalf("pc after io sequence = %04o, want 0802", pc)
	}
}

func TestIORead(t *testing.T) {
	cases := []struct {
		reg    int
		regVal uint16
		idx    uint16
		wantA  uint16
	}{
		{agcregs.RegL, 0x7FDD, 1, 0xFFDD},
		{agcregs.RegL, 0x3FCC, 1, 0x3FCC},
		{agcregs.RegQ, 0x7FAA, 2, 0x7FAA},
		{agcregs.RegQ, 0xFFBB, 2, 0xFFBB},
	}
	for _, tc := range cases {
		c := ioFixture(t, 0o00000+tc.idx)
		c.write(tc.reg, tc.regVal)
		runIO(t, c)
		if a := c.read(agcregs.RegA); a != tc.wantA {
			t.Fatalf("READ reg=%o val=%04x: A = %04x, want %04x", tc.reg, tc.regVal, a, tc.wantA)
		}
	}
}

func TestIOWrite(t *testing.T) {
	cases := []struct {
		reg    int
		regVal uint16
		idx    uint16
		want   uint16
	}{
		{agcregs.RegL, 0xFFDD, 1, 0x7FDD},
		{agcregs.RegL, 0x3FCC, 1, 0x3FCC},
		{agcregs.RegQ, 0x7FAA, 2, 0x7FAA},
		{agcregs.RegQ, 0xFFBB, 2, 0xFFBB},
	}
	for _, tc := range cases {
		c := ioFixture(t, 0o01000+tc.idx)
		c.write(agcregs.RegA, tc.regVal)
		runIO(t, c)
		if got := c.read(tc.reg); got != tc.want {
			t.Fatalf("WRITE reg=%o val=%04x: reg = %04x, want %04x", tc.reg, tc.regVal, got, tc.want)
		}
	}
}

func TestIORAND(t *testing.T) {
	cases := []struct {
		aVal   uint16
		reg    int
		regVal uint16
		idx    uint16
		wantA  uint16
	}{
		{0x00AA, agcregs.RegL, 0x00FF, 1, 0x00AA},
		{0x00AA, agcregs.RegQ, 0x00FF, 2, 0x00AA},
		{0xC0AA, agcregs.RegL, 0x70FF, 1, 0xC0AA},
		{0xC0AA, agcregs.RegQ, 0xF0FF, 2, 0xC0AA},
		{0x40AA, agcregs.RegL, 0x4000, 1, 0x0000},
		{0x80AA, agcregs.RegL, 0x4000, 1, 0xC000},
		{0x40AA, agcregs.RegQ, 0x4000, 2, 0x4000},
		{0x80AA, agcregs.RegQ, 0x4000, 2, 0x0000},
		{0x80AA, agcregs.RegL, 0x40FF, 1, 0xC0AA},
		{0xAAAA, agcregs.RegQ, 0xAAA0, 2, 0xAAA0},
		{0x5555, agcregs.RegQ, 0x5550, 2, 0x5550},
	}
	for _, tc := range cases {
		c := ioFixture(t, 0o02000+tc.idx)
		c.write(agcregs.RegA, tc.aVal)
		c.write(tc.reg, tc.regVal)
		runIO(t, c)
		if a := c.read(agcregs.RegA); a != tc.wantA {
			t.Fatalf("RAND a=%04x reg=%o val=%04x: A = %04x, want %04x", tc.aVal, tc.reg, tc.regVal, a, tc.wantA)
		}
	}
}

func TestIOWAND(t *testing.T) {
	cases := []struct {
		aVal    uint16
		reg     int
		regVal  uint16
		idx     uint16
		wantA   uint16
		wantReg uint16
	}{
		{0x00AA, agcregs.RegL, 0x00FF, 1, 0x00AA, 0x00AA},
		{0x00AA, agcregs.RegQ, 0x00FF, 2, 0x00AA, 0x00AA},
		{0xC0AA, agcregs.RegL, 0x70FF, 1, 0xC0AA, 0x40AA},
		{0xC0AA, agcregs.RegQ, 0xF0FF, 2, 0xC0AA, 0xC0AA},
		{0x40AA, agcregs.RegL, 0x4000, 1, 0x0000, 0x0000},
		{0x80AA, agcregs.RegL, 0x4000, 1, 0xC000, 0x4000},
		{0x40AA, agcregs.RegQ, 0x4000, 2, 0x4000, 0x4000},
		{0x80AA, agcregs.RegQ, 0x4000, 2, 0x0000, 0x0000},
		{0x80AA, agcregs.RegL, 0x40FF, 1, 0xC0AA, 0x40AA},
		{0xAAAA, agcregs.RegQ, 0xAAA0, 2, 0xAAA0, 0xAAA0},
		{0x5555, agcregs.RegQ, 0x5550, 2, 0x5550, 0x5550},
	}
	for _, tc := range cases {
		c := ioFixture(t, 0o03000+tc.idx)
		c.write(agcregs.RegA, tc.aVal)
		c.write(tc.reg, tc.regVal)
		runIO(t, c)
		if a := c.read(agcregs.RegA); a != tc.wantA {
			t.Fatalf("WAND a=%04x reg=%o val=%04x: A = %04x, want %04x", tc.aVal, tc.reg, tc.regVal, a, tc.wantA)
		}
		if got := c.read(tc.reg); got != tc.wantReg {
			t.Fatalf("WAND a=%04x reg=%o val=%04x: reg = %04x, want %04x", tc.aVal, tc.reg, tc.regVal, got, tc.wantReg)
		}
	}
}

func TestIOROR(t *testing.T) {
	cases := []struct {
		aVal   uint16
		reg    int
		regVal uint16
		idx    uint16
		wantA  uint16
	}{
		{0x00AA, agcregs.RegL, 0x0055, 1, 0x00FF},
		{0x00AA, agcregs.RegQ, 0x0055, 2, 0x00FF},
		{0x00AA, agcregs.RegL, 0x7000, 1, 0xF0AA},
		{0x00AA, agcregs.RegQ, 0xF000, 2, 0xF0AA},
		{0x40AA, agcregs.RegL, 0x0100, 1, 0x01AA},
		{0x80AA, agcregs.RegL, 0x0100, 1, 0xC1AA},
		{0x40AA, agcregs.RegL, 0x4F00, 1, 0xCFAA},
		{0xAA0A, agcregs.RegQ, 0x5550, 2, 0xFF5A},
		{0x0A0A, agcregs.RegQ, 0x5550, 2, 0x5F5A},
	}
	for _, tc := range cases {
		c := ioFixture(t, 0o04000+tc.idx)
		c.write(agcregs.RegA, tc.aVal)
		c.write(tc.reg, tc.regVal)
		runIO(t, c)
		if a := c.read(agcregs.RegA); a != tc.wantA {
			t.Fatalf("ROR a=%04x reg=%o val=%04x: A = %04x, want %04x", tc.aVal, tc.reg, tc.regVal, a, tc.wantA)
		}
	}
}

func TestIOWOR(t *testing.T) {
	cases := []struct {
		aVal    uint16
		reg     int
		regVal  uint16
		idx     uint16
		wantA   uint16
		wantReg uint16
	}{
		{0x00AA, agcregs.RegL, 0x0055, 1, 0x00FF, 0x00FF},
		{0x00AA, agcregs.RegQ, 0x0055, 2, 0x00FF, 0x00FF},
		{0x00AA, agcregs.RegL, 0x7000, 1, 0xF0AA, 0x70AA},
		{0x00AA, agcregs.RegQ, 0xF000, 2, 0xF0AA, 0xF0AA},
		{0x40AA, agcregs.RegL, 0x0100, 1, 0x01AA, 0x01AA},
		{0x80AA, agcregs.RegL, 0x0100, 1, 0xC1AA, 0x41AA},
		{0x40AA, agcregs.RegL, 0x4F00, 1, 0xCFAA, 0x4FAA},
		{0xAA0A, agcregs.RegQ, 0x5550, 2, 0xFF5A, 0xFF5A},
		{0x0A0A, agcregs.RegQ, 0x5550, 2, 0x5F5A, 0x5F5A},
	}
	for _, tc := range cases {
		c := ioFixture(t, 0o05000+tc.idx)
		c.write(agcregs.RegA, tc.aVal)
		c.write(tc.reg, tc.regVal)
		runIO(t, c)
		if a := c.read(agcregs.RegA); a != tc.wantA {
			t.Fatalf("WOR a=%04x reg=%o val=%04x: A = %04x, want %04x", tc.aVal, tc.reg, tc.regVal, a, tc.wantA)
		}
		if got := c.read(tc.reg); got != tc.wantReg {
			t.Fatalf("WOR a=%04x reg=%o val=%04x: reg = %04x, want %04x", tc.aVal, tc.reg, tc.regVal, got, tc.wantReg)
		}
	}
}

func TestIORXOR(t *testing.T) {
	cases := []struct {
		aVal   uint16
		reg    int
		regVal uint16
		idx    uint16
		wantA  uint16
	}{
		{0x00AA, agcregs.RegL, 0x0055, 1, 0x00FF},
		{0x00AA, agcregs.RegQ, 0x0055, 2, 0x00FF},
		{0x00AA, agcregs.RegL, 0x4000, 1, 0xC0AA},
		{0x80AA, agcregs.RegQ, 0x4000, 2, 0xC0AA},
		{0x40AA, agcregs.RegL, 0x0000, 1, 0x00AA},
		{0x80AA, agcregs.RegL, 0x0000, 1, 0xC0AA},
		{0x40AA, agcregs.RegL, 0x4000, 1, 0xC0AA},
		{0xAAAA, agcregs.RegQ, 0x5550, 2, 0xFFFA},
		{0x5555, agcregs.RegQ, 0x5550, 2, 0x0005},
	}
	for _, tc := range cases {
		c := ioFixture(t, 0o06000+tc.idx)
		c.write(agcregs.RegA, tc.aVal)
		c.write(tc.reg, tc.regVal)
		runIO(t, c)
		if a := c.read(agcregs.RegA); a != tc.wantA {
			t.Fatalf("RXOR a=%04x reg=%o val=%04x: A = %04x, want %04x", tc.aVal, tc.reg, tc.regVal, a, tc.wantA)
		}
	}
}
