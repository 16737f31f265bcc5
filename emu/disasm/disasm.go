/*
   AGC disassembler.

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

// Package disasm renders a decoded instruction as text for the monitor's
// "dis" command, the way the teacher's emu/disassemble keys a per-opcode
// table on the addressing shape of the instruction rather than writing one
// formatter per mnemonic.
package disasm

import (
	"fmt"

	"github.com/rcornwell/ragc/emu/agccpu"
)

// addrMode says what operand field, if any, a mnemonic displays.
type addrMode int

const (
	noOperand addrMode = iota
	kAddr              // full 12-bit K
	kAddrRAM           // 10-bit RAM-only K
	channel            // 9-bit channel number
)

var modes = map[agccpu.Mnem]addrMode{
	agccpu.AD:      kAddr,
	agccpu.ADS:     kAddrRAM,
	agccpu.AUG:     kAddrRAM,
	agccpu.BZF:     kAddr,
	agccpu.BZMF:    kAddr,
	agccpu.CA:      kAddr,
	agccpu.CS:      kAddr,
	agccpu.CCS:     kAddrRAM,
	agccpu.DAS:     kAddrRAM,
	agccpu.DCA:     kAddr,
	agccpu.DCS:     kAddr,
	agccpu.DIM:     kAddrRAM,
	agccpu.DV:      kAddrRAM,
	agccpu.DXCH:    kAddrRAM,
	agccpu.EDRUPT:  noOperand,
	agccpu.EXTEND:  noOperand,
	agccpu.INCR:    kAddrRAM,
	agccpu.INDEX:   kAddr,
	agccpu.INHINT:  noOperand,
	agccpu.LXCH:    kAddrRAM,
	agccpu.MASK:    kAddr,
	agccpu.MP:      kAddr,
	agccpu.MSU:     kAddrRAM,
	agccpu.QXCH:    kAddrRAM,
	agccpu.RAND:    channel,
	agccpu.READ:    channel,
	agccpu.RELINT:  noOperand,
	agccpu.RESUME:  noOperand,
	agccpu.ROR:     channel,
	agccpu.RXOR:    channel,
	agccpu.SU:      kAddrRAM,
	agccpu.TC:      kAddr,
	agccpu.TCF:     kAddr,
	agccpu.TS:      kAddrRAM,
	agccpu.WAND:    channel,
	agccpu.WOR:     channel,
	agccpu.WRITE:   channel,
	agccpu.XCH:     kAddrRAM,
}

// Line is one disassembled instruction.
type Line struct {
	PC   uint16
	Word uint16
	Text string
}

// One decodes and formats the instruction word fetched from address pc.
func One(pc, word uint16) Line {
	inst := agccpu.Decode(pc, word)
	return Line{PC: pc, Word: word, Text: format(inst)}
}

func format(inst agccpu.Inst) string {
	mnem := inst.Mnem.String()
	if inst.Mnem == agccpu.INVALID {
		return fmt.Sprintf("%-6s %05o", mnem, inst.InstData)
	}

	switch modes[inst.Mnem] {
	case kAddr:
		return fmt.Sprintf("%-6s %04o", mnem, inst.GetKaddr())
	case kAddrRAM:
		return fmt.Sprintf("%-6s %04o", mnem, inst.GetKaddrRAM())
	case channel:
		return fmt.Sprintf("%-6s %03o", mnem, inst.GetDataBits()&0o777)
	default:
		return mnem
	}
}

// String renders a Line the way the monitor prints a disassembly listing:
// address, raw octal word, then the decoded mnemonic and operand.
func (l Line) String() string {
	return fmt.Sprintf("%05o  %06o  %s", l.PC, l.Word, l.Text)
}
