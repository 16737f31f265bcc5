/*
   AGC edit registers.

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

// Package agcmem implements the AGC's addressable memory components:
// erasable RAM, fixed ROM, special registers, edit registers, and the
// overall memory-map dispatcher.
package agcmem

import (
	"log/slog"

	"github.com/rcornwell/ragc/emu/agcaddr"
)

// EditRegs implements the write-to-shift registers CYR/SR/CYL/EDOP: a
// write transforms the operand before storing it, and a later read
// returns the transformed word.
type EditRegs struct {
	cyr, sr, cyl, edop uint16
}

// NewEditRegs returns a freshly reset edit-register block.
func NewEditRegs() *EditRegs {
	return &EditRegs{}
}

// Reset clears all four edit registers.
func (e *EditRegs) Reset() {
	*e = EditRegs{}
}

// Read returns the current transformed value of an edit register.
func (e *EditRegs) Read(offset int) uint16 {
	switch offset {
	case agcaddr.SGCyl:
		return e.cyl
	case agcaddr.SGCyr:
		return e.cyr
	case agcaddr.SGSr:
		return e.sr
	case agcaddr.SGEdop:
		return e.edop
	default:
		slog.Error("agcmem: invalid edit register read", "offset", offset)
		return 0
	}
}

// Write applies the register's shift and stores the transformed word.
func (e *EditRegs) Write(offset int, value uint16) {
	newval := value & 0x7FFF
	switch offset {
	case agcaddr.SGCyl:
		bit := newval & 0x4000
		e.cyl = (newval << 1) & 0x7FFF
		e.cyl |= bit >> 14

	case agcaddr.SGCyr:
		bit := newval & 0x1
		e.cyr = (newval >> 1) | (bit << 14)

	case agcaddr.SGSr:
		bit := newval & 0o40000
		e.sr = (newval >> 1) | bit

	case agcaddr.SGEdop:
		e.edop = (newval >> 7) & 0o177

	default:
		slog.Error("agcmem: invalid edit register write", "offset", offset)
	}
}

// IsEditAddress reports whether an effective address is one of the four
// edit registers, which the execution core must treat as an edit trigger
// whenever it is the K operand of a memory-touching instruction.
func IsEditAddress(addr uint16) bool {
	switch int(addr) {
	case agcaddr.SGCyl, agcaddr.SGCyr, agcaddr.SGSr, agcaddr.SGEdop:
		return true
	default:
		return false
	}
}
