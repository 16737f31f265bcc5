/*
   AGC register file.

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

// Package agcregs implements the AGC's 16 addressable registers (A, L, Q,
// EB, FB, Z, BB, ZERO and the shadow/IR slots above them) plus the bank
// index state (ebank/fbank) that BB/EB/FB reads and writes keep in sync.
//
// Unlike the teacher's register file, which lives behind a package-level
// singleton, Regs here is an owned value with no global state: a Core
// holds one and passes it by pointer.
package agcregs

import "log/slog"

// Register offsets within the 16-word register file.
const (
	RegA = iota
	RegL
	RegQ
	RegEB
	RegFB
	RegZ
	RegBB
	RegZero
	// 8..15 are shadow/IR slots, addressable but otherwise unspecified.
	RegMax = 16
)

// Regs holds the register file's 16 words plus the decoded bank indices
// BB packs together.
type Regs struct {
	regs  [RegMax]uint16
	FBank uint
	EBank uint
}

// New returns a freshly reset register file.
func New() *Regs {
	return &Regs{}
}

// Reset clears every register and bank index to zero.
func (r *Regs) Reset() {
	r.regs = [RegMax]uint16{}
	r.FBank = 0
	r.EBank = 0
}

// updateBankRegisters recomputes EB/FB/BB from the current ebank/fbank
// indices, mirroring hardware's single packed bank-select word.
func (r *Regs) updateBankRegisters() {
	evalue := uint16((r.EBank & 0x7) << 8)
	fvalue := uint16((r.FBank & 0x1F) << 10)
	bvalue := (evalue >> 8) | fvalue
	r.regs[RegEB] = evalue
	r.regs[RegFB] = fvalue
	r.regs[RegBB] = bvalue
	slog.Debug("agcregs: bank registers updated", "eb", evalue, "fb", fvalue, "bb", bvalue)
}

// Read returns the value at a register offset, applying each register's
// own width mask (A/Q are full 16-bit S16, Z is 12 bits, ZERO is always
// zero, everything else is 15-bit SP).
func (r *Regs) Read(offset int) uint16 {
	switch offset {
	case RegA, RegQ:
		return r.regs[offset]
	case RegZ:
		return r.regs[offset] & 0o7777
	case RegZero:
		return 0o00000
	default:
		return r.regs[offset] & 0o77777
	}
}

// Write stores a value at a register offset. Writes to BB/EB/FB update the
// packed bank-select state and propagate to the other two; ZERO writes are
// discarded; Z is truncated to 12 bits; everything else is a 15-bit SP
// register.
func (r *Regs) Write(offset int, value uint16) {
	switch offset {
	case RegA, RegQ:
		r.regs[offset] = value

	case RegBB:
		r.EBank = uint(value & 0x7)
		r.FBank = uint((value & 0x7C00) >> 10)
		r.updateBankRegisters()

	case RegFB:
		r.FBank = uint((value & 0x7C00) >> 10)
		r.updateBankRegisters()

	case RegEB:
		r.EBank = uint((value & 0x0700) >> 8)
		r.updateBankRegisters()

	case RegZ:
		r.regs[offset] = value & 0o7777

	case RegZero:
		// Hardwired to zero; writes are discarded.

	default:
		r.regs[offset] = value & 0o77777
	}
}
