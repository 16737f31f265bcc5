/*
   AGC fixed (rope) memory.

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

// bankPermutation maps a logical fixed bank index (as addressed by the
// memory map) to the physical rope bank that stores it: the rope file
// lays banks out in address order, so its first two banks are logical
// banks 2 and 3, the unswitched pair visible at 04000..07777.
var bankPermutation = [agcaddr.ROMNumBanks]int{
	2, 3, 0, 1, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31,
	32, 33, 34, 35,
}

// ROM implements the AGC's read-only fixed (rope) memory: 36 logical banks
// of 1024 words, backed by a rope image supplied at construction. Each
// word is right-shifted by one (dropping the parity bit) and masked to 15
// bits when NewROM builds the ROM; Read returns the word as stored.
type ROM struct {
	banks [agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16
	// debugWrite permits writes for test fixtures only; production code
	// never enables it.
	debugWrite bool
}

// NewROM builds a ROM from a raw rope image (36 banks x 1024 raw words,
// parity bit still present).
func NewROM(rope *[agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16) *ROM {
	r := &ROM{}
	for logical, physical := range bankPermutation {
		for w := 0; w < agcaddr.ROMBankNumWords; w++ {
			r.banks[logical][w] = (rope[physical][w] >> 1) & 0x7FFF
		}
	}
	return r
}

// SetDebugWrite enables writes to ROM for test fixtures that need to poke
// instructions directly into fixed memory.
func (r *ROM) SetDebugWrite(v bool) {
	r.debugWrite = v
}

// Read returns the word at (bankIdx, offset).
func (r *ROM) Read(bankIdx, offset int) uint16 {
	return r.banks[bankIdx][offset]
}

// Write discards the write unless debug mode is enabled, matching
// hardware's read-only fixed memory.
func (r *ROM) Write(bankIdx, offset int, value uint16) {
	if !r.debugWrite {
		slog.Warn("agcmem: write to read-only fixed memory ignored", "bank", bankIdx, "offset", offset)
		return
	}
	r.banks[bankIdx][offset] = value & 0x7FFF
}
