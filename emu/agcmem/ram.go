/*
   AGC erasable RAM.

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
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcregs"
)

// RAM implements the AGC's eight 256-word erasable banks. Bank 0's A and Q
// shadow slots (offsets 0 and 2, the register numbers of A and Q) store and return a full 16 bits; every other cell masks off bit
// 15 on both read and write, matching INV-RAM-SIGN.
type RAM struct {
	banks [agcaddr.RAMNumBanks][agcaddr.RAMBankNumWords]uint16
}

// NewRAM returns a zeroed erasable-memory block.
func NewRAM() *RAM {
	return &RAM{}
}

// Reset clears every bank to zero. Real hardware retained erasable memory
// content across a restart; this is only invoked for an explicit memory
// clear.
func (r *RAM) Reset() {
	r.banks = [agcaddr.RAMNumBanks][agcaddr.RAMBankNumWords]uint16{}
}

func isShadowSlot(bankIdx, offset int) bool {
	return bankIdx == 0 && (offset == agcregs.RegA || offset == agcregs.RegQ)
}

// Read returns the word at (bankIdx, offset).
func (r *RAM) Read(bankIdx, offset int) uint16 {
	if isShadowSlot(bankIdx, offset) {
		return r.banks[bankIdx][offset]
	}
	return r.banks[bankIdx][offset] & 0x7FFF
}

// Write stores a word at (bankIdx, offset).
func (r *RAM) Write(bankIdx, offset int, value uint16) {
	if isShadowSlot(bankIdx, offset) {
		r.banks[bankIdx][offset] = value
		return
	}
	r.banks[bankIdx][offset] = value & 0x7FFF
}

// SaveState writes the erasable memory image to w as little-endian u16s,
// bank-major, for the optional "persistent state" save file.
func (r *RAM) SaveState(w io.Writer) error {
	buf := make([]byte, 2)
	for _, bank := range r.banks {
		for _, word := range bank {
			binary.LittleEndian.PutUint16(buf, word)
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("agcmem: save erasable state: %w", err)
			}
		}
	}
	return nil
}

// LoadState restores the erasable memory image from r, previously written
// by SaveState.
func (r *RAM) LoadState(rd io.Reader) error {
	buf := make([]byte, 2)
	for i := range r.banks {
		for j := range r.banks[i] {
			if _, err := io.ReadFull(rd, buf); err != nil {
				return fmt.Errorf("agcmem: load erasable state: %w", err)
			}
			r.banks[i][j] = binary.LittleEndian.Uint16(buf)
		}
	}
	slog.Debug("agcmem: erasable state restored")
	return nil
}
