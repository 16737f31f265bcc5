/*
   AGC rope image loader.

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

// Package agcrope loads a core-rope binary image into the 36x1024-word
// layout emu/agcmem.ROM expects. On disk a rope is 36*1024 big-endian
// 16-bit words, parity bit still present; NewROM applies the bank
// permutation and parity shift, so this package's job ends at producing a
// byte-order-corrected raw image.
package agcrope

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rcornwell/ragc/emu/agcaddr"
)

// Load reads a big-endian rope image from r into a raw
// [36][1024]uint16 array, byte-swapped to host order but with the parity
// bit still present (NewROM drops it).
func Load(r io.Reader) (*[agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16, error) {
	var rope [agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16

	buf := make([]byte, 2)
	for bank := 0; bank < agcaddr.ROMNumBanks; bank++ {
		for word := 0; word < agcaddr.ROMBankNumWords; word++ {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("agcrope: read bank %d word %d: %w", bank, word, err)
			}
			rope[bank][word] = binary.BigEndian.Uint16(buf)
		}
	}
	return &rope, nil
}
