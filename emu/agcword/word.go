/*
   AGC one's-complement word arithmetic.

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

// Package agcword implements the AGC's one's-complement arithmetic
// primitives: 15-bit SP words, 16-bit S16 accumulator form, and 28-bit DP
// pairs. All words distinguish +0 (0o00000) from -0 (0o77777).
package agcword

const (
	// SPSign is the sign bit of a 15-bit SP word.
	SPSign = 0o040000
	// SPMask masks a value to 15 bits.
	SPMask = 0o077777
	// S16Mask masks a value to 16 bits.
	S16Mask = 0o177777
	// PosZero and NegZero are the two SP zero representations.
	PosZero = 0o00000
	NegZero = 0o77777
)

// OverflowCorrection collapses an S16 overflow-carrying value back to a
// 15-bit SP value: bits 15..14 == 10 forces the sign bit set (negative
// overflow), 01 clears it (positive overflow), otherwise the value already
// agrees with itself and is returned unmasked.
func OverflowCorrection(a uint16) uint16 {
	switch a & 0xC000 {
	case 0x8000:
		return a | 0xC000
	case 0x4000:
		return a & 0x3FFF
	default:
		return a
	}
}

// SignExtend replicates SP bit 14 into S16 bit 15.
func SignExtend(k uint16) uint16 {
	if k&0x4000 != 0 {
		return k | 0x8000
	}
	return k & 0x7FFF
}

// IsOverflowed reports whether an S16 value currently carries an overflow
// (bits 15..14 disagree).
func IsOverflowed(a uint16) bool {
	b := a & 0xC000
	return b == 0x4000 || b == 0x8000
}

// SPAdd performs 15-bit one's-complement end-around-carry addition.
func SPAdd(a, b uint16) uint16 {
	res := uint32(a) + uint32(b)
	if res&0o100000 == 0o100000 {
		res++
	}
	return uint16(res & SPMask)
}

// S16Add performs 16-bit one's-complement end-around-carry addition.
func S16Add(a, b uint16) uint16 {
	res := uint32(a) + uint32(b)
	if res&0xFFFF0000 != 0 {
		res++
	}
	return uint16(res & S16Mask)
}

// DPAdd performs 28-bit one's-complement end-around-carry addition on the
// packed DP representation (see DPPack).
func DPAdd(a, b uint32) uint32 {
	res := a + b
	if res&0xE0000000 != 0 {
		res++
	}
	return res
}

// IsSPZero reports whether an SP word is either zero representation.
func IsSPZero(v uint16) bool {
	return v == PosZero || v == NegZero
}

// IsS16Zero reports whether an S16 word is either zero representation.
func IsS16Zero(v uint16) bool {
	return v == 0x0000 || v == 0xFFFF
}

// SPSignBit reports the sign bit (0 or 1) of an SP word.
func SPSignBit(v uint16) uint16 {
	return (v & SPSign) >> 14
}

// DPPack packs an (upper, lower) SP register pair the way write_dp stores a
// product back into a double register: the 15-bit upper half (sign
// included) occupies bits 14-28 of the result, and the lower half
// contributes only its 14-bit magnitude, at bits 0-13. The result is a
// 29-bit one's-complement value, sign at bit 28.
func DPPack(upper, lower uint16) uint32 {
	u := uint32(upper & SPMask)
	l := uint32(lower & 0x3FFF)
	return (u << 14) | l
}

// DPUnpack splits a packed 29-bit DP value back into an (upper, lower) SP
// pair, the inverse of DPPack.
func DPUnpack(dp uint32) (upper, lower uint16) {
	u := uint16((dp >> 14) & SPMask)
	l := uint16(dp&0x3FFF) | (u & SPSign)
	return u, l
}

// ConvertToDP combines an (upper, lower) SP register pair that may disagree
// in sign into a single 29-bit DP magnitude, the conversion DV applies to
// its dividend before dividing. Unlike DPPack (which assumes the pair
// already agrees, as a product does), this resolves a mixed-sign pair by
// borrowing one unit between halves so the combined value carries one
// consistent sign throughout.
func ConvertToDP(upper, lower uint16) uint32 {
	if IsSPZero(upper) {
		if lower&SPSign != 0 {
			return uint32(lower) | 0o17777700000
		}
		return uint32(lower)
	}

	if SPSignBit(upper) == SPSignBit(lower) {
		return (uint32(upper) << 14) | uint32(lower&0x3FFF)
	}

	var res uint32
	if lower&SPSign != 0 {
		res = uint32(SPAdd(upper, 0o77776)) << 14
		res |= uint32(SPAdd(lower, 0o40000))
	} else {
		res = uint32(SPAdd(upper, 0o00001)) << 14
		res |= uint32(SPAdd(lower, 0o37777))
	}
	if res&0o4000000000 != 0 {
		res++
	}
	return res & 0o3777777777
}

// AbsSP returns the one's-complement magnitude of a 15-bit SP word.
func AbsSP(v uint16) uint16 {
	if v&SPSign != 0 {
		return ^v & SPMask
	}
	return v & SPMask
}

// CPUToAGCSP converts a two's-complement host integer to a one's-complement
// SP word, used only by MP/DV internals. Negative results keep the full
// 16-bit complement so a store into A lands in sign-extended S16 form;
// 15-bit destinations mask it off on write.
func CPUToAGCSP(v int16) uint16 {
	if v <= 0 {
		return ^uint16(-v)
	}
	return uint16(v) & SPMask
}

// AGCSPToCPU converts a one's-complement SP word to a two's-complement host
// integer, used only by MP/DV internals.
func AGCSPToCPU(v uint16) int16 {
	if v&SPSign != 0 {
		return -int16((^v) & 0o037777)
	}
	return int16(v & 0o037777)
}

// AGCDPToCPU converts a packed 28-bit one's-complement DP value to a
// two's-complement host integer, used only by MP/DV internals.
func AGCDPToCPU(v uint32) int32 {
	if v&0o2000000000 != 0 {
		return -int32((^v) & 0o1777777777)
	}
	return int32(v & 0o1777777777)
}

// CPUToAGCDP converts a two's-complement host integer product to a packed
// 29-bit one's-complement DP value, the inverse of AGCDPToCPU. MP packs its
// product itself and does not call it.
func CPUToAGCDP(v int32) uint32 {
	if v < 0 {
		return (^uint32(-v)) & 0o3777777777
	}
	return uint32(v) & 0o3777777777
}
