/*
   AGC instruction semantics.

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
	"log/slog"

	"github.com/rcornwell/ragc/emu/agcregs"
	"github.com/rcornwell/ragc/emu/agcword"
)

// ad: A <- A + K (S16, end-around carry). Triggers an edit on K.
func (c *CPU) ad(inst Inst) uint16 {
	k := inst.GetKaddr()
	res := agcword.S16Add(c.readS16(agcregs.RegA), c.readS16(k))
	c.writeS16(agcregs.RegA, res)
	c.checkEditing(k)
	return 2
}

// ads: A, K <- A + K (S16, end-around carry); K is the RAM-addressed form
// since ADS cannot target fixed memory.
func (c *CPU) ads(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	res := agcword.S16Add(c.readS16(agcregs.RegA), c.readS16(k))
	c.writeS16(agcregs.RegA, res)
	c.writeS16(k, res)
	return 2
}

// das adds the double-precision pair (A,L) into the double-precision pair at
// (K-1,K) in place, leaving an overflow indicator (0, +1, or -2) in A and
// zeroing L. K-1 is the conventional "upper" half addressed by the
// instruction's own K operand.
func (c *CPU) das(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	if k > 0 {
		k--
	}

	a := c.readS16(agcregs.RegA)
	l := c.readS16(agcregs.RegL)
	word1 := c.readS16(k)
	word2 := c.readS16(k + 1)

	resUpper := agcword.S16Add(a, word1)
	resLower := agcword.S16Add(l, word2)

	switch resLower & 0o140000 {
	case 0o040000:
		resUpper = agcword.S16Add(resUpper, 0o000001)
		resLower = agcword.OverflowCorrection(resLower)
	case 0o100000:
		resUpper = agcword.S16Add(resUpper, 0o177776)
		resLower = agcword.OverflowCorrection(resLower)
	}

	c.writeS16(agcregs.RegL, 0)
	switch resUpper & 0o140000 {
	case 0o040000:
		c.writeS16(agcregs.RegA, 0o000001)
	case 0o100000:
		c.writeS16(agcregs.RegA, 0o177776)
	default:
		c.writeS16(agcregs.RegA, 0o000000)
	}

	c.writeS16(k, resUpper)
	c.writeS16(k+1, resLower)
	return 3
}

// aug magnitude-augments K by one: toward +infinity when K >= 0, toward
// -infinity when K < 0. A/Q augment as S16, every other register as S15.
func (c *CPU) aug(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	switch k {
	case agcregs.RegA, agcregs.RegQ:
		v := c.readS16(k)
		if v&0o100000 != 0 {
			c.writeS16(k, v-1)
		} else {
			c.writeS16(k, v+1)
		}
	default:
		v := c.readS15(k)
		if v&0o40000 != 0 {
			c.writeS15(k, v-1)
		} else {
			c.writeS15(k, v+1)
		}
	}
	return 2
}

// mp multiplies A by K (both SP magnitudes) into the double-precision
// product (A,L). Zero results need special-case sign handling: a same-sign
// zero product is always +0, but an opposite-sign product is -0 only when A
// itself was +-0 and K was a non-zero of the other sign; every other
// opposite-sign zero collapses to +0.
func (c *CPU) mp(inst Inst) uint16 {
	a := c.readS15(agcregs.RegA)
	aSign := a & 0o40000
	var aMag uint16
	if aSign != 0 {
		aMag = (^a) & 0o37777
	} else {
		aMag = a & 0o37777
	}

	k := c.readS15(inst.GetKaddr())
	kSign := k & 0o40000
	var kMag uint16
	if kSign != 0 {
		kMag = (^k) & 0o37777
	} else {
		kMag = k & 0o37777
	}

	res := (uint32(aMag) * uint32(kMag)) & 0o1777777777
	if kSign != aSign {
		switch res {
		case 0o0000000000, 0o1777777777:
			if (aMag == 0 || aMag == 0o77777) && (kMag != 0 && kMag != 0o77777) {
				res = 0o3777777777
			} else {
				res = 0o0000000000
			}
		default:
			res = (^res) & 0o3777777777
		}
	}

	c.writeDP(agcregs.RegA, res)
	return 3
}

// incr adds one to K with one's-complement wraparound. A and Q step as
// 16-bit words: -0 (0o177777) steps to +1 and 0o077777 is left unchanged.
// Every other register steps as a 15-bit word: +max (0o37777) wraps to +0
// and -0 (0o77777) steps to +1.
func (c *CPU) incr(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	val := uint32(c.read(int(k)))

	var kval uint32
	switch k {
	case agcregs.RegA, agcregs.RegQ:
		switch val {
		case 0o077777:
			kval = val & 0o177777
		case 0o177777:
			kval = 0o000001
		default:
			kval = (val + 1) & 0o177777
		}
	default:
		switch val {
		case 0o37777:
			kval = 0o00000
		case 0o77777:
			kval = 0o00001
		default:
			kval = (val + 1) & 0o77777
		}
	}

	c.write(int(k), uint16(kval&0o177777))
	return 2
}

// su: A <- A + ~K (S16, end-around carry). Triggers an edit on K.
func (c *CPU) su(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	a := c.readS16(agcregs.RegA)
	kval := ^c.readS16(k)
	res := uint32(a) + uint32(kval)
	if res&0xFFFF0000 != 0 {
		res++
	}
	c.writeS16(agcregs.RegA, uint16(res&0xFFFF))
	c.checkEditing(k)
	return 2
}

// msu performs a two's-complement subtract (A - K) and stores the result
// back into A as one's complement; A/Q use a 16-bit path, every other
// register a 15-bit one.
func (c *CPU) msu(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	switch k {
	case agcregs.RegA, agcregs.RegQ:
		kval := uint32(^c.readS16(k))
		aval := uint32(c.readS16(agcregs.RegA))
		res := (kval + aval + 1) & 0o177777
		if res&0o100000 != 0 {
			res = (res + 0o177777) & 0o177777
		}
		c.writeS16(agcregs.RegA, uint16(res))
	default:
		kval := uint32(^c.readS15(k)) & 0o77777
		aval := uint32(c.readS15(agcregs.RegA))
		res := (kval + 1 + aval) & 0o77777
		if res&0o40000 != 0 {
			res = (res + 0o77777) & 0o77777
		}
		c.writeS15(agcregs.RegA, uint16(res))
	}
	c.checkEditing(k)
	return 2
}

// dim magnitude-diminishes K by one; +-0 is a no-op, and the "1 + (-1)"
// boundary is mapped explicitly to -0 rather than relying on ordinary
// one's-complement addition.
func (c *CPU) dim(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	kval := c.readS16(k)

	switch kval {
	case 0o177777, 0o000000:
		// +-0: no-op.
	default:
		if kval&0o40000 != 0 {
			c.writeS16(k, kval+1)
		} else if kval-1 == 0 {
			c.writeS16(k, 0o177777)
		} else {
			c.writeS16(k, kval-1)
		}
	}
	return 2
}

// dv divides the double-precision pair (A,L) by K, leaving the quotient in A
// and the remainder in L. The zero/equal-magnitude edge cases below are
// spelled out explicitly because ordinary one's-complement division doesn't
// fall naturally out of the host's two's-complement divide.
func (c *CPU) dv(inst Inst) uint16 {
	divisor := c.readS15(inst.GetKaddrRAM())
	upper := c.readS15(agcregs.RegA)
	lower := c.readS15(agcregs.RegL)

	divisorSign := divisor & agcword.SPSign
	var dividendSign uint16
	if agcword.IsSPZero(upper) {
		dividendSign = lower & agcword.SPSign
	} else {
		dividendSign = upper & agcword.SPSign
	}

	if agcword.IsSPZero(upper) && agcword.IsSPZero(lower) {
		if !agcword.IsSPZero(divisor) {
			if dividendSign^divisorSign == 0 {
				c.writeS15(agcregs.RegA, agcword.PosZero)
			} else {
				c.writeS15(agcregs.RegA, agcword.NegZero)
			}
		} else {
			if dividendSign^divisorSign == 0 {
				c.writeS15(agcregs.RegA, 0o37777)
			} else {
				c.writeS15(agcregs.RegA, 0o40000)
			}
		}
		return 6
	}

	if agcword.AbsSP(upper) == agcword.AbsSP(divisor) {
		if agcword.IsSPZero(lower) {
			if dividendSign^divisorSign == 0 {
				c.writeS15(agcregs.RegA, 0o37777)
			} else {
				c.writeS15(agcregs.RegA, 0o40000)
			}
			c.writeS15(agcregs.RegL, upper)
		} else {
			slog.Warn("agccpu: DV undefined case: |dividend upper| == |divisor| with nonzero lower")
		}
		return 6
	}

	dividend := agcword.ConvertToDP(upper, lower)
	cpuDividend := agcword.AGCDPToCPU(dividend)
	cpuDivisor := int32(agcword.AGCSPToCPU(divisor))

	cpuQuotient := cpuDividend / cpuDivisor
	cpuRemainder := cpuDividend % cpuDivisor

	c.writeS16(agcregs.RegA, agcword.CPUToAGCSP(int16(cpuQuotient)))
	if cpuRemainder == 0 {
		if dividendSign == agcword.SPSign {
			c.writeS15(agcregs.RegL, agcword.NegZero)
		} else {
			c.writeS15(agcregs.RegL, agcword.PosZero)
		}
	} else {
		c.writeS15(agcregs.RegL, agcword.CPUToAGCSP(int16(cpuRemainder)))
	}
	return 6
}

// ca: A <- sign-extended K. Triggers an edit on K.
func (c *CPU) ca(inst Inst) uint16 {
	addr := inst.GetDataBits()
	val := c.readS16(addr)
	c.writeS16(agcregs.RegA, val)
	c.checkEditing(addr)
	return 2
}

// cs: A <- ones'-complement of K. Triggers an edit on K.
func (c *CPU) cs(inst Inst) uint16 {
	addr := inst.GetDataBits()
	val := (^c.readS16(addr)) & 0xFFFF
	c.writeS16(agcregs.RegA, val)
	c.checkEditing(addr)
	return 2
}

// dcs loads the double-precision complement of (K-1,K) into (A,L), bypassing
// overflow correction on the store since the complemented word is written
// raw, matching hardware's double-complement-load path.
func (c *CPU) dcs(inst Inst) uint16 {
	k := inst.GetKaddr() - 1
	valL := (^c.readS16(k+1)) & 0xFFFF
	c.write(int(agcregs.RegL), valL)
	valA := (^c.readS16(k)) & 0xFFFF
	c.write(int(agcregs.RegA), valA)
	c.checkEditing(k + 1)
	c.checkEditing(k)
	return 3
}

// dca loads (K-1,K) into (A,L).
func (c *CPU) dca(inst Inst) uint16 {
	k := inst.GetKaddr() - 1
	valL := c.readS16(k + 1)
	c.writeS16(agcregs.RegL, valL)
	valA := c.readS16(k)
	c.writeS16(agcregs.RegA, valA)
	c.checkEditing(k + 1)
	c.checkEditing(k)
	return 3
}

// dxch exchanges (A,L) with the RAM pair at (K-1,K), K being the
// instruction's operand field, the same pairing das/dca/dcs use. If K
// addresses Z or BB
// (5 or 6), those writes may have just changed the instruction stream, so
// the IR is refetched from the (possibly new) Z.
func (c *CPU) dxch(inst Inst) uint16 {
	kRAM := inst.GetKaddrRAM()
	kaddr := kRAM - 1

	l := c.readS16(agcregs.RegL)
	k2 := c.readS16(kaddr + 1)
	c.writeS16(agcregs.RegL, k2)
	c.writeS16(kaddr+1, l)

	a := c.readS16(agcregs.RegA)
	k1 := c.readS16(kaddr)
	c.writeS16(agcregs.RegA, k1)
	c.writeS16(kaddr, a)

	switch kRAM {
	case agcregs.RegZ, agcregs.RegBB:
		idx := c.read(agcregs.RegZ)
		c.ir = c.read(int(idx))
	}
	return 3
}

// lxch exchanges L and K.
func (c *CPU) lxch(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	lval := c.readS16(agcregs.RegL)
	kval := c.readS16(k)
	c.writeS16(agcregs.RegL, kval)
	c.writeS16(k, lval)
	return 2
}

// ts stores A into K. An overflowed A also writes the OVSK indicator
// (+1 or -2) back into A and advances Z one extra word, the "overflow
// skip" hardware uses to let software recover from an AD/SU overflow.
func (c *CPU) ts(inst Inst) uint16 {
	addr := inst.GetKaddrRAM()
	a := c.readS16(agcregs.RegA)

	switch a & 0xC000 {
	case 0x8000:
		c.writeS16(agcregs.RegA, 0xFFFE)
		c.updatePC(c.read(agcregs.RegZ) + 1)
	case 0x4000:
		c.writeS16(agcregs.RegA, 0x0001)
		c.updatePC(c.read(agcregs.RegZ) + 1)
	}

	c.writeS16(addr, a)
	c.read(int(addr))
	return 2
}

// qxch exchanges Q and K.
func (c *CPU) qxch(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	v := c.readS16(k)
	vQ := c.readS16(agcregs.RegQ)
	c.writeS16(k, vQ)
	c.writeS16(agcregs.RegQ, v)
	return 2
}

// xch exchanges A and K: A takes K sign-extended, K takes A's
// overflow-corrected value.
func (c *CPU) xch(inst Inst) uint16 {
	k := inst.GetKaddrRAM()
	v := c.readS16(k)
	vA := c.readS16(agcregs.RegA)
	c.writeS16(k, agcword.OverflowCorrection(vA))
	c.writeS16(agcregs.RegA, v)
	return 2
}

// mask: A <- A AND K. A/Q AND as full S16; everything else ANDs the
// overflow-corrected accumulator against the 15-bit source.
func (c *CPU) mask(inst Inst) uint16 {
	k := inst.GetKaddr()
	switch k {
	case agcregs.RegA, agcregs.RegQ:
		val := c.readS16(k)
		c.writeS16(agcregs.RegA, c.readS16(agcregs.RegA)&val)
	default:
		val := c.readS15(k)
		a := c.readS15(agcregs.RegA)
		n := a & (val & 0x7FFF)
		c.writeS15(agcregs.RegA, n&0x7FFF)
	}
	return 2
}

// ror: A <- A OR channel K.
func (c *CPU) ror(inst Inst) uint16 {
	k := inst.GetDataBits() & 0x1FF
	io := c.readIO(k)
	if k == 2 {
		c.writeS16(agcregs.RegA, c.readS16(agcregs.RegA)|io)
	} else {
		n := c.readS15(agcregs.RegA) | (io & 0x7FFF)
		c.writeS15(agcregs.RegA, n&0x7FFF)
	}
	return 2
}

// rand: A <- A AND channel K.
func (c *CPU) rand(inst Inst) uint16 {
	k := inst.GetDataBits() & 0x1FF
	io := c.readIO(k)
	if k == 2 {
		c.writeS16(agcregs.RegA, c.readS16(agcregs.RegA)&io)
	} else {
		n := c.readS15(agcregs.RegA) & (io & 0x7FFF)
		c.writeS15(agcregs.RegA, n&0x7FFF)
	}
	return 2
}

// rxor: A <- A XOR channel K.
func (c *CPU) rxor(inst Inst) uint16 {
	k := inst.GetDataBits() & 0x1FF
	io := c.readIO(k)
	if k == 2 {
		c.writeS16(agcregs.RegA, c.readS16(agcregs.RegA)^io)
	} else {
		n := c.readS15(agcregs.RegA) ^ (io & 0x7FFF)
		c.writeS15(agcregs.RegA, n&0x7FFF)
	}
	return 2
}

// wor: channel K, A <- A OR channel K.
func (c *CPU) wor(inst Inst) uint16 {
	k := inst.GetDataBits() & 0x1FF
	io := c.readIO(k)
	if k == 2 {
		n := c.readS16(agcregs.RegA) | io
		c.writeS16(agcregs.RegA, n)
		c.writeIO(k, n)
	} else {
		n := c.readS15(agcregs.RegA) | (io & 0x7FFF)
		c.writeS15(agcregs.RegA, n)
		c.writeIO(k, n&0x7FFF)
	}
	return 2
}

// wand: channel K, A <- A AND channel K.
func (c *CPU) wand(inst Inst) uint16 {
	k := inst.GetDataBits() & 0x1FF
	io := c.readIO(k)
	if k == 2 {
		n := c.readS16(agcregs.RegA) & io
		c.writeS16(agcregs.RegA, n)
		c.writeIO(k, n)
	} else {
		n := c.readS15(agcregs.RegA) & (io & 0x7FFF)
		c.writeS15(agcregs.RegA, n)
		c.writeIO(k, n&0x7FFF)
	}
	return 2
}

// chanRead: A <- channel K (sign-extended unless K is the 16-bit Q channel).
func (c *CPU) chanRead(inst Inst) uint16 {
	k := inst.GetDataBits() & 0x1FF
	var val uint16
	if k == 2 {
		val = c.readIO(k)
	} else {
		val = agcword.SignExtend(c.readIO(k))
	}
	c.writeS16(agcregs.RegA, val)
	return 2
}

// chanWrite: channel K <- A (overflow-corrected unless K is channel 2).
func (c *CPU) chanWrite(inst Inst) uint16 {
	k := inst.GetDataBits() & 0x1FF
	val := c.readS16(agcregs.RegA)
	if k == 2 {
		c.writeIO(k, val)
	} else {
		c.writeIO(k, agcword.OverflowCorrection(val)&0x7FFF)
	}
	return 2
}

// index sets idx_val to K's value, which the next instruction's fetch folds
// in via end-around addition; RESUME's K=0o17 encoding is intercepted by the
// decoder before reaching here.
func (c *CPU) index(inst Inst) uint16 {
	kRaw := inst.GetDataBits()
	bits := kRaw
	if !inst.IsExtended() {
		bits = kRaw & dataMaskRAM
	}
	c.idxVal = c.read(int(kRaw))
	c.checkEditing(bits)
	return 2
}

// extend arms the EXTEND prefix for exactly the next instruction.
func (c *CPU) extend(inst Inst) uint16 {
	c.ecFlag = true
	c.idxVal = 0
	return 1
}

// relint enables the global interrupt flag.
func (c *CPU) relint(inst Inst) uint16 {
	c.gint = true
	return 1
}

// inhint disables the global interrupt flag.
func (c *CPU) inhint(inst Inst) uint16 {
	c.gint = false
	return 1
}

// resume restores Z and IR from their interrupt shadows and re-enables
// interrupts, completing an ISR's return.
func (c *CPU) resume(inst Inst) uint16 {
	val := c.read(regPCShadow) - 1
	c.write(int(agcregs.RegZ), val)
	c.ir = c.read(regIR)
	c.idxVal = 0
	c.gint = true
	c.isIrupt = false
	return 2
}

// edrupt disables interrupts. The full hardware behavior (saving Z to
// Z-RUPT and fetching the next instruction from address 0) is not
// implemented: no rope in scope for this build executes EDRUPT in a way
// that would observe the difference.
func (c *CPU) edrupt(inst Inst) uint16 {
	slog.Warn("agccpu: EDRUPT executed; only interrupt-disable is modeled")
	c.gint = false
	return 3
}

// tc: Q <- current Z (the already-advanced return address); Z <- K.
func (c *CPU) tc(inst Inst) uint16 {
	k := inst.GetDataBits()
	pc := c.read(agcregs.RegZ)
	c.updatePC(k)
	c.write(int(agcregs.RegQ), pc)
	c.ecFlag = false
	return 1
}

// tcf: Z <- K, unconditionally, without touching Q.
func (c *CPU) tcf(inst Inst) uint16 {
	next := inst.GetDataBits()
	c.updatePC(next)
	c.ecFlag = false
	return 1
}

// bzf branches to K if A is +-0 (in S16 form), else falls through.
func (c *CPU) bzf(inst Inst) uint16 {
	c.ecFlag = false

	a := c.read(agcregs.RegA)
	switch a {
	case 0x0000, 0xFFFF:
		next := inst.GetDataBits() & 0xFFF
		if next&0xC00 == 0 {
			slog.Warn("agccpu: BZF target is not fixed memory", "target", next)
		}
		c.updatePC(next)
		return 1
	default:
		return 2
	}
}

// bzmf branches to K if A <= 0 (S16, including negative overflow), else
// falls through.
func (c *CPU) bzmf(inst Inst) uint16 {
	k := inst.GetDataBits()
	if k&0xC00 == 0 {
		slog.Warn("agccpu: invalid BZMF encoding", "k", k)
		return 0
	}

	a := c.readS16(agcregs.RegA)
	if a > 0x0000 && a < 0x8000 {
		return 2
	}

	c.updatePC(k)
	c.ecFlag = false
	return 1
}

// ccs computes |K|-1 into A and picks one of four successor addresses
// (Z+0, Z+1, Z+2, Z+3, where Z has already been advanced past the CCS, so
// one to four words after the CCS itself) based on K's
// original sign and zero-ness. Triggers an edit on K.
func (c *CPU) ccs(inst Inst) uint16 {
	pc := c.read(agcregs.RegZ)
	k := inst.GetKaddrRAM()
	a := c.readS16(k)

	switch {
	case a == 0x0000:
		c.updatePC(pc + 1)
		c.write(int(agcregs.RegA), 0)
	case a == 0xFFFF:
		c.updatePC(pc + 3)
		c.write(int(agcregs.RegA), 0)
	case a >= 0x0001 && a <= 0x7FFF:
		c.updatePC(pc)
		c.write(int(agcregs.RegA), a-1)
	default:
		c.updatePC(pc + 2)
		a ^= 0xFFFF
		c.write(int(agcregs.RegA), a-1)
	}

	c.checkEditing(k)
	return 2
}
