/*
   AGC instruction dispatch.

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

import "log/slog"

// execute runs a decoded instruction and returns the MCTs it consumed. Each
// handler returns its own fixed cost; inst.MCT is not consulted. BZF and
// BZMF cost differs by whether the branch is taken (BZMF returns 0 for an
// invalid encoding), and TS (on overflow) and CCS also move Z themselves.
func (c *CPU) execute(inst Inst) uint16 {
	switch inst.Mnem {
	case AD:
		return c.ad(inst)
	case ADS:
		return c.ads(inst)
	case AUG:
		return c.aug(inst)
	case BZF:
		return c.bzf(inst)
	case BZMF:
		return c.bzmf(inst)
	case CA:
		return c.ca(inst)
	case CS:
		return c.cs(inst)
	case CCS:
		return c.ccs(inst)
	case DAS:
		return c.das(inst)
	case DCA:
		return c.dca(inst)
	case DCS:
		return c.dcs(inst)
	case DIM:
		return c.dim(inst)
	case DV:
		return c.dv(inst)
	case DXCH:
		return c.dxch(inst)
	case EDRUPT:
		return c.edrupt(inst)
	case EXTEND:
		return c.extend(inst)
	case INCR:
		return c.incr(inst)
	case INDEX:
		return c.index(inst)
	case INHINT:
		return c.inhint(inst)
	case LXCH:
		return c.lxch(inst)
	case MASK:
		return c.mask(inst)
	case MP:
		return c.mp(inst)
	case MSU:
		return c.msu(inst)
	case QXCH:
		return c.qxch(inst)
	case RAND:
		return c.rand(inst)
	case READ:
		return c.chanRead(inst)
	case RELINT:
		return c.relint(inst)
	case RESUME:
		return c.resume(inst)
	case ROR:
		return c.ror(inst)
	case RXOR:
		return c.rxor(inst)
	case SU:
		return c.su(inst)
	case TC:
		return c.tc(inst)
	case TCF:
		return c.tcf(inst)
	case TS:
		return c.ts(inst)
	case WAND:
		return c.wand(inst)
	case WOR:
		return c.wor(inst)
	case WRITE:
		return c.chanWrite(inst)
	case XCH:
		return c.xch(inst)
	default:
		slog.Warn("agccpu: invalid instruction", "pc", inst.PC, "data", inst.InstData)
		c.ecFlag = false
		c.idxVal = 0
		return 1
	}
}
