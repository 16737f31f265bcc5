/*
   AGC instruction decoder.

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

// Package agccpu implements the Block-II instruction decoder and execution
// core: Decode turns a raw instruction word into a Mnem + addressing-mode
// triple, and CPU.Step fetches, decodes, executes, and advances the restart
// monitors and scaler one instruction (or unprogrammed-sequence bubble) at
// a time.
package agccpu

// Mnem identifies a decoded instruction's mnemonic.
type Mnem int

const (
	INVALID Mnem = iota
	AD
	ADS
	AUG
	BZF
	BZMF
	CA
	CS
	CCS
	DAS
	DCA
	DCS
	DIM
	DV
	DXCH
	EDRUPT
	EXTEND
	INCR
	INDEX
	INHINT
	LXCH
	MASK
	MP
	MSU
	QXCH
	RAND
	READ
	RELINT
	RESUME
	ROR
	RXOR
	SU
	TC
	TCF
	TS
	WAND
	WOR
	WRITE
	XCH
)

const (
	dataMask       = 0o7777
	dataMaskRAM    = 0o1777
	opcodeMask     = 0o7
	opcodeOffset   = 12
	opcodeExtended = 0o100000
)

// Inst is a decoded instruction: the raw word plus the mnemonic and MCT
// cost Decode assigned it.
type Inst struct {
	PC       uint16
	Mnem     Mnem
	InstData uint16
	MCT      uint16
}

// GetOpcodeBits returns the 3-bit primary opcode (bits 14-12).
func (i Inst) GetOpcodeBits() uint16 {
	return (i.InstData >> opcodeOffset) & opcodeMask
}

// GetDataBits returns the 12-bit operand field.
func (i Inst) GetDataBits() uint16 {
	return i.InstData & dataMask
}

// GetKaddr returns the 12-bit operand field as an address.
func (i Inst) GetKaddr() uint16 {
	return i.InstData & dataMask
}

// GetKaddrRAM returns the 10-bit RAM-addressable subset of the operand
// field, used by instructions whose opcode consumes two more bits than the
// basic 3-bit primary opcode.
func (i Inst) GetKaddrRAM() uint16 {
	return i.InstData & dataMaskRAM
}

// IsExtended reports whether bit 15 (the EXTEND marker) is set.
func (i Inst) IsExtended() bool {
	return i.InstData&opcodeExtended == opcodeExtended
}

// Decode turns a raw 16-bit instruction word (bit 15 set by EXTEND, as
// calculateInstrData produces) into an Inst. Malformed extrabits encodings
// decode to INVALID rather than returning an error, matching CORE SPEC §7:
// the execution core logs and no-ops rather than faulting.
func Decode(pc, instData uint16) Inst {
	i := Inst{PC: pc, InstData: instData, MCT: 1}
	if i.IsExtended() {
		return decodeExtended(i)
	}
	return decodeSimple(i)
}

func decodeExtended(i Inst) Inst {
	switch i.GetOpcodeBits() {
	case 0:
		switch (i.InstData & 0x0E00) >> 9 {
		case 0:
			i.Mnem = READ
		case 1:
			i.Mnem = WRITE
			i.MCT = 2
		case 2:
			i.Mnem = RAND
		case 3:
			i.Mnem = WAND
		case 4:
			i.Mnem = ROR
		case 5:
			i.Mnem = WOR
		case 6:
			i.Mnem = RXOR
		case 7:
			i.Mnem = EDRUPT
		default:
			i.Mnem = INVALID
		}
	case 1:
		if (i.InstData&0x0C00)>>10 == 0 {
			i.Mnem = DV
		} else {
			i.Mnem = BZF
		}
	case 2:
		switch (i.InstData & 0x0C00) >> 10 {
		case 0:
			i.Mnem = MSU
		case 1:
			i.Mnem = QXCH
		case 2:
			i.Mnem = AUG
		case 3:
			i.Mnem = DIM
		default:
			i.Mnem = INVALID
		}
	case 3:
		i.Mnem = DCA
	case 4:
		i.Mnem = DCS
	case 5:
		i.Mnem = INDEX
	case 6:
		if (i.InstData&0x0C00)>>10 == 0 {
			i.Mnem = SU
		} else {
			i.Mnem = BZMF
		}
	case 7:
		i.Mnem = MP
	default:
		i.Mnem = INVALID
	}
	return i
}

func decodeSimple(i Inst) Inst {
	switch i.GetOpcodeBits() {
	case 0:
		switch i.InstData & 0xFFF {
		case 3:
			i.Mnem = RELINT
		case 4:
			i.Mnem = INHINT
		case 6:
			i.Mnem = EXTEND
		default:
			i.Mnem = TC
		}
	case 1:
		if (i.InstData&0x0C00)>>10 == 0 {
			i.Mnem = CCS
		} else {
			i.Mnem = TCF
		}
	case 2:
		switch (i.InstData & 0x0C00) >> 10 {
		case 0:
			i.Mnem = DAS
		case 1:
			i.Mnem = LXCH
		case 2:
			i.Mnem = INCR
		case 3:
			i.Mnem = ADS
		default:
			i.Mnem = INVALID
		}
	case 3:
		i.Mnem = CA
		i.MCT = 2
	case 4:
		i.Mnem = CS
		i.MCT = 2
	case 5:
		switch (i.InstData & 0x0C00) >> 10 {
		case 0:
			if i.InstData&0o07777 == 0o00017 {
				i.Mnem = RESUME
			} else {
				i.Mnem = INDEX
			}
		case 1:
			i.Mnem = DXCH
		case 2:
			i.Mnem = TS
			i.MCT = 2
		case 3:
			i.Mnem = XCH
		default:
			i.Mnem = INVALID
		}
	case 6:
		i.Mnem = AD
		i.MCT = 2
	case 7:
		i.Mnem = MASK
	default:
		i.Mnem = INVALID
	}
	return i
}

// String names a mnemonic for trace/disassembly output.
func (m Mnem) String() string {
	switch m {
	case AD:
		return "AD"
	case ADS:
		return "ADS"
	case AUG:
		return "AUG"
	case BZF:
		return "BZF"
	case BZMF:
		return "BZMF"
	case CA:
		return "CA"
	case CS:
		return "CS"
	case CCS:
		return "CCS"
	case DAS:
		return "DAS"
	case DCA:
		return "DCA"
	case DCS:
		return "DCS"
	case DIM:
		return "DIM"
	case DV:
		return "DV"
	case DXCH:
		return "DXCH"
	case EDRUPT:
		return "EDRUPT"
	case EXTEND:
		return "EXTEND"
	case INCR:
		return "INCR"
	case INDEX:
		return "INDEX"
	case INHINT:
		return "INHINT"
	case LXCH:
		return "LXCH"
	case MASK:
		return "MASK"
	case MP:
		return "MP"
	case MSU:
		return "MSU"
	case QXCH:
		return "QXCH"
	case RAND:
		return "RAND"
	case READ:
		return "READ"
	case RELINT:
		return "RELINT"
	case RESUME:
		return "RESUME"
	case ROR:
		return "ROR"
	case RXOR:
		return "RXOR"
	case SU:
		return "SU"
	case TC:
		return "TC"
	case TCF:
		return "TCF"
	case TS:
		return "TS"
	case WAND:
		return "WAND"
	case WOR:
		return "WOR"
	case WRITE:
		return "WRITE"
	case XCH:
		return "XCH"
	default:
		return "INVALID"
	}
}
