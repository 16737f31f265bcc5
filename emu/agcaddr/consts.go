/*
   AGC address-space and channel constants.

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

// Package agcaddr collects the AGC's address-map, channel, and bank-size
// constants shared across the register file, memory, timer, and channel
// packages.
package agcaddr

// Memory bank geometry.
const (
	RAMNumBanks     = 8
	RAMBankNumWords = 256
	ROMNumBanks     = 36
	ROMBankNumWords = 1024
)

// I/O channel numbers.
const (
	ChannelL        = 0o01
	ChannelQ        = 0o02
	ChannelHiScalar = 0o03
	ChannelLoScalar = 0o04
	ChannelPYJets   = 0o05
	ChannelRollJets = 0o06
	ChannelSuperbnk = 0o07
	ChannelDSKY     = 0o10
	ChannelDSAlmout = 0o11
	Channel12       = 0o12
	Channel13       = 0o13
	Channel14       = 0o14
	ChannelMNKeyin  = 0o15
	ChannelNavKeyin = 0o16
	Channel30       = 0o30
	Channel31       = 0o31
	Channel32       = 0o32
	Channel33       = 0o33
	Channel34       = 0o34 // downlist word 1
	Channel35       = 0o35 // downlist word 2
)

// Edit-register addresses.
const (
	SGCyr  = 0o20
	SGSr   = 0o21
	SGCyl  = 0o22
	SGEdop = 0o23
)

// Timer register addresses.
const (
	MMTime2 = 0o24
	MMTime1 = 0o25
	MMTime3 = 0o26
	MMTime4 = 0o27
	MMTime5 = 0o30
	MMTime6 = 0o31
)

// Special-register addresses.
const (
	SGCDUX    = 0o32
	SGCDUY    = 0o33
	SGCDUZ    = 0o34
	SGOptY    = 0o35
	SGOptX    = 0o36
	SGPipaX   = 0o37
	SGPipaY   = 0o40
	SGPipaZ   = 0o41
	SGRChp    = 0o42
	SGRChy    = 0o43
	SGRChr    = 0o44
	SGInlink  = 0o45
	SGRnrad   = 0o46
	SGGyroctr = 0o47
	SGCDUXCmd = 0o50
	SGCDUYCmd = 0o51
	SGCDUZCmd = 0o52
	SGOptYCmd = 0o53
	SGOptXCmd = 0o54
	SGThrust  = 0o55 // LM only
	SGLemonm  = 0o56 // LM only
	SGOutlink = 0o57
	SGAltm    = 0o60 // LM only
)
