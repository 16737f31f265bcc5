/*
   AGC execution core.

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

	"github.com/rcornwell/ragc/emu/agcchannel"
	"github.com/rcornwell/ragc/emu/agcirq"
	"github.com/rcornwell/ragc/emu/agcmem"
	"github.com/rcornwell/ragc/emu/agcregs"
	"github.com/rcornwell/ragc/emu/agctimer"
	"github.com/rcornwell/ragc/emu/agcunprog"
	"github.com/rcornwell/ragc/emu/agcword"
)

// Shadow register slots above the 8 architectural registers: bank switches
// and the IR/PC live doubled so an interrupt can save and later RESUME the
// interrupted instruction stream.
const (
	regPCShadow = 0xD
	regIR       = 0xF
)

// Restart monitor constants, in MCTs at the AGC's 11.7us cycle time.
const (
	nightwatchTime = 1920000000 / 11700
	tcMonitorCount = 15000000 / 11700
	ruptLockCount  = 300000000 / 11700
)

// CPU is the Block-II execution core: fetch/decode/execute plus the scaler,
// restart monitors, and unprogrammed-sequence bubble the real hardware
// interleaves with instruction execution. Unlike the teacher's package-level
// sysCPU singleton, a CPU is an owned value with no global state — Core
// constructs one around already-owned Regs/Map/Channels/Timers.
type CPU struct {
	Mem      *agcmem.Map
	Channels *agcchannel.Space
	Timers   *agctimer.Timers
	unprog   agcunprog.Queue

	ir        uint16
	idxVal    uint16
	ecFlag    bool
	gint      bool
	isIrupt   bool
	rupt      uint16
	cycles    uint16
	totalMCTs uint64

	nightwatch       uint16
	nightwatchCycles uint32
	tcCount          uint32
	nonTCCount       uint32
	ruptlockCount    int32
}

// New returns a freshly constructed execution core around the given memory
// map and channel space, already reset to the power-up state (PC at 0x800,
// interrupts disabled).
func New(mem *agcmem.Map, channels *agcchannel.Space, timers *agctimer.Timers) *CPU {
	c := &CPU{
		Mem:      mem,
		Channels: channels,
		Timers:   timers,
		rupt:     1 << agcirq.Downrupt,
	}
	c.reset()
	return c
}

// Reset restores the CPU (and the memory/channel state it owns) to the
// power-up condition: PC at 0x800, interrupts disabled, restart monitors
// cleared.
func (c *CPU) Reset() {
	c.Mem.Reset()
	c.Channels.Reset()
	c.unprog = agcunprog.Queue{}
	c.idxVal = 0
	c.ecFlag = false
	c.isIrupt = false
	c.rupt = 1 << agcirq.Downrupt
	c.totalMCTs = 0
	c.nightwatch = 0
	c.nightwatchCycles = 0
	c.tcCount = 0
	c.nonTCCount = 0
	c.ruptlockCount = 0
	c.reset()
}

// reset sets the PC to the fixed boot vector and inhibits interrupts,
// without touching any owned memory state — the bare action hardware takes
// on power-up, also the first half of a GOJAM restart.
func (c *CPU) reset() {
	c.updatePC(0x800)
	c.gint = false
}

// restart performs a GOJAM-style reset and lights the DSKY restart lamp
// (channel 0o163 bit 0o200), the visible signal that distinguishes a
// monitor-triggered restart from the initial power-up reset.
func (c *CPU) restart() {
	c.reset()
	val := c.readIO(0o163)
	c.writeIO(0o163, 0o200|val)
}

// updatePC writes the PC register and refetches the instruction word at the
// new address into ir, matching hardware's combined PC-load/fetch cycle.
func (c *CPU) updatePC(val uint16) {
	c.write(agcregs.RegZ, val)
	c.ir = c.read(int(val))
}

// checkEditing re-reads and rewrites an edit register's own address when it
// was just used as an operand, which is how CYR/SR/CYL/EDOP pick up a new
// shift each time they are touched rather than only on direct access.
func (c *CPU) checkEditing(k uint16) {
	switch k {
	case 0o20, 0o21, 0o22, 0o23:
		c.writeS15(k, c.readS15(k))
	}
}

// read returns the raw word at a register-file address, counting an access
// to the night watchman register (0o67, REG_BB's erasable-memory mirror per
// the reference model) toward the idle-CPU restart monitor.
func (c *CPU) read(idx int) uint16 {
	if idx == 0o67 {
		c.nightwatch++
	}
	return c.Mem.Read(uint16(idx), c.Channels.Read(0o07))
}

// write stores a raw word at a register-file address, with the same
// night-watchman bookkeeping as read.
func (c *CPU) write(idx int, val uint16) {
	if idx == 0o67 {
		c.nightwatch++
	}
	c.Mem.Write(uint16(idx), val, c.Channels.Read(0o07))
}

// readS16 reads a register as a 16-bit S16 value: A/Q are returned as
// stored (they carry transient overflow in bits 15-14), every other
// register is sign-extended from its 15-bit SP form.
func (c *CPU) readS16(idx uint16) uint16 {
	switch idx {
	case agcregs.RegA, agcregs.RegQ:
		return c.read(int(idx))
	default:
		return agcword.SignExtend(c.read(int(idx)))
	}
}

// readS15 reads a register as a 15-bit SP value: A/Q are collapsed back
// from S16 via overflow correction, every other register already stores
// one.
func (c *CPU) readS15(idx uint16) uint16 {
	switch idx {
	case agcregs.RegA, agcregs.RegQ:
		return agcword.OverflowCorrection(c.read(int(idx))) & agcword.SPMask
	default:
		return c.read(int(idx)) & agcword.SPMask
	}
}

// writeS16 stores a 16-bit S16 value: A/Q take it verbatim, every other
// register is collapsed to 15 bits via overflow correction first.
func (c *CPU) writeS16(idx uint16, val uint16) {
	switch idx {
	case agcregs.RegA, agcregs.RegQ:
		c.write(int(idx), val)
	default:
		c.write(int(idx), agcword.OverflowCorrection(val)&agcword.SPMask)
	}
}

// writeS15 stores a 15-bit SP value: A/Q sign-extend it back to S16, every
// other register stores the masked value directly.
func (c *CPU) writeS15(idx uint16, val uint16) {
	switch idx {
	case agcregs.RegA, agcregs.RegQ:
		c.write(int(idx), agcword.SignExtend(val))
	default:
		c.write(int(idx), val&agcword.SPMask)
	}
}

// writeDP stores a packed DP value across a register pair, only ever called
// on (A, L) by MP. See agcword.DPPack for the packing convention.
func (c *CPU) writeDP(idx uint16, val uint32) {
	upper, lower := agcword.DPUnpack(val)
	c.writeS15(idx, upper)
	c.writeS15(idx+1, lower)
}

// readIO returns a channel's value. Channels 1 and 2 alias the L/Q register
// file directly rather than channel storage: the reference model documents
// this aliasing in its channel map but leaves it disabled at the channel
// layer, so it is implemented here instead, matching the behavior its own
// instruction-level test fixtures exercise.
func (c *CPU) readIO(idx uint16) uint16 {
	switch idx {
	case 1:
		return c.read(agcregs.RegL)
	case 2:
		return c.read(agcregs.RegQ)
	default:
		return c.Channels.Read(int(idx))
	}
}

// writeIO stores a channel's value, with the same L/Q aliasing as readIO.
func (c *CPU) writeIO(idx uint16, val uint16) {
	switch idx {
	case 1:
		c.write(agcregs.RegL, val)
	case 2:
		c.write(agcregs.RegQ, val)
	default:
		c.Channels.Write(int(idx), val)
	}
}

// isOverflow reports whether the accumulator currently carries a 16-bit
// overflow (bits 15-14 disagree).
func (c *CPU) isOverflow() bool {
	return agcword.IsOverflowed(c.read(agcregs.RegA))
}

// ruptDisabled reports whether interrupts are currently masked: by EXTEND,
// by GINT being clear, by already servicing one, or by a live overflow in
// the accumulator (hardware defers interrupts until overflow is resolved).
func (c *CPU) ruptDisabled() bool {
	return c.ecFlag || !c.gint || c.isIrupt || c.isOverflow()
}

// ruptPending reports whether any interrupt request bit is set.
func (c *CPU) ruptPending() bool {
	return c.rupt != 0
}

// calculateInstrData combines the fetched instruction word with any pending
// INDEX value (via 15-bit end-around addition) and the EXTEND marker bit,
// the operand the decoder actually sees.
func (c *CPU) calculateInstrData() uint16 {
	instData := agcword.SPAdd(c.ir, c.idxVal)
	if c.ecFlag {
		instData |= 0x8000
	}
	return instData
}

// handleRupt accepts the lowest-numbered pending interrupt: it saves PC+1
// and the in-progress instruction word to the shadow registers, clears GINT,
// and jumps to the interrupt's fixed vector. Only the first 10 of the 11
// named interrupt bits are serviced, matching the reference model.
func (c *CPU) handleRupt() {
	for i := 0; i < 10; i++ {
		mask := uint16(1) << i
		if c.rupt&mask == 0 {
			continue
		}
		c.gint = false
		c.write(regPCShadow, c.read(agcregs.RegZ)+1)
		c.write(regIR, c.calculateInstrData())
		c.idxVal = 0
		c.updatePC(agcirq.Vector(i))
		c.rupt ^= mask
		return
	}
}

// handleGOJ performs a GOJAM restart: the sequence of channel clears Memo
// #340 specifies, followed by clearing the restart-monitor counters and a
// full restart().
func (c *CPU) handleGOJ() uint16 {
	slog.Debug("agccpu: handling GOJ (restart)")
	c.writeIO(0o05, 0) // PYJETS
	c.writeIO(0o06, 0) // ROLLJETS
	c.writeIO(0o10, 0) // DSKY
	c.writeIO(0o11, 0) // DSALMOUT
	c.writeIO(0o12, 0)
	c.writeIO(0o13, 0)
	c.writeIO(0o14, 0)
	c.writeIO(0o34, 0)
	c.writeIO(0o35, 0)

	val := c.readIO(0o33)
	c.writeIO(0o33, val&0o75777)

	c.gint = false
	c.isIrupt = false
	c.tcCount = 0
	c.nonTCCount = 0

	c.restart()
	return 2
}

// handleRuptlock tracks how long the CPU has spent continuously servicing
// (or continuously not servicing) interrupts; too long in either direction
// trips a GOJAM, matching the reference model's two-sided rupt-lock
// monitor.
func (c *CPU) handleRuptlock() {
	if c.isIrupt {
		if c.ruptlockCount < 0 {
			c.ruptlockCount = 0
		}
		c.ruptlockCount += int32(c.cycles)
		if c.ruptlockCount > ruptLockCount {
			slog.Debug("agccpu: RUPTLOCK restart")
			c.unprog.Push(agcunprog.GOJ)
		}
		return
	}
	if c.ruptlockCount > 0 {
		c.ruptlockCount = 0
	}
	c.ruptlockCount -= int32(c.cycles)
	if c.ruptlockCount < -ruptLockCount {
		slog.Debug("agccpu: RUPTLOCK restart")
		c.unprog.Push(agcunprog.GOJ)
	}
}

// handleNightwatch trips a GOJAM if no instruction has touched the night
// watchman register within the monitor's window.
func (c *CPU) handleNightwatch() {
	c.nightwatchCycles += uint32(c.cycles)
	if c.nightwatchCycles < nightwatchTime {
		return
	}
	c.nightwatchCycles = 0
	if c.nightwatch == 0 {
		slog.Debug("agccpu: NIGHT WATCHMAN restart")
		c.unprog.Push(agcunprog.GOJ)
	}
	c.nightwatch = 0
}

// handleTCTrap trips a GOJAM if too many consecutive TC/TCF instructions
// ran, or too many consecutive non-TC/TCF instructions ran, matching Memo
// #260's TC TRAP monitor.
func (c *CPU) handleTCTrap() {
	if c.tcCount >= tcMonitorCount {
		c.tcCount = 0
		slog.Debug("agccpu: TC TRAP restart")
		c.unprog.Push(agcunprog.GOJ)
	} else if c.nonTCCount >= tcMonitorCount {
		c.nonTCCount = 0
		slog.Debug("agccpu: TC TRAP restart")
		c.unprog.Push(agcunprog.GOJ)
	}
}

// updateCycles advances the restart monitors and the scaler/timer block by
// the MCTs the instruction just executed consumed, folding in any
// interrupts the timers or channel peripherals raised.
func (c *CPU) updateCycles() {
	c.totalMCTs += uint64(c.cycles)

	c.handleNightwatch()
	c.handleTCTrap()
	c.handleRuptlock()

	c.rupt |= c.Timers.Pump(c.cycles, &c.unprog)
}

// stepUnprogrammed drains one entry from the unprogrammed-sequence queue.
// It returns true when Step should report the cycles just consumed back to
// the caller (a GOJ happened, or a new interrupt was accepted), false when
// the caller should keep draining the queue within the same Step call.
func (c *CPU) stepUnprogrammed() bool {
	op, ok := c.unprog.Pop()
	if !ok {
		return false
	}

	switch op {
	case agcunprog.GOJ, agcunprog.RUPT:
		c.cycles = 2
	default:
		c.cycles = 1
	}

	c.updateCycles()

	if op == agcunprog.GOJ {
		c.handleGOJ()
		return true
	}

	if !c.ruptDisabled() {
		c.rupt |= c.Channels.PollInterrupts()
		if c.ruptPending() {
			c.handleRupt()
			c.isIrupt = true
			c.unprog.Push(agcunprog.RUPT)
			return true
		}
	}

	return false
}

// stepProgrammed fetches, decodes, and executes one instruction from the
// live instruction stream, or accepts a pending interrupt in its place.
func (c *CPU) stepProgrammed() {
	if !c.ruptDisabled() {
		if c.ruptPending() {
			c.handleRupt()
			c.isIrupt = true
			c.unprog.Push(agcunprog.RUPT)
			return
		}
	}

	instData := c.calculateInstrData()
	pc := c.read(agcregs.RegZ)
	inst := Decode(pc, instData)

	nextPC := pc + 1
	c.updatePC(nextPC)
	c.idxVal = 0

	if c.ecFlag && inst.Mnem != INDEX {
		c.ecFlag = false
	}

	switch inst.Mnem {
	case TC, TCF:
		c.nonTCCount = 0
		c.tcCount++
	default:
		c.tcCount = 0
		c.nonTCCount++
	}

	c.cycles = c.execute(inst)
	c.updateCycles()
}

// Step drains the whole unprogrammed-sequence queue and then fetches/decodes/
// executes one instruction (or accepts a pending interrupt in its place). A
// GOJ, or an interrupt accepted while draining, ends the Step before any
// instruction runs. Step returns the MCT count recorded by the last operation
// it performed; the MCTs of bubbles drained ahead of it are not added in.
func (c *CPU) Step() uint16 {
	for !c.unprog.Empty() {
		if c.stepUnprogrammed() {
			return c.cycles
		}
	}
	c.stepProgrammed()
	return c.cycles
}
