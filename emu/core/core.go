/*
   Core AGC emulator loop.

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

// Package core owns the run loop the monitor commands and the CLI entry
// point drive. The teacher's emu/core wraps a package-level CPU singleton
// in a goroutine that drains a multi-device master.Packet bus, because an
// S/370 serves many concurrent telnet terminals and devices that post to it
// asynchronously. This domain has exactly one local console operator and no
// telnet, so the packet bus collapses to a mutex-guarded Core exposing
// direct method calls; the owned-goroutine run loop and done-channel
// shutdown shape are kept, just driven by Run/Stop instead of by packets.
package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/ragc/config/ropeconfig"
	"github.com/rcornwell/ragc/emu/agcchannel"
	"github.com/rcornwell/ragc/emu/agccpu"
	"github.com/rcornwell/ragc/emu/agcmem"
	"github.com/rcornwell/ragc/emu/agcperiph"
	"github.com/rcornwell/ragc/emu/agcregs"
	"github.com/rcornwell/ragc/emu/agctimer"
)

// Core wires together one CPU, its memory map, channel space, timers, and
// the DSKY/downlink peripherals, and arbitrates access between the
// background run goroutine and whatever goroutine is issuing monitor
// commands (normally just the console reader, but the mutex makes any
// concurrent caller safe).
type Core struct {
	mu sync.Mutex

	CPU      *agccpu.CPU
	Mem      *agcmem.Map
	Channels *agcchannel.Space
	Timers   *agctimer.Timers
	DSKY     *agcperiph.DSKY
	Downlink *agcperiph.Downlink

	ropeName string

	wg      sync.WaitGroup
	done    chan struct{}
	running bool

	breakpoints map[uint16]bool
}

// New constructs a Core with a rope image loaded from ropeName (a built-in
// rope name or a literal file path, resolved via config/ropeconfig).
func New(ropeName string) (*Core, error) {
	core := &Core{breakpoints: make(map[uint16]bool)}
	if err := core.LoadRope(ropeName); err != nil {
		return nil, err
	}
	return core, nil
}

// LoadRope (re)builds the CPU around a freshly loaded rope image, the way a
// real AGC only ever boots with one module loaded. It is valid to call this
// again later to swap ropes; any in-progress Run is stopped first.
func (core *Core) LoadRope(ropeName string) error {
	rope, err := ropeconfig.Load(ropeName)
	if err != nil {
		return fmt.Errorf("core: %w", err)
	}

	core.mu.Lock()
	defer core.mu.Unlock()

	if core.running {
		core.stopLocked()
	}

	regs := agcregs.New()
	timers := agctimer.New()
	mem := agcmem.NewMap(regs, timers)
	mem.SetROM(agcmem.NewROM(rope))
	channels := agcchannel.New(timers)
	dsky := agcperiph.NewDSKY()
	downlink := agcperiph.NewDownlink()
	channels.DSKY = dsky
	channels.Downlink = downlink

	core.CPU = agccpu.New(mem, channels, timers)
	core.Mem = mem
	core.Channels = channels
	core.Timers = timers
	core.DSKY = dsky
	core.Downlink = downlink
	core.ropeName = ropeName
	core.done = make(chan struct{})

	slog.Info("core: rope loaded", "rope", ropeName)
	return nil
}

// Reset restores the loaded CPU to its power-up state without reloading the
// rope image.
func (core *Core) Reset() {
	core.mu.Lock()
	defer core.mu.Unlock()
	core.CPU.Reset()
}

// Step runs one CPU.Step (the queued unprogrammed-sequence bubbles, then one
// instruction) and returns the MCTs that call reports. It refuses while Run is active, since
// single-stepping a live run goroutine would race the same CPU.
func (core *Core) Step() (uint16, error) {
	core.mu.Lock()
	defer core.mu.Unlock()
	if core.running {
		return 0, errors.New("core: cannot step while running")
	}
	return core.CPU.Step(), nil
}

// Run starts the CPU executing in the background, stopping automatically
// when PC lands on a configured breakpoint. It is a no-op if already
// running.
func (core *Core) Run() {
	core.mu.Lock()
	defer core.mu.Unlock()
	if core.running {
		return
	}
	core.running = true
	core.done = make(chan struct{})
	core.wg.Add(1)
	go core.runLoop(core.done)
}

// mctDuration is one MCT of emulated time at the AGC's 11.7us cycle rate.
const mctDuration = 11700 * time.Nanosecond

// paceInterval is how much emulated time the run loop accumulates before
// comparing against the wall clock and sleeping off any lead.
const paceInterval = 10 * time.Millisecond

// runLoop is the background instruction loop; it owns no state Step/Reset
// don't also touch, so every access is taken under core.mu. It paces the
// CPU against the wall clock: MCTs accumulate emulated time, and whenever
// the emulated clock runs ahead of real time the loop sleeps the lead off,
// keeping the rope close to real-time rates.
func (core *Core) runLoop(done chan struct{}) {
	defer core.wg.Done()

	start := time.Now()
	var emulated time.Duration
	nextPace := paceInterval

	for {
		select {
		case <-done:
			return
		default:
		}

		core.mu.Lock()
		if !core.running {
			core.mu.Unlock()
			return
		}
		mcts := core.CPU.Step()
		pc := core.Mem.Regs.Read(agcregs.RegZ)
		hit := core.breakpoints[pc]
		core.mu.Unlock()

		if hit {
			slog.Info("core: breakpoint hit", "pc", fmt.Sprintf("%05o", pc))
			core.mu.Lock()
			core.running = false
			core.mu.Unlock()
			return
		}

		emulated += time.Duration(mcts) * mctDuration
		if emulated >= nextPace {
			nextPace = emulated + paceInterval
			if lead := emulated - time.Since(start); lead > 0 {
				time.Sleep(lead)
			}
		}
	}
}

// Stop halts a background Run, waiting briefly for the run goroutine to
// notice and exit.
func (core *Core) Stop() {
	core.mu.Lock()
	core.stopLocked()
	core.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		slog.Warn("core: timed out waiting for run loop to stop")
	}
}

// stopLocked signals the run loop to exit; caller must hold core.mu.
func (core *Core) stopLocked() {
	if !core.running {
		return
	}
	core.running = false
	close(core.done)
}

// Running reports whether the background run loop is currently active.
func (core *Core) Running() bool {
	core.mu.Lock()
	defer core.mu.Unlock()
	return core.running
}

// SetBreakpoint arms a breakpoint at a 12-bit CPU address.
func (core *Core) SetBreakpoint(addr uint16) {
	core.mu.Lock()
	defer core.mu.Unlock()
	core.breakpoints[addr] = true
}

// ClearBreakpoint disarms a previously set breakpoint.
func (core *Core) ClearBreakpoint(addr uint16) {
	core.mu.Lock()
	defer core.mu.Unlock()
	delete(core.breakpoints, addr)
}

// Breakpoints returns the currently armed breakpoint addresses.
func (core *Core) Breakpoints() []uint16 {
	core.mu.Lock()
	defer core.mu.Unlock()
	addrs := make([]uint16, 0, len(core.breakpoints))
	for addr := range core.breakpoints {
		addrs = append(addrs, addr)
	}
	return addrs
}

// ReadMem peeks a word at a 12-bit CPU address without disturbing CPU
// state, for the monitor's "examine"/"disassemble" commands.
func (core *Core) ReadMem(addr uint16) uint16 {
	core.mu.Lock()
	defer core.mu.Unlock()
	return core.Mem.Read(addr, core.Channels.Read(0o07))
}

// WriteMem pokes a word at a 12-bit CPU address, for the monitor's "deposit"
// command.
func (core *Core) WriteMem(addr, value uint16) {
	core.mu.Lock()
	defer core.mu.Unlock()
	core.Mem.Write(addr, value, core.Channels.Read(0o07))
}

// ReadReg peeks one of the 16 register-file slots.
func (core *Core) ReadReg(idx int) uint16 {
	core.mu.Lock()
	defer core.mu.Unlock()
	return core.Mem.Regs.Read(idx)
}

// PC returns the current program counter (register Z).
func (core *Core) PC() uint16 {
	return core.ReadReg(agcregs.RegZ)
}

// RopeName returns the name or path the currently loaded rope was resolved
// from.
func (core *Core) RopeName() string {
	core.mu.Lock()
	defer core.mu.Unlock()
	return core.ropeName
}

// PushKey enqueues a DSKY keystroke, for the monitor's "key" command.
func (core *Core) PushKey(code uint16) {
	core.mu.Lock()
	defer core.mu.Unlock()
	core.DSKY.PushKey(code)
}

// SaveState persists the erasable-memory banks to w, for a clean shutdown
// that wants to resume a mission later without replaying it from the boot
// vector.
func (core *Core) SaveState(w io.Writer) error {
	core.mu.Lock()
	defer core.mu.Unlock()
	return core.Mem.RAM.SaveState(w)
}

// LoadState restores previously saved erasable-memory banks from r.
func (core *Core) LoadState(r io.Reader) error {
	core.mu.Lock()
	defer core.mu.Unlock()
	return core.Mem.RAM.LoadState(r)
}
