/*
   AGC monitor command implementations.

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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/rcornwell/ragc/config/ropeconfig"
	coreapi "github.com/rcornwell/ragc/emu/core"
	"github.com/rcornwell/ragc/emu/disasm"
)

var regNames = []string{"A", "L", "Q", "EB", "FB", "Z", "BB", "ZERO"}

// step executes one or more instructions and prints the instruction now at
// the PC.
func step(line *cmdLine, core *coreapi.Core) (bool, error) {
	n := line.getDecimal(1)
	for i := 0; i < n; i++ {
		if _, err := core.Step(); err != nil {
			return false, err
		}
	}
	pc := core.PC()
	fmt.Println(disasm.One(pc, core.ReadMem(pc)))
	return false, nil
}

// trace single-steps a decimal count of instructions, printing each one as
// it is about to execute.
func trace(line *cmdLine, core *coreapi.Core) (bool, error) {
	n := line.getDecimal(1)
	for i := 0; i < n; i++ {
		pc := core.PC()
		fmt.Println(disasm.One(pc, core.ReadMem(pc)))
		if _, err := core.Step(); err != nil {
			return false, err
		}
	}
	return false, nil
}

// cont resumes free-running execution in the background.
func cont(_ *cmdLine, core *coreapi.Core) (bool, error) {
	slog.Info("command: continue")
	core.Run()
	return false, nil
}

// stop halts a background run.
func stop(_ *cmdLine, core *coreapi.Core) (bool, error) {
	slog.Info("command: stop")
	core.Stop()
	fmt.Printf("stopped at %05o\n", core.PC())
	return false, nil
}

// reset restores the CPU to its power-up state.
func reset(_ *cmdLine, core *coreapi.Core) (bool, error) {
	slog.Info("command: reset")
	core.Reset()
	return false, nil
}

// load swaps in a different rope image.
func load(line *cmdLine, core *coreapi.Core) (bool, error) {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	name := line.line[start:line.pos]
	if name == "" {
		return false, errors.New("load requires a rope name or path")
	}
	if err := core.LoadRope(name); err != nil {
		return false, err
	}
	fmt.Printf("loaded rope %q\n", name)
	return false, nil
}

func loadComplete(line *cmdLine) []string {
	prefix := line.getWord()
	var matches []string
	for _, name := range ropeconfig.Names() {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name+" ")
		}
	}
	return matches
}

// setBreak arms a breakpoint at an octal address.
func setBreak(line *cmdLine, core *coreapi.Core) (bool, error) {
	addr, err := line.getOctal()
	if err != nil {
		return false, err
	}
	core.SetBreakpoint(addr)
	fmt.Printf("breakpoint set at %05o\n", addr)
	return false, nil
}

// clearBreak disarms a breakpoint at an octal address.
func clearBreak(line *cmdLine, core *coreapi.Core) (bool, error) {
	addr, err := line.getOctal()
	if err != nil {
		return false, err
	}
	core.ClearBreakpoint(addr)
	return false, nil
}

// registers prints the eight architectural registers.
func registers(_ *cmdLine, core *coreapi.Core) (bool, error) {
	for idx, name := range regNames {
		fmt.Printf("%-4s %05o\n", name, core.ReadReg(idx))
	}
	return false, nil
}

// examine prints the word at an octal memory address.
func examine(line *cmdLine, core *coreapi.Core) (bool, error) {
	addr, err := line.getOctal()
	if err != nil {
		return false, err
	}
	fmt.Printf("%05o: %05o\n", addr, core.ReadMem(addr))
	return false, nil
}

// deposit stores a word at an octal memory address.
func deposit(line *cmdLine, core *coreapi.Core) (bool, error) {
	addr, err := line.getOctal()
	if err != nil {
		return false, err
	}
	value, err := line.getOctal()
	if err != nil {
		return false, err
	}
	core.WriteMem(addr, value)
	return false, nil
}

// disassemble prints a listing starting at an octal address (PC if none
// given) for a decimal count of words (1 if none given).
func disassemble(line *cmdLine, core *coreapi.Core) (bool, error) {
	addr, err := line.getOctal()
	if err != nil {
		addr = core.PC()
	}
	count := line.getDecimal(1)
	for i := 0; i < count; i++ {
		word := core.ReadMem(addr)
		fmt.Println(disasm.One(addr, word))
		addr++
	}
	return false, nil
}

// key pushes one DSKY keycode, given in octal.
func key(line *cmdLine, core *coreapi.Core) (bool, error) {
	code, err := line.getOctal()
	if err != nil {
		return false, err
	}
	core.PushKey(code)
	return false, nil
}

// quit exits the monitor.
func quit(_ *cmdLine, _ *coreapi.Core) (bool, error) {
	slog.Info("command: quit")
	return true, nil
}
