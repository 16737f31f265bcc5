/*
   AGC monitor command parser.

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

// Package parser is the monitor command line, generalized from the
// teacher's command/parser: the same minimum-unique-prefix command table
// and hand-rolled cmdLine scanner, but dispatching to a single Core instead
// of the teacher's per-device attach/set/show grammar — there is one CPU and
// one rope here, not a configurable device list.
package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	coreapi "github.com/rcornwell/ragc/emu/core"
)

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *coreapi.Core) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "step", min: 2, process: step},
	{name: "trace", min: 2, process: trace},
	{name: "continue", min: 1, process: cont},
	{name: "stop", min: 3, process: stop},
	{name: "reset", min: 3, process: reset},
	{name: "load", min: 2, process: load, complete: loadComplete},
	{name: "break", min: 3, process: setBreak},
	{name: "unbreak", min: 3, process: clearBreak},
	{name: "registers", min: 3, process: registers},
	{name: "examine", min: 2, process: examine},
	{name: "deposit", min: 2, process: deposit},
	{name: "disassemble", min: 3, process: disassemble},
	{name: "key", min: 3, process: key},
	{name: "quit", min: 4, process: quit},
}

// ProcessCommand parses and executes one monitor command line, returning
// true when the monitor should exit.
func ProcessCommand(commandLine string, core *coreapi.Core) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}

	return match[0].process(&line, core)
}

// CompleteCmd completes a partial command line for line-editing tab
// completion.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	matches := make([]string, 0, len(cmdList))
	for _, m := range cmdList {
		if strings.HasPrefix(m.name, name) {
			matches = append(matches, m.name)
		}
	}
	return matches
}

func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if m.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= m.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *cmdLine) isEOL() bool {
	return line.pos >= len(line.line) || line.line[line.pos] == '#'
}

func (line *cmdLine) getNext() byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	return line.line[line.pos]
}

// getWord scans a run of letters, the command name or a bare keyword.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}

	value := ""
	by := line.line[line.pos]
	for {
		if !unicode.IsLetter(rune(by)) {
			break
		}
		value += string(by)
		by = line.getNext()
		if line.isEOL() || unicode.IsSpace(rune(by)) {
			break
		}
	}
	return strings.ToLower(value)
}

// getOctal scans an octal number, the address/value syntax every monitor
// command that touches memory or registers takes.
func (line *cmdLine) getOctal() (uint16, error) {
	line.skipSpace()
	if line.isEOL() {
		return 0, errors.New("expected octal number")
	}

	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	tok := line.line[start:line.pos]
	v, err := strconv.ParseUint(tok, 8, 16)
	if err != nil {
		return 0, errors.New("not a valid octal number: " + tok)
	}
	return uint16(v), nil
}

// getDecimal scans a decimal number, used for step/trace/disassemble counts.
func (line *cmdLine) getDecimal(deflt int) int {
	line.skipSpace()
	if line.isEOL() {
		return deflt
	}
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	tok := line.line[start:line.pos]
	v, err := strconv.Atoi(tok)
	if err != nil {
		return deflt
	}
	return v
}
