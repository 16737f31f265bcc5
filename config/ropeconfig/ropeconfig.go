/*
   Rope image registry.

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

// Package ropeconfig is a small relative of the teacher's
// config/configparser: a named-loader registry so built-in rope images
// (retread50, luminary131, validation) and a literal file path all resolve
// through the one lookup main.go's -r/--rope flag drives, the same way the
// teacher's RegisterModel lets device types plug into its config-file
// grammar. There is exactly one rope selection in this domain, not N
// configurable devices, so the file-grammar parsing itself is not carried.
package ropeconfig

import (
	"fmt"
	"os"
	"sync"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcrope"
)

// Loader produces a raw rope image on demand.
type Loader func() (*[agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16, error)

var (
	mu       sync.Mutex
	registry = make(map[string]Loader)
)

// RegisterRope adds a named built-in rope loader to the registry. Called
// from each built-in rope's init(), mirroring the teacher's RegisterModel
// idiom.
func RegisterRope(name string, loader Loader) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = loader
}

// Load resolves name against the registry first, then falls back to
// treating it as a literal file path, matching CORE SPEC's CLI rope
// selection rule.
func Load(name string) (*[agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16, error) {
	mu.Lock()
	loader, ok := registry[name]
	mu.Unlock()
	if ok {
		return loader()
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("ropeconfig: rope %q not a known name and not a readable file: %w", name, err)
	}
	defer f.Close()
	return agcrope.Load(f)
}

// Names returns the currently registered built-in rope names, for --help
// text and the monitor's "load" command completion.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
