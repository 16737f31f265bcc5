/*
   Built-in rope registrations.

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

package ropeconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcrope"
)

// ropeDir is where the three well-known Block-II ropes are expected to live
// as raw big-endian binary images, one file per name. Overridable for
// testing.
var ropeDir = "ropes"

// SetRopeDir changes where built-in rope names resolve their backing file.
func SetRopeDir(dir string) {
	ropeDir = dir
}

func loadFromRopeDir(name string) (*[agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16, error) {
	path := filepath.Join(ropeDir, name+".bin")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ropeconfig: built-in rope %q: %w", name, err)
	}
	defer f.Close()
	return agcrope.Load(f)
}

func init() {
	for _, name := range []string{"retread50", "luminary131", "validation"} {
		n := name
		RegisterRope(n, func() (*[agcaddr.ROMNumBanks][agcaddr.ROMBankNumWords]uint16, error) {
			return loadFromRopeDir(n)
		})
	}
}
