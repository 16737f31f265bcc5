/*
 * AGC - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/ragc/command/reader"
	"github.com/rcornwell/ragc/config/ropeconfig"
	"github.com/rcornwell/ragc/emu/agcchannel"
	"github.com/rcornwell/ragc/emu/core"
	"github.com/rcornwell/ragc/util/debug"
	logger "github.com/rcornwell/ragc/util/logger"
)

var Logger *slog.Logger

func main() {
	optRope := getopt.StringLong("rope", 'r', "validation", "Rope image: built-in name ("+strings.Join(ropeconfig.Names(), ", ")+") or file path")
	optLogFile := getopt.StringLong("log", 'l', "ragc.log", "Log file")
	optState := getopt.StringLong("savestate", 's', "", "Erasable-memory state file to load at startup and save at shutdown")
	optDebug := getopt.BoolLong("debug", 'd', "Enable debug logging")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	// The rope may also be named positionally: "ragc luminary131" or
	// "ragc file <path>".
	if args := getopt.Args(); len(args) > 0 {
		*optRope = args[0]
		if args[0] == "file" && len(args) > 1 {
			*optRope = args[1]
		}
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	if *optDebug {
		programLevel.Set(slog.LevelDebug)
	} else {
		programLevel.Set(slog.LevelInfo)
	}
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	if *optDebug {
		if file != nil {
			debug.SetLogFile(file)
		} else {
			debug.SetLogFile(os.Stderr)
		}
		// Read tracing stays off even under -d: the execution core samples
		// the superbank channel on every memory access, which would flood
		// the trace.
		agcchannel.SetTrace(agcchannel.TraceWrite)
	}

	Logger.Info("ragc started", "rope", *optRope)

	agc, err := core.New(*optRope)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	if *optState != "" {
		if f, err := os.Open(*optState); err == nil {
			err = agc.LoadState(f)
			f.Close()
			if err != nil {
				Logger.Error("failed to load saved state: " + err.Error())
			} else {
				Logger.Info("restored erasable memory from " + *optState)
			}
		}
	}

	// Wait for a SIGINT or SIGTERM signal to gracefully shut down alongside
	// the interactive console, which runs to completion on its own goroutine.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		reader.ConsoleReader(agc)
		close(done)
	}()

	select {
	case <-sigChan:
		fmt.Println("Got quit signal")
	case <-done:
	}

	// A second interrupt during shutdown force-exits.
	go func() {
		<-sigChan
		os.Exit(2)
	}()

	Logger.Info("shutting down")
	agc.Stop()

	if *optState != "" {
		f, err := os.Create(*optState)
		if err == nil {
			err = agc.SaveState(f)
			f.Close()
		}
		if err != nil {
			Logger.Error("failed to save state: " + err.Error())
		} else {
			Logger.Info("saved erasable memory to " + *optState)
		}
	}
}
