// Copyright 2026 The FAIR Package Manager Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// plc-cbor encodes documents to canonical CBOR, checks CBOR for canonical form and
// derives did:plc identifiers from signed genesis operations.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const logLevelEnv = "MINIFAIR_LOG_LEVEL"

// errSilent marks a failure that has already been reported to the user
var errSilent = errors.New("silent failure")

type globalFlags struct {
	flagset *pflag.FlagSet
	debug   bool
}

func newGlobalFlags(name string) *globalFlags {
	f := &globalFlags{
		flagset: pflag.NewFlagSet(name, pflag.ContinueOnError),
	}
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	// Subcommand flags follow the subcommand name
	f.flagset.SetInterspersed(false)
	return f
}

// app holds the I/O streams and logger shared by subcommands
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	f := newGlobalFlags(args[0])
	f.flagset.SetOutput(stderr)
	if err := f.flagset.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "failed to parse command args: %s\n", err)
		return 1
	}
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: newLogger(stderr, f.debug),
	}
	if len(f.flagset.Args()) == 0 {
		fmt.Fprintf(stderr, "You must specify a subcommand (encode, validate, diag or did)\n")
		return 1
	}
	subArgs := f.flagset.Args()[1:]
	var err error
	switch f.flagset.Arg(0) {
	case "encode":
		err = a.runEncode(subArgs)
	case "validate":
		err = a.runValidate(subArgs)
	case "diag":
		err = a.runDiag(subArgs)
	case "did":
		err = a.runDID(subArgs)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n", f.flagset.Arg(0))
		return 1
	}
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(stderr, "error: %s\n", err)
		}
		return 1
	}
	return 0
}

// newLogger builds a text logger on w. The level comes from MINIFAIR_LOG_LEVEL
// (default "info"), and --debug forces debug.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if envLevel := strings.TrimSpace(os.Getenv(logLevelEnv)); envLevel != "" {
		var tmpLevel slog.Level
		if err := tmpLevel.UnmarshalText([]byte(envLevel)); err == nil {
			level = tmpLevel
		}
	}
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	)
}
