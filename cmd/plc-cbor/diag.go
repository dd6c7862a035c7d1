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

package main

import (
	"fmt"

	"github.com/fairpm/minifair-go/cbor"
	"github.com/spf13/pflag"
)

type diagFlags struct {
	flagset *pflag.FlagSet
	hexMode bool
	dump    bool
}

func newDiagFlags() *diagFlags {
	f := &diagFlags{
		flagset: pflag.NewFlagSet("diag", pflag.ContinueOnError),
	}
	f.flagset.BoolVar(&f.hexMode, "hex", false, "input is hex-encoded CBOR")
	f.flagset.BoolVar(&f.dump, "dump", false, "print the normalized structure instead of diagnostic notation")
	return f
}

func (a *app) runDiag(args []string) error {
	f := newDiagFlags()
	f.flagset.SetOutput(a.stderr)
	if err := f.flagset.Parse(args); err != nil {
		return err
	}
	data, rest, _, err := a.readInput(f.flagset.Args(), f.hexMode)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if f.dump {
		value, err := cbor.DecodeValue(data)
		if err != nil {
			return err
		}
		normalized, err := cbor.Normalize(value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(a.stdout, cbor.DumpCborStructure(normalized, ""))
		return err
	}
	diag, err := cbor.Diagnose(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, diag)
	return err
}
