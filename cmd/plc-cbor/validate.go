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
	"errors"
	"fmt"

	"github.com/fairpm/minifair-go/cbor"
	"github.com/spf13/pflag"
)

type validateFlags struct {
	flagset *pflag.FlagSet
	hexMode bool
}

func newValidateFlags() *validateFlags {
	f := &validateFlags{
		flagset: pflag.NewFlagSet("validate", pflag.ContinueOnError),
	}
	f.flagset.BoolVar(&f.hexMode, "hex", false, "input is hex-encoded CBOR")
	f.flagset.Usage = func() {
		fmt.Fprint(f.flagset.Output(), `plc-cbor validate - Check that a CBOR item is canonically encoded

USAGE
    plc-cbor validate [flags] [file]

The item is decoded, re-encoded with length-first map key ordering and
compared byte for byte. Floats, tagged items and negative integers below the
int64 range are compared as-is: their heads and any maps inside tags are not
checked.

FLAGS
`)
		f.flagset.PrintDefaults()
	}
	return f
}

func (a *app) runValidate(args []string) error {
	f := newValidateFlags()
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
	err = cbor.IsCanonical(data)
	if errors.Is(err, cbor.ErrNotCanonical) {
		var notCanonical cbor.NotCanonicalError
		if errors.As(err, &notCanonical) {
			a.logger.Debug("canonical form differs", "offset", notCanonical.Offset)
		}
		fmt.Fprintf(a.stdout, "not canonical: first difference at byte %d\n", notCanonical.Offset)
		return errSilent
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "canonical")
	return nil
}
