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

	"github.com/fairpm/minifair-go/plc"
	"github.com/spf13/pflag"
)

type didFlags struct {
	flagset *pflag.FlagSet
	format  string
	cbor    bool
	hexMode bool
	verify  bool
	showCID bool
}

func newDIDFlags() *didFlags {
	f := &didFlags{
		flagset: pflag.NewFlagSet("did", pflag.ContinueOnError),
	}
	f.flagset.StringVar(
		&f.format,
		"format",
		"",
		"input format: json, jsonc or yaml (default: from file extension, else json)",
	)
	f.flagset.BoolVar(&f.cbor, "cbor", false, "input is a CBOR-encoded operation")
	f.flagset.BoolVar(&f.hexMode, "hex", false, "CBOR input is hex-encoded (implies --cbor)")
	f.flagset.BoolVar(&f.verify, "verify", false, "verify the signature against the operation's rotation keys")
	f.flagset.BoolVar(&f.showCID, "cid", false, "also print the operation CID")
	return f
}

func (a *app) runDID(args []string) error {
	f := newDIDFlags()
	f.flagset.SetOutput(a.stderr)
	if err := f.flagset.Parse(args); err != nil {
		return err
	}
	data, rest, name, err := a.readInput(f.flagset.Args(), f.hexMode)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if !f.cbor && !f.hexMode {
		format, err := detectFormat(f.format, name)
		if err != nil {
			return err
		}
		data, err = encodeDocument(data, format)
		if err != nil {
			return err
		}
	}
	op, err := plc.DecodeOperation(data)
	if err != nil {
		return err
	}
	if f.verify {
		if err := op.VerifyWithKeys(op.RotationKeys); err != nil {
			return err
		}
		a.logger.Debug("signature verified", "keys", len(op.RotationKeys))
	}
	did, err := op.DID()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, did.String())
	if f.showCID {
		cid, err := op.CID()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, cid)
	}
	return nil
}
