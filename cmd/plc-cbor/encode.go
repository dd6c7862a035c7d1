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
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/fairpm/minifair-go/cbor"
	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

type encodeFlags struct {
	flagset *pflag.FlagSet
	format  string
	output  string
	digest  string
}

func newEncodeFlags() *encodeFlags {
	f := &encodeFlags{
		flagset: pflag.NewFlagSet("encode", pflag.ContinueOnError),
	}
	f.flagset.StringVar(
		&f.format,
		"format",
		"",
		"input format: json, jsonc or yaml (default: from file extension, else json)",
	)
	f.flagset.StringVar(
		&f.output,
		"output",
		"hex",
		"output encoding: hex, base64, base58 or raw",
	)
	f.flagset.StringVar(
		&f.digest,
		"digest",
		"",
		"print a digest of the encoding instead: sha256, blake2b or blake3",
	)
	return f
}

func (a *app) runEncode(args []string) error {
	f := newEncodeFlags()
	f.flagset.SetOutput(a.stderr)
	if err := f.flagset.Parse(args); err != nil {
		return err
	}
	data, rest, name, err := a.readInput(f.flagset.Args(), false)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	format, err := detectFormat(f.format, name)
	if err != nil {
		return err
	}
	encoded, err := encodeDocument(data, format)
	if err != nil {
		return err
	}
	a.logger.Debug("encoded document", "format", format, "bytes", len(encoded))
	if f.digest != "" {
		sum, err := digest(f.digest, encoded)
		if err != nil {
			return err
		}
		encoded = sum
	}
	return a.writeOutput(encoded, f.output)
}

// encodeDocument parses a document and returns its canonical encoding
func encodeDocument(data []byte, format string) ([]byte, error) {
	native, err := parseDocument(data, format)
	if err != nil {
		return nil, err
	}
	value, err := cbor.FromNative(native)
	if err != nil {
		return nil, err
	}
	return value.MarshalCBOR()
}

func digest(algorithm string, data []byte) ([]byte, error) {
	switch algorithm {
	case "sha256":
		sum := sha256.Sum256(data)
		return sum[:], nil
	case "blake2b":
		sum := blake2b.Sum256(data)
		return sum[:], nil
	case "blake3":
		sum := blake3.Sum256(data)
		return sum[:], nil
	}
	return nil, fmt.Errorf("unknown digest %q (expected sha256, blake2b or blake3)", algorithm)
}

func (a *app) writeOutput(data []byte, output string) error {
	var err error
	switch output {
	case "hex":
		_, err = fmt.Fprintln(a.stdout, hex.EncodeToString(data))
	case "base64":
		_, err = fmt.Fprintln(a.stdout, base64.StdEncoding.EncodeToString(data))
	case "base58":
		_, err = fmt.Fprintln(a.stdout, base58.Encode(data))
	case "raw":
		_, err = a.stdout.Write(data)
	default:
		return fmt.Errorf("unknown output encoding %q (expected hex, base64, base58 or raw)", output)
	}
	return err
}
