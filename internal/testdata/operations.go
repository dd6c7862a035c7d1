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

// Package testdata provides a shared did:plc operation log for benchmarks and tests.
package testdata

import (
	_ "embed"
	"encoding/hex"
	"strings"
)

// did:key of the ed25519 key (seed of 32 0x01 bytes) that signs every operation
const SigningDIDKey = "did:key:z6Mkon3Necd6NkkyfoGoHxid2znGc59LU3K7mubaRcFbLfLX"

// Genesis operation creating did:plc:4c27tahvzpcfnz47zrd2qe46
// CID: bafyreihawx4yb5olyrloph6mi6ubhhwya7i6dfvgbmyruqwpakg5lkpzxa
//
//go:embed genesis_operation.hex
var GenesisOperationHex string

// Update moving the service endpoint to example.org
// CID: bafyreidbluj5ny7mw7kqp744x67wkkaqldz2tkcagxvgcxetk36assroea
//
//go:embed update_operation.hex
var UpdateOperationHex string

// Tombstone ending the log
// CID: bafyreiau2wdqpthjgrygup2oaxo3ur4zsq5ieympxgvdw7ypxjpn3jugnm
//
//go:embed tombstone_operation.hex
var TombstoneOperationHex string

type TestOperation struct {
	Name string
	CID  string
	// CID of the previous operation, empty for genesis
	Prev string
	Cbor []byte
}

// GetTestOperations returns the operation log in order
func GetTestOperations() []TestOperation {
	return []TestOperation{
		{
			Name: "Genesis",
			CID:  "bafyreihawx4yb5olyrloph6mi6ubhhwya7i6dfvgbmyruqwpakg5lkpzxa",
			Cbor: MustDecodeHex(GenesisOperationHex),
		},
		{
			Name: "Update",
			CID:  "bafyreidbluj5ny7mw7kqp744x67wkkaqldz2tkcagxvgcxetk36assroea",
			Prev: "bafyreihawx4yb5olyrloph6mi6ubhhwya7i6dfvgbmyruqwpakg5lkpzxa",
			Cbor: MustDecodeHex(UpdateOperationHex),
		},
		{
			Name: "Tombstone",
			CID:  "bafyreiau2wdqpthjgrygup2oaxo3ur4zsq5ieympxgvdw7ypxjpn3jugnm",
			Prev: "bafyreidbluj5ny7mw7kqp744x67wkkaqldz2tkcagxvgcxetk36assroea",
			Cbor: MustDecodeHex(TombstoneOperationHex),
		},
	}
}

// MustDecodeHex decodes a hex string to bytes, panicking on error.
func MustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		panic(err)
	}
	return b
}
