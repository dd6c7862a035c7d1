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

// Package bench provides benchmark utilities and fixtures for the canonical map
// encoder and PLC operations.
package bench

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/fairpm/minifair-go/cbor"
	"github.com/fairpm/minifair-go/internal/testdata"
	"github.com/fairpm/minifair-go/plc"
)

// MapFixture contains a pre-built map for benchmarking.
type MapFixture struct {
	Kind string
	Size int
	Map  *cbor.CanonicalMap
	Cbor []byte
}

// LoadMapFixture builds a map of the given kind with size entries. The kind
// should be one of: "text", "uint", "mixed", "nested". Entries are added in
// reverse canonical order so encoding has to sort them.
func LoadMapFixture(kind string, size int) (*MapFixture, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid size: %d", size)
	}
	m := &cbor.CanonicalMap{}
	for i := size - 1; i >= 0; i-- {
		key, value, err := fixtureEntry(kind, i)
		if err != nil {
			return nil, err
		}
		if err := m.Add(key, value); err != nil {
			return nil, fmt.Errorf("build %s map: %w", kind, err)
		}
	}
	data, err := m.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encode %s map: %w", kind, err)
	}
	return &MapFixture{
		Kind: kind,
		Size: size,
		Map:  m,
		Cbor: data,
	}, nil
}

func fixtureEntry(kind string, i int) (cbor.Encodable, cbor.Encodable, error) {
	switch strings.ToLower(kind) {
	case "text":
		return cbor.Text("key-" + strconv.Itoa(i)), cbor.Uint(i), nil
	case "uint":
		return cbor.Uint(i * 1000), cbor.Text(strconv.Itoa(i)), nil
	case "mixed":
		switch i % 3 {
		case 0:
			return cbor.Text(strconv.Itoa(i)), cbor.Bool(i%2 == 0), nil
		case 1:
			return cbor.Int(-i), cbor.Null{}, nil
		default:
			return cbor.Bytes(bytes.Repeat([]byte{byte(i)}, 1+i%40)), cbor.Uint(i), nil
		}
	case "nested":
		inner, err := cbor.NewCanonicalMap(
			cbor.NewEntry(cbor.Text("type"), cbor.Text("FairPackageManagementRepo")),
			cbor.NewEntry(cbor.Text("endpoint"), cbor.Text("https://example.com/"+strconv.Itoa(i))),
		)
		if err != nil {
			return nil, nil, err
		}
		return cbor.Text("service-" + strconv.Itoa(i)), cbor.Array{inner, cbor.Uint(i)}, nil
	default:
		return nil, nil, fmt.Errorf("unknown map kind: %s", kind)
	}
}

// MustLoadMapFixture builds a map fixture and panics on error.
// Use this in benchmark setup code.
func MustLoadMapFixture(kind string, size int) *MapFixture {
	fixture, err := LoadMapFixture(kind, size)
	if err != nil {
		panic(fmt.Sprintf("failed to load %s map fixture: %v", kind, err))
	}
	return fixture
}

// MapKinds returns the list of supported map fixture kinds.
func MapKinds() []string {
	return []string{"text", "uint", "mixed", "nested"}
}

// MapSizes returns the entry counts used for map benchmarks.
func MapSizes() []int {
	return []int{8, 64, 1024}
}

// OperationFixture contains a pre-decoded operation for benchmarking.
type OperationFixture struct {
	Name string
	Cbor []byte
	Op   *plc.Operation
}

// LoadOperationFixtures decodes the shared operation log from internal/testdata.
func LoadOperationFixtures() ([]OperationFixture, error) {
	testOps := testdata.GetTestOperations()
	ret := make([]OperationFixture, 0, len(testOps))
	for _, testOp := range testOps {
		op, err := plc.DecodeOperation(testOp.Cbor)
		if err != nil {
			return nil, fmt.Errorf("decode %s operation: %w", testOp.Name, err)
		}
		ret = append(ret, OperationFixture{
			Name: testOp.Name,
			Cbor: testOp.Cbor,
			Op:   op,
		})
	}
	return ret, nil
}

// BenchSigner returns the ed25519 signer that produced the operation fixtures.
func BenchSigner() *plc.Ed25519Signer {
	signer, err := plc.NewEd25519Signer(bytes.Repeat([]byte{0x01}, 32))
	if err != nil {
		panic("failed to create signer: " + err.Error())
	}
	return signer
}
