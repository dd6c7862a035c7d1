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

//go:build go1.18

package cbor

import "testing"

func FuzzDecode(f *testing.F) {
	// Seed corpus with valid CBOR samples
	f.Add([]byte{0xa0})                         // empty map
	f.Add([]byte{0x80})                         // empty array
	f.Add([]byte{0xbf, 0xff})                   // indefinite map
	f.Add([]byte{0x9f, 0xff})                   // indefinite array
	f.Add([]byte{0x00})                         // integer 0
	f.Add([]byte{0x18, 0x64})                   // integer 100
	f.Add([]byte{0x19, 0x27, 0x10})             // integer 10000
	f.Add([]byte{0x1a, 0x00, 0x01, 0x86, 0xa0}) // integer 100000
	f.Add(
		[]byte{0x3a, 0x00, 0x01, 0x86, 0x9f},
	) // negative integer -100000
	f.Add([]byte{0x40})                               // empty bytestring
	f.Add([]byte{0x44, 0x01, 0x02, 0x03, 0x04})       // bytestring
	f.Add([]byte{0x60})                               // empty text string
	f.Add([]byte{0x65, 0x68, 0x65, 0x6c, 0x6c, 0x6f}) // "hello"
	f.Add([]byte{0xf4})                               // false
	f.Add([]byte{0xf5})                               // true
	f.Add([]byte{0xf6})                               // null
	f.Add([]byte{0xf7})                               // undefined

	f.Fuzz(func(t *testing.T, data []byte) {
		var result any
		_, _ = Decode(data, &result)
		// Should not panic - that's the test
	})
}

func FuzzDecodeValue(f *testing.F) {
	f.Add([]byte{0xa0})
	f.Add([]byte{0xbf, 0x61, 0x61, 0x01, 0xff})
	f.Add([]byte{0xa2, 0x61, 0x62, 0x02, 0x61, 0x61, 0x01})
	f.Add([]byte{0xa1, 0x81, 0x01, 0x02})
	f.Add([]byte{0xa1, 0xf9, 0x3c, 0x00, 0x01})
	f.Add([]byte{0x3b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0xc1, 0x1a, 0x51, 0x4b, 0x67, 0xb0})

	f.Fuzz(func(t *testing.T, data []byte) {
		value, err := DecodeValue(data)
		if err != nil {
			return
		}
		encoded, err := value.MarshalCBOR()
		if err != nil {
			t.Fatalf("failed to encode decoded value: %s", err)
		}
		// The canonical form is a fixed point
		again, err := DecodeValue(encoded)
		if err != nil {
			t.Fatalf("failed to decode canonical form %x: %s", encoded, err)
		}
		reencoded, err := again.MarshalCBOR()
		if err != nil {
			t.Fatalf("failed to re-encode: %s", err)
		}
		if string(encoded) != string(reencoded) {
			t.Fatalf("canonical encoding is not stable: %x != %x", encoded, reencoded)
		}
		if err := IsCanonical(encoded); err != nil {
			t.Fatalf("canonical form %x rejected: %s", encoded, err)
		}
	})
}

func FuzzDecodeStruct(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		type TestStruct struct {
			Field1 uint64
			Field2 []byte
			Field3 string
		}
		var result TestStruct
		_, _ = Decode(data, &result)
	})
}
