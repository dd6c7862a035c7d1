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

package test

import (
	"encoding/hex"
	"fmt"

	"github.com/fairpm/minifair-go/cbor"
)

// DecodeHexString decodes a hex string, panicking on failure
func DecodeHexString(hexData string) []byte {
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// TextMap builds a CanonicalMap from alternating text keys and values, adding
// them in the order given. It panics on invalid input.
func TextMap(pairs ...any) *cbor.CanonicalMap {
	if len(pairs)%2 != 0 {
		panic("TextMap requires an even number of arguments")
	}
	ret := &cbor.CanonicalMap{}
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("TextMap key at position %d is %T, not string", i, pairs[i]))
		}
		value, err := cbor.FromNative(pairs[i+1])
		if err != nil {
			panic(fmt.Sprintf("TextMap value for key %q: %s", key, err))
		}
		if err := ret.Add(cbor.Text(key), value); err != nil {
			panic(fmt.Sprintf("TextMap add %q: %s", key, err))
		}
	}
	return ret
}

// EncodeHex encodes the value and returns the result as a hex string, panicking on failure
func EncodeHex(v cbor.Encodable) string {
	data, err := v.MarshalCBOR()
	if err != nil {
		panic(fmt.Sprintf("error encoding %T: %s", v, err))
	}
	return hex.EncodeToString(data)
}
