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

package cbor

import (
	_cbor "github.com/fxamacker/cbor/v2"
)

const (
	CborTypeUint       uint8 = 0x00
	CborTypeNegInt     uint8 = 0x20
	CborTypeByteString uint8 = 0x40
	CborTypeTextString uint8 = 0x60
	CborTypeArray      uint8 = 0x80
	CborTypeMap        uint8 = 0xa0
	CborTypeTag        uint8 = 0xc0
	CborTypeSimple     uint8 = 0xe0

	// Only the top 3 bits are used to specify the type
	CborTypeMask uint8 = 0xe0

	// Max value able to be stored in a single byte without type prefix
	CborMaxUintSimple uint8 = 0x17

	// Additional information values for heads
	cborAddInfoUint8  uint8 = 24
	cborAddInfoUint16 uint8 = 25
	cborAddInfoUint32 uint8 = 26
	cborAddInfoUint64 uint8 = 27
	cborAddInfoIndef  uint8 = 31
	cborAddInfoMask   uint8 = 0x1f

	cborSimpleFalse uint8 = 0xf4
	cborSimpleTrue  uint8 = 0xf5
	cborSimpleNull  uint8 = 0xf6
	cborBreak       uint8 = 0xff

	// Nesting limit applied when decoding
	maxNestedLevels = 256
)

// Create an alias for RawMessage for convenience
type RawMessage = _cbor.RawMessage

type DecodeStoreCborInterface interface {
	Cbor() []byte
	SetCbor([]byte)
}

// DecodeStoreCbor is embedded by types that must keep the exact bytes they were
// decoded from, since signatures and content hashes cover those bytes and not a
// re-encoding
type DecodeStoreCbor struct {
	cborData []byte
}

// Cbor returns the original CBOR for the object
func (d *DecodeStoreCbor) Cbor() []byte {
	return d.cborData
}

// SetCbor stores a copy of the provided CBOR data
func (d *DecodeStoreCbor) SetCbor(cborData []byte) {
	if cborData == nil {
		d.cborData = nil
		return
	}
	d.cborData = make([]byte, len(cborData))
	copy(d.cborData, cborData)
}
