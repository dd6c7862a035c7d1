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
	"encoding/binary"
	"errors"
	"math"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

var (
	cachedEncMode     _cbor.EncMode
	cachedEncModeErr  error
	cachedEncModeOnce sync.Once
)

// getEncMode returns a cached EncMode, initializing it on first use.
// The mode uses Core Deterministic Encoding (RFC 8949 §4.2.1), which gives the
// shortest form for integer and length heads and forbids indefinite-length items.
func getEncMode() (_cbor.EncMode, error) {
	cachedEncModeOnce.Do(func() {
		encOptions := _cbor.CoreDetEncOptions()
		cachedEncMode, cachedEncModeErr = encOptions.EncMode()
	})
	return cachedEncMode, cachedEncModeErr
}

// Encode encodes arbitrary Go data to CBOR. Values from this package encode
// themselves through their MarshalCBOR() functions, so a CanonicalMap embedded in
// other data keeps its canonical key order.
func Encode(data any) ([]byte, error) {
	em, err := getEncMode()
	if err != nil {
		return nil, err
	}
	if em == nil {
		return nil, errors.New("CBOR encoder mode not initialized")
	}
	return em.Marshal(data)
}

// EncodeHead returns the minimal head for the given major type and argument. The
// argument is stored in the initial byte when it fits, otherwise in 1, 2, 4 or 8
// following bytes (big-endian).
func EncodeHead(majorType uint8, n uint64) []byte {
	majorType &= CborTypeMask
	ret := make([]byte, HeaderSize(n))
	switch len(ret) {
	case 1:
		ret[0] = majorType | uint8(n)
	case 2:
		ret[0] = majorType | cborAddInfoUint8
		ret[1] = uint8(n)
	case 3:
		ret[0] = majorType | cborAddInfoUint16
		binary.BigEndian.PutUint16(ret[1:], uint16(n))
	case 5:
		ret[0] = majorType | cborAddInfoUint32
		binary.BigEndian.PutUint32(ret[1:], uint32(n))
	default:
		ret[0] = majorType | cborAddInfoUint64
		binary.BigEndian.PutUint64(ret[1:], n)
	}
	return ret
}

// MapHeader returns the head for a definite-length map with count entries
func MapHeader(count int) []byte {
	if count < 0 {
		count = 0
	}
	return EncodeHead(CborTypeMap, uint64(count))
}

// ArrayHeader returns the head for a definite-length array with count items
func ArrayHeader(count int) []byte {
	if count < 0 {
		count = 0
	}
	return EncodeHead(CborTypeArray, uint64(count))
}

// HeaderSize returns the size in bytes of the minimal head for the given argument
func HeaderSize(n uint64) uint32 {
	switch {
	case n <= uint64(CborMaxUintSimple):
		return 1
	case n <= math.MaxUint8:
		return 2
	case n <= math.MaxUint16:
		return 3
	case n <= math.MaxUint32:
		return 5
	}
	return 9
}
