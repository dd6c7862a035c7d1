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
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

var (
	cachedDecMode     _cbor.DecMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once
)

// getDecMode returns a cached DecMode, initializing it on first use.
// Uses sync.Once for thread-safe lazy initialization.
// Returns the cached error if initialization failed.
func getDecMode() (_cbor.DecMode, error) {
	cachedDecModeOnce.Do(func() {
		decOptions := _cbor.DecOptions{
			ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
			MaxNestedLevels:   maxNestedLevels,
		}
		cachedDecMode, cachedDecModeErr = decOptions.DecMode()
	})
	return cachedDecMode, cachedDecModeErr
}

// Decode decodes the first CBOR item in dataBytes into dest and returns the number
// of bytes read
func Decode(dataBytes []byte, dest any) (int, error) {
	d, err := NewStreamDecoder(dataBytes)
	if err != nil {
		return 0, err
	}
	_, length, err := d.Decode(dest)
	return length, err
}

// DecodeValue decodes exactly one CBOR item into a value tree. Maps become
// CanonicalMaps, and items outside the supported set (tags, floats, other simple
// values, negative integers below the int64 range) are kept as RawMessage.
// Maps containing the same key more than once are rejected.
func DecodeValue(data []byte) (Encodable, error) {
	decMode, err := getDecMode()
	if err != nil {
		return nil, err
	}
	if err := decMode.Wellformed(data); err != nil {
		return nil, err
	}
	return decodeValue(data)
}

// decodeValue decodes a single well-formed item
func decodeValue(item []byte) (Encodable, error) {
	switch item[0] & CborTypeMask {
	case CborTypeUint:
		var tmpValue uint64
		if err := decodeScalar(item, &tmpValue); err != nil {
			return nil, err
		}
		return Uint(tmpValue), nil
	case CborTypeNegInt:
		var tmpValue int64
		if err := decodeScalar(item, &tmpValue); err != nil {
			// Out of range for int64
			return RawMessage(slices.Clone(item)), nil
		}
		return Int(tmpValue), nil
	case CborTypeByteString:
		var tmpValue []byte
		if err := decodeScalar(item, &tmpValue); err != nil {
			return nil, err
		}
		return Bytes(tmpValue), nil
	case CborTypeTextString:
		var tmpValue string
		if err := decodeScalar(item, &tmpValue); err != nil {
			return nil, err
		}
		return Text(tmpValue), nil
	case CborTypeArray:
		return decodeArray(item)
	case CborTypeMap:
		return decodeMap(item)
	case CborTypeSimple:
		switch item[0] {
		case cborSimpleFalse:
			return Bool(false), nil
		case cborSimpleTrue:
			return Bool(true), nil
		case cborSimpleNull:
			return Null{}, nil
		}
	}
	return RawMessage(slices.Clone(item)), nil
}

// decodeScalar decodes an item that must fill all of item
func decodeScalar(item []byte, dest any) error {
	n, err := Decode(item, dest)
	if err != nil {
		return err
	}
	if n != len(item) {
		return fmt.Errorf("%d trailing bytes after item", len(item)-n)
	}
	return nil
}

// checkTrailing fails if the decoder has not consumed all of its data
func checkTrailing(d *StreamDecoder) error {
	if d.EOF() {
		return nil
	}
	return fmt.Errorf("%d trailing bytes after item", len(d.Data())-d.Position())
}

func decodeArray(item []byte) (Array, error) {
	d, err := NewStreamDecoder(item)
	if err != nil {
		return nil, err
	}
	count, _, _, err := d.DecodeArrayHeader()
	if err != nil {
		return nil, err
	}
	ret := Array{}
	for idx := 0; count < 0 || idx < count; idx++ {
		if count < 0 && d.atBreak() {
			break
		}
		itemData, err := d.NextRaw()
		if err != nil {
			return nil, fmt.Errorf("array item %d: %w", idx, err)
		}
		tmpItem, err := decodeValue(itemData)
		if err != nil {
			return nil, fmt.Errorf("array item %d: %w", idx, err)
		}
		ret = append(ret, tmpItem)
	}
	if err := checkTrailing(d); err != nil {
		return nil, err
	}
	return ret, nil
}

func decodeMap(item []byte) (*CanonicalMap, error) {
	d, err := NewStreamDecoder(item)
	if err != nil {
		return nil, err
	}
	count, _, _, err := d.DecodeMapHeader()
	if err != nil {
		return nil, err
	}
	ret := &CanonicalMap{}
	for idx := 0; count < 0 || idx < count; idx++ {
		if count < 0 && d.atBreak() {
			break
		}
		keyData, err := d.NextRaw()
		if err != nil {
			return nil, fmt.Errorf("map entry %d key: %w", idx, err)
		}
		valueData, err := d.NextRaw()
		if err != nil {
			return nil, fmt.Errorf("map entry %d value: %w", idx, err)
		}
		key, err := decodeValue(keyData)
		if err != nil {
			return nil, fmt.Errorf("map entry %d key: %w", idx, err)
		}
		value, err := decodeValue(valueData)
		if err != nil {
			return nil, fmt.Errorf("map entry %d value: %w", idx, err)
		}
		identity, err := entryIdentity(key)
		if err != nil {
			return nil, fmt.Errorf("map entry %d key: %w", idx, err)
		}
		if _, ok := ret.index[identity]; ok {
			return nil, DuplicateKeyError{Key: identity}
		}
		ret.put(identity, NewEntry(key, value))
	}
	if err := checkTrailing(d); err != nil {
		return nil, err
	}
	ret.updateHeader()
	return ret, nil
}

// IsCanonical returns nil if data is a single CBOR item that is byte-for-byte
// identical to its canonical re-encoding. Items kept as RawMessage by DecodeValue
// are compared verbatim.
func IsCanonical(data []byte) error {
	tmpValue, err := DecodeValue(data)
	if err != nil {
		return err
	}
	reencoded, err := tmpValue.MarshalCBOR()
	if err != nil {
		return err
	}
	if bytes.Equal(data, reencoded) {
		return nil
	}
	offset := 0
	for offset < len(data) && offset < len(reencoded) && data[offset] == reencoded[offset] {
		offset++
	}
	return NotCanonicalError{Offset: offset}
}

// StreamDecoder provides sequential CBOR decoding with position tracking.
// It wraps the underlying decoder to track byte offsets of each decoded item.
type StreamDecoder struct {
	dec      *_cbor.Decoder
	decMode  _cbor.DecMode // cached decode mode for reuse in Advance()
	data     []byte
	consumed int // bytes consumed by Advance() calls
}

// NewStreamDecoder creates a decoder for sequential CBOR item extraction with position tracking.
func NewStreamDecoder(data []byte) (*StreamDecoder, error) {
	decMode, err := getDecMode()
	if err != nil {
		return nil, err
	}
	if decMode == nil {
		return nil, errors.New("CBOR decoder mode not initialized")
	}
	return &StreamDecoder{
		dec:     decMode.NewDecoder(bytes.NewReader(data)),
		decMode: decMode,
		data:    data,
	}, nil
}

// Position returns the current byte position in the stream.
func (d *StreamDecoder) Position() int {
	return d.consumed + d.dec.NumBytesRead()
}

// Decode decodes the next CBOR item into dest and returns its byte range.
// Returns (startOffset, length, error).
func (d *StreamDecoder) Decode(dest any) (int, int, error) {
	start := d.Position()
	if err := d.dec.Decode(dest); err != nil {
		return 0, 0, err
	}
	return start, d.Position() - start, nil
}

// Skip skips the next CBOR item and returns its byte range.
// Returns (startOffset, length, error).
func (d *StreamDecoder) Skip() (int, int, error) {
	start := d.Position()
	if err := d.dec.Skip(); err != nil {
		return 0, 0, err
	}
	return start, d.Position() - start, nil
}

// NextRaw skips the next CBOR item and returns its raw bytes
func (d *StreamDecoder) NextRaw() ([]byte, error) {
	start, length, err := d.Skip()
	if err != nil {
		return nil, err
	}
	ret := d.RawBytes(start, length)
	if ret == nil {
		return nil, errors.New("item exceeds data bounds")
	}
	return ret, nil
}

// RawBytes returns the raw bytes for the given offset and length.
func (d *StreamDecoder) RawBytes(offset, length int) []byte {
	// Check for negative values and integer overflow
	if offset < 0 || length < 0 {
		return nil
	}
	end := offset + length
	// Check for integer overflow: if end < offset, overflow occurred
	if end < offset || end > len(d.data) {
		return nil
	}
	return d.data[offset:end]
}

// Data returns the underlying byte slice.
func (d *StreamDecoder) Data() []byte {
	return d.data
}

// EOF returns true if the decoder has reached the end of the data.
func (d *StreamDecoder) EOF() bool {
	return d.Position() >= len(d.data)
}

// Advance moves the decoder position forward by n bytes without decoding.
// This is useful for skipping past headers that were parsed manually.
// Returns an error if n would advance past the end of data.
func (d *StreamDecoder) Advance(n int) error {
	if n < 0 {
		return errors.New("cannot advance by negative amount")
	}
	newPos := d.Position() + n
	if newPos > len(d.data) {
		return errors.New("advance would exceed data bounds")
	}
	d.consumed = newPos
	// Reinitialize decoder with remaining data, reusing cached DecMode
	d.dec = d.decMode.NewDecoder(bytes.NewReader(d.data[d.consumed:]))
	return nil
}

// atBreak consumes and reports a "break" stop code at the current position
func (d *StreamDecoder) atBreak() bool {
	pos := d.Position()
	if pos >= len(d.data) || d.data[pos] != cborBreak {
		return false
	}
	return d.Advance(1) == nil
}

// DecodeArrayHeader decodes a CBOR array header and returns the number of elements.
// This advances the position past the header only, not the array contents.
// The length is -1 for an indefinite-length array, whose items end with a break code.
// Returns (arrayLength, headerOffset, headerLength, error).
func (d *StreamDecoder) DecodeArrayHeader() (int, int, int, error) {
	return d.decodeHeader(CborTypeArray)
}

// DecodeMapHeader decodes a CBOR map header and returns the number of key-value pairs.
// This advances the position past the header only, not the map contents.
// The length is -1 for an indefinite-length map, whose entries end with a break code.
// Returns (mapLength, headerOffset, headerLength, error).
func (d *StreamDecoder) DecodeMapHeader() (int, int, int, error) {
	return d.decodeHeader(CborTypeMap)
}

func (d *StreamDecoder) decodeHeader(majorType uint8) (int, int, int, error) {
	absStart := d.Position()
	if absStart >= len(d.data) {
		return 0, 0, 0, errors.New("unexpected end of data")
	}
	if d.data[absStart]&CborTypeMask != majorType {
		return 0, 0, 0, fmt.Errorf(
			"expected major type 0x%x, got 0x%x",
			majorType,
			d.data[absStart]&CborTypeMask,
		)
	}
	length, headerLen, indef := headInfo(d.data[absStart:], majorType)
	if length < 0 {
		return 0, 0, 0, fmt.Errorf(
			"invalid or truncated header for major type 0x%x",
			majorType,
		)
	}
	if indef {
		length = -1
	}
	// Advance the decoder position past the header
	if err := d.Advance(int(headerLen)); err != nil {
		return 0, 0, 0, err
	}
	return length, absStart, int(headerLen), nil
}

// ArrayInfo extracts array item count and header size from CBOR array data.
// Returns (count, headerSize, isIndefinite). Count is -1 for invalid headers.
func ArrayInfo(data []byte) (int, uint32, bool) {
	return headInfo(data, CborTypeArray)
}

// MapInfo extracts map item count and header size from CBOR map data.
// Returns (count, headerSize, isIndefinite). Count is -1 for invalid headers.
func MapInfo(data []byte) (int, uint32, bool) {
	return headInfo(data, CborTypeMap)
}

func headInfo(data []byte, majorType uint8) (int, uint32, bool) {
	if len(data) == 0 {
		return -1, 0, false
	}
	firstByte := data[0]
	if firstByte&CborTypeMask != majorType {
		return -1, 0, false
	}
	additional := firstByte & cborAddInfoMask
	switch {
	case additional <= CborMaxUintSimple:
		return int(additional), 1, false
	case additional == cborAddInfoUint8 && len(data) >= 2:
		return int(data[1]), 2, false
	case additional == cborAddInfoUint16 && len(data) >= 3:
		return int(uint16(data[1])<<8 | uint16(data[2])), 3, false
	case additional == cborAddInfoUint32 && len(data) >= 5:
		// 4-byte length - check for overflow before converting to int
		len32 := uint32(data[1])<<24 | uint32(data[2])<<16 | uint32(data[3])<<8 | uint32(data[4])
		if len32 > uint32(math.MaxInt32) {
			return -1, 0, false // Too large to handle
		}
		return int(len32), 5, false
	case additional == cborAddInfoUint64 && len(data) >= 9:
		len64 := uint64(data[1])<<56 | uint64(data[2])<<48 |
			uint64(data[3])<<40 | uint64(data[4])<<32 |
			uint64(data[5])<<24 | uint64(data[6])<<16 |
			uint64(data[7])<<8 | uint64(data[8])
		if len64 > uint64(math.MaxInt32) {
			return -1, 0, false // Too large to handle
		}
		return int(len64), 9, false
	case additional == cborAddInfoIndef:
		return 0, 1, true // Indefinite length
	default:
		return -1, 0, false
	}
}
