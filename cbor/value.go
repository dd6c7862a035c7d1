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
	"fmt"
	"reflect"
)

// Encodable is any value that can produce its own CBOR encoding. The method
// matches the upstream Marshaler interface, so these values can also be passed
// to Encode() or embedded in structs.
type Encodable interface {
	MarshalCBOR() ([]byte, error)
}

// Normalizable is a value that can produce a plain Go representation of itself
// for comparisons and map lookups
type Normalizable interface {
	Normalize() (any, error)
}

// Uint is an unsigned integer (major type 0)
type Uint uint64

func (u Uint) MarshalCBOR() ([]byte, error) {
	return Encode(uint64(u))
}

func (u Uint) Normalize() (any, error) {
	return uint64(u), nil
}

// Int is a signed integer. Negative values use major type 1, others major type 0.
type Int int64

func (i Int) MarshalCBOR() ([]byte, error) {
	return Encode(int64(i))
}

// Normalize returns an int64 for negative values and a uint64 otherwise. Int(1)
// and Uint(1) share an encoding, so they must also share a normalized form.
func (i Int) Normalize() (any, error) {
	if i < 0 {
		return int64(i), nil
	}
	return uint64(i), nil
}

// Bytes is a byte string (major type 2)
type Bytes []byte

func (b Bytes) MarshalCBOR() ([]byte, error) {
	if b == nil {
		// The upstream encoder writes a nil slice as null
		return Encode([]byte{})
	}
	return Encode([]byte(b))
}

func (b Bytes) Normalize() (any, error) {
	return NewByteString(b), nil
}

// Text is a UTF-8 text string (major type 3)
type Text string

func (t Text) MarshalCBOR() ([]byte, error) {
	return Encode(string(t))
}

func (t Text) Normalize() (any, error) {
	return string(t), nil
}

// Bool is a boolean simple value
type Bool bool

func (b Bool) MarshalCBOR() ([]byte, error) {
	if b {
		return []byte{cborSimpleTrue}, nil
	}
	return []byte{cborSimpleFalse}, nil
}

func (b Bool) Normalize() (any, error) {
	return bool(b), nil
}

// Null is the null simple value
type Null struct{}

func (Null) MarshalCBOR() ([]byte, error) {
	return []byte{cborSimpleNull}, nil
}

func (Null) Normalize() (any, error) {
	return nil, nil
}

// Array is a definite-length array whose items are encoded in order
type Array []Encodable

func (a Array) MarshalCBOR() ([]byte, error) {
	ret := ArrayHeader(len(a))
	for idx, item := range a {
		if item == nil {
			return nil, fmt.Errorf("array item %d is nil", idx)
		}
		data, err := item.MarshalCBOR()
		if err != nil {
			return nil, fmt.Errorf("encode array item %d: %w", idx, err)
		}
		ret = append(ret, data...)
	}
	return ret, nil
}

// Normalize returns a []any. Items without a Normalize() function are returned as-is.
func (a Array) Normalize() (any, error) {
	ret := make([]any, 0, len(a))
	for _, item := range a {
		tmpItem, err := normalizeValue(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, tmpItem)
	}
	return ret, nil
}

// Normalize converts a value tree into native Go values: uint64/int64 for
// integers, string, ByteString, bool, nil, []any and map[any]any. It fails with
// ErrNotNormalizable if v (or any map key below it) lacks a Normalize() function.
func Normalize(v Encodable) (any, error) {
	n, ok := v.(Normalizable)
	if !ok {
		return nil, NotNormalizableError{Key: v}
	}
	return n.Normalize()
}

// normalizeValue normalizes map and array members. Values that cannot normalize
// themselves are already in their final form.
func normalizeValue(v Encodable) (any, error) {
	if n, ok := v.(Normalizable); ok {
		return n.Normalize()
	}
	return v, nil
}

// NormalizeKey returns the comparable identity used for map lookups. Values with
// a Normalize() function are normalized, Go integers and byte slices are mapped to
// the same forms that Uint/Int/Bytes normalize to, and anything else is used as-is.
func NormalizeKey(key any) (any, error) {
	var ret any
	switch v := key.(type) {
	case Normalizable:
		tmp, err := v.Normalize()
		if err != nil {
			return nil, NotNormalizableError{Key: key, Err: err}
		}
		ret = tmp
	case []byte:
		ret = NewByteString(v)
	case int:
		ret = Int(v).normalizeInt()
	case int8:
		ret = Int(v).normalizeInt()
	case int16:
		ret = Int(v).normalizeInt()
	case int32:
		ret = Int(v).normalizeInt()
	case int64:
		ret = Int(v).normalizeInt()
	case uint:
		ret = uint64(v)
	case uint8:
		ret = uint64(v)
	case uint16:
		ret = uint64(v)
	case uint32:
		ret = uint64(v)
	default:
		ret = key
	}
	if !isComparable(ret) {
		return nil, NotNormalizableError{
			Key: key,
			Err: fmt.Errorf("normalized form %T is not comparable", ret),
		}
	}
	return ret, nil
}

func (i Int) normalizeInt() any {
	ret, _ := i.Normalize()
	return ret
}

// isComparable reports whether v can be used as a Go map key without panicking
func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}
