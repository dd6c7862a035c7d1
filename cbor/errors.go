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
	"errors"
	"fmt"
)

var (
	ErrInvalidEntry    = errors.New("invalid map entry")
	ErrNotNormalizable = errors.New("key is not normalizable")
	ErrNotFound        = errors.New("key not found")
	ErrDuplicateKey    = errors.New("duplicate map key")
	ErrNotCanonical    = errors.New("data is not canonically encoded")
	ErrUnsupportedType = errors.New("unsupported type")
)

// InvalidEntryError indicates a malformed entry passed to NewCanonicalMap
type InvalidEntryError struct {
	Index  int
	Reason string
}

func (e InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid map entry at index %d: %s", e.Index, e.Reason)
}

func (InvalidEntryError) Is(target error) bool {
	return target == ErrInvalidEntry
}

// NotNormalizableError indicates a key that cannot be reduced to a comparable native value
type NotNormalizableError struct {
	Key any
	Err error
}

func (e NotNormalizableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key of type %T is not normalizable: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("key of type %T is not normalizable", e.Key)
}

func (e NotNormalizableError) Unwrap() error { return e.Err }

func (NotNormalizableError) Is(target error) bool {
	return target == ErrNotNormalizable
}

// NotFoundError indicates a lookup of a key that is not present in a map
type NotFoundError struct {
	Key any
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("key not found: %#v", e.Key)
}

func (NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateKeyError indicates decoded map data containing the same key more than once
type DuplicateKeyError struct {
	Key any
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate map key: %#v", e.Key)
}

func (DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// NotCanonicalError reports the first byte offset at which the input differs
// from its canonical re-encoding
type NotCanonicalError struct {
	Offset int
}

func (e NotCanonicalError) Error() string {
	return fmt.Sprintf("data is not canonically encoded: first difference at byte %d", e.Offset)
}

func (NotCanonicalError) Is(target error) bool {
	return target == ErrNotCanonical
}

// UnsupportedTypeError indicates a native Go value with no CBOR value tree equivalent
type UnsupportedTypeError struct {
	Value any
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type: %T", e.Value)
}

func (UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
