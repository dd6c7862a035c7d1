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

package plc

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOperation = errors.New("invalid PLC operation")
	ErrNotGenesis       = errors.New("operation is not a genesis operation")
	ErrUnsigned         = errors.New("operation is not signed")
	ErrInvalidSignature = errors.New("invalid operation signature")
	ErrInvalidDID       = errors.New("invalid did:plc identifier")
	ErrInvalidDIDKey    = errors.New("invalid did:key")
)

// InvalidOperationError indicates an operation with a missing or malformed field
type InvalidOperationError struct {
	Field  string
	Reason string
}

func (e InvalidOperationError) Error() string {
	if e.Field == "" {
		return "invalid PLC operation: " + e.Reason
	}
	return fmt.Sprintf("invalid PLC operation field %q: %s", e.Field, e.Reason)
}

func (InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// InvalidDIDKeyError indicates a did:key that cannot be decoded or uses an unsupported key type
type InvalidDIDKeyError struct {
	Key string
	Err error
}

func (e InvalidDIDKeyError) Error() string {
	return fmt.Sprintf("invalid did:key %q: %v", e.Key, e.Err)
}

func (e InvalidDIDKeyError) Unwrap() error { return e.Err }

func (InvalidDIDKeyError) Is(target error) bool {
	return target == ErrInvalidDIDKey
}
