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
	"crypto/sha256"
	"regexp"
	"strings"

	"github.com/multiformats/go-multibase"
)

const (
	didPrefix    = "did:plc:"
	didSuffixLen = 24
)

var didRegexp = regexp.MustCompile(`^did:plc:[a-z2-7]{24}$`)

// Lowercase RFC 4648 base32 without padding, behind the multibase "b" prefix
var base32Encoder = multibase.MustNewEncoder(multibase.Base32)

// DID is a did:plc identifier
type DID struct {
	id string
}

// ParseDID validates a did:plc identifier
func ParseDID(did string) (DID, error) {
	if !didRegexp.MatchString(did) {
		return DID{}, ErrInvalidDID
	}
	return DID{id: did}, nil
}

// didFromSignedBytes derives the identifier for a signed genesis operation
func didFromSignedBytes(data []byte) DID {
	hash := sha256.Sum256(data)
	// Drop the multibase prefix
	suffix := base32Encoder.Encode(hash[:])[1:]
	return DID{id: didPrefix + suffix[:didSuffixLen]}
}

func (d DID) String() string {
	return d.id
}

// Suffix returns the identifier without the "did:plc:" prefix
func (d DID) Suffix() string {
	return strings.TrimPrefix(d.id, didPrefix)
}

func (d DID) IsZero() bool {
	return d.id == ""
}

func (d DID) MarshalText() ([]byte, error) {
	return []byte(d.id), nil
}

func (d *DID) UnmarshalText(data []byte) error {
	tmpDID, err := ParseDID(string(data))
	if err != nil {
		return err
	}
	*d = tmpDID
	return nil
}
