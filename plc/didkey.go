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
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"
)

const didKeyPrefix = "did:key:"

var base58BTCEncoder = multibase.MustNewEncoder(multibase.Base58BTC)

// FormatEd25519DIDKey returns the did:key for an ed25519 public key
func FormatEd25519DIDKey(pubKey ed25519.PublicKey) string {
	return formatDIDKey(multicodec.Ed25519Pub, pubKey)
}

// FormatSecp256k1DIDKey returns the did:key for a secp256k1 public key, using the
// compressed point encoding
func FormatSecp256k1DIDKey(pubKey *btcec.PublicKey) string {
	return formatDIDKey(multicodec.Secp256k1Pub, pubKey.SerializeCompressed())
}

func formatDIDKey(codec multicodec.Code, keyData []byte) string {
	prefix := varint.ToUvarint(uint64(codec))
	data := make([]byte, 0, len(prefix)+len(keyData))
	data = append(data, prefix...)
	data = append(data, keyData...)
	return didKeyPrefix + base58BTCEncoder.Encode(data)
}

// ParseDIDKey decodes a did:key into a Verifier for its public key. Ed25519 and
// secp256k1 keys are supported.
func ParseDIDKey(didKey string) (Verifier, error) {
	encoded, ok := strings.CutPrefix(didKey, didKeyPrefix)
	if !ok {
		return nil, InvalidDIDKeyError{Key: didKey, Err: errors.New("missing did:key: prefix")}
	}
	encoding, data, err := multibase.Decode(encoded)
	if err != nil {
		return nil, InvalidDIDKeyError{Key: didKey, Err: err}
	}
	if encoding != multibase.Base58BTC {
		return nil, InvalidDIDKeyError{Key: didKey, Err: errors.New("not base58btc multibase")}
	}
	code, n, err := varint.FromUvarint(data)
	if err != nil {
		return nil, InvalidDIDKeyError{Key: didKey, Err: fmt.Errorf("read multicodec: %w", err)}
	}
	keyData := data[n:]
	switch multicodec.Code(code) {
	case multicodec.Ed25519Pub:
		if len(keyData) != ed25519.PublicKeySize {
			return nil, InvalidDIDKeyError{
				Key: didKey,
				Err: fmt.Errorf("ed25519 key must be %d bytes, got %d", ed25519.PublicKeySize, len(keyData)),
			}
		}
		if _, err := new(edwards25519.Point).SetBytes(keyData); err != nil {
			return nil, InvalidDIDKeyError{Key: didKey, Err: err}
		}
		return Ed25519Verifier(bytes.Clone(keyData)), nil
	case multicodec.Secp256k1Pub:
		pubKey, err := btcec.ParsePubKey(keyData)
		if err != nil {
			return nil, InvalidDIDKeyError{Key: didKey, Err: err}
		}
		return &Secp256k1Verifier{key: pubKey}, nil
	default:
		return nil, InvalidDIDKeyError{
			Key: didKey,
			Err: fmt.Errorf("unsupported key type %s", multicodec.Code(code)),
		}
	}
}
