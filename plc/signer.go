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
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const secp256k1SignatureSize = 64

// Signer produces operation signatures
type Signer interface {
	Sign(data []byte) ([]byte, error)
	// DIDKey returns the did:key for the signer's public key
	DIDKey() string
}

// Verifier checks operation signatures
type Verifier interface {
	Verify(data []byte, sig []byte) bool
}

// Ed25519Signer signs with an ed25519 private key
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

// NewEd25519Signer creates a signer from a 32-byte seed
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf(
			"seed must be %d bytes, got %d",
			ed25519.SeedSize,
			len(seed),
		)
	}
	return &Ed25519Signer{key: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *Ed25519Signer) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(s.key, data), nil
}

func (s *Ed25519Signer) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *Ed25519Signer) DIDKey() string {
	return FormatEd25519DIDKey(s.PublicKey())
}

// Ed25519Verifier verifies signatures made with the matching ed25519 private key
type Ed25519Verifier ed25519.PublicKey

func (v Ed25519Verifier) Verify(data []byte, sig []byte) bool {
	if len(v) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(v), data, sig)
}

// Secp256k1Signer signs the sha256 of the data with a secp256k1 private key. The
// signature is the 64-byte r||s form with a low S value.
type Secp256k1Signer struct {
	key *btcec.PrivateKey
}

// NewSecp256k1Signer creates a signer from a 32-byte private key
func NewSecp256k1Signer(keyData []byte) (*Secp256k1Signer, error) {
	if len(keyData) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf(
			"private key must be %d bytes, got %d",
			btcec.PrivKeyBytesLen,
			len(keyData),
		)
	}
	privKey, _ := btcec.PrivKeyFromBytes(keyData)
	return &Secp256k1Signer{key: privKey}, nil
}

func (s *Secp256k1Signer) Sign(data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)
	compactSig := ecdsa.SignCompact(s.key, hash[:], true)
	// Drop the leading recovery byte
	return compactSig[1:], nil
}

func (s *Secp256k1Signer) PublicKey() *btcec.PublicKey {
	return s.key.PubKey()
}

func (s *Secp256k1Signer) DIDKey() string {
	return FormatSecp256k1DIDKey(s.PublicKey())
}

// Secp256k1Verifier verifies 64-byte r||s signatures over the sha256 of the data.
// High S values are rejected.
type Secp256k1Verifier struct {
	key *btcec.PublicKey
}

func NewSecp256k1Verifier(pubKey *btcec.PublicKey) *Secp256k1Verifier {
	return &Secp256k1Verifier{key: pubKey}
}

func (v *Secp256k1Verifier) Verify(data []byte, sig []byte) bool {
	if v.key == nil || len(sig) != secp256k1SignatureSize {
		return false
	}
	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}
	hash := sha256.Sum256(data)
	return ecdsa.NewSignature(&r, &s).Verify(hash[:], v.key)
}
