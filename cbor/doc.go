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

// Package cbor provides canonical CBOR encoding for signed, content-addressed records.
//
// Signatures over PLC operations cover an exact byte sequence, so every
// implementation must produce the same bytes for the same logical document. This
// package builds those bytes from a small value tree and wraps
// github.com/fxamacker/cbor/v2 for scalar encoding and decoding.
//
// # Key Types
//
// Value tree (all implement Encodable and Normalizable):
//   - Uint, Int: integers (major types 0 and 1)
//   - Bytes, Text: byte and text strings
//   - Bool, Null: simple values
//   - Array: definite-length array, encoded in order
//   - CanonicalMap: map encoded in canonical key order
//
// RawMessage holds pre-encoded CBOR. It is Encodable but not Normalizable.
//
// # Canonical Map Ordering
//
// CanonicalMap sorts entries at encode time by the encoded bytes of their keys:
// shorter encodings first, then unsigned byte-wise comparison (RFC 7049 §3.9,
// the DAG-CBOR rule). Insertion order never affects the output:
//
//	m := &cbor.CanonicalMap{}
//	_ = m.Add(cbor.Text("bb"), cbor.Uint(1))
//	_ = m.Add(cbor.Text("a"), cbor.Uint(2))
//	_ = m.Add(cbor.Text("c"), cbor.Uint(3))
//	data, _ := m.Encode() // keys emitted as "a", "c", "bb"
//
// Keys are identified by their normalized form, so adding a key twice replaces
// the first entry in place. Int(1) and Uint(1) are the same key.
//
// # Decoding
//
// DecodeValue turns CBOR back into a value tree and IsCanonical checks that
// received bytes match their canonical re-encoding. Types that must hash or
// verify their original bytes embed DecodeStoreCbor.
//
// # Gotchas
//
//  1. Hash computation: use the stored Cbor() bytes of a decoded object, not a re-encoding
//  2. Encode() on plain Go maps uses bytewise key order, not the canonical length-first
//     order; build a CanonicalMap (or use FromNative) for anything that gets signed
//  3. Floats, tags and indefinite-length items are not produced by the value tree
package cbor
