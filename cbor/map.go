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
	"fmt"
	"iter"
	"slices"
)

// Entry is a key/value pair held by a CanonicalMap
type Entry struct {
	Key   Encodable
	Value Encodable
}

func NewEntry(key Encodable, value Encodable) Entry {
	return Entry{Key: key, Value: value}
}

// rawKey identifies entries whose key cannot be normalized, such as composite
// keys or pre-encoded keys holding tags or floats. These are identified by their
// canonical encoding.
type rawKey string

// CanonicalMap is a CBOR map that encodes its entries in canonical order: keys
// sorted by the length of their encoding, then by the encoded bytes (RFC 7049
// §3.9, as required by DAG-CBOR). Entries are kept in insertion order for
// iteration, and at most one entry exists per normalized key.
//
// The zero value is an empty map ready to use. Reads may run concurrently, but
// Add, Set and Remove must not run concurrently with any other call.
type CanonicalMap struct {
	entries []Entry
	// normalized key => position in entries
	index map[any]int
	// map head for the current entry count, recomputed on every mutation
	header []byte
}

// NewCanonicalMap creates a map from the given entries. Later entries replace
// earlier ones with the same key. Keys without a Normalize() function are
// accepted, which keeps the map encodable but makes Normalize() fail. A
// pre-encoded key shares the identity of the value it decodes to, so
// RawMessage{0x61, 0x61} and Text("a") are the same key. Pre-encoded keys that
// are not a single well-formed CBOR item are rejected.
func NewCanonicalMap(entries ...Entry) (*CanonicalMap, error) {
	for idx, entry := range entries {
		if entry.Key == nil {
			return nil, InvalidEntryError{Index: idx, Reason: "nil key"}
		}
		if entry.Value == nil {
			return nil, InvalidEntryError{Index: idx, Reason: "nil value"}
		}
	}
	m := &CanonicalMap{}
	for idx, entry := range entries {
		identity, err := entryIdentity(entry.Key)
		if err != nil {
			return nil, InvalidEntryError{
				Index:  idx,
				Reason: err.Error(),
			}
		}
		m.put(identity, entry)
	}
	m.updateHeader()
	return m, nil
}

// entryIdentity returns the index key for an entry key
func entryIdentity(key Encodable) (any, error) {
	if _, ok := key.(Normalizable); ok {
		if identity, err := NormalizeKey(key); err == nil {
			return identity, nil
		}
		data, err := key.MarshalCBOR()
		if err != nil {
			return nil, fmt.Errorf("encode key: %w", err)
		}
		return rawKey(data), nil
	}
	data, err := key.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encode key: %w", err)
	}
	decoded, err := DecodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if _, ok := decoded.(Normalizable); ok {
		if identity, err := NormalizeKey(decoded); err == nil {
			return identity, nil
		}
	}
	canonical, err := decoded.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encode key: %w", err)
	}
	return rawKey(canonical), nil
}

// lookupIdentity returns the index key for a lookup, or false if the key cannot
// possibly be present
func lookupIdentity(key any) (any, bool) {
	if enc, ok := key.(Encodable); ok {
		identity, err := entryIdentity(enc)
		return identity, err == nil
	}
	identity, err := NormalizeKey(key)
	return identity, err == nil
}

// Add stores value under key, replacing any entry with the same normalized key
// in place. The key must have a Normalize() function.
func (m *CanonicalMap) Add(key Encodable, value Encodable) error {
	return m.Set(NewEntry(key, value))
}

// Set stores the entry, replacing any entry with the same normalized key in place
func (m *CanonicalMap) Set(entry Entry) error {
	if entry.Key == nil {
		return NotNormalizableError{Key: nil}
	}
	if _, ok := entry.Key.(Normalizable); !ok {
		return NotNormalizableError{Key: entry.Key}
	}
	if entry.Value == nil {
		return InvalidEntryError{Index: -1, Reason: "nil value"}
	}
	identity, err := NormalizeKey(entry.Key)
	if err != nil {
		return err
	}
	m.put(identity, entry)
	m.updateHeader()
	return nil
}

func (m *CanonicalMap) put(identity any, entry Entry) {
	if m.index == nil {
		m.index = make(map[any]int)
	}
	if idx, ok := m.index[identity]; ok {
		m.entries[idx] = entry
		return
	}
	m.index[identity] = len(m.entries)
	m.entries = append(m.entries, entry)
}

// Has returns whether an entry exists for the key. The key may be a normalized
// value (such as "a", uint64(1) or a ByteString) or a value from this package.
func (m *CanonicalMap) Has(key any) bool {
	_, ok := m.find(key)
	return ok
}

// Get returns the value stored for the key
func (m *CanonicalMap) Get(key any) (Encodable, error) {
	idx, ok := m.find(key)
	if !ok {
		return nil, NotFoundError{Key: key}
	}
	return m.entries[idx].Value, nil
}

func (m *CanonicalMap) find(key any) (int, bool) {
	if m == nil || m.index == nil {
		return 0, false
	}
	identity, ok := lookupIdentity(key)
	if !ok {
		return 0, false
	}
	idx, ok := m.index[identity]
	return idx, ok
}

// Remove deletes the entry for the key. Removing a missing key is a no-op.
func (m *CanonicalMap) Remove(key any) {
	idx, ok := m.find(key)
	if !ok {
		return
	}
	for identity, pos := range m.index {
		switch {
		case pos == idx:
			delete(m.index, identity)
		case pos > idx:
			m.index[identity] = pos - 1
		}
	}
	m.entries = slices.Delete(m.entries, idx, idx+1)
	m.updateHeader()
}

// Count returns the number of entries
func (m *CanonicalMap) Count() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Header returns the map head for the current entry count
func (m *CanonicalMap) Header() []byte {
	if m == nil || m.header == nil {
		return MapHeader(0)
	}
	return slices.Clone(m.header)
}

func (m *CanonicalMap) updateHeader() {
	m.header = MapHeader(len(m.entries))
}

// Entries iterates over the keys and values in insertion order
func (m *CanonicalMap) Entries() iter.Seq2[Encodable, Encodable] {
	return func(yield func(Encodable, Encodable) bool) {
		if m == nil {
			return
		}
		for _, entry := range m.entries {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

// All returns a copy of the entries in insertion order
func (m *CanonicalMap) All() []Entry {
	if m == nil {
		return nil
	}
	return slices.Clone(m.entries)
}

// Normalize returns a map[any]any of normalized keys to normalized values. Values
// without a Normalize() function are returned as-is.
func (m *CanonicalMap) Normalize() (any, error) {
	ret := map[any]any{}
	if m == nil {
		return ret, nil
	}
	for _, entry := range m.entries {
		if _, ok := entry.Key.(Normalizable); !ok {
			return nil, NotNormalizableError{Key: entry.Key}
		}
		key, err := NormalizeKey(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := normalizeValue(entry.Value)
		if err != nil {
			return nil, err
		}
		ret[key] = value
	}
	return ret, nil
}

// CompareKeys orders two encoded map keys canonically: shorter encodings first,
// then by unsigned byte-wise comparison
func CompareKeys(a []byte, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

type encodedEntry struct {
	key   []byte
	value Encodable
}

// MarshalCBOR encodes the map with its entries in canonical key order. It does
// not modify the map.
func (m *CanonicalMap) MarshalCBOR() ([]byte, error) {
	if m == nil {
		return []byte{cborSimpleNull}, nil
	}
	sorted := make([]encodedEntry, 0, len(m.entries))
	size := 0
	for _, entry := range m.entries {
		keyData, err := entry.Key.MarshalCBOR()
		if err != nil {
			return nil, fmt.Errorf("encode map key: %w", err)
		}
		sorted = append(
			sorted,
			encodedEntry{key: keyData, value: entry.Value},
		)
		size += len(keyData)
	}
	// Keys are unique by identity, so equal encodings can only come from a
	// RawMessage key duplicating a normalized one. A stable sort keeps that case
	// deterministic for a given insertion order.
	slices.SortStableFunc(sorted, func(a, b encodedEntry) int {
		return CompareKeys(a.key, b.key)
	})
	header := m.Header()
	ret := bytes.NewBuffer(make([]byte, 0, len(header)+size))
	ret.Write(header)
	for _, entry := range sorted {
		ret.Write(entry.key)
		valueData, err := entry.value.MarshalCBOR()
		if err != nil {
			return nil, fmt.Errorf("encode map value: %w", err)
		}
		ret.Write(valueData)
	}
	return ret.Bytes(), nil
}

// Encode returns the canonical encoding of the map
func (m *CanonicalMap) Encode() ([]byte, error) {
	return m.MarshalCBOR()
}
