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
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/fairpm/minifair-go/cbor"
	"github.com/ipfs/go-cid"
	"github.com/jinzhu/copier"
	"github.com/multiformats/go-multihash"
)

const (
	OperationTypeOperation = "plc_operation"
	OperationTypeTombstone = "plc_tombstone"
)

// Service is an endpoint advertised by a DID document
type Service struct {
	Type     string `json:"type"`
	Endpoint string `json:"endpoint"`
}

// Operation is a signed entry in a did:plc operation log
type Operation struct {
	cbor.DecodeStoreCbor `json:"-"`
	Type                 string             `json:"type"`
	RotationKeys         []string           `json:"rotationKeys,omitempty"`
	VerificationMethods  map[string]string  `json:"verificationMethods,omitempty"`
	AlsoKnownAs          []string           `json:"alsoKnownAs,omitempty"`
	Services             map[string]Service `json:"services,omitempty"`
	Prev                 *string            `json:"prev"`
	Sig                  string             `json:"sig,omitempty"`
}

// ParseOperationJSON decodes an operation from its JSON form. Unknown fields are rejected.
func ParseOperationJSON(data []byte) (*Operation, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var op Operation
	if err := dec.Decode(&op); err != nil {
		return nil, InvalidOperationError{Reason: err.Error()}
	}
	if err := op.validate(); err != nil {
		return nil, err
	}
	return &op, nil
}

// DecodeOperation decodes a signed or unsigned operation from canonical CBOR. The
// original bytes are kept and used for CID() and DID().
func DecodeOperation(data []byte) (*Operation, error) {
	if err := cbor.IsCanonical(data); err != nil {
		return nil, fmt.Errorf("decode operation: %w", err)
	}
	tmpValue, err := cbor.DecodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("decode operation: %w", err)
	}
	m, ok := tmpValue.(*cbor.CanonicalMap)
	if !ok {
		return nil, InvalidOperationError{Reason: fmt.Sprintf("expected a map, got %T", tmpValue)}
	}
	op, err := operationFromMap(m)
	if err != nil {
		return nil, err
	}
	// Fields with a default value (such as an empty sig) would be dropped when
	// encoding, so the decoded form must reproduce the input exactly
	m, err = op.Map()
	if err != nil {
		return nil, err
	}
	encoded, err := m.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(encoded, data) {
		return nil, InvalidOperationError{Reason: "missing or empty fields"}
	}
	op.SetCbor(data)
	return op, nil
}

func operationFromMap(m *cbor.CanonicalMap) (*Operation, error) {
	op := &Operation{}
	for key, value := range m.Entries() {
		name, ok := key.(cbor.Text)
		if !ok {
			return nil, InvalidOperationError{Reason: fmt.Sprintf("unexpected key type %T", key)}
		}
		field := string(name)
		var err error
		switch field {
		case "type":
			op.Type, err = asText(value)
		case "rotationKeys":
			op.RotationKeys, err = asTextList(value)
		case "verificationMethods":
			op.VerificationMethods, err = asTextMap(value)
		case "alsoKnownAs":
			op.AlsoKnownAs, err = asTextList(value)
		case "services":
			op.Services, err = asServices(value)
		case "prev":
			if _, isNull := value.(cbor.Null); isNull {
				break
			}
			var prev string
			prev, err = asText(value)
			op.Prev = &prev
		case "sig":
			op.Sig, err = asText(value)
		default:
			return nil, InvalidOperationError{Field: field, Reason: "unknown field"}
		}
		if err != nil {
			return nil, InvalidOperationError{Field: field, Reason: err.Error()}
		}
	}
	return op, nil
}

func asText(value cbor.Encodable) (string, error) {
	text, ok := value.(cbor.Text)
	if !ok {
		return "", fmt.Errorf("expected text, got %T", value)
	}
	return string(text), nil
}

func asTextList(value cbor.Encodable) ([]string, error) {
	items, ok := value.(cbor.Array)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", value)
	}
	ret := make([]string, 0, len(items))
	for idx, item := range items {
		text, err := asText(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", idx, err)
		}
		ret = append(ret, text)
	}
	return ret, nil
}

func asTextMap(value cbor.Encodable) (map[string]string, error) {
	m, ok := value.(*cbor.CanonicalMap)
	if !ok {
		return nil, fmt.Errorf("expected a map, got %T", value)
	}
	ret := make(map[string]string, m.Count())
	for key, item := range m.Entries() {
		name, err := asText(key)
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		text, err := asText(item)
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", name, err)
		}
		ret[name] = text
	}
	return ret, nil
}

func asServices(value cbor.Encodable) (map[string]Service, error) {
	m, ok := value.(*cbor.CanonicalMap)
	if !ok {
		return nil, fmt.Errorf("expected a map, got %T", value)
	}
	ret := make(map[string]Service, m.Count())
	for key, item := range m.Entries() {
		name, err := asText(key)
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		fields, err := asTextMap(item)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", name, err)
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("service %q must have exactly type and endpoint", name)
		}
		ret[name] = Service{Type: fields["type"], Endpoint: fields["endpoint"]}
	}
	return ret, nil
}

func (o *Operation) validate() error {
	switch o.Type {
	case OperationTypeOperation:
		if len(o.RotationKeys) == 0 {
			return InvalidOperationError{Field: "rotationKeys", Reason: "at least one key is required"}
		}
		for name, svc := range o.Services {
			if svc.Type == "" || svc.Endpoint == "" {
				return InvalidOperationError{
					Field:  "services",
					Reason: fmt.Sprintf("service %q needs a type and an endpoint", name),
				}
			}
		}
	case OperationTypeTombstone:
		if o.Prev == nil {
			return InvalidOperationError{Field: "prev", Reason: "required for tombstones"}
		}
		if len(o.RotationKeys) > 0 || len(o.VerificationMethods) > 0 ||
			len(o.AlsoKnownAs) > 0 || len(o.Services) > 0 {
			return InvalidOperationError{Reason: "tombstones only carry type, prev and sig"}
		}
	default:
		return InvalidOperationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", o.Type)}
	}
	return nil
}

// IsGenesis returns whether the operation starts a new DID
func (o *Operation) IsGenesis() bool {
	return o.Type == OperationTypeOperation && o.Prev == nil
}

// Map builds the canonical map for the operation. The sig entry is omitted when
// the operation is unsigned.
func (o *Operation) Map() (*cbor.CanonicalMap, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	m := &cbor.CanonicalMap{}
	add := func(key string, value cbor.Encodable) error {
		return m.Add(cbor.Text(key), value)
	}
	var prev cbor.Encodable = cbor.Null{}
	if o.Prev != nil {
		prev = cbor.Text(*o.Prev)
	}
	if err := add("type", cbor.Text(o.Type)); err != nil {
		return nil, err
	}
	if o.Type == OperationTypeOperation {
		services := &cbor.CanonicalMap{}
		for name, svc := range o.Services {
			svcMap, err := cbor.NewCanonicalMap(
				cbor.NewEntry(cbor.Text("type"), cbor.Text(svc.Type)),
				cbor.NewEntry(cbor.Text("endpoint"), cbor.Text(svc.Endpoint)),
			)
			if err != nil {
				return nil, err
			}
			if err := services.Add(cbor.Text(name), svcMap); err != nil {
				return nil, err
			}
		}
		methods := &cbor.CanonicalMap{}
		for name, key := range o.VerificationMethods {
			if err := methods.Add(cbor.Text(name), cbor.Text(key)); err != nil {
				return nil, err
			}
		}
		fields := []cbor.Entry{
			cbor.NewEntry(cbor.Text("rotationKeys"), textArray(o.RotationKeys)),
			cbor.NewEntry(cbor.Text("verificationMethods"), methods),
			cbor.NewEntry(cbor.Text("alsoKnownAs"), textArray(o.AlsoKnownAs)),
			cbor.NewEntry(cbor.Text("services"), services),
		}
		for _, field := range fields {
			if err := m.Set(field); err != nil {
				return nil, err
			}
		}
	}
	if err := add("prev", prev); err != nil {
		return nil, err
	}
	if o.Sig != "" {
		if err := add("sig", cbor.Text(o.Sig)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func textArray(items []string) cbor.Array {
	ret := make(cbor.Array, 0, len(items))
	for _, item := range items {
		ret = append(ret, cbor.Text(item))
	}
	return ret
}

// Unsigned returns a deep copy of the operation without its signature
func (o *Operation) Unsigned() (Operation, error) {
	var ret Operation
	if err := copier.CopyWithOption(&ret, o, copier.Option{DeepCopy: true}); err != nil {
		return Operation{}, fmt.Errorf("copy operation: %w", err)
	}
	ret.Sig = ""
	ret.SetCbor(nil)
	return ret, nil
}

// UnsignedBytes returns the canonical encoding that signatures are made over
func (o *Operation) UnsignedBytes() ([]byte, error) {
	unsigned, err := o.Unsigned()
	if err != nil {
		return nil, err
	}
	m, err := unsigned.Map()
	if err != nil {
		return nil, err
	}
	return m.MarshalCBOR()
}

// SignedBytes returns the canonical encoding including the signature. For a decoded
// operation these are the original bytes.
func (o *Operation) SignedBytes() ([]byte, error) {
	if o.Sig == "" {
		return nil, ErrUnsigned
	}
	if data := o.Cbor(); data != nil {
		return slices.Clone(data), nil
	}
	m, err := o.Map()
	if err != nil {
		return nil, err
	}
	return m.MarshalCBOR()
}

// Sign signs the unsigned bytes and stores the base64url signature
func (o *Operation) Sign(signer Signer) error {
	data, err := o.UnsignedBytes()
	if err != nil {
		return err
	}
	sig, err := signer.Sign(data)
	if err != nil {
		return fmt.Errorf("sign operation: %w", err)
	}
	o.Sig = base64.RawURLEncoding.EncodeToString(sig)
	o.SetCbor(nil)
	return nil
}

// Verify checks the signature against a single key
func (o *Operation) Verify(verifier Verifier) error {
	if o.Sig == "" {
		return ErrUnsigned
	}
	sig, err := base64.RawURLEncoding.DecodeString(o.Sig)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	data, err := o.UnsignedBytes()
	if err != nil {
		return err
	}
	if !verifier.Verify(data, sig) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyWithKeys checks the signature against a list of did:key rotation keys and
// succeeds if any of them verifies it. Keys that cannot be parsed are skipped.
func (o *Operation) VerifyWithKeys(didKeys []string) error {
	if o.Sig == "" {
		return ErrUnsigned
	}
	for _, didKey := range didKeys {
		verifier, err := ParseDIDKey(didKey)
		if err != nil {
			continue
		}
		err = o.Verify(verifier)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrInvalidSignature) {
			return err
		}
	}
	return ErrInvalidSignature
}

// CID returns the CIDv1 (dag-cbor, sha2-256) of the signed operation in multibase
// base32 form
func (o *Operation) CID() (string, error) {
	data, err := o.SignedBytes()
	if err != nil {
		return "", err
	}
	hash, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV1(cid.DagCBOR, hash).String(), nil
}

// DID returns the identifier created by a signed genesis operation
func (o *Operation) DID() (DID, error) {
	if !o.IsGenesis() {
		return DID{}, ErrNotGenesis
	}
	data, err := o.SignedBytes()
	if err != nil {
		return DID{}, err
	}
	return didFromSignedBytes(data), nil
}
