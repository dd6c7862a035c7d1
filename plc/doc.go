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

// Package plc implements did:plc operations on top of the canonical CBOR map
// encoding from the cbor package.
//
// An operation is signed over its canonical encoding without the "sig" field. The
// signed encoding (with "sig") is hashed to produce the operation CID, and for a
// genesis operation (no "prev") the same hash yields the DID:
//
//	signer, _ := plc.NewEd25519Signer(seed)
//	op := &plc.Operation{
//		Type:         plc.OperationTypeOperation,
//		RotationKeys: []string{signer.DIDKey()},
//		Services: map[string]plc.Service{
//			"fairpm_repo": {Type: "FairPackageManagementRepo", Endpoint: "https://example.com/"},
//		},
//	}
//	_ = op.Sign(signer)
//	did, _ := op.DID()
//
// Rotation keys are did:key strings. Ed25519 and secp256k1 keys are supported.
package plc
