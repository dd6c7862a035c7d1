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

package plc_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/fairpm/minifair-go/cbor"
	"github.com/fairpm/minifair-go/internal/test"
	"github.com/fairpm/minifair-go/internal/testdata"
	"github.com/fairpm/minifair-go/plc"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDIDKey         = "did:key:z6Mkon3Necd6NkkyfoGoHxid2znGc59LU3K7mubaRcFbLfLX"
	testUnsignedHex    = "a66470726576f664747970656d706c635f6f7065726174696f6e687365727669636573a16b66616972706d5f7265706fa264747970657819466169725061636b6167654d616e6167656d656e745265706f68656e64706f696e747468747470733a2f2f6578616d706c652e636f6d2f6b616c736f4b6e6f776e4173817368747470733a2f2f6578616d706c652e636f6d6c726f746174696f6e4b6579738178386469643a6b65793a7a364d6b6f6e334e656364364e6b6b79666f476f48786964327a6e476335394c55334b376d756261526346624c664c5873766572696669636174696f6e4d6574686f6473a16666616972706d78386469643a6b65793a7a364d6b6f6e334e656364364e6b6b79666f476f48786964327a6e476335394c55334b376d756261526346624c664c58"
	testSig            = "1IofDvRUG14Ljt5-Cq0j9sRafhX6ptfknTy-AvC-gXfu3kJf8j69VjSlswZ9qBjySqE-l6cifQEYBD_B1Sj_Dg"
	testSignedHex      = "a763736967785631496f66447652554731344c6a74352d4371306a39735261666858367074666b6e54792d4176432d67586675336b4a66386a3639566a536c73775a3971426a795371452d6c3663696651455942445f4231536a5f44676470726576f664747970656d706c635f6f7065726174696f6e687365727669636573a16b66616972706d5f7265706fa264747970657819466169725061636b6167654d616e6167656d656e745265706f68656e64706f696e747468747470733a2f2f6578616d706c652e636f6d2f6b616c736f4b6e6f776e4173817368747470733a2f2f6578616d706c652e636f6d6c726f746174696f6e4b6579738178386469643a6b65793a7a364d6b6f6e334e656364364e6b6b79666f476f48786964327a6e476335394c55334b376d756261526346624c664c5873766572696669636174696f6e4d6574686f6473a16666616972706d78386469643a6b65793a7a364d6b6f6e334e656364364e6b6b79666f476f48786964327a6e476335394c55334b376d756261526346624c664c58"
	testDID            = "did:plc:4c27tahvzpcfnz47zrd2qe46"
	testCID            = "bafyreihawx4yb5olyrloph6mi6ubhhwya7i6dfvgbmyruqwpakg5lkpzxa"
	testTombstoneUnHex = "a26470726576783b6261667972656968617778347962356f6c79726c6f7068366d69367562686877796137693664667667626d797275717770616b67356c6b707a786164747970656d706c635f746f6d6273746f6e65"
)

func testSigner(t *testing.T) *plc.Ed25519Signer {
	t.Helper()
	signer, err := plc.NewEd25519Signer(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)
	return signer
}

func testOperation() *plc.Operation {
	return &plc.Operation{
		Type:                plc.OperationTypeOperation,
		RotationKeys:        []string{testDIDKey},
		VerificationMethods: map[string]string{"fairpm": testDIDKey},
		AlsoKnownAs:         []string{"https://example.com"},
		Services: map[string]plc.Service{
			"fairpm_repo": {
				Type:     "FairPackageManagementRepo",
				Endpoint: "https://example.com/",
			},
		},
	}
}

func TestOperationUnsignedBytes(t *testing.T) {
	op := testOperation()
	data, err := op.UnsignedBytes()
	require.NoError(t, err)
	assert.Equal(t, testUnsignedHex, hex.EncodeToString(data))
	assert.NoError(t, cbor.IsCanonical(data))
	_, err = op.SignedBytes()
	assert.ErrorIs(t, err, plc.ErrUnsigned)
}

func TestOperationSign(t *testing.T) {
	signer := testSigner(t)
	assert.Equal(t, testDIDKey, signer.DIDKey())
	op := testOperation()
	require.NoError(t, op.Sign(signer))
	assert.Equal(t, testSig, op.Sig)

	signed, err := op.SignedBytes()
	require.NoError(t, err)
	assert.Equal(t, testSignedHex, hex.EncodeToString(signed))

	// Signing does not change the unsigned form
	unsigned, err := op.UnsignedBytes()
	require.NoError(t, err)
	assert.Equal(t, testUnsignedHex, hex.EncodeToString(unsigned))

	opCID, err := op.CID()
	require.NoError(t, err)
	assert.Equal(t, testCID, opCID)

	// The CID is dag-cbor over a sha2-256 multihash of the signed bytes
	parsed, err := cid.Decode(opCID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), parsed.Version())
	assert.Equal(t, uint64(cid.DagCBOR), parsed.Type())
	decodedHash, err := multihash.Decode(parsed.Hash())
	require.NoError(t, err)
	assert.Equal(t, uint64(multihash.SHA2_256), decodedHash.Code)
	digest := sha256.Sum256(signed)
	assert.Equal(t, digest[:], decodedHash.Digest)

	did, err := op.DID()
	require.NoError(t, err)
	assert.Equal(t, testDID, did.String())
	assert.Equal(t, "4c27tahvzpcfnz47zrd2qe46", did.Suffix())
}

func TestOperationVerify(t *testing.T) {
	signer := testSigner(t)
	op := testOperation()
	assert.ErrorIs(t, op.Verify(plc.Ed25519Verifier(signer.PublicKey())), plc.ErrUnsigned)
	require.NoError(t, op.Sign(signer))
	assert.NoError(t, op.Verify(plc.Ed25519Verifier(signer.PublicKey())))
	assert.NoError(t, op.VerifyWithKeys(op.RotationKeys))

	other, err := plc.NewEd25519Signer(bytes.Repeat([]byte{0x02}, 32))
	require.NoError(t, err)
	assert.ErrorIs(t, op.Verify(plc.Ed25519Verifier(other.PublicKey())), plc.ErrInvalidSignature)
	assert.ErrorIs(
		t,
		op.VerifyWithKeys([]string{"not-a-key", other.DIDKey()}),
		plc.ErrInvalidSignature,
	)
	assert.NoError(t, op.VerifyWithKeys([]string{other.DIDKey(), testDIDKey}))

	// Tampering with any signed field breaks the signature
	op.AlsoKnownAs = []string{"https://example.org"}
	assert.ErrorIs(t, op.VerifyWithKeys([]string{testDIDKey}), plc.ErrInvalidSignature)

	op.Sig = "!!!"
	assert.ErrorIs(t, op.Verify(plc.Ed25519Verifier(signer.PublicKey())), plc.ErrInvalidSignature)
}

func TestOperationUnsignedCopy(t *testing.T) {
	op := testOperation()
	require.NoError(t, op.Sign(testSigner(t)))
	unsigned, err := op.Unsigned()
	require.NoError(t, err)
	assert.Empty(t, unsigned.Sig)
	assert.Equal(t, op.RotationKeys, unsigned.RotationKeys)
	assert.Equal(t, op.Services, unsigned.Services)
	// The copy is deep
	unsigned.RotationKeys[0] = "changed"
	unsigned.VerificationMethods["fairpm"] = "changed"
	assert.Equal(t, testDIDKey, op.RotationKeys[0])
	assert.Equal(t, testDIDKey, op.VerificationMethods["fairpm"])
}

func TestDecodeOperation(t *testing.T) {
	data := test.DecodeHexString(testSignedHex)
	op, err := plc.DecodeOperation(data)
	require.NoError(t, err)
	assert.Equal(t, plc.OperationTypeOperation, op.Type)
	assert.Equal(t, []string{testDIDKey}, op.RotationKeys)
	assert.Equal(t, testSig, op.Sig)
	assert.Nil(t, op.Prev)
	assert.True(t, op.IsGenesis())
	assert.Equal(t, data, op.Cbor())
	assert.NoError(t, op.VerifyWithKeys(op.RotationKeys))
	did, err := op.DID()
	require.NoError(t, err)
	assert.Equal(t, testDID, did.String())
}

func TestDecodeOperationErrors(t *testing.T) {
	testDefs := []struct {
		name        string
		value       cbor.Encodable
		cborHex     string
		expectedErr error
	}{
		{
			name:        "not canonical",
			cborHex:     "bf64747970656d706c635f746f6d6273746f6e65ff",
			expectedErr: cbor.ErrNotCanonical,
		},
		{
			name:        "not a map",
			value:       cbor.Array{},
			expectedErr: plc.ErrInvalidOperation,
		},
		{
			name:        "unknown field",
			value:       test.TextMap("type", "plc_tombstone", "prev", "x", "extra", 1),
			expectedErr: plc.ErrInvalidOperation,
		},
		{
			name:        "unknown type",
			value:       test.TextMap("type", "create", "prev", nil),
			expectedErr: plc.ErrInvalidOperation,
		},
		{
			name:        "wrong field type",
			value:       test.TextMap("type", "plc_tombstone", "prev", 5),
			expectedErr: plc.ErrInvalidOperation,
		},
		{
			name:        "tombstone without prev",
			value:       test.TextMap("type", "plc_tombstone", "prev", nil),
			expectedErr: plc.ErrInvalidOperation,
		},
		{
			name:        "empty sig",
			value:       test.TextMap("type", "plc_tombstone", "prev", "x", "sig", ""),
			expectedErr: plc.ErrInvalidOperation,
		},
		{
			name: "missing fields",
			value: test.TextMap(
				"type", "plc_operation",
				"rotationKeys", []any{testDIDKey},
				"prev", nil,
			),
			expectedErr: plc.ErrInvalidOperation,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			var data []byte
			if testDef.value != nil {
				var err error
				data, err = testDef.value.MarshalCBOR()
				require.NoError(t, err)
			} else {
				data = test.DecodeHexString(testDef.cborHex)
			}
			_, err := plc.DecodeOperation(data)
			assert.ErrorIs(t, err, testDef.expectedErr)
		})
	}
}

func TestTombstone(t *testing.T) {
	prev := testCID
	op := &plc.Operation{Type: plc.OperationTypeTombstone, Prev: &prev}
	data, err := op.UnsignedBytes()
	require.NoError(t, err)
	assert.Equal(t, testTombstoneUnHex, hex.EncodeToString(data))
	assert.False(t, op.IsGenesis())
	require.NoError(t, op.Sign(testSigner(t)))
	_, err = op.DID()
	assert.ErrorIs(t, err, plc.ErrNotGenesis)
	_, err = op.CID()
	assert.NoError(t, err)

	op.RotationKeys = []string{testDIDKey}
	_, err = op.Map()
	assert.ErrorIs(t, err, plc.ErrInvalidOperation)
}

func TestParseOperationJSON(t *testing.T) {
	op := testOperation()
	require.NoError(t, op.Sign(testSigner(t)))
	data, err := json.Marshal(op)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"prev":null`)
	assert.NotContains(t, string(data), "Cbor")

	parsed, err := plc.ParseOperationJSON(data)
	require.NoError(t, err)
	signed, err := parsed.SignedBytes()
	require.NoError(t, err)
	assert.Equal(t, testSignedHex, hex.EncodeToString(signed))

	_, err = plc.ParseOperationJSON([]byte(`{"type":"plc_operation","rotationKeys":["a"],"prev":null,"bogus":1}`))
	assert.ErrorIs(t, err, plc.ErrInvalidOperation)
	_, err = plc.ParseOperationJSON([]byte(`{"type":"plc_operation","prev":null}`))
	assert.ErrorIs(t, err, plc.ErrInvalidOperation)
}

func TestOperationLog(t *testing.T) {
	ops := testdata.GetTestOperations()
	require.Len(t, ops, 3)
	for idx, testOp := range ops {
		t.Run(testOp.Name, func(t *testing.T) {
			op, err := plc.DecodeOperation(testOp.Cbor)
			require.NoError(t, err)
			assert.NoError(t, op.VerifyWithKeys([]string{testdata.SigningDIDKey}))
			opCID, err := op.CID()
			require.NoError(t, err)
			assert.Equal(t, testOp.CID, opCID)
			if idx == 0 {
				assert.True(t, op.IsGenesis())
				assert.Nil(t, op.Prev)
				return
			}
			require.NotNil(t, op.Prev)
			assert.Equal(t, testOp.Prev, *op.Prev)
			assert.Equal(t, ops[idx-1].CID, *op.Prev)
			_, err = op.DID()
			assert.ErrorIs(t, err, plc.ErrNotGenesis)
		})
	}
	assert.Equal(t, testSignedHex, hex.EncodeToString(ops[0].Cbor))
}
