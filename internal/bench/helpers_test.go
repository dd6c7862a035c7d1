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

package bench

import (
	"testing"

	"github.com/fairpm/minifair-go/cbor"
	"github.com/fairpm/minifair-go/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMapFixture(t *testing.T) {
	for _, kind := range MapKinds() {
		t.Run(kind, func(t *testing.T) {
			fixture, err := LoadMapFixture(kind, 64)
			require.NoError(t, err)
			assert.Equal(t, kind, fixture.Kind)
			assert.Equal(t, 64, fixture.Map.Count())
			assert.NoError(t, cbor.IsCanonical(fixture.Cbor))
			count, _, _ := cbor.MapInfo(fixture.Cbor)
			assert.Equal(t, 64, count)
		})
	}
}

func TestLoadMapFixture_Errors(t *testing.T) {
	_, err := LoadMapFixture("unknown", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown map kind")

	_, err = LoadMapFixture("text", -1)
	assert.Error(t, err)

	fixture, err := LoadMapFixture("unknown", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa0}, fixture.Cbor)
}

func TestMustLoadMapFixture_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadMapFixture("unknown", 1)
	})
}

func TestLoadOperationFixtures(t *testing.T) {
	fixtures, err := LoadOperationFixtures()
	require.NoError(t, err)
	require.Len(t, fixtures, len(testdata.GetTestOperations()))
	for _, fixture := range fixtures {
		assert.Equal(t, fixture.Cbor, fixture.Op.Cbor())
	}
	assert.Equal(t, testdata.SigningDIDKey, BenchSigner().DIDKey())
}
