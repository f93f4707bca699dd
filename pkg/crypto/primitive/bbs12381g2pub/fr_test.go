/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	bbs "github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bbs12381g2pub"
	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381/hash2curve"
)

func TestParseSignatureMessage(t *testing.T) {
	tests := []struct {
		cs   *bbs.Ciphersuite
		want []string
	}{
		{
			cs: bbs.BLS12381SHA256,
			want: []string{
				"1cb5bb86114b34dc438a911617655a1db595abafac92f47c5001799cf624b430",
				"724366998887013aedf8e6ecb545ce3c9b9ca85584e8626404dedeb4a4d70b88",
			},
		},
		{
			cs: bbs.BLS12381SHAKE256,
			want: []string{
				"1e0dea6c9ea8543731d331a0ab5f64954c188542b33c5bbc8ae5b3a830f2d99f",
				"1e70e24c904877884a1b2e654c9d540e0ded8ace510f78a9303ae54c6c3aaddf",
			},
		},
	}

	msgs := default10messages(t)

	for _, tc := range tests {
		tc := tc
		t.Run(tc.cs.Name(), func(t *testing.T) {
			for i, want := range tc.want {
				m, err := tc.cs.ParseSignatureMessage(msgs[i])
				require.NoError(t, err)

				b := m.FR.Bytes()
				require.Equal(t, want, hex.EncodeToString(b[:]))
			}
		})
	}
}

func TestMockedRandomScalars(t *testing.T) {
	tests := []struct {
		cs   *bbs.Ciphersuite
		want []string
	}{
		{
			cs: bbs.BLS12381SHA256,
			want: []string{
				"04f8e2518993c4383957ad14eb13a023c4ad0c67d01ec86eeb902e732ed6df3f",
				"5d87c1ba64c320ad601d227a1b74188a41a100325cecf00223729863966392b1",
				"0444607600ac70482e9c983b4b063214080b9e808300aa4cc02a91b3a92858fe",
			},
		},
		{
			cs: bbs.BLS12381SHAKE256,
			want: []string{
				"1004262112c3eaa95941b2b0d1311c09c845db0099a50e67eda628ad26b43083",
				"6da7f145a94c1fa7f116b2482d59e4d466fe49c955ae8726e79453065156a9a4",
				"05017919b3607e78c51e8ec34329955d49c8c90e4488079c43e74824e98f1306",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.cs.Name(), func(t *testing.T) {
			dst := []byte(tc.cs.ID() + "H2G_HM2S_MOCK_RANDOM_SCALARS_DST_")

			// the first scalars do not depend on how many are drawn
			scalars, err := tc.cs.MockedRandomScalars(hexStringToBytesTest(t, testMockSeed), dst)(10)
			require.NoError(t, err)
			require.Len(t, scalars, 10)

			for i, want := range tc.want {
				b := scalars[i].Bytes()
				require.Equal(t, want, hex.EncodeToString(b[:]))
			}
		})
	}
}

func TestHashToScalar(t *testing.T) {
	cs := bbs.BLS12381SHA256

	a, err := cs.HashToScalar([]byte("abc"), []byte("DST_A"))
	require.NoError(t, err)

	b, err := cs.HashToScalar([]byte("abc"), []byte("DST_B"))
	require.NoError(t, err)
	require.False(t, a.Equal(b))

	t.Run("oversized DST", func(t *testing.T) {
		rfcDST := []byte("QUUX-V01-CS02-with-expander-SHA256-128-long-DST-" + strings.Repeat("1", 208))
		require.Len(t, rfcDST, 256)

		out, err := cs.ExpandMessage(nil, rfcDST, 0x20)
		require.NoError(t, err)
		require.Equal(t, "e8dc0c8b686b7ef2074086fbdd2f30e3f8bfbd3bdf177f73f04b97ce618a3ed3", hex.EncodeToString(out))

		longDST := bytes.Repeat([]byte("d"), 300)
		reduced := sha256.Sum256(append([]byte("H2C-OVERSIZE-DST-"), longDST...))

		out, err = cs.ExpandMessage([]byte("abc"), longDST, 48)
		require.NoError(t, err)

		want, err := hash2curve.ExpandMessageXMD(sha256.New, []byte("abc"), reduced[:], 48)
		require.NoError(t, err)
		require.Equal(t, want, out)

		fromLong, err := cs.HashToScalar([]byte("abc"), longDST)
		require.NoError(t, err)

		fromReduced, err := cs.HashToScalar([]byte("abc"), reduced[:])
		require.NoError(t, err)
		require.True(t, fromLong.Equal(fromReduced))

		_, err = bbs.BLS12381SHAKE256.HashToScalar([]byte("abc"), longDST)
		require.NoError(t, err)
	})
}

func TestCiphersuiteByName(t *testing.T) {
	cs, err := bbs.CiphersuiteByName("BLS12-381-SHAKE-256")
	require.NoError(t, err)
	require.Same(t, bbs.BLS12381SHAKE256, cs)
	require.Equal(t, "BBS_BLS12381G1_XOF:SHAKE-256_SSWU_RO_", cs.ID())

	_, err = bbs.CiphersuiteByName("BLS12-381-SHA-512")
	require.Error(t, err)
}
