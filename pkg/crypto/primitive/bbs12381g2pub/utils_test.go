/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	bbs "github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bbs12381g2pub"
)

const (
	testKeyMaterial = "746869732d49532d6a7573742d616e2d546573742d494b4d2d746f2d67656e65726174652d246528724074232d6b6579"
	testKeyInfo     = "746869732d49532d616e2d6f7074696f6e616c2d6b65792d696e666f2d746f2d67656e65726174652d246528724074232d6b6579"
	testHeader      = "11223344556677889900aabbccddeeff"
	testPH          = "bed231d880675ed101ead304512e043ade9958dd0241ea70b4b3957fba941501"
	testMockSeed    = "332e313431353932363533353839373933323338343632363433333833323739"
)

func default10messages(t *testing.T) [][]byte {
	t.Helper()

	messagesBytes := [][]byte{
		hexStringToBytesTest(t, "9872ad089e452c7b6e283dfac2a80d58e8d0ff71cc4d5e310a1debdda4a45f02"),
		hexStringToBytesTest(t, "87a8bd656d49ee07b8110e1d8fd4f1dcef6fb9bc368c492d9bc8c4f98a739ac6"),
		hexStringToBytesTest(t, "96012096adda3f13dd4adbe4eea481a4c4b5717932b73b00e31807d3c5894b90"),
		hexStringToBytesTest(t, "ac55fb33a75909edac8994829b250779298aa75d69324a365733f16c333fa943"),
		hexStringToBytesTest(t, "d183ddc6e2665aa4e2f088af9297b78c0d22b4290273db637ed33ff5cf703151"),
		hexStringToBytesTest(t, "515ae153e22aae04ad16f759e07237b43022cb1ced4c176e0999c6a8ba5817cc"),
		hexStringToBytesTest(t, "496694774c5604ab1b2544eababcf0f53278ff5040c1e77c811656e8220417a2"),
		hexStringToBytesTest(t, "77fe97eb97a1ebe2e81e4e3597a3ee740a66e9ef2412472c23364568523f8b91"),
		hexStringToBytesTest(t, "7372e9daa5ed31e6cd5c825eac1b855e84476a1d94932aa348e07b7320912416"),
		hexStringToBytesTest(t, "c344136d9ab02da4dd5908bbba913ae6f58c2cc844b802a6f811f5fb075f9b80"),
	}

	return messagesBytes
}

func hexStringToBytesTest(t *testing.T, msg string) []byte {
	t.Helper()

	bytes, err := hex.DecodeString(msg)
	require.NoError(t, err)

	return bytes
}

type testKeys struct {
	privKey     *bbs.PrivateKey
	privKeyByte []byte
	pubKeyBytes []byte
}

func newTestKeys(t *testing.T, cs *bbs.Ciphersuite) *testKeys {
	t.Helper()

	privKey, err := cs.KeyGen(hexStringToBytesTest(t, testKeyMaterial), hexStringToBytesTest(t, testKeyInfo), nil)
	require.NoError(t, err)

	privKeyBytes, err := privKey.Marshal()
	require.NoError(t, err)

	pubKeyBytes, err := privKey.PublicKey().Marshal()
	require.NoError(t, err)

	return &testKeys{
		privKey:     privKey,
		privKeyByte: privKeyBytes,
		pubKeyBytes: pubKeyBytes,
	}
}

func pick(messages [][]byte, indexes []int) [][]byte {
	out := make([][]byte, len(indexes))
	for i, idx := range indexes {
		out[i] = messages[idx]
	}

	return out
}
