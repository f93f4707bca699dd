/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381_test

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	kilic "github.com/kilic/bls12-381"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381/hash2curve"
)

const (
	g1SuiteRO = "QUUX-V01-CS02-with-BLS12381G1_XMD:SHA-256_SSWU_RO_"
	g1SuiteNU = "QUUX-V01-CS02-with-BLS12381G1_XMD:SHA-256_SSWU_NU_"
	g2SuiteRO = "QUUX-V01-CS02-with-BLS12381G2_XMD:SHA-256_SSWU_RO_"
)

func TestHashToG1(t *testing.T) {
	expand := hash2curve.XMD(sha256.New)

	t.Run("RFC 9380 J.9.1 empty message", func(t *testing.T) {
		p, err := bls12381.HashToG1([]byte(""), []byte(g1SuiteRO), expand)
		require.NoError(t, err)

		x, y := p.Affine()
		xb, yb := x.Bytes(), y.Bytes()
		require.Equal(t, "052926add2207b76ca4fa57a8734416c8dc95e24501772c814278700eed6d1e4e8cf62d9c09db0fac349612b759e79a1",
			hex.EncodeToString(xb[:]))
		require.Equal(t, "08ba738453bfed09cb546dbb0783dbb3a5f1f566ed67bb6be0e8c67e2e81a4cc68ee29813bb7994998f3eae0c9c6a265",
			hex.EncodeToString(yb[:]))
	})

	t.Run("RFC 9380 J.9.1 abc", func(t *testing.T) {
		p, err := bls12381.HashToG1([]byte("abc"), []byte(g1SuiteRO), expand)
		require.NoError(t, err)
		require.Equal(t, "83567bc5ef9c690c2ab2ecdf6a96ef1c139cc0b2f284dca0a9a7943388a49a3aee664ba5379a7655d3c68900be2f6903",
			hex.EncodeToString(p.Compress()))
	})

	t.Run("RFC 9380 J.9.2 encode empty message", func(t *testing.T) {
		p, err := bls12381.EncodeToG1([]byte(""), []byte(g1SuiteNU), expand)
		require.NoError(t, err)

		x, y := p.Affine()
		xb, yb := x.Bytes(), y.Bytes()
		require.Equal(t, "184bb665c37ff561a89ec2122dd343f20e0f4cbcaec84e3c3052ea81d1834e192c426074b02ed3dca4e7676ce4ce48ba",
			hex.EncodeToString(xb[:]))
		require.Equal(t, "04407b8d35af4dacc809927071fc0405218f1401a6d15af775810e4e460064bcc9468beeba82fdc751be70476c888bf3",
			hex.EncodeToString(yb[:]))
	})

	t.Run("SHAKE-256 expander", func(t *testing.T) {
		p, err := bls12381.HashToG1([]byte("abc"), []byte("QUUX-V01-CS02-with-BLS12381G1_XOF:SHAKE256_SSWU_RO_"),
			hash2curve.XOF(sha3.NewShake256))
		require.NoError(t, err)
		require.Equal(t, "978eab96ce223b1e39292ad584e26d987628a8f04a6930bf00d9afb07250f8e6e0e5e61b84aaa477c323a67e8f93c39d",
			hex.EncodeToString(p.Compress()))
		require.NoError(t, p.AssertValidity())
	})

	t.Run("expander errors are returned", func(t *testing.T) {
		failing := func(msg, dst []byte, outLen int) ([]byte, error) {
			return nil, hash2curve.ErrInvalidLength
		}

		_, err := bls12381.HashToG1([]byte("abc"), []byte(g1SuiteRO), failing)
		require.ErrorIs(t, err, hash2curve.ErrInvalidLength)

		_, err = bls12381.HashToG2([]byte("abc"), []byte(g2SuiteRO), failing)
		require.ErrorIs(t, err, hash2curve.ErrInvalidLength)
	})
}

func TestHashToG1AgainstKilic(t *testing.T) {
	g1 := kilic.NewG1()
	dst := []byte("BBS_BLS12381G1_XMD:SHA-256_SSWU_RO_H2G_HM2S_")

	for i := 0; i < 8; i++ {
		msg := []byte(fmt.Sprintf("message %d", i))

		p, err := bls12381.HashToG1(msg, dst, hash2curve.XMD(sha256.New))
		require.NoError(t, err)
		require.NoError(t, p.AssertValidity())

		expected, err := g1.HashToCurve(msg, dst)
		require.NoError(t, err)
		require.Equal(t, g1.ToCompressed(expected), p.Compress())
	}
}

func TestHashToG2(t *testing.T) {
	expand := hash2curve.XMD(sha256.New)

	tests := []struct {
		msg  string
		want string
	}{
		{
			msg: "",
			want: "a5cb8437535e20ecffaef7752baddf98034139c38452458baeefab379ba13dff5bf5dd71b72418717047f5b0f37da03d" +
				"0141ebfbdca40eb85b87142e130ab689c673cf60f1a3e98d69335266f30d9b8d4ac44c1038e9dcdd5393faf5c41fb78a",
		},
		{
			msg: "abc",
			want: "939cddbccdc5e91b9623efd38c49f81a6f83f175e80b06fc374de9eb4b41dfe4ca3a230ed250fbe3a2acf73a41177fd8" +
				"02c2d18e033b960562aae3cab37a27ce00d80ccd5ba4b7fe0e7a210245129dbec7780ccc7954725f4168aff2787776e6",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(fmt.Sprintf("RFC 9380 J.10.1 %q", tc.msg), func(t *testing.T) {
			p, err := bls12381.HashToG2([]byte(tc.msg), []byte(g2SuiteRO), expand)
			require.NoError(t, err)
			require.Equal(t, tc.want, hex.EncodeToString(p.Compress()))
			require.NoError(t, p.AssertValidity())
		})
	}

	t.Run("encode lands in the subgroup", func(t *testing.T) {
		p, err := bls12381.EncodeToG2([]byte("abc"), []byte("QUUX-V01-CS02-with-BLS12381G2_XMD:SHA-256_SSWU_NU_"), expand)
		require.NoError(t, err)
		require.NoError(t, p.AssertValidity())
	})
}

func TestHashToField(t *testing.T) {
	expand := hash2curve.XMD(sha256.New)

	fp, err := bls12381.HashToFieldFp([]byte("abc"), []byte(g1SuiteRO), 2, expand)
	require.NoError(t, err)
	require.Len(t, fp, 2)
	require.False(t, fp[0].Equal(&fp[1]))

	fp2, err := bls12381.HashToFieldFp2([]byte("abc"), []byte(g2SuiteRO), 2, expand)
	require.NoError(t, err)
	require.Len(t, fp2, 2)
	require.False(t, fp2[0].Equal(&fp2[1]))
}
