/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

func TestMultiExp(t *testing.T) {
	rng := rand.New(rand.NewSource(8)) //nolint:gosec

	// sizes on both sides of the bucket method threshold
	for _, n := range []int{1, 3, 31, 40} {
		g1s := make([]*bls12381.G1, n)
		g2s := make([]*bls12381.G2, 0, n)
		scalars := make([]*bls12381.Fr, n)

		want1 := bls12381.G1Identity()
		want2 := bls12381.G2Identity()

		for i := range g1s {
			p, err := new(bls12381.G1).MulBase(randScalar(t, rng))
			require.NoError(t, err)

			g1s[i] = p
			scalars[i] = randScalar(t, rng)

			want1.Add(want1, new(bls12381.G1).MulUnsafe(p, scalars[i].BigInt()))

			if n <= 3 {
				q, err := new(bls12381.G2).MulBase(randScalar(t, rng))
				require.NoError(t, err)

				g2s = append(g2s, q)
				want2.Add(want2, new(bls12381.G2).MulUnsafe(q, scalars[i].BigInt()))
			}
		}

		got1, err := bls12381.MultiExpG1(g1s, scalars)
		require.NoError(t, err)
		require.True(t, got1.Equal(want1), "G1 multiexp of %d terms", n)

		if n <= 3 {
			got2, err := bls12381.MultiExpG2(g2s, scalars)
			require.NoError(t, err)
			require.True(t, got2.Equal(want2), "G2 multiexp of %d terms", n)
		}
	}

	t.Run("zero scalars and identity points", func(t *testing.T) {
		var zero bls12381.Fr

		one := new(bls12381.Fr).SetOne()
		g := bls12381.G1Generator()

		got, err := bls12381.MultiExpG1([]*bls12381.G1{g, bls12381.G1Identity()}, []*bls12381.Fr{&zero, one})
		require.NoError(t, err)
		require.True(t, got.IsIdentity())

		got, err = bls12381.MultiExpG1(nil, nil)
		require.NoError(t, err)
		require.True(t, got.IsIdentity())
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := bls12381.MultiExpG1([]*bls12381.G1{bls12381.G1Generator()}, nil)
		require.Error(t, err)

		_, err = bls12381.MultiExpG2(nil, []*bls12381.Fr{new(bls12381.Fr).SetOne()})
		require.Error(t, err)
	})
}
