/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

// generatorsFromSeed derives count points from seed outside of the shared cache.
func (cs *Ciphersuite) generatorsFromSeed(seed []byte, count int) ([]*bls12381.G1, error) {
	v, err := cs.ExpandMessage(seed, cs.dst(generatorSeedDST), expandLen)
	if err != nil {
		return nil, err
	}

	points := make([]*bls12381.G1, count)

	for i := 1; i <= count; i++ {
		var p *bls12381.G1

		v, p, err = cs.nextGenerator(v, i)
		if err != nil {
			return nil, err
		}

		points[i-1] = p
	}

	return points, nil
}

func TestCiphersuiteP1(t *testing.T) {
	for _, cs := range []*Ciphersuite{BLS12381SHA256, BLS12381SHAKE256} {
		cs := cs
		t.Run(cs.Name(), func(t *testing.T) {
			points, err := cs.generatorsFromSeed(cs.dst("BP_MESSAGE_GENERATOR_SEED"), 1)
			require.NoError(t, err)
			require.True(t, points[0].Equal(cs.P1()), "derived %s", points[0])
			require.NoError(t, cs.P1().AssertValidity())
		})
	}
}

func TestCreateGenerators(t *testing.T) {
	cs := BLS12381SHAKE256

	t.Run("deterministic and prefix consistent", func(t *testing.T) {
		small, err := cs.CreateGenerators(3)
		require.NoError(t, err)
		require.Len(t, small.H, 2)

		large, err := cs.CreateGenerators(6)
		require.NoError(t, err)
		require.Len(t, large.H, 5)

		require.True(t, small.Q1.Equal(large.Q1))

		for i := range small.H {
			require.True(t, small.H[i].Equal(large.H[i]))
		}

		fresh, err := cs.generatorsFromSeed(cs.dst(messageGenSeed), 6)
		require.NoError(t, err)
		require.True(t, fresh[0].Equal(large.Q1))

		for i, h := range large.H {
			require.True(t, fresh[i+1].Equal(h))
			require.NoError(t, h.AssertValidity())
		}
	})

	t.Run("distinct per ciphersuite", func(t *testing.T) {
		a, err := BLS12381SHA256.CreateGenerators(2)
		require.NoError(t, err)

		b, err := BLS12381SHAKE256.CreateGenerators(2)
		require.NoError(t, err)

		require.False(t, a.Q1.Equal(b.Q1))
		require.False(t, a.H[0].Equal(a.Q1))
	})

	t.Run("concurrent callers agree", func(t *testing.T) {
		var wg sync.WaitGroup

		results := make([]*Generators, 8)

		for i := range results {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				gens, err := BLS12381SHA256.CreateGenerators(4 + i%3)
				if err == nil {
					results[i] = gens
				}
			}(i)
		}

		wg.Wait()

		for _, gens := range results {
			require.NotNil(t, gens)
			require.True(t, gens.Q1.Equal(results[0].Q1))
			require.True(t, gens.H[2].Equal(results[0].H[2]))
		}
	})

	t.Run("invalid count", func(t *testing.T) {
		_, err := cs.CreateGenerators(0)
		require.Error(t, err)
	})
}
