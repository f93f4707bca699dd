/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

// ScalarSource supplies the blinding scalars of a proof.
type ScalarSource func(count int) ([]*bls12381.Fr, error)

// RandomScalars returns a ScalarSource drawing uniform scalars from rng, crypto/rand when nil.
func RandomScalars(rng io.Reader) ScalarSource {
	if rng == nil {
		rng = rand.Reader
	}

	return func(count int) ([]*bls12381.Fr, error) {
		out := make([]*bls12381.Fr, count)

		for i := range out {
			fr, err := new(bls12381.Fr).SetRandom(rng)
			if err != nil {
				return nil, err
			}

			out[i] = fr
		}

		return out, nil
	}
}

// MockedRandomScalars returns a ScalarSource expanding seed under dst into deterministic scalars.
// It exists to reproduce fixtures and must not be used to produce real proofs.
func (cs *Ciphersuite) MockedRandomScalars(seed, dst []byte) ScalarSource {
	return func(count int) ([]*bls12381.Fr, error) {
		v, err := cs.ExpandMessage(seed, dst, expandLen*count)
		if err != nil {
			return nil, fmt.Errorf("mocked random scalars: %w", err)
		}

		out := make([]*bls12381.Fr, count)

		for i := range out {
			out[i] = new(bls12381.Fr).SetBytesWide(v[i*expandLen : (i+1)*expandLen])
		}

		return out, nil
	}
}
