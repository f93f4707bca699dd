/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"errors"
	"fmt"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

const (
	generatorSeedDST  = "SIG_GENERATOR_SEED_"
	generatorDST      = "SIG_GENERATOR_DST_"
	messageGenSeed    = "MESSAGE_GENERATOR_SEED"
	maxGeneratorCount = 1 << 16
)

// Generators are the independent G1 points of a signature: Q1 for the domain and one H per message.
type Generators struct {
	Q1 *bls12381.G1
	H  []*bls12381.G1
}

// CreateGenerators returns count generators, Q1 followed by count-1 message generators.
// Results are deterministic in (ciphersuite, count) and memoised.
func (cs *Ciphersuite) CreateGenerators(count int) (*Generators, error) {
	if count < 1 || count > maxGeneratorCount {
		return nil, fmt.Errorf("invalid generators count %d", count)
	}

	v, err := cs.generators.Get(count)
	if err != nil {
		return nil, fmt.Errorf("create generators: %w", err)
	}

	gens, ok := v.(*Generators)
	if !ok {
		return nil, errors.New("create generators: unexpected cache entry")
	}

	return gens, nil
}

// extendGenerators grows the shared prefix up to count points and returns a view of its first count entries.
func (cs *Ciphersuite) extendGenerators(count int) (*Generators, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.prefix.v == nil {
		v, err := cs.ExpandMessage(cs.dst(messageGenSeed), cs.dst(generatorSeedDST), expandLen)
		if err != nil {
			return nil, err
		}

		cs.prefix.v = v
	}

	if len(cs.prefix.points) < count {
		logger.Debugf("%s: deriving generators %d..%d", cs.name, len(cs.prefix.points)+1, count)
	}

	for i := len(cs.prefix.points) + 1; i <= count; i++ {
		v, p, err := cs.nextGenerator(cs.prefix.v, i)
		if err != nil {
			return nil, err
		}

		cs.prefix.v = v
		cs.prefix.points = append(cs.prefix.points, p)
	}

	h := make([]*bls12381.G1, count-1)
	copy(h, cs.prefix.points[1:count])

	return &Generators{
		Q1: cs.prefix.points[0],
		H:  h,
	}, nil
}

func (cs *Ciphersuite) nextGenerator(v []byte, i int) ([]byte, *bls12381.G1, error) {
	v, err := cs.ExpandMessage(append(append([]byte{}, v...), i2osp8(i)...), cs.dst(generatorSeedDST), expandLen)
	if err != nil {
		return nil, nil, fmt.Errorf("generator %d: %w", i, err)
	}

	p, err := cs.hashToCurveG1(v, cs.dst(generatorDST))
	if err != nil {
		return nil, nil, fmt.Errorf("generator %d: %w", i, err)
	}

	return v, p, nil
}
