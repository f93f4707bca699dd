/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"fmt"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

// Number of blinding scalars drawn on top of one per undisclosed message: r1, r2, e~, r1~, r3~.
const baseRandomScalars = 5

// proofInitResult holds the values hashed into the proof challenge, both on the prover and on the verifier side.
type proofInitResult struct {
	aBar   *bls12381.G1
	bBar   *bls12381.G1
	d      *bls12381.G1
	t1     *bls12381.G1
	t2     *bls12381.G1
	domain *bls12381.Fr
}

// PoKOfSignature is Proof of Knowledge of a Signature that is used by the prover to construct PoKOfSignatureProof.
type PoKOfSignature struct {
	initRes proofInitResult

	e             *bls12381.Fr
	randomScalars []*bls12381.Fr

	disclosedIndexes    []int
	disclosedMessages   []*SignatureMessage
	undisclosedMessages []*SignatureMessage
}

// NewPoKOfSignature commits to a signature and its hidden messages. disclosedIndexes must be sorted, unique and
// lower than len(messages).
func (cs *Ciphersuite) NewPoKOfSignature(pubKey *PublicKey, signature *Signature, header []byte,
	messages []*SignatureMessage, disclosedIndexes []int, scalars ScalarSource) (*PoKOfSignature, error) {
	pos := &PoKOfSignature{
		e:                signature.E,
		disclosedIndexes: disclosedIndexes,
	}

	undisclosedIndexes := make([]int, 0, len(messages))

	for i, next := 0, 0; i < len(messages); i++ {
		if next < len(disclosedIndexes) && disclosedIndexes[next] == i {
			pos.disclosedMessages = append(pos.disclosedMessages, messages[i])
			next++

			continue
		}

		undisclosedIndexes = append(undisclosedIndexes, i)
		pos.undisclosedMessages = append(pos.undisclosedMessages, messages[i])
	}

	if len(pos.disclosedMessages) != len(disclosedIndexes) {
		return nil, fmt.Errorf("disclosed indexes %v out of %d messages: %w", disclosedIndexes, len(messages),
			ErrMalformedProof)
	}

	randomScalars, err := scalars(baseRandomScalars + len(undisclosedIndexes))
	if err != nil {
		return nil, fmt.Errorf("draw random scalars: %w", err)
	}

	if len(randomScalars) != baseRandomScalars+len(undisclosedIndexes) {
		return nil, fmt.Errorf("got %d random scalars, expected %d", len(randomScalars),
			baseRandomScalars+len(undisclosedIndexes))
	}

	pos.randomScalars = randomScalars

	gens, err := cs.CreateGenerators(len(messages) + 1)
	if err != nil {
		return nil, err
	}

	pos.initRes.domain, err = cs.calculateDomain(pubKey, gens, header)
	if err != nil {
		return nil, err
	}

	b, err := cs.computeB(pos.initRes.domain, gens, messages).build()
	if err != nil {
		return nil, err
	}

	if err = pos.commit(signature.A, b, gens, undisclosedIndexes); err != nil {
		return nil, fmt.Errorf("init proof of knowledge signature: %w", err)
	}

	return pos, nil
}

func (pos *PoKOfSignature) commit(a, b *bls12381.G1, gens *Generators, undisclosedIndexes []int) error {
	r1, r2, eTilde, r1Tilde, r3Tilde := pos.randomScalars[0], pos.randomScalars[1], pos.randomScalars[2],
		pos.randomScalars[3], pos.randomScalars[4]
	mTilde := pos.randomScalars[baseRandomScalars:]

	d, err := new(bls12381.G1).Mul(b, r2)
	if err != nil {
		return err
	}

	r1r2 := new(bls12381.Fr).Mul(r1, r2)

	aBar, err := new(bls12381.G1).Mul(a, r1r2)
	if err != nil {
		return err
	}

	negE := new(bls12381.Fr).Neg(pos.e)

	cbBar := newCommitmentBuilder(2) //nolint:gomnd
	cbBar.add(d, r1)
	cbBar.add(aBar, negE)

	bBar, err := cbBar.build()
	if err != nil {
		return err
	}

	cbT1 := newCommitmentBuilder(2) //nolint:gomnd
	cbT1.add(aBar, eTilde)
	cbT1.add(d, r1Tilde)

	t1, err := cbT1.build()
	if err != nil {
		return err
	}

	cbT2 := newCommitmentBuilder(len(undisclosedIndexes) + 1)
	cbT2.add(d, r3Tilde)

	for i, j := range undisclosedIndexes {
		cbT2.add(gens.H[j], mTilde[i])
	}

	t2, err := cbT2.build()
	if err != nil {
		return err
	}

	pos.initRes.aBar, pos.initRes.bBar, pos.initRes.d, pos.initRes.t1, pos.initRes.t2 = aBar, bBar, d, t1, t2

	return nil
}

// Challenge computes the Fiat-Shamir challenge bound to the presentation header ph.
func (pos *PoKOfSignature) Challenge(cs *Ciphersuite, ph []byte) (*bls12381.Fr, error) {
	return cs.proofChallenge(&pos.initRes, pos.disclosedIndexes, pos.disclosedMessages, ph)
}

// GenerateProof generates PoKOfSignatureProof proof from PoKOfSignature signature.
func (pos *PoKOfSignature) GenerateProof(challenge *bls12381.Fr) (*PoKOfSignatureProof, error) {
	r1, r2, eTilde, r1Tilde, r3Tilde := pos.randomScalars[0], pos.randomScalars[1], pos.randomScalars[2],
		pos.randomScalars[3], pos.randomScalars[4]
	mTilde := pos.randomScalars[baseRandomScalars:]

	r3, err := new(bls12381.Fr).Invert(r2)
	if err != nil {
		return nil, fmt.Errorf("finalize proof: %w", err)
	}

	var t bls12381.Fr

	eHat := new(bls12381.Fr).Add(eTilde, t.Mul(pos.e, challenge))
	r1Hat := new(bls12381.Fr).Sub(r1Tilde, t.Mul(r1, challenge))
	r3Hat := new(bls12381.Fr).Sub(r3Tilde, t.Mul(r3, challenge))

	mHat := make([]*bls12381.Fr, len(pos.undisclosedMessages))
	for j, m := range pos.undisclosedMessages {
		mHat[j] = new(bls12381.Fr).Add(mTilde[j], t.Mul(m.FR, challenge))
	}

	return &PoKOfSignatureProof{
		aBar:  pos.initRes.aBar,
		bBar:  pos.initRes.bBar,
		d:     pos.initRes.d,
		eHat:  eHat,
		r1Hat: r1Hat,
		r3Hat: r3Hat,
		mHat:  mHat,
		c:     new(bls12381.Fr).Set(challenge),
	}, nil
}

func (cs *Ciphersuite) proofChallenge(initRes *proofInitResult, disclosedIndexes []int,
	disclosedMessages []*SignatureMessage, ph []byte) (*bls12381.Fr, error) {
	r := len(disclosedIndexes)

	cIn := make([]byte, 0, 8+r*(8+frCompressedSize)+5*g1CompressedSize+frCompressedSize+8+len(ph))
	cIn = append(cIn, i2osp8(r)...)

	for i, idx := range disclosedIndexes {
		cIn = append(cIn, i2osp8(idx)...)
		cIn = append(cIn, frBytes(disclosedMessages[i].FR)...)
	}

	for _, p := range []*bls12381.G1{initRes.aBar, initRes.bBar, initRes.d, initRes.t1, initRes.t2} {
		cIn = append(cIn, p.Compress()...)
	}

	cIn = append(cIn, frBytes(initRes.domain)...)
	cIn = append(cIn, i2osp8(len(ph))...)
	cIn = append(cIn, ph...)

	c, err := cs.HashToScalar(cIn, cs.dst(hashToScalarDST))
	if err != nil {
		return nil, fmt.Errorf("proof challenge: %w", err)
	}

	return c, nil
}
