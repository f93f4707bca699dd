/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"fmt"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

// Minimal proof: Abar, Bbar, D followed by eHat, r1Hat, r3Hat and the challenge.
const minProofLen = 3*g1CompressedSize + 4*frCompressedSize

// PoKOfSignatureProof defines BBS signature proof.
// It is the actual proof that is sent from prover to verifier.
type PoKOfSignatureProof struct {
	aBar *bls12381.G1
	bBar *bls12381.G1
	d    *bls12381.G1

	eHat  *bls12381.Fr
	r1Hat *bls12381.Fr
	r3Hat *bls12381.Fr
	mHat  []*bls12381.Fr

	c *bls12381.Fr
}

// ParseSignatureProof parses a signature proof.
func ParseSignatureProof(sigProofBytes []byte) (*PoKOfSignatureProof, error) {
	if len(sigProofBytes) < minProofLen || (len(sigProofBytes)-minProofLen)%frCompressedSize != 0 {
		return nil, fmt.Errorf("invalid size %d of signature proof: %w", len(sigProofBytes), ErrMalformedProof)
	}

	points := make([]*bls12381.G1, 3) //nolint:gomnd
	offset := 0

	for i := range points {
		p, err := new(bls12381.G1).SetBytes(sigProofBytes[offset : offset+g1CompressedSize])
		if err != nil {
			return nil, fmt.Errorf("%w: point %d: %v", ErrMalformedProof, i, err)
		}

		if p.IsIdentity() {
			return nil, fmt.Errorf("%w: point %d is the identity", ErrMalformedProof, i)
		}

		points[i] = p
		offset += g1CompressedSize
	}

	scalars := make([]*bls12381.Fr, 0, (len(sigProofBytes)-offset)/frCompressedSize)

	for ; offset < len(sigProofBytes); offset += frCompressedSize {
		s, err := new(bls12381.Fr).SetBytes(sigProofBytes[offset : offset+frCompressedSize])
		if err != nil {
			return nil, fmt.Errorf("%w: scalar %d: %v", ErrMalformedProof, len(scalars), err)
		}

		if s.IsZero() {
			return nil, fmt.Errorf("%w: scalar %d is zero", ErrMalformedProof, len(scalars))
		}

		scalars = append(scalars, s)
	}

	last := len(scalars) - 1

	return &PoKOfSignatureProof{
		aBar:  points[0],
		bBar:  points[1],
		d:     points[2],
		eHat:  scalars[0],
		r1Hat: scalars[1],
		r3Hat: scalars[2],
		mHat:  scalars[3:last],
		c:     scalars[last],
	}, nil
}

// ToBytes converts PoKOfSignatureProof to bytes.
func (sp *PoKOfSignatureProof) ToBytes() []byte {
	bytes := make([]byte, 0, minProofLen+len(sp.mHat)*frCompressedSize)

	bytes = append(bytes, sp.aBar.Compress()...)
	bytes = append(bytes, sp.bBar.Compress()...)
	bytes = append(bytes, sp.d.Compress()...)
	bytes = append(bytes, frBytes(sp.eHat)...)
	bytes = append(bytes, frBytes(sp.r1Hat)...)
	bytes = append(bytes, frBytes(sp.r3Hat)...)

	for _, m := range sp.mHat {
		bytes = append(bytes, frBytes(m)...)
	}

	return append(bytes, frBytes(sp.c)...)
}

// UndisclosedCount returns the number of hidden messages the proof covers.
func (sp *PoKOfSignatureProof) UndisclosedCount() int {
	return len(sp.mHat)
}

// verifyChallenge rebuilds the prover commitments and checks the challenge. disclosedIndexes must be sorted
// and unique. The pairing equation is left to the caller.
func (cs *Ciphersuite) verifyChallenge(pubKey *PublicKey, sp *PoKOfSignatureProof, header, ph []byte,
	disclosedMessages []*SignatureMessage, disclosedIndexes []int) error {
	u, r := len(sp.mHat), len(disclosedIndexes)
	l := u + r

	if len(disclosedMessages) != r {
		return fmt.Errorf("%w: %d disclosed messages for %d indexes", ErrMalformedProof, len(disclosedMessages), r)
	}

	for _, idx := range disclosedIndexes {
		if idx < 0 || idx >= l {
			return fmt.Errorf("%w: disclosed index %d out of %d messages", ErrMalformedProof, idx, l)
		}
	}

	gens, err := cs.CreateGenerators(l + 1)
	if err != nil {
		return err
	}

	domain, err := cs.calculateDomain(pubKey, gens, header)
	if err != nil {
		return err
	}

	// T1 = Bbar*c + Abar*eHat + D*r1Hat
	cbT1 := newCommitmentBuilder(3) //nolint:gomnd
	cbT1.add(sp.bBar, sp.c)
	cbT1.add(sp.aBar, sp.eHat)
	cbT1.add(sp.d, sp.r1Hat)

	t1, err := cbT1.buildPublic()
	if err != nil {
		return err
	}

	// T2 = (P1 + Q1*domain + sum(H_i*m_i))*c + D*r3Hat + sum(H_j*mHat_j)
	cbT2 := newCommitmentBuilder(l + 3) //nolint:gomnd
	cbT2.add(cs.p1, sp.c)
	cbT2.add(gens.Q1, new(bls12381.Fr).Mul(domain, sp.c))
	cbT2.add(sp.d, sp.r3Hat)

	for i, j, next := 0, 0, 0; i < l; i++ {
		if next < r && disclosedIndexes[next] == i {
			cbT2.add(gens.H[i], new(bls12381.Fr).Mul(disclosedMessages[next].FR, sp.c))
			next++

			continue
		}

		cbT2.add(gens.H[i], sp.mHat[j])
		j++
	}

	t2, err := cbT2.buildPublic()
	if err != nil {
		return err
	}

	initRes := &proofInitResult{
		aBar:   sp.aBar,
		bBar:   sp.bBar,
		d:      sp.d,
		t1:     t1,
		t2:     t2,
		domain: domain,
	}

	c, err := cs.proofChallenge(initRes, disclosedIndexes, disclosedMessages, ph)
	if err != nil {
		return err
	}

	if !c.Equal(sp.c) {
		return fmt.Errorf("%w: challenge mismatch", ErrInvalidProof)
	}

	return nil
}

// verifyPairing checks e(Abar, W) == e(Bbar, BP2).
func (sp *PoKOfSignatureProof) verifyPairing(pubKey *PublicKey) error {
	ok, err := bls12381.PairingsEqual(sp.aBar, pubKey.PointG2, sp.bBar, bls12381.G2Generator())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	if !ok {
		return fmt.Errorf("%w: pairing check failed", ErrInvalidProof)
	}

	return nil
}
