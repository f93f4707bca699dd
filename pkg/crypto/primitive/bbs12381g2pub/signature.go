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

const hashToScalarDST = "H2S_"

// Signature defines BBS signature.
type Signature struct {
	A *bls12381.G1
	E *bls12381.Fr
}

// ParseSignature parses a Signature from bytes.
func ParseSignature(sigBytes []byte) (*Signature, error) {
	if len(sigBytes) != bls12381SignatureLen {
		return nil, errors.New("invalid size of signature")
	}

	pointG1, err := new(bls12381.G1).SetBytes(sigBytes[:g1CompressedSize])
	if err != nil {
		return nil, fmt.Errorf("deserialize G1 compressed signature: %w", err)
	}

	if pointG1.IsIdentity() {
		return nil, fmt.Errorf("deserialize G1 compressed signature: %w", ErrInvalidSignature)
	}

	e, err := new(bls12381.Fr).SetBytes(sigBytes[g1CompressedSize:])
	if err != nil {
		return nil, fmt.Errorf("deserialize signature scalar: %w", err)
	}

	return &Signature{
		A: pointG1,
		E: e,
	}, nil
}

// ToBytes converts signature to bytes using compression of G1 point and E scalar.
func (s *Signature) ToBytes() ([]byte, error) {
	bytes := make([]byte, 0, bls12381SignatureLen)

	bytes = append(bytes, s.A.Compress()...)
	bytes = append(bytes, frBytes(s.E)...)

	return bytes, nil
}

// calculateDomain binds the public key, the generators and the header into a single scalar.
func (cs *Ciphersuite) calculateDomain(pubKey *PublicKey, gens *Generators, header []byte) (*bls12381.Fr, error) {
	pkBytes, err := pubKey.Marshal()
	if err != nil {
		return nil, err
	}

	l := len(gens.H)

	domIn := make([]byte, 0, bls12381G2PublicKeyLen+8+(l+1)*g1CompressedSize+len(cs.apiID)+8+len(header))
	domIn = append(domIn, pkBytes...)
	domIn = append(domIn, i2osp8(l)...)
	domIn = append(domIn, gens.Q1.Compress()...)

	for _, h := range gens.H {
		domIn = append(domIn, h.Compress()...)
	}

	domIn = append(domIn, cs.apiID...)
	domIn = append(domIn, i2osp8(len(header))...)
	domIn = append(domIn, header...)

	domain, err := cs.HashToScalar(domIn, cs.dst(hashToScalarDST))
	if err != nil {
		return nil, fmt.Errorf("calculate domain: %w", err)
	}

	return domain, nil
}

// computeB prepares B = P1 + Q1*domain + sum(H_i*m_i) over the given message generators.
func (cs *Ciphersuite) computeB(domain *bls12381.Fr, gens *Generators, messages []*SignatureMessage) *commitmentBuilder {
	const basesOffset = 2

	cb := newCommitmentBuilder(len(messages) + basesOffset)

	cb.add(cs.p1, new(bls12381.Fr).SetOne())
	cb.add(gens.Q1, domain)

	for i := range messages {
		cb.add(gens.H[i], messages[i].FR)
	}

	return cb
}

func (cs *Ciphersuite) sign(privKey *PrivateKey, pubKey *PublicKey, header []byte,
	messages []*SignatureMessage) (*Signature, error) {
	gens, err := cs.CreateGenerators(len(messages) + 1)
	if err != nil {
		return nil, err
	}

	domain, err := cs.calculateDomain(pubKey, gens, header)
	if err != nil {
		return nil, err
	}

	eIn := make([]byte, 0, (len(messages)+2)*frCompressedSize)
	eIn = append(eIn, frBytes(privKey.FR)...)

	for _, m := range messages {
		eIn = append(eIn, frBytes(m.FR)...)
	}

	eIn = append(eIn, frBytes(domain)...)

	e, err := cs.HashToScalar(eIn, cs.dst(hashToScalarDST))
	if err != nil {
		return nil, err
	}

	exp := new(bls12381.Fr).Add(privKey.FR, e)
	if _, err = exp.Invert(exp); err != nil {
		return nil, fmt.Errorf("invert signing exponent: %w", ErrInvalidSignature)
	}

	b, err := cs.computeB(domain, gens, messages).build()
	if err != nil {
		return nil, err
	}

	a, err := new(bls12381.G1).Mul(b, exp)
	if err != nil {
		return nil, err
	}

	if a.IsIdentity() {
		return nil, ErrInvalidSignature
	}

	return &Signature{
		A: a,
		E: e,
	}, nil
}

func (cs *Ciphersuite) verify(pubKey *PublicKey, signature *Signature, header []byte,
	messages []*SignatureMessage) error {
	gens, err := cs.CreateGenerators(len(messages) + 1)
	if err != nil {
		return err
	}

	domain, err := cs.calculateDomain(pubKey, gens, header)
	if err != nil {
		return err
	}

	b, err := cs.computeB(domain, gens, messages).buildPublic()
	if err != nil {
		return err
	}

	// e(A, W + BP2*e) == e(B, BP2)
	q1 := new(bls12381.G2).MulUnsafe(bls12381.G2Generator(), signature.E.BigInt())
	q1.Add(q1, pubKey.PointG2)

	ok, err := bls12381.PairingsEqual(signature.A, q1, b, bls12381.G2Generator())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if !ok {
		return ErrInvalidSignature
	}

	return nil
}
