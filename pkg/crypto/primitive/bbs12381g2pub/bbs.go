/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package bbs12381g2pub contains BBS signing primitives and keys over BLS12-381 with public keys in G2.
// It signs ordered lists of messages and derives zero-knowledge proofs that selectively disclose some of them.
package bbs12381g2pub

import (
	"errors"
	"fmt"
	"io"

	"github.com/hyperledger/aries-framework-go/component/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

// nolint:gochecknoglobals
var logger = log.New("aries-bbs/bbs12381g2pub")

var (
	// ErrInvalidSignature is returned when a signature cannot be produced or does not verify.
	ErrInvalidSignature = errors.New("invalid BLS12-381 signature")

	// ErrMalformedProof is returned for proofs or disclosure inputs that cannot be decoded.
	ErrMalformedProof = errors.New("malformed BBS proof")

	// ErrInvalidProof is returned when a well formed proof does not verify.
	ErrInvalidProof = errors.New("invalid BBS proof")

	// ErrInvalidKeyMaterial is returned when KeyGen gets too little key material or too much key info.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)

const (
	// Signature length.
	bls12381SignatureLen = g1CompressedSize + frCompressedSize

	// Default BLS 12-381 public key length in G2 field.
	bls12381G2PublicKeyLen = bls12381.G2CompressedSize

	// Number of bytes in G1 X coordinate.
	g1CompressedSize = bls12381.G1CompressedSize

	// Number of bytes in scalar compressed form.
	frCompressedSize = bls12381.FrSize
)

// BBSG2Pub defines BBS signature scheme where public key is a point in the field of G2.
type BBSG2Pub struct {
	cs      *Ciphersuite
	scalars ScalarSource
	workers int
}

// Opt configures a BBSG2Pub.
type Opt func(*BBSG2Pub)

// WithCiphersuite selects the ciphersuite, BLS12381SHA256 by default.
func WithCiphersuite(cs *Ciphersuite) Opt {
	return func(bbs *BBSG2Pub) {
		bbs.cs = cs
	}
}

// WithRandomReader draws proof blinding scalars from r instead of crypto/rand.
func WithRandomReader(r io.Reader) Opt {
	return func(bbs *BBSG2Pub) {
		bbs.scalars = RandomScalars(r)
	}
}

// WithScalarSource draws proof blinding scalars from src, for instance MockedRandomScalars.
func WithScalarSource(src ScalarSource) Opt {
	return func(bbs *BBSG2Pub) {
		bbs.scalars = src
	}
}

// WithWorkers sets the number of goroutines sharing the Miller loops of a batch verification.
func WithWorkers(n int) Opt {
	return func(bbs *BBSG2Pub) {
		if n > 0 {
			bbs.workers = n
		}
	}
}

// New creates a new BBSG2Pub.
func New(opts ...Opt) *BBSG2Pub {
	bbs := &BBSG2Pub{
		cs:      BLS12381SHA256,
		scalars: RandomScalars(nil),
		workers: defaultWorkers,
	}

	for _, opt := range opts {
		opt(bbs)
	}

	return bbs
}

// Ciphersuite returns the ciphersuite in use.
func (bbs *BBSG2Pub) Ciphersuite() *Ciphersuite {
	return bbs.cs
}

// Verify makes BLS BBS12-381 signature verification. A false result comes with the reason.
func (bbs *BBSG2Pub) Verify(header []byte, messages [][]byte, sigBytes, pubKeyBytes []byte) (ok bool, err error) {
	defer recoverVerify("verify signature", &ok, &err)

	signature, err := ParseSignature(sigBytes)
	if err != nil {
		return false, fmt.Errorf("parse signature: %w", err)
	}

	pubKey, err := UnmarshalPublicKey(pubKeyBytes)
	if err != nil {
		return false, fmt.Errorf("parse public key: %w", err)
	}

	messagesFr, err := bbs.cs.messagesToScalars(messages)
	if err != nil {
		return false, err
	}

	if err = bbs.cs.verify(pubKey, signature, header, messagesFr); err != nil {
		return false, err
	}

	return true, nil
}

// Sign signs the messages using private key in compressed form.
func (bbs *BBSG2Pub) Sign(header []byte, messages [][]byte, privKeyBytes []byte) ([]byte, error) {
	privKey, err := UnmarshalPrivateKey(privKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("unmarshal private key: %w", err)
	}

	return bbs.SignWithKey(header, messages, privKey)
}

// SignWithKey signs the messages using BBS key pair. An empty message list signs the header alone.
func (bbs *BBSG2Pub) SignWithKey(header []byte, messages [][]byte, privKey *PrivateKey) ([]byte, error) {
	messagesFr, err := bbs.cs.messagesToScalars(messages)
	if err != nil {
		return nil, err
	}

	signature, err := bbs.cs.sign(privKey, privKey.PublicKey(), header, messagesFr)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	return signature.ToBytes()
}

// DeriveProof derives a proof of BBS signature with the messages at disclosedIndexes revealed. Indexes are
// deduplicated and sorted. ph is the presentation header the proof is bound to.
func (bbs *BBSG2Pub) DeriveProof(header, ph []byte, messages [][]byte, sigBytes, pubKeyBytes []byte,
	disclosedIndexes []int) ([]byte, error) {
	indexes := slices.Clone(disclosedIndexes)
	slices.Sort(indexes)
	indexes = slices.Compact(indexes)

	for _, idx := range indexes {
		if idx < 0 || idx >= len(messages) {
			return nil, fmt.Errorf("disclosed index %d out of %d messages: %w", idx, len(messages), ErrMalformedProof)
		}
	}

	pubKey, err := UnmarshalPublicKey(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	signature, err := ParseSignature(sigBytes)
	if err != nil {
		return nil, fmt.Errorf("parse signature: %w", err)
	}

	messagesFr, err := bbs.cs.messagesToScalars(messages)
	if err != nil {
		return nil, err
	}

	if err = bbs.cs.verify(pubKey, signature, header, messagesFr); err != nil {
		return nil, fmt.Errorf("verify input signature: %w", err)
	}

	pokSignature, err := bbs.cs.NewPoKOfSignature(pubKey, signature, header, messagesFr, indexes, bbs.scalars)
	if err != nil {
		return nil, err
	}

	challenge, err := pokSignature.Challenge(bbs.cs, ph)
	if err != nil {
		return nil, err
	}

	proof, err := pokSignature.GenerateProof(challenge)
	if err != nil {
		return nil, err
	}

	return proof.ToBytes(), nil
}

// VerifyProof verifies BBS signature proof for one ore more revealed messages. disclosedMessages[i] is the
// message at disclosedIndexes[i]. A false result comes with the reason.
func (bbs *BBSG2Pub) VerifyProof(header, ph []byte, disclosedMessages [][]byte, proof, pubKeyBytes []byte,
	disclosedIndexes []int) (ok bool, err error) {
	defer recoverVerify("verify proof", &ok, &err)

	pubKey, signatureProof, messagesFr, indexes, err := bbs.parseProofRequest(disclosedMessages, proof, pubKeyBytes,
		disclosedIndexes)
	if err != nil {
		return false, err
	}

	if err = bbs.cs.verifyChallenge(pubKey, signatureProof, header, ph, messagesFr, indexes); err != nil {
		return false, err
	}

	if err = signatureProof.verifyPairing(pubKey); err != nil {
		return false, err
	}

	return true, nil
}

func (bbs *BBSG2Pub) parseProofRequest(disclosedMessages [][]byte, proof, pubKeyBytes []byte,
	disclosedIndexes []int) (*PublicKey, *PoKOfSignatureProof, []*SignatureMessage, []int, error) {
	signatureProof, err := ParseSignatureProof(proof)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("parse signature proof: %w", err)
	}

	pubKey, err := UnmarshalPublicKey(pubKeyBytes)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("parse public key: %w", err)
	}

	messages, indexes, err := normalizeDisclosed(disclosedMessages, disclosedIndexes)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	messagesFr, err := bbs.cs.messagesToScalars(messages)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return pubKey, signatureProof, messagesFr, indexes, nil
}

// normalizeDisclosed sorts the disclosed messages by index and drops repeated entries.
func normalizeDisclosed(messages [][]byte, indexes []int) ([][]byte, []int, error) {
	if len(messages) != len(indexes) {
		return nil, nil, fmt.Errorf("%d disclosed messages for %d indexes: %w", len(messages), len(indexes),
			ErrMalformedProof)
	}

	byIndex := make(map[int][]byte, len(indexes))

	for i, idx := range indexes {
		if prev, ok := byIndex[idx]; ok && !slices.Equal(prev, messages[i]) {
			return nil, nil, fmt.Errorf("conflicting messages for index %d: %w", idx, ErrMalformedProof)
		}

		byIndex[idx] = messages[i]
	}

	sorted := maps.Keys(byIndex)
	slices.Sort(sorted)

	out := make([][]byte, len(sorted))
	for i, idx := range sorted {
		out[i] = byIndex[idx]
	}

	return out, sorted, nil
}

func recoverVerify(op string, ok *bool, err *error) {
	if r := recover(); r != nil {
		logger.Warnf("%s: recovered from %v", op, r)

		*ok = false
		*err = fmt.Errorf("%s: %v", op, r)
	}
}

type commitmentBuilder struct {
	bases   []*bls12381.G1
	scalars []*bls12381.Fr
}

func newCommitmentBuilder(expectedSize int) *commitmentBuilder {
	return &commitmentBuilder{
		bases:   make([]*bls12381.G1, 0, expectedSize),
		scalars: make([]*bls12381.Fr, 0, expectedSize),
	}
}

func (cb *commitmentBuilder) add(base *bls12381.G1, scalar *bls12381.Fr) {
	cb.bases = append(cb.bases, base)
	cb.scalars = append(cb.scalars, scalar)
}

// build sums the products with constant time multiplications, for secret scalars.
func (cb *commitmentBuilder) build() (*bls12381.G1, error) {
	res := bls12381.G1Identity()

	for i := range cb.bases {
		if cb.scalars[i].IsZero() {
			continue
		}

		g, err := new(bls12381.G1).Mul(cb.bases[i], cb.scalars[i])
		if err != nil {
			return nil, err
		}

		res.Add(res, g)
	}

	return res, nil
}

// buildPublic sums the products with a variable time multi-exponentiation.
func (cb *commitmentBuilder) buildPublic() (*bls12381.G1, error) {
	return bls12381.MultiExpG1(cb.bases, cb.scalars)
}
