/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

const (
	keyGenDST = "KEYGEN_DST_"

	// Minimal size of the key material given to KeyGen.
	minKeyMaterialSize = 32

	maxKeyInfoSize = 65535
)

// PublicKey defines BLS Public Key.
type PublicKey struct {
	PointG2 *bls12381.G2
}

// PrivateKey defines BLS Private Key.
type PrivateKey struct {
	FR *bls12381.Fr
}

// UnmarshalPrivateKey unmarshals PrivateKey.
func UnmarshalPrivateKey(privKeyBytes []byte) (*PrivateKey, error) {
	if len(privKeyBytes) != frCompressedSize {
		return nil, errors.New("invalid size of private key")
	}

	fr, err := new(bls12381.Fr).SetBytes(privKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("deserialize private key: %w", err)
	}

	if fr.IsZero() {
		return nil, fmt.Errorf("deserialize private key: %w", bls12381.ErrInvalidScalar)
	}

	return &PrivateKey{FR: fr}, nil
}

// Marshal marshals PrivateKey.
func (k *PrivateKey) Marshal() ([]byte, error) {
	return frBytes(k.FR), nil
}

// PublicKey returns a Public Key as G2 point generated from the Private Key.
func (k *PrivateKey) PublicKey() *PublicKey {
	w, err := new(bls12381.G2).MulBase(k.FR)
	if err != nil {
		// zero private keys are rejected on construction
		panic(err)
	}

	return &PublicKey{PointG2: w}
}

// UnmarshalPublicKey parses a PublicKey from bytes.
func UnmarshalPublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	if len(pubKeyBytes) != bls12381G2PublicKeyLen {
		return nil, errors.New("invalid size of public key")
	}

	pointG2, err := new(bls12381.G2).SetBytes(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("deserialize public key: %w", err)
	}

	if pointG2.IsIdentity() {
		return nil, fmt.Errorf("deserialize public key: %w", bls12381.ErrInvalidInfinity)
	}

	return &PublicKey{PointG2: pointG2}, nil
}

// Marshal marshals PublicKey.
func (pk *PublicKey) Marshal() ([]byte, error) {
	return pk.PointG2.Compress(), nil
}

// KeyGen deterministically derives a private key from at least 32 bytes of secret key material.
// An empty keyDST selects the ciphersuite default.
func (cs *Ciphersuite) KeyGen(keyMaterial, keyInfo, keyDST []byte) (*PrivateKey, error) {
	if len(keyMaterial) < minKeyMaterialSize {
		return nil, fmt.Errorf("key material of %d bytes: %w", len(keyMaterial), ErrInvalidKeyMaterial)
	}

	if len(keyInfo) > maxKeyInfoSize {
		return nil, fmt.Errorf("key info of %d bytes: %w", len(keyInfo), ErrInvalidKeyMaterial)
	}

	if len(keyDST) == 0 {
		keyDST = []byte(cs.id + keyGenDST)
	}

	deriveInput := make([]byte, 0, len(keyMaterial)+2+len(keyInfo))
	deriveInput = append(deriveInput, keyMaterial...)
	deriveInput = append(deriveInput, i2osp2(len(keyInfo))...)
	deriveInput = append(deriveInput, keyInfo...)

	sk, err := cs.HashToScalar(deriveInput, keyDST)
	if err != nil {
		return nil, fmt.Errorf("key gen: %w", err)
	}

	if sk.IsZero() {
		return nil, fmt.Errorf("key gen: %w", bls12381.ErrInvalidScalar)
	}

	return &PrivateKey{FR: sk}, nil
}

// GenerateKeyPair generates a BBS PublicKey and PrivateKey pair. A nil seed draws fresh key material
// from crypto/rand.
func (cs *Ciphersuite) GenerateKeyPair(seed []byte) (*PublicKey, *PrivateKey, error) {
	if seed == nil {
		seed = make([]byte, minKeyMaterialSize)

		if _, err := rand.Read(seed); err != nil {
			return nil, nil, fmt.Errorf("read key material: %w", err)
		}
	}

	if len(seed) < minKeyMaterialSize {
		return nil, nil, fmt.Errorf("invalid size of seed: %w", ErrInvalidKeyMaterial)
	}

	privKey, err := cs.KeyGen(seed, nil, nil)
	if err != nil {
		return nil, nil, err
	}

	return privKey.PublicKey(), privKey, nil
}
