/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/bluele/gcache"
	"golang.org/x/crypto/sha3"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381/hash2curve"
)

const (
	// Interface suffix appended to the ciphersuite id for the hash-to-scalar messages API.
	coreAPIID = "H2G_HM2S_"

	// Output length of expand_message when deriving a scalar.
	expandLen = 48

	// Number of generator lists kept per ciphersuite.
	generatorsCacheSize = 64

	sha256SuiteID   = "BBS_BLS12381G1_XMD:SHA-256_SSWU_RO_"
	shake256SuiteID = "BBS_BLS12381G1_XOF:SHAKE-256_SSWU_RO_"

	sha256P1   = "a8ce256102840821a3e94ea9025e4662b205762f9776b3a766c872b948f1fd225e7c59698588e70d11406d161b4e28c9"
	shake256P1 = "8929dfbc7e6642c4ed9cba0856e493f8b9d7d5fcb0c31ef8fdcd34d50648a56c795e106e9eada6e0bda386b414150755"
)

// nolint:gochecknoglobals
var (
	// BLS12381SHA256 is the BLS12-381 ciphersuite with expand_message_xmd over SHA-256.
	BLS12381SHA256 = newCiphersuite("BLS12-381-SHA-256", sha256SuiteID, hash2curve.XMD(sha256.New), sha256P1)

	// BLS12381SHAKE256 is the BLS12-381 ciphersuite with expand_message_xof over SHAKE-256.
	BLS12381SHAKE256 = newCiphersuite("BLS12-381-SHAKE-256", shake256SuiteID, hash2curve.XOF(sha3.NewShake256),
		shake256P1)
)

// Ciphersuite binds the hash, the expander and the fixed point P1 used by every BBS operation.
// It is safe for concurrent use.
type Ciphersuite struct {
	name   string
	id     string
	apiID  []byte
	expand hash2curve.ExpandFunc
	p1     *bls12381.G1

	generators gcache.Cache

	mu     sync.Mutex
	prefix generatorPrefix
}

// generatorPrefix holds the generators derived so far and the chaining value that extends them.
type generatorPrefix struct {
	v      []byte
	points []*bls12381.G1
}

func newCiphersuite(name, id string, expand hash2curve.ExpandFunc, p1Hex string) *Ciphersuite {
	p1Bytes, err := hex.DecodeString(p1Hex)
	if err != nil {
		panic(err)
	}

	p1, err := new(bls12381.G1).SetBytes(p1Bytes)
	if err != nil {
		panic(fmt.Sprintf("%s: invalid P1: %v", name, err))
	}

	cs := &Ciphersuite{
		name:   name,
		id:     id,
		apiID:  []byte(id + coreAPIID),
		expand: expand,
		p1:     p1,
	}

	cs.generators = gcache.New(generatorsCacheSize).LRU().
		LoaderFunc(func(key interface{}) (interface{}, error) {
			count, ok := key.(int)
			if !ok {
				return nil, fmt.Errorf("invalid generators cache key %v", key)
			}

			return cs.extendGenerators(count)
		}).
		Build()

	return cs
}

// CiphersuiteByName returns the ciphersuite registered under name.
func CiphersuiteByName(name string) (*Ciphersuite, error) {
	for _, cs := range []*Ciphersuite{BLS12381SHA256, BLS12381SHAKE256} {
		if cs.name == name {
			return cs, nil
		}
	}

	return nil, fmt.Errorf("unknown ciphersuite %q", name)
}

// Name returns the human readable name of the ciphersuite, for instance "BLS12-381-SHA-256".
func (cs *Ciphersuite) Name() string {
	return cs.name
}

// ID returns the ciphersuite identifier.
func (cs *Ciphersuite) ID() string {
	return cs.id
}

// P1 returns a copy of the fixed G1 point of the ciphersuite.
func (cs *Ciphersuite) P1() *bls12381.G1 {
	return new(bls12381.G1).Set(cs.p1)
}

// ExpandMessage runs the ciphersuite expander. DSTs longer than 255 bytes are hashed down first.
func (cs *Ciphersuite) ExpandMessage(msg, dst []byte, outLen int) ([]byte, error) {
	return cs.expand(msg, dst, outLen)
}

// HashToScalar maps msg to a scalar by reducing 48 expanded bytes modulo r.
func (cs *Ciphersuite) HashToScalar(msg, dst []byte) (*bls12381.Fr, error) {
	uniformBytes, err := cs.ExpandMessage(msg, dst, expandLen)
	if err != nil {
		return nil, fmt.Errorf("hash to scalar: %w", err)
	}

	return new(bls12381.Fr).SetBytesWide(uniformBytes), nil
}

func (cs *Ciphersuite) hashToCurveG1(msg, dst []byte) (*bls12381.G1, error) {
	return bls12381.HashToG1(msg, dst, cs.expand)
}

func (cs *Ciphersuite) dst(suffix string) []byte {
	out := make([]byte, 0, len(cs.apiID)+len(suffix))
	out = append(out, cs.apiID...)

	return append(out, suffix...)
}

func i2osp8(v int) []byte {
	b := make([]byte, 8) //nolint:gomnd
	binary.BigEndian.PutUint64(b, uint64(v))

	return b
}

func i2osp2(v int) []byte {
	b := make([]byte, 2) //nolint:gomnd
	binary.BigEndian.PutUint16(b, uint16(v))

	return b
}

func frBytes(fr *bls12381.Fr) []byte {
	b := fr.Bytes()

	return b[:]
}
