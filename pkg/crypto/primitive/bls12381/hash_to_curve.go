/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"fmt"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381/hash2curve"
)

// hashToFieldL is L = ceil((ceil(log2(p)) + k) / 8) for k = 128.
const hashToFieldL = 64

// HashToFieldFp hashes msg to count elements of Fp.
func HashToFieldFp(msg, dst []byte, count int, expand hash2curve.ExpandFunc) ([]Fp, error) {
	uniform, err := expand(msg, dst, count*hashToFieldL)
	if err != nil {
		return nil, fmt.Errorf("hash to field: %w", err)
	}

	out := make([]Fp, count)

	for i := range out {
		out[i].SetBytesWide(uniform[i*hashToFieldL : (i+1)*hashToFieldL])
	}

	return out, nil
}

// HashToFieldFp2 hashes msg to count elements of Fp2.
func HashToFieldFp2(msg, dst []byte, count int, expand hash2curve.ExpandFunc) ([]Fp2, error) {
	uniform, err := expand(msg, dst, 2*count*hashToFieldL)
	if err != nil {
		return nil, fmt.Errorf("hash to field: %w", err)
	}

	out := make([]Fp2, count)

	for i := range out {
		off := 2 * i * hashToFieldL
		out[i].C0.SetBytesWide(uniform[off : off+hashToFieldL])
		out[i].C1.SetBytesWide(uniform[off+hashToFieldL : off+2*hashToFieldL])
	}

	return out, nil
}

func mapToG1(u *Fp) point[Fp] {
	var r point[Fp]

	x, y := mapToCurveSWU[Fp, *Fp](&g1SWU, u)

	rx, ry, ok := isogenyMap[Fp, *Fp](&x, &y, isoG1XNum, isoG1XDen, isoG1YNum, isoG1YDen)
	if !ok {
		return *g1Curve.identity(&r)
	}

	return *g1Curve.fromAffine(&r, &rx, &ry)
}

func mapToG2(u *Fp2) point[Fp2] {
	var r point[Fp2]

	x, y := mapToCurveSWU[Fp2, *Fp2](&g2SWU, u)

	rx, ry, ok := isogenyMap[Fp2, *Fp2](&x, &y, isoG2XNum, isoG2XDen, isoG2YNum, isoG2YDen)
	if !ok {
		return *g2Curve.identity(&r)
	}

	return *g2Curve.fromAffine(&r, &rx, &ry)
}

// HashToG1 is hash_to_curve for the BLS12381G1 suites with the given expander.
func HashToG1(msg, dst []byte, expand hash2curve.ExpandFunc) (*G1, error) {
	u, err := HashToFieldFp(msg, dst, 2, expand) //nolint:gomnd
	if err != nil {
		return nil, err
	}

	q0, q1 := mapToG1(&u[0]), mapToG1(&u[1])

	out := &G1{}
	g1Curve.add(&out.p, &q0, &q1)

	return out.ClearCofactor(out), nil
}

// EncodeToG1 is the nonuniform encode_to_curve for G1.
func EncodeToG1(msg, dst []byte, expand hash2curve.ExpandFunc) (*G1, error) {
	u, err := HashToFieldFp(msg, dst, 1, expand)
	if err != nil {
		return nil, err
	}

	out := &G1{p: mapToG1(&u[0])}

	return out.ClearCofactor(out), nil
}

// HashToG2 is hash_to_curve for the BLS12381G2 suites with the given expander.
func HashToG2(msg, dst []byte, expand hash2curve.ExpandFunc) (*G2, error) {
	u, err := HashToFieldFp2(msg, dst, 2, expand) //nolint:gomnd
	if err != nil {
		return nil, err
	}

	q0, q1 := mapToG2(&u[0]), mapToG2(&u[1])

	out := &G2{}
	g2Curve.add(&out.p, &q0, &q1)

	return out.ClearCofactor(out), nil
}

// EncodeToG2 is the nonuniform encode_to_curve for G2.
func EncodeToG2(msg, dst []byte, expand hash2curve.ExpandFunc) (*G2, error) {
	u, err := HashToFieldFp2(msg, dst, 1, expand)
	if err != nil {
		return nil, err
	}

	out := &G2{p: mapToG2(&u[0])}

	return out.ClearCofactor(out), nil
}
