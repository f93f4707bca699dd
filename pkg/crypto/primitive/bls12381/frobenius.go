/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import "math/big"

// Frobenius coefficients of the tower. Each is a power of the non-residue xi = 1+u:
// coefficient[j] = xi^((a*p^j - a)/div) for the tower degree and coefficient index a.
// nolint:gochecknoglobals
var (
	fp6FrobeniusC1  [6]Fp2
	fp6FrobeniusC2  [6]Fp2
	fp12FrobeniusC1 [12]Fp2
)

func initFrobenius() {
	xi := Fp2{C0: fpOne, C1: fpOne}

	fillFrobenius(fp6FrobeniusC1[:], &xi, 1, 3)  //nolint:gomnd
	fillFrobenius(fp6FrobeniusC2[:], &xi, 2, 3)  //nolint:gomnd
	fillFrobenius(fp12FrobeniusC1[:], &xi, 1, 6) //nolint:gomnd
}

func fillFrobenius(dst []Fp2, xi *Fp2, a, div int64) {
	order := new(big.Int).Sub(fp2ModulusBig, big.NewInt(1))
	bigA := big.NewInt(a)
	pj := big.NewInt(1)

	for j := range dst {
		k := new(big.Int).Mul(bigA, pj)
		k.Sub(k, bigA)
		k.Quo(k, big.NewInt(div))
		k.Mod(k, order)

		dst[j].Exp(xi, k)

		pj.Mul(pj, fpModulusBig)
	}
}
