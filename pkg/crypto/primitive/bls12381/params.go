/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import "math/big"

// blsX is |x| for the curve parameter x = -0xd201000000010000.
const blsX uint64 = 0xd201000000010000

// nolint:gochecknoglobals
var (
	blsXBig = new(big.Int).SetUint64(blsX)

	// g1B is the coefficient b = 4 of E1: y^2 = x^3 + 4.
	g1B Fp
	// g2B is the coefficient b = 4(1+u) of E2: y^2 = x^3 + 4(1+u).
	g2B Fp2

	g1GenX = fpFromHex("0x17f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb")
	g1GenY = fpFromHex("0x08b3f481e3aaa0f1a09e30ed741d8ae4fcf5e095d5d00af600db18cb2c04b3edd03cc744a2888ae40caa232946c5e7e1")

	g2GenX = fp2FromHex(
		"0x024aa2b2f08f0a91260805272dc51051c6e47ad4fa403b02b4510b647ae3d1770bac0326a805bbefd48056c8c121bdb8",
		"0x13e02b6052719f607dacd3a088274f65596bd0d09920b61ab5da61bbdc7f5049334cf11213945d57e5ac7d055d042b7e")
	g2GenY = fp2FromHex(
		"0x0ce5d527727d6e118cc9cdc6da2e351aadfd9baa8cbdd3a76d429a695160d12c923ac9cc3baca289e193548608b82801",
		"0x0606c4a02ea734cc32acd2b02bc28b99cb3e287e85a763af267492ab572e99ab3f370d275cec1da1aaa9075ff05f79be")

	// g1Beta is a cube root of unity in Fp. phi(x, y) = (beta*x, y) acts on G1 as
	// multiplication by -x^2.
	g1Beta = fpFromHex("0x5f19672fdf76ce51ba69c6076a0f77eaddb3a93be6f89688de17d813620a00022e01fffffffefffe")

	// psi endomorphism constants for E2.
	psiX, psiY, psi2X Fp2
)

// init derives every constant that needs field arithmetic, in dependency order.
func init() { //nolint:gochecknoinits
	fpSqrt = newSqrter[Fp](fpModulusBig)
	frSqrt = newSqrter[Fr](frModulusBig)

	initFrobenius()
	initCurves()
	initSWU()
}

func initCurves() {
	g1B.SetUint64(4) //nolint:gomnd

	g2B.SetUint64(4) //nolint:gomnd
	g2B.MulByNonResidue(&g2B)

	g1Curve = newCurve[Fp, *Fp](&g1B)
	g2Curve = newCurve[Fp2, *Fp2](&g2B)

	var base Fp2

	base.SetOne()
	base.MulByNonResidue(&base)
	base.Inverse(&base)

	one := big.NewInt(1)
	pMinusOne := new(big.Int).Sub(fpModulusBig, one)
	p2MinusOne := new(big.Int).Sub(fp2ModulusBig, one)

	psiX.Exp(&base, new(big.Int).Quo(pMinusOne, big.NewInt(3)))   //nolint:gomnd
	psiY.Exp(&base, new(big.Int).Quo(pMinusOne, big.NewInt(2)))   //nolint:gomnd
	psi2X.Exp(&base, new(big.Int).Quo(p2MinusOne, big.NewInt(3))) //nolint:gomnd
}
