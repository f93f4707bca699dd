/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

// swuParams holds the Simplified SWU constants of an isogenous curve y^2 = x^3 + A*x + B.
type swuParams[F any] struct {
	a, b, z   F
	sqrtRatio sqrtRatioFunc[F]
}

// nolint:gochecknoglobals
var (
	g1SWU swuParams[Fp]
	g2SWU swuParams[Fp2]
)

func initSWU() {
	g1SWU.a = fpFromHex("0x144698a3b8e9433d693a02c96d4982b0ea985383ee66a8d8e8981aefd881ac98936f8da0e0f97f5cf428082d584c1d")
	g1SWU.b = fpFromHex("0x12e2908d11688030018b12e8753eee3b2016c1f0f24f4070a0b9c14fcef35ef55a23215a316ceaa5d1cc48e98e172be0")
	g1SWU.z.SetUint64(11) //nolint:gomnd
	g1SWU.sqrtRatio = newSqrtRatio[Fp, *Fp](fpModulusBig, &g1SWU.z)

	g2SWU.a.C1.SetUint64(240)  //nolint:gomnd
	g2SWU.b.C0.SetUint64(1012) //nolint:gomnd
	g2SWU.b.C1.SetUint64(1012) //nolint:gomnd
	g2SWU.z.C0.SetUint64(2)    //nolint:gomnd
	g2SWU.z.C1.SetUint64(1)
	g2SWU.z.Neg(&g2SWU.z)
	g2SWU.sqrtRatio = newSqrtRatio[Fp2, *Fp2](fp2ModulusBig, &g2SWU.z)
}

// mapToCurveSWU is the Simplified Shallue-van de Woestijne-Ulas map of RFC 9380 section 6.6.2.
// It returns affine coordinates on the isogenous curve.
func mapToCurveSWU[F any, PF CurveField[F]](s *swuParams[F], u *F) (F, F) {
	var tv1, tv2, tv3, tv4, tv5, tv6, x, y, one F

	PF(&one).SetOne()

	PF(&tv1).Square(u)
	PF(&tv1).Mul(&tv1, &s.z)

	PF(&tv2).Square(&tv1)
	PF(&tv2).Add(&tv2, &tv1)

	PF(&tv3).Add(&tv2, &one)
	PF(&tv3).Mul(&tv3, &s.b)

	var negTv2 F

	PF(&negTv2).Neg(&tv2)
	PF(&tv4).CMov(&s.z, &negTv2, !PF(&tv2).IsZero())
	PF(&tv4).Mul(&tv4, &s.a)

	PF(&tv2).Square(&tv3)
	PF(&tv6).Square(&tv4)
	PF(&tv5).Mul(&tv6, &s.a)
	PF(&tv2).Add(&tv2, &tv5)
	PF(&tv2).Mul(&tv2, &tv3)
	PF(&tv6).Mul(&tv6, &tv4)
	PF(&tv5).Mul(&tv6, &s.b)
	PF(&tv2).Add(&tv2, &tv5)

	PF(&x).Mul(&tv1, &tv3)

	isQR, yy := s.sqrtRatio(&tv2, &tv6)

	PF(&y).Mul(&tv1, u)
	PF(&y).Mul(&y, &yy)

	PF(&x).CMov(&x, &tv3, isQR)
	PF(&y).CMov(&y, &yy, isQR)

	var negY F

	PF(&negY).Neg(&y)
	PF(&y).CMov(&y, &negY, PF(u).Sgn0() != PF(&y).Sgn0())

	PF(&tv4).Inverse(&tv4)
	PF(&x).Mul(&x, &tv4)

	return x, y
}
