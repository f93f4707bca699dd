/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"math/big"
)

// Field is the operation set shared by every level of the extension tower (Fp, Fp2, Fp6, Fp12)
// and by the scalar field. Methods follow the z.Op(x, y) convention: the receiver is set to the
// result and returned, and the operands may alias the receiver.
type Field[T any] interface {
	*T
	Set(x *T) *T
	SetZero() *T
	SetOne() *T
	SetUint64(v uint64) *T
	Add(x, y *T) *T
	Double(x *T) *T
	Sub(x, y *T) *T
	Neg(x *T) *T
	Mul(x, y *T) *T
	Square(x *T) *T
	Exp(x *T, e *big.Int) *T
	Inverse(x *T) *T
	Invert(x *T) (*T, error)
	IsZero() bool
	IsOne() bool
	Equal(y *T) bool
	CMov(x, y *T, c bool) *T
}

// CurveField is a Field that can carry curve coordinates: it supports square roots and the
// sgn0 function used by hash to curve.
type CurveField[T any] interface {
	Field[T]
	Sqrt(x *T) (*T, error)
	Sgn0() int
}

type sqrtFunc[T any] func(z, x *T) (*T, error)

// exp sets z = x^e by left-to-right square and multiply.
func exp[T any, PT Field[T]](z, x PT, e *big.Int) PT {
	var base, acc T

	PT(&base).Set(x)
	PT(&acc).SetOne()

	for i := e.BitLen() - 1; i >= 0; i-- {
		PT(&acc).Square(&acc)

		if e.Bit(i) == 1 {
			PT(&acc).Mul(&acc, &base)
		}
	}

	return z.Set(&acc)
}

// legendre returns x^((q-1)/2) interpreted as 1, -1 or 0.
func legendre[T any, PT Field[T]](x PT, halfOrder *big.Int) int {
	var t T

	PT(&t).Exp(x, halfOrder)

	switch {
	case PT(&t).IsZero():
		return 0
	case PT(&t).IsOne():
		return 1
	default:
		return -1
	}
}

// newSqrter selects the square root algorithm by the shape of the field order q.
func newSqrter[T any, PT Field[T]](q *big.Int) sqrtFunc[T] {
	four := big.NewInt(4) //nolint:gomnd

	if new(big.Int).Mod(q, four).Int64() == 3 { //nolint:gomnd
		e := new(big.Int).Add(q, big.NewInt(1))
		e.Rsh(e, 2) //nolint:gomnd

		return func(z, x *T) (*T, error) {
			var r, check T

			PT(&r).Exp(x, e)

			PT(&check).Square(&r)

			if !PT(&check).Equal(x) {
				return nil, ErrNotASquare
			}

			return PT(z).Set(&r), nil
		}
	}

	return newTonelliShanks[T, PT](q)
}

// newTonelliShanks prepares Tonelli-Shanks for q - 1 = 2^s * t with t odd.
func newTonelliShanks[T any, PT Field[T]](q *big.Int) sqrtFunc[T] {
	qMinusOne := new(big.Int).Sub(q, big.NewInt(1))
	s := qMinusOne.TrailingZeroBits()
	t := new(big.Int).Rsh(qMinusOne, s)
	halfOrder := new(big.Int).Rsh(qMinusOne, 1)

	var nonResidue T

	for i := uint64(2); ; i++ {
		PT(&nonResidue).SetUint64(i)

		if legendre(PT(&nonResidue), halfOrder) == -1 {
			break
		}
	}

	var c T

	PT(&c).Exp(&nonResidue, t)

	tPlusOneHalf := new(big.Int).Add(t, big.NewInt(1))
	tPlusOneHalf.Rsh(tPlusOneHalf, 1)

	return func(z, x *T) (*T, error) {
		if PT(x).IsZero() {
			return PT(z).SetZero(), nil
		}

		if legendre(PT(x), halfOrder) != 1 {
			return nil, ErrNotASquare
		}

		var m uint = s

		var cc, tt, r, b, t2 T

		PT(&cc).Set(&c)
		PT(&tt).Exp(x, t)
		PT(&r).Exp(x, tPlusOneHalf)

		for !PT(&tt).IsOne() {
			// least i with tt^(2^i) == 1
			var i uint

			PT(&t2).Set(&tt)

			for !PT(&t2).IsOne() {
				PT(&t2).Square(&t2)
				i++
			}

			PT(&b).Set(&cc)

			for j := uint(0); j < m-i-1; j++ {
				PT(&b).Square(&b)
			}

			m = i
			PT(&cc).Square(&b)
			PT(&tt).Mul(&tt, &cc)
			PT(&r).Mul(&r, &b)
		}

		return PT(z).Set(&r), nil
	}
}

// batchInverse inverts every element of in using a single field inversion. Zero entries are
// mapped to zero.
func batchInverse[T any, PT Field[T]](in []T) []T {
	out := make([]T, len(in))
	acc := make([]T, len(in))

	var run T

	PT(&run).SetOne()

	for i := range in {
		PT(&acc[i]).Set(&run)

		if !PT(&in[i]).IsZero() {
			PT(&run).Mul(&run, &in[i])
		}
	}

	PT(&run).Inverse(&run)

	for i := len(in) - 1; i >= 0; i-- {
		if PT(&in[i]).IsZero() {
			continue
		}

		PT(&out[i]).Mul(&run, &acc[i])
		PT(&run).Mul(&run, &in[i])
	}

	return out
}

// sqrtRatioFunc returns (true, sqrt(u/v)) when u/v is square and (false, sqrt(Z*u/v)) otherwise.
type sqrtRatioFunc[T any] func(u, v *T) (bool, T)

// newSqrtRatio builds the RFC 9380 sqrt_ratio routine for a field of order q with the SWU
// non-residue z.
func newSqrtRatio[T any, PT CurveField[T]](q *big.Int, z *T) sqrtRatioFunc[T] {
	one := big.NewInt(1)

	if new(big.Int).Mod(q, big.NewInt(4)).Int64() == 3 { //nolint:gomnd
		c1 := new(big.Int).Sub(q, big.NewInt(3)) //nolint:gomnd
		c1.Rsh(c1, 2)                              //nolint:gomnd

		var negZ, c2 T

		PT(&negZ).Neg(z)

		if _, err := PT(&c2).Sqrt(&negZ); err != nil {
			panic("bls12381: -Z must be a square")
		}

		return func(u, v *T) (bool, T) {
			var tv1, tv2, tv3, y1, y2, y T

			PT(&tv1).Square(v)
			PT(&tv2).Mul(u, v)
			PT(&tv1).Mul(&tv1, &tv2)
			PT(&y1).Exp(&tv1, c1)
			PT(&y1).Mul(&y1, &tv2)
			PT(&y2).Mul(&y1, &c2)
			PT(&tv3).Square(&y1)
			PT(&tv3).Mul(&tv3, v)
			isQR := PT(&tv3).Equal(u)
			PT(&y).CMov(&y2, &y1, isQR)

			return isQR, y
		}
	}

	qMinusOne := new(big.Int).Sub(q, one)
	c1 := qMinusOne.TrailingZeroBits()
	c2 := new(big.Int).Rsh(qMinusOne, c1)
	c3 := new(big.Int).Rsh(new(big.Int).Sub(c2, one), 1)
	pow2c1 := new(big.Int).Lsh(one, c1)
	c4 := new(big.Int).Sub(pow2c1, one)
	c5 := new(big.Int).Rsh(pow2c1, 1)

	var c6, c7 T

	PT(&c6).Exp(z, c2)
	PT(&c7).Exp(z, new(big.Int).Rsh(new(big.Int).Add(c2, one), 1))

	return func(u, v *T) (bool, T) {
		var tv1, tv2, tv3, tv4, tv5, tmp T

		PT(&tv1).Set(&c6)
		PT(&tv2).Exp(v, c4)
		PT(&tv3).Square(&tv2)
		PT(&tv3).Mul(&tv3, v)
		PT(&tv5).Mul(u, &tv3)
		PT(&tv5).Exp(&tv5, c3)
		PT(&tv5).Mul(&tv5, &tv2)
		PT(&tv2).Mul(&tv5, v)
		PT(&tv3).Mul(&tv5, u)
		PT(&tv4).Mul(&tv3, &tv2)
		PT(&tv5).Exp(&tv4, c5)
		isQR := PT(&tv5).IsOne()
		PT(&tv2).Mul(&tv3, &c7)
		PT(&tv5).Mul(&tv4, &tv1)
		PT(&tv3).CMov(&tv2, &tv3, isQR)
		PT(&tv4).CMov(&tv5, &tv4, isQR)

		for i := c1; i >= 2; i-- {
			e := new(big.Int).Lsh(one, i-2) //nolint:gomnd
			PT(&tmp).Exp(&tv4, e)
			e1 := PT(&tmp).IsOne()
			PT(&tv2).Mul(&tv3, &tv1)
			PT(&tv1).Square(&tv1)
			PT(&tv5).Mul(&tv4, &tv1)
			PT(&tv3).CMov(&tv2, &tv3, e1)
			PT(&tv4).CMov(&tv5, &tv4, e1)
		}

		return isQR, tv3
	}
}
