/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"fmt"
	"math/big"
)

// Fp12 is an element c0 + c1*w of Fp6[w]/(w^2 - v).
type Fp12 struct {
	C0, C1 Fp6
}

// Set sets z = x.
func (z *Fp12) Set(x *Fp12) *Fp12 {
	*z = *x
	return z
}

// SetZero sets z = 0.
func (z *Fp12) SetZero() *Fp12 {
	*z = Fp12{}
	return z
}

// SetOne sets z = 1.
func (z *Fp12) SetOne() *Fp12 {
	z.C0.SetOne()
	z.C1.SetZero()

	return z
}

// SetUint64 sets z = v.
func (z *Fp12) SetUint64(v uint64) *Fp12 {
	z.C0.SetUint64(v)
	z.C1.SetZero()

	return z
}

// Add sets z = x + y.
func (z *Fp12) Add(x, y *Fp12) *Fp12 {
	z.C0.Add(&x.C0, &y.C0)
	z.C1.Add(&x.C1, &y.C1)

	return z
}

// Double sets z = 2x.
func (z *Fp12) Double(x *Fp12) *Fp12 {
	z.C0.Double(&x.C0)
	z.C1.Double(&x.C1)

	return z
}

// Sub sets z = x - y.
func (z *Fp12) Sub(x, y *Fp12) *Fp12 {
	z.C0.Sub(&x.C0, &y.C0)
	z.C1.Sub(&x.C1, &y.C1)

	return z
}

// Neg sets z = -x.
func (z *Fp12) Neg(x *Fp12) *Fp12 {
	z.C0.Neg(&x.C0)
	z.C1.Neg(&x.C1)

	return z
}

// Conjugate sets z = c0 - c1*w, the inverse of x in the cyclotomic subgroup.
func (z *Fp12) Conjugate(x *Fp12) *Fp12 {
	z.C0.Set(&x.C0)
	z.C1.Neg(&x.C1)

	return z
}

// Mul sets z = x * y.
func (z *Fp12) Mul(x, y *Fp12) *Fp12 {
	var t1, t2, s0, s1, c0, c1 Fp6

	t1.Mul(&x.C0, &y.C0)
	t2.Mul(&x.C1, &y.C1)

	c0.MulByNonResidue(&t2)
	c0.Add(&c0, &t1)

	s0.Add(&x.C0, &x.C1)
	s1.Add(&y.C0, &y.C1)
	c1.Mul(&s0, &s1)
	c1.Sub(&c1, &t1)
	c1.Sub(&c1, &t2)

	z.C0, z.C1 = c0, c1

	return z
}

// Square sets z = x^2.
func (z *Fp12) Square(x *Fp12) *Fp12 {
	var ab, s0, s1, c0, c1 Fp6

	ab.Mul(&x.C0, &x.C1)

	s0.MulByNonResidue(&x.C1)
	s0.Add(&s0, &x.C0)
	s1.Add(&x.C0, &x.C1)
	c0.Mul(&s0, &s1)
	c0.Sub(&c0, &ab)
	s0.MulByNonResidue(&ab)
	c0.Sub(&c0, &s0)

	c1.Double(&ab)

	z.C0, z.C1 = c0, c1

	return z
}

// MulBy014 multiplies x by the sparse element (o0 + o1*v) + (o4*v)*w produced by a line evaluation.
func (z *Fp12) MulBy014(x *Fp12, o0, o1, o4 *Fp2) *Fp12 {
	var t0, t1, s, c0, c1 Fp6

	var o14 Fp2

	t0.MulBy01(&x.C0, o0, o1)
	t1.MulBy1(&x.C1, o4)

	c0.MulByNonResidue(&t1)
	c0.Add(&c0, &t0)

	o14.Add(o1, o4)
	s.Add(&x.C1, &x.C0)
	c1.MulBy01(&s, o0, &o14)
	c1.Sub(&c1, &t0)
	c1.Sub(&c1, &t1)

	z.C0, z.C1 = c0, c1

	return z
}

// Exp sets z = x^e. It is variable time in e.
func (z *Fp12) Exp(x *Fp12, e *big.Int) *Fp12 {
	return exp(z, x, e)
}

// Inverse sets z = 1/x, the inverse of zero is zero.
func (z *Fp12) Inverse(x *Fp12) *Fp12 {
	var t0, t1 Fp6

	t0.Square(&x.C0)
	t1.Square(&x.C1)
	t1.MulByNonResidue(&t1)
	t0.Sub(&t0, &t1)
	t0.Inverse(&t0)

	z.C0.Mul(&x.C0, &t0)
	z.C1.Mul(&x.C1, &t0)
	z.C1.Neg(&z.C1)

	return z
}

// Invert sets z = 1/x and fails with ErrDivisionByZero when x is zero.
func (z *Fp12) Invert(x *Fp12) (*Fp12, error) {
	if x.IsZero() {
		return nil, ErrDivisionByZero
	}

	return z.Inverse(x), nil
}

// FrobeniusMap sets z = x^(p^power).
func (z *Fp12) FrobeniusMap(x *Fp12, power int) *Fp12 {
	z.C0.FrobeniusMap(&x.C0, power)
	z.C1.FrobeniusMap(&x.C1, power)

	c := &fp12FrobeniusC1[power%12]

	z.C1.MulByFp2(&z.C1, c)

	return z
}

// fp4Square returns (xi*b^2 + a^2, 2ab) for the element a + b*s of Fp4 = Fp2[s]/(s^2 - xi).
func fp4Square(a, b *Fp2) (Fp2, Fp2) {
	var a2, b2, c0, c1 Fp2

	a2.Square(a)
	b2.Square(b)

	c0.MulByNonResidue(&b2)
	c0.Add(&c0, &a2)

	c1.Add(a, b)
	c1.Square(&c1)
	c1.Sub(&c1, &a2)
	c1.Sub(&c1, &b2)

	return c0, c1
}

// CyclotomicSquare squares an element of the cyclotomic subgroup (Granger-Scott). The result is
// only meaningful when x^(p^6+1) == 1, which holds after the easy part of the final exponentiation.
func (z *Fp12) CyclotomicSquare(x *Fp12) *Fp12 {
	t3, t4 := fp4Square(&x.C0.C0, &x.C1.C1)
	t5, t6 := fp4Square(&x.C1.C0, &x.C0.C2)
	t7, t8 := fp4Square(&x.C0.C1, &x.C1.C2)

	var t9 Fp2

	t9.MulByNonResidue(&t8)

	var r Fp12

	cycSub(&r.C0.C0, &t3, &x.C0.C0)
	cycSub(&r.C0.C1, &t5, &x.C0.C1)
	cycSub(&r.C0.C2, &t7, &x.C0.C2)
	cycAdd(&r.C1.C0, &t9, &x.C1.C0)
	cycAdd(&r.C1.C1, &t4, &x.C1.C1)
	cycAdd(&r.C1.C2, &t6, &x.C1.C2)

	return z.Set(&r)
}

// cycSub sets z = 2(t - c) + t.
func cycSub(z, t, c *Fp2) {
	var s Fp2

	s.Sub(t, c)
	s.Double(&s)
	z.Add(&s, t)
}

// cycAdd sets z = 2(t + c) + t.
func cycAdd(z, t, c *Fp2) {
	var s Fp2

	s.Add(t, c)
	s.Double(&s)
	z.Add(&s, t)
}

// cyclotomicExp sets z = x^|x_bls| with cyclotomic squarings.
func (z *Fp12) cyclotomicExp(x *Fp12) *Fp12 {
	var acc Fp12

	acc.SetOne()

	for i := 63; i >= 0; i-- {
		acc.CyclotomicSquare(&acc)

		if (blsX>>uint(i))&1 == 1 {
			acc.Mul(&acc, x)
		}
	}

	return z.Set(&acc)
}

// IsZero reports x == 0.
func (x *Fp12) IsZero() bool {
	return x.C0.IsZero() && x.C1.IsZero()
}

// IsOne reports x == 1.
func (x *Fp12) IsOne() bool {
	return x.C0.IsOne() && x.C1.IsZero()
}

// Equal reports x == y.
func (x *Fp12) Equal(y *Fp12) bool {
	return x.C0.Equal(&y.C0) && x.C1.Equal(&y.C1)
}

// CMov sets z = y when c is true and z = x otherwise, in constant time.
func (z *Fp12) CMov(x, y *Fp12, c bool) *Fp12 {
	z.C0.CMov(&x.C0, &y.C0, c)
	z.C1.CMov(&x.C1, &y.C1, c)

	return z
}

func (x *Fp12) String() string {
	return fmt.Sprintf("(%s, %s)", x.C0.String(), x.C1.String())
}
