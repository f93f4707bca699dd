/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"fmt"
	"math/big"
)

// Fp6 is an element c0 + c1*v + c2*v^2 of Fp2[v]/(v^3 - (1+u)).
type Fp6 struct {
	C0, C1, C2 Fp2
}

// Set sets z = x.
func (z *Fp6) Set(x *Fp6) *Fp6 {
	*z = *x
	return z
}

// SetZero sets z = 0.
func (z *Fp6) SetZero() *Fp6 {
	*z = Fp6{}
	return z
}

// SetOne sets z = 1.
func (z *Fp6) SetOne() *Fp6 {
	*z = Fp6{C0: fpOneFp2}
	return z
}

// SetUint64 sets z = v.
func (z *Fp6) SetUint64(v uint64) *Fp6 {
	z.SetZero()
	z.C0.SetUint64(v)

	return z
}

// Add sets z = x + y.
func (z *Fp6) Add(x, y *Fp6) *Fp6 {
	z.C0.Add(&x.C0, &y.C0)
	z.C1.Add(&x.C1, &y.C1)
	z.C2.Add(&x.C2, &y.C2)

	return z
}

// Double sets z = 2x.
func (z *Fp6) Double(x *Fp6) *Fp6 {
	z.C0.Double(&x.C0)
	z.C1.Double(&x.C1)
	z.C2.Double(&x.C2)

	return z
}

// Sub sets z = x - y.
func (z *Fp6) Sub(x, y *Fp6) *Fp6 {
	z.C0.Sub(&x.C0, &y.C0)
	z.C1.Sub(&x.C1, &y.C1)
	z.C2.Sub(&x.C2, &y.C2)

	return z
}

// Neg sets z = -x.
func (z *Fp6) Neg(x *Fp6) *Fp6 {
	z.C0.Neg(&x.C0)
	z.C1.Neg(&x.C1)
	z.C2.Neg(&x.C2)

	return z
}

// Mul sets z = x * y (Karatsuba over three coefficients).
func (z *Fp6) Mul(x, y *Fp6) *Fp6 {
	var t0, t1, t2, s0, s1, c0, c1, c2 Fp2

	t0.Mul(&x.C0, &y.C0)
	t1.Mul(&x.C1, &y.C1)
	t2.Mul(&x.C2, &y.C2)

	s0.Add(&x.C1, &x.C2)
	s1.Add(&y.C1, &y.C2)
	c0.Mul(&s0, &s1)
	c0.Sub(&c0, &t1)
	c0.Sub(&c0, &t2)
	c0.MulByNonResidue(&c0)
	c0.Add(&c0, &t0)

	s0.Add(&x.C0, &x.C1)
	s1.Add(&y.C0, &y.C1)
	c1.Mul(&s0, &s1)
	c1.Sub(&c1, &t0)
	c1.Sub(&c1, &t1)
	s0.MulByNonResidue(&t2)
	c1.Add(&c1, &s0)

	s0.Add(&x.C0, &x.C2)
	s1.Add(&y.C0, &y.C2)
	c2.Mul(&s0, &s1)
	c2.Sub(&c2, &t0)
	c2.Sub(&c2, &t2)
	c2.Add(&c2, &t1)

	z.C0, z.C1, z.C2 = c0, c1, c2

	return z
}

// Square sets z = x^2.
func (z *Fp6) Square(x *Fp6) *Fp6 {
	return z.Mul(x, x)
}

// MulByNonResidue sets z = x * v.
func (z *Fp6) MulByNonResidue(x *Fp6) *Fp6 {
	var c0 Fp2

	c0.MulByNonResidue(&x.C2)
	z.C2.Set(&x.C1)
	z.C1.Set(&x.C0)
	z.C0.Set(&c0)

	return z
}

// MulByFp2 multiplies every coefficient by s.
func (z *Fp6) MulByFp2(x *Fp6, s *Fp2) *Fp6 {
	z.C0.Mul(&x.C0, s)
	z.C1.Mul(&x.C1, s)
	z.C2.Mul(&x.C2, s)

	return z
}

// MulBy01 sets z = x * (b0 + b1*v).
func (z *Fp6) MulBy01(x *Fp6, b0, b1 *Fp2) *Fp6 {
	var t0, t1, s, c0, c1, c2 Fp2

	t0.Mul(&x.C0, b0)
	t1.Mul(&x.C1, b1)

	s.Add(&x.C1, &x.C2)
	c0.Mul(&s, b1)
	c0.Sub(&c0, &t1)
	c0.MulByNonResidue(&c0)
	c0.Add(&c0, &t0)

	var sb Fp2

	sb.Add(b0, b1)
	s.Add(&x.C0, &x.C1)
	c1.Mul(&sb, &s)
	c1.Sub(&c1, &t0)
	c1.Sub(&c1, &t1)

	s.Add(&x.C0, &x.C2)
	c2.Mul(&s, b0)
	c2.Sub(&c2, &t0)
	c2.Add(&c2, &t1)

	z.C0, z.C1, z.C2 = c0, c1, c2

	return z
}

// MulBy1 sets z = x * (b1*v).
func (z *Fp6) MulBy1(x *Fp6, b1 *Fp2) *Fp6 {
	var c0, c1, c2 Fp2

	c0.Mul(&x.C2, b1)
	c0.MulByNonResidue(&c0)
	c1.Mul(&x.C0, b1)
	c2.Mul(&x.C1, b1)

	z.C0, z.C1, z.C2 = c0, c1, c2

	return z
}

// Exp sets z = x^e. It is variable time in e.
func (z *Fp6) Exp(x *Fp6, e *big.Int) *Fp6 {
	return exp(z, x, e)
}

// Inverse sets z = 1/x, the inverse of zero is zero.
func (z *Fp6) Inverse(x *Fp6) *Fp6 {
	var t0, t1, t2, t4, s Fp2

	t0.Square(&x.C0)
	s.Mul(&x.C2, &x.C1)
	s.MulByNonResidue(&s)
	t0.Sub(&t0, &s)

	t1.Square(&x.C2)
	t1.MulByNonResidue(&t1)
	s.Mul(&x.C0, &x.C1)
	t1.Sub(&t1, &s)

	t2.Square(&x.C1)
	s.Mul(&x.C0, &x.C2)
	t2.Sub(&t2, &s)

	t4.Mul(&x.C2, &t1)
	s.Mul(&x.C1, &t2)
	t4.Add(&t4, &s)
	t4.MulByNonResidue(&t4)
	s.Mul(&x.C0, &t0)
	t4.Add(&t4, &s)
	t4.Inverse(&t4)

	z.C0.Mul(&t4, &t0)
	z.C1.Mul(&t4, &t1)
	z.C2.Mul(&t4, &t2)

	return z
}

// Invert sets z = 1/x and fails with ErrDivisionByZero when x is zero.
func (z *Fp6) Invert(x *Fp6) (*Fp6, error) {
	if x.IsZero() {
		return nil, ErrDivisionByZero
	}

	return z.Inverse(x), nil
}

// FrobeniusMap sets z = x^(p^power).
func (z *Fp6) FrobeniusMap(x *Fp6, power int) *Fp6 {
	z.C0.FrobeniusMap(&x.C0, power)
	z.C1.FrobeniusMap(&x.C1, power)
	z.C2.FrobeniusMap(&x.C2, power)

	z.C1.Mul(&z.C1, &fp6FrobeniusC1[power%6])
	z.C2.Mul(&z.C2, &fp6FrobeniusC2[power%6])

	return z
}

// IsZero reports x == 0.
func (x *Fp6) IsZero() bool {
	return x.C0.IsZero() && x.C1.IsZero() && x.C2.IsZero()
}

// IsOne reports x == 1.
func (x *Fp6) IsOne() bool {
	return x.C0.IsOne() && x.C1.IsZero() && x.C2.IsZero()
}

// Equal reports x == y.
func (x *Fp6) Equal(y *Fp6) bool {
	return x.C0.Equal(&y.C0) && x.C1.Equal(&y.C1) && x.C2.Equal(&y.C2)
}

// CMov sets z = y when c is true and z = x otherwise, in constant time.
func (z *Fp6) CMov(x, y *Fp6, c bool) *Fp6 {
	z.C0.CMov(&x.C0, &y.C0, c)
	z.C1.CMov(&x.C1, &y.C1, c)
	z.C2.CMov(&x.C2, &y.C2, c)

	return z
}

func (x *Fp6) String() string {
	return fmt.Sprintf("(%s, %s, %s)", x.C0.String(), x.C1.String(), x.C2.String())
}
