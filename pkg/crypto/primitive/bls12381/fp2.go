/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"fmt"
	"math/big"
)

// Fp2Size is the byte length of an encoded Fp2 element.
const Fp2Size = 2 * FpSize

// Fp2 is an element c0 + c1*u of Fp[u]/(u^2+1).
type Fp2 struct {
	C0, C1 Fp
}

// nolint:gochecknoglobals
var (
	fp2ModulusBig  = new(big.Int).Mul(fpModulusBig, fpModulusBig)
	fpHalf         = fpFromHex("0x0d0088f51cbff34d258dd3db21a5d66bb23ba5c279c2895fb39869507b587b120f55ffff58a9ffffdcff7fffffffd556")
	fpOneFp2       = Fp2{C0: fpOne}
	fp2LegendreExp = new(big.Int).Rsh(new(big.Int).Sub(fpModulusBig, big.NewInt(1)), 1)
)

// NewFp2 builds c0 + c1*u from canonical big integers.
func NewFp2(c0, c1 *big.Int) *Fp2 {
	z := &Fp2{}
	z.C0.SetBigInt(c0)
	z.C1.SetBigInt(c1)

	return z
}

func fp2FromHex(c0, c1 string) Fp2 {
	return Fp2{C0: fpFromHex(c0), C1: fpFromHex(c1)}
}

// Set sets z = x.
func (z *Fp2) Set(x *Fp2) *Fp2 {
	*z = *x
	return z
}

// SetZero sets z = 0.
func (z *Fp2) SetZero() *Fp2 {
	*z = Fp2{}
	return z
}

// SetOne sets z = 1.
func (z *Fp2) SetOne() *Fp2 {
	*z = fpOneFp2
	return z
}

// SetUint64 sets z = v.
func (z *Fp2) SetUint64(v uint64) *Fp2 {
	z.C0.SetUint64(v)
	z.C1.SetZero()

	return z
}

// SetBytes decodes c1 || c0, each 48 bytes big-endian.
func (z *Fp2) SetBytes(b []byte) (*Fp2, error) {
	if len(b) != Fp2Size {
		return nil, fmt.Errorf("fp2: expected %d bytes, got %d: %w", Fp2Size, len(b), ErrInvalidFieldElement)
	}

	var t Fp2

	if _, err := t.C1.SetBytes(b[:FpSize]); err != nil {
		return nil, err
	}

	if _, err := t.C0.SetBytes(b[FpSize:]); err != nil {
		return nil, err
	}

	*z = t

	return z, nil
}

// Bytes encodes x as c1 || c0.
func (x *Fp2) Bytes() [Fp2Size]byte {
	var b [Fp2Size]byte

	c1 := x.C1.Bytes()
	c0 := x.C0.Bytes()

	copy(b[:FpSize], c1[:])
	copy(b[FpSize:], c0[:])

	return b
}

// Add sets z = x + y.
func (z *Fp2) Add(x, y *Fp2) *Fp2 {
	z.C0.Add(&x.C0, &y.C0)
	z.C1.Add(&x.C1, &y.C1)

	return z
}

// Double sets z = 2x.
func (z *Fp2) Double(x *Fp2) *Fp2 {
	z.C0.Double(&x.C0)
	z.C1.Double(&x.C1)

	return z
}

// Sub sets z = x - y.
func (z *Fp2) Sub(x, y *Fp2) *Fp2 {
	z.C0.Sub(&x.C0, &y.C0)
	z.C1.Sub(&x.C1, &y.C1)

	return z
}

// Neg sets z = -x.
func (z *Fp2) Neg(x *Fp2) *Fp2 {
	z.C0.Neg(&x.C0)
	z.C1.Neg(&x.C1)

	return z
}

// Conjugate sets z = c0 - c1*u.
func (z *Fp2) Conjugate(x *Fp2) *Fp2 {
	z.C0.Set(&x.C0)
	z.C1.Neg(&x.C1)

	return z
}

// Mul sets z = x * y (Karatsuba).
func (z *Fp2) Mul(x, y *Fp2) *Fp2 {
	var t1, t2, s1, s2 Fp

	t1.Mul(&x.C0, &y.C0)
	t2.Mul(&x.C1, &y.C1)
	s1.Add(&x.C0, &x.C1)
	s2.Add(&y.C0, &y.C1)

	z.C1.Mul(&s1, &s2)
	z.C1.Sub(&z.C1, &t1)
	z.C1.Sub(&z.C1, &t2)
	z.C0.Sub(&t1, &t2)

	return z
}

// MulByFp sets z = x * s for a base field scalar s.
func (z *Fp2) MulByFp(x *Fp2, s *Fp) *Fp2 {
	z.C0.Mul(&x.C0, s)
	z.C1.Mul(&x.C1, s)

	return z
}

// Square sets z = x^2 using (a+b)(a-b) + 2ab*u.
func (z *Fp2) Square(x *Fp2) *Fp2 {
	var a, b, c Fp

	a.Add(&x.C0, &x.C1)
	b.Sub(&x.C0, &x.C1)
	c.Double(&x.C0)

	z.C1.Mul(&c, &x.C1)
	z.C0.Mul(&a, &b)

	return z
}

// MulByNonResidue sets z = x * (1+u).
func (z *Fp2) MulByNonResidue(x *Fp2) *Fp2 {
	var t Fp

	t.Set(&x.C0)
	z.C0.Sub(&x.C0, &x.C1)
	z.C1.Add(&t, &x.C1)

	return z
}

// Exp sets z = x^e. It is variable time in e.
func (z *Fp2) Exp(x *Fp2, e *big.Int) *Fp2 {
	return exp(z, x, e)
}

// Inverse sets z = 1/x using the norm c0^2 + c1^2, the inverse of zero is zero.
func (z *Fp2) Inverse(x *Fp2) *Fp2 {
	var t0, t1 Fp

	t0.Square(&x.C0)
	t1.Square(&x.C1)
	t0.Add(&t0, &t1)
	t0.Inverse(&t0)

	z.C0.Mul(&x.C0, &t0)
	z.C1.Mul(&x.C1, &t0)
	z.C1.Neg(&z.C1)

	return z
}

// Invert sets z = 1/x and fails with ErrDivisionByZero when x is zero.
func (z *Fp2) Invert(x *Fp2) (*Fp2, error) {
	if x.IsZero() {
		return nil, ErrDivisionByZero
	}

	return z.Inverse(x), nil
}

// FrobeniusMap sets z = x^(p^power), which is conjugation for odd powers.
func (z *Fp2) FrobeniusMap(x *Fp2, power int) *Fp2 {
	if power%2 == 1 {
		return z.Conjugate(x)
	}

	return z.Set(x)
}

// Legendre returns the quadratic character of x, computed on its norm.
func (x *Fp2) Legendre() int {
	var n, t Fp

	n.Square(&x.C0)
	t.Square(&x.C1)
	n.Add(&n, &t)

	return legendre(&n, fp2LegendreExp)
}

// Sqrt sets z to a square root of x or fails with ErrNotASquare.
func (z *Fp2) Sqrt(x *Fp2) (*Fp2, error) {
	if x.C1.IsZero() {
		var r Fp

		if x.C0.Legendre() >= 0 {
			if _, err := r.Sqrt(&x.C0); err != nil {
				return nil, err
			}

			z.C0.Set(&r)
			z.C1.SetZero()

			return z, nil
		}

		// c0 is a non-residue in Fp, so sqrt(c0) = sqrt(-c0) * u.
		r.Neg(&x.C0)

		if _, err := r.Sqrt(&r); err != nil {
			return nil, err
		}

		z.C0.SetZero()
		z.C1.Set(&r)

		return z, nil
	}

	var a, d, t, a0, a1 Fp

	a.Square(&x.C0)
	t.Square(&x.C1)
	a.Add(&a, &t)

	if _, err := a.Sqrt(&a); err != nil {
		return nil, ErrNotASquare
	}

	d.Add(&a, &x.C0)
	d.Mul(&d, &fpHalf)

	if d.Legendre() == -1 {
		d.Sub(&d, &a)
	}

	if _, err := a0.Sqrt(&d); err != nil {
		return nil, ErrNotASquare
	}

	a1.Double(&a0)
	a1.Inverse(&a1)
	a1.Mul(&a1, &x.C1)

	r := Fp2{C0: a0, C1: a1}

	var check Fp2

	check.Square(&r)

	if !check.Equal(x) {
		return nil, ErrNotASquare
	}

	return z.Set(&r), nil
}

// IsZero reports x == 0.
func (x *Fp2) IsZero() bool {
	return x.C0.IsZero() && x.C1.IsZero()
}

// IsOne reports x == 1.
func (x *Fp2) IsOne() bool {
	return x.C0.IsOne() && x.C1.IsZero()
}

// Equal reports x == y.
func (x *Fp2) Equal(y *Fp2) bool {
	return x.C0.Equal(&y.C0) && x.C1.Equal(&y.C1)
}

// CMov sets z = y when c is true and z = x otherwise, in constant time.
func (z *Fp2) CMov(x, y *Fp2, c bool) *Fp2 {
	z.C0.CMov(&x.C0, &y.C0, c)
	z.C1.CMov(&x.C1, &y.C1, c)

	return z
}

// Sgn0 implements the sgn0 function of RFC 9380 for m = 2.
func (x *Fp2) Sgn0() int {
	sign0 := x.C0.Sgn0()
	zero0 := 0

	if x.C0.IsZero() {
		zero0 = 1
	}

	sign1 := x.C1.Sgn0()

	return sign0 | (zero0 & sign1)
}

// LexicographicallyLargest compares c1 first and falls back to c0 when c1 is zero.
func (x *Fp2) LexicographicallyLargest() bool {
	if x.C1.IsZero() {
		return x.C0.LexicographicallyLargest()
	}

	return x.C1.LexicographicallyLargest()
}

// String returns the two coordinates in hexadecimal.
func (x *Fp2) String() string {
	return fmt.Sprintf("(%s + %s*u)", x.C0.String(), x.C1.String())
}
