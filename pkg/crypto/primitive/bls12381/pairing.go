/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"fmt"
	"sync"
)

// GT is the multiplicative target group, a subgroup of Fp12*.
type GT = Fp12

// lineCoeffs holds the coefficients (c0, c1, c2) of a line; it is evaluated at P = (x, y) as
// the sparse element c0 + (c1*x)v + (c2*y)vw.
type lineCoeffs [3]Fp2

// nolint:gochecknoglobals
var (
	ateNAF = nafDigits(blsX)

	g2GenLinesOnce sync.Once
	g2GenLines     []lineCoeffs
)

// nafDigits returns the non-adjacent form of a from the most significant digit down, without
// the leading 1.
func nafDigits(a uint64) []int8 {
	var out []int8

	for a > 1 {
		switch {
		case a%2 == 0:
			out = append(out, 0)
		case a%4 == 1: //nolint:gomnd
			out = append(out, 1)
			a--
		default:
			out = append(out, -1)
			a++
		}

		a /= 2
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// g2Lines precomputes the line coefficients of the Miller loop for the affine point (qx, qy).
func g2Lines(qx, qy *Fp2) []lineCoeffs {
	lines := make([]lineCoeffs, 0, 2*len(ateNAF))

	var rx, ry, rz Fp2

	rx.Set(qx)
	ry.Set(qy)
	rz.SetOne()

	var negQy Fp2

	negQy.Neg(qy)

	for _, digit := range ateNAF {
		lines = append(lines, lineDouble(&rx, &ry, &rz))

		switch digit {
		case 1:
			lines = append(lines, lineAdd(&rx, &ry, &rz, qx, qy))
		case -1:
			lines = append(lines, lineAdd(&rx, &ry, &rz, qx, &negQy))
		}
	}

	return lines
}

// lineDouble doubles R in place and returns the tangent line at R.
func lineDouble(rx, ry, rz *Fp2) lineCoeffs {
	var t0, t1, t2, t3, t4, s Fp2

	t0.Square(ry)
	t1.Square(rz)

	t2.Double(&t1)
	t2.Add(&t2, &t1)
	t2.Mul(&t2, &g2B)

	t3.Double(&t2)
	t3.Add(&t3, &t2)

	t4.Add(ry, rz)
	t4.Square(&t4)
	t4.Sub(&t4, &t1)
	t4.Sub(&t4, &t0)

	var l lineCoeffs

	l[0].Sub(&t2, &t0)
	l[1].Square(rx)
	s.Double(&l[1])
	l[1].Add(&l[1], &s)
	l[2].Neg(&t4)

	// X = (t0 - t3) * X * Y / 2
	s.Sub(&t0, &t3)
	s.Mul(&s, rx)
	s.Mul(&s, ry)
	rx.MulByFp(&s, &fpHalf)

	// Y = ((t0 + t3) / 2)^2 - 3 * t2^2
	s.Add(&t0, &t3)
	s.MulByFp(&s, &fpHalf)
	s.Square(&s)

	var t2sq Fp2

	t2sq.Square(&t2)
	ry.Double(&t2sq)
	ry.Add(ry, &t2sq)
	ry.Sub(&s, ry)

	// Z = t0 * t4
	rz.Mul(&t0, &t4)

	return l
}

// lineAdd sets R = R + Q in place and returns the line through R and Q.
func lineAdd(rx, ry, rz, qx, qy *Fp2) lineCoeffs {
	var t0, t1, t2, t3, t4, t5, s Fp2

	t0.Mul(qy, rz)
	t0.Sub(ry, &t0)

	t1.Mul(qx, rz)
	t1.Sub(rx, &t1)

	var l lineCoeffs

	l[0].Mul(&t0, qx)
	s.Mul(&t1, qy)
	l[0].Sub(&l[0], &s)
	l[1].Neg(&t0)
	l[2].Set(&t1)

	t2.Square(&t1)
	t3.Mul(&t2, &t1)
	t4.Mul(&t2, rx)

	t5.Double(&t4)
	t5.Sub(&t3, &t5)
	s.Square(&t0)
	s.Mul(&s, rz)
	t5.Add(&t5, &s)

	rx.Mul(&t1, &t5)

	s.Sub(&t4, &t5)
	s.Mul(&s, &t0)
	t4.Mul(&t3, ry)
	ry.Sub(&s, &t4)

	rz.Mul(rz, &t3)

	return l
}

type millerTerm struct {
	px, py Fp
	lines  []lineCoeffs
}

func generatorLines() []lineCoeffs {
	g2GenLinesOnce.Do(func() {
		g2GenLines = g2Lines(&g2GenX, &g2GenY)
	})

	return g2GenLines
}

func newMillerTerm(p *G1, q *G2) (millerTerm, error) {
	if p.IsIdentity() || q.IsIdentity() {
		return millerTerm{}, ErrDegeneratePairing
	}

	var t millerTerm

	t.px, t.py = p.Affine()

	qx, qy := q.Affine()
	if qx.Equal(&g2GenX) && qy.Equal(&g2GenY) {
		t.lines = generatorLines()
	} else {
		t.lines = g2Lines(&qx, &qy)
	}

	return t, nil
}

func millerLoop(terms []millerTerm) *Fp12 {
	f := new(Fp12).SetOne()

	var o1, o2 Fp2

	idx := 0

	for _, digit := range ateNAF {
		f.Square(f)

		steps := 1
		if digit != 0 {
			steps = 2
		}

		for k := range terms {
			t := &terms[k]

			for s := 0; s < steps; s++ {
				l := &t.lines[idx+s]
				o1.MulByFp(&l[1], &t.px)
				o2.MulByFp(&l[2], &t.py)
				f.MulBy014(f, &l[0], &o1, &o2)
			}
		}

		idx += steps
	}

	// the curve parameter is negative
	return f.Conjugate(f)
}

// MillerLoop returns the product of the Miller loops of the pairs (ps[i], qs[i]) without the
// final exponentiation. Identity operands fail with ErrDegeneratePairing.
func MillerLoop(ps []*G1, qs []*G2) (*GT, error) {
	if len(ps) != len(qs) {
		return nil, fmt.Errorf("pairing: %d G1 points for %d G2 points", len(ps), len(qs))
	}

	terms := make([]millerTerm, len(ps))

	for i := range ps {
		t, err := newMillerTerm(ps[i], qs[i])
		if err != nil {
			return nil, fmt.Errorf("pairing term %d: %w", i, err)
		}

		terms[i] = t
	}

	return millerLoop(terms), nil
}

// FinalExponentiation raises f to (p^12 - 1)/r.
func FinalExponentiation(f *GT) *GT {
	var t0, t1, t2, t3, t4, t5, t6, t7, s Fp12

	// easy part: f^((p^6 - 1)(p^2 + 1))
	s.Inverse(f)
	t0.FrobeniusMap(f, 6) //nolint:gomnd
	t0.Mul(&t0, &s)
	t1.FrobeniusMap(&t0, 2) //nolint:gomnd
	t1.Mul(&t1, &t0)

	// hard part
	t2.cyclotomicExp(&t1)
	t2.Conjugate(&t2)

	t3.CyclotomicSquare(&t1)
	t3.Conjugate(&t3)
	t3.Mul(&t3, &t2)

	t4.cyclotomicExp(&t3)
	t4.Conjugate(&t4)

	t5.cyclotomicExp(&t4)
	t5.Conjugate(&t5)

	t6.cyclotomicExp(&t5)
	t6.Conjugate(&t6)
	s.CyclotomicSquare(&t2)
	t6.Mul(&t6, &s)

	t7.cyclotomicExp(&t6)
	t7.Conjugate(&t7)

	var a, b, c, d Fp12

	a.Mul(&t2, &t5)
	a.FrobeniusMap(&a, 2) //nolint:gomnd

	b.Mul(&t4, &t1)
	b.FrobeniusMap(&b, 3) //nolint:gomnd

	s.Conjugate(&t1)
	c.Mul(&t6, &s)
	c.FrobeniusMap(&c, 1)

	s.Conjugate(&t3)
	d.Mul(&t7, &s)
	d.Mul(&d, &t1)

	out := new(Fp12)
	out.Mul(&a, &b)
	out.Mul(out, &c)
	out.Mul(out, &d)

	return out
}

// Pair computes the optimal ate pairing e(p, q).
func Pair(p *G1, q *G2) (*GT, error) {
	return PairingBatch([]*G1{p}, []*G2{q})
}

// PairingBatch computes prod e(ps[i], qs[i]) with a single final exponentiation.
func PairingBatch(ps []*G1, qs []*G2) (*GT, error) {
	f, err := MillerLoop(ps, qs)
	if err != nil {
		return nil, err
	}

	return FinalExponentiation(f), nil
}

// PairingsEqual reports whether e(a, b) == e(c, d), computed as e(a, b) * e(c, -d) == 1.
func PairingsEqual(a *G1, b *G2, c *G1, d *G2) (bool, error) {
	var negD G2

	negD.Neg(d)

	f, err := PairingBatch([]*G1{a, c}, []*G2{b, &negD})
	if err != nil {
		return false, err
	}

	return f.IsOne(), nil
}
