/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"fmt"
	"math/big"
	"sync"
)

const (
	// G2CompressedSize is the length of a compressed G2 point.
	G2CompressedSize = Fp2Size
	// G2UncompressedSize is the length of an uncompressed G2 point.
	G2UncompressedSize = 2 * Fp2Size
)

// nolint:gochecknoglobals
var (
	g2Curve *curve[Fp2, *Fp2]

	g2BaseOnce  sync.Once
	g2BaseTable *PrecomputedG2
)

// G2 is a point of the prime order subgroup of the sextic twist E2(Fp2).
type G2 struct {
	p point[Fp2]
}

// G2Generator returns the standard generator of G2.
func G2Generator() *G2 {
	g := &G2{}
	g2Curve.fromAffine(&g.p, &g2GenX, &g2GenY)

	return g
}

// G2Identity returns the point at infinity.
func G2Identity() *G2 {
	g := &G2{}
	g2Curve.identity(&g.p)

	return g
}

// NewG2FromAffine builds a point from affine coordinates without validating it.
func NewG2FromAffine(x, y *Fp2) *G2 {
	g := &G2{}
	g2Curve.fromAffine(&g.p, x, y)

	return g
}

// Set sets z = p.
func (z *G2) Set(p *G2) *G2 {
	*z = *p
	return z
}

// SetIdentity sets z to the point at infinity.
func (z *G2) SetIdentity() *G2 {
	g2Curve.identity(&z.p)
	return z
}

// IsIdentity reports whether p is the point at infinity.
func (p *G2) IsIdentity() bool {
	return g2Curve.isIdentity(&p.p)
}

// Add sets z = p + q.
func (z *G2) Add(p, q *G2) *G2 {
	g2Curve.add(&z.p, &p.p, &q.p)
	return z
}

// Double sets z = 2p.
func (z *G2) Double(p *G2) *G2 {
	g2Curve.double(&z.p, &p.p)
	return z
}

// Neg sets z = -p.
func (z *G2) Neg(p *G2) *G2 {
	g2Curve.neg(&z.p, &p.p)
	return z
}

// Sub sets z = p - q.
func (z *G2) Sub(p, q *G2) *G2 {
	g2Curve.sub(&z.p, &p.p, &q.p)
	return z
}

// Equal reports whether p and q are the same point.
func (p *G2) Equal(q *G2) bool {
	return g2Curve.equal(&p.p, &q.p)
}

// IsOnCurve reports whether p satisfies y^2 = x^3 + 4(1+u).
func (p *G2) IsOnCurve() bool {
	return g2Curve.isOnCurve(&p.p)
}

// Affine returns the affine coordinates of p, (0, 0) for the identity.
func (p *G2) Affine() (Fp2, Fp2) {
	return g2Curve.affine(&p.p)
}

// Mul sets z = k * p in constant time. k must be non-zero.
func (z *G2) Mul(p *G2, k *Fr) (*G2, error) {
	if k.IsZero() {
		return nil, ErrInvalidScalar
	}

	t := g2Curve.precompute(&p.p, WindowDefault)
	g2Curve.mulConstTime(&z.p, t, k)

	return z, nil
}

// MulUnsafe sets z = k * p in variable time, for public inputs only.
func (z *G2) MulUnsafe(p *G2, k *big.Int) *G2 {
	g2Curve.mulBig(&z.p, &p.p, k)
	return z
}

// MulBase sets z = k * G using the shared table of the generator.
func (z *G2) MulBase(k *Fr) (*G2, error) {
	return g2Base().Mul(z, k)
}

// psi applies the untwist-Frobenius-twist endomorphism.
func (z *G2) psi(p *G2) *G2 {
	var x, y, zz Fp2

	x.Conjugate(&p.p.x)
	x.Mul(&x, &psiX)
	y.Conjugate(&p.p.y)
	y.Mul(&y, &psiY)
	zz.Conjugate(&p.p.z)

	z.p.x, z.p.y, z.p.z = x, y, zz

	return z
}

// psi2 applies psi twice.
func (z *G2) psi2(p *G2) *G2 {
	z.p.x.Mul(&p.p.x, &psi2X)
	z.p.y.Neg(&p.p.y)
	z.p.z.Set(&p.p.z)

	return z
}

// mulByX sets z = x * p for the negative curve parameter x.
func (z *G2) mulByX(p *G2) *G2 {
	g2Curve.mulUint64(&z.p, &p.p, blsX)
	return z.Neg(z)
}

// ClearCofactor multiplies p by the effective cofactor h_eff of RFC 9380 with the
// Budroni-Pintore decomposition.
func (z *G2) ClearCofactor(p *G2) *G2 {
	var t1, t2, t3 G2

	t1.mulByX(p)
	t2.psi(p)

	t3.Double(p)
	t3.psi2(&t3)
	t3.Sub(&t3, &t2)

	t2.Add(&t1, &t2)
	t2.mulByX(&t2)

	t3.Add(&t3, &t2)
	t3.Sub(&t3, &t1)

	return z.Sub(&t3, p)
}

// IsTorsionFree reports whether p lies in the order r subgroup: psi(p) == x * p.
func (p *G2) IsTorsionFree() bool {
	var t, ps G2

	t.mulByX(p)
	ps.psi(p)

	return t.Equal(&ps)
}

// AssertValidity checks that p is on the curve and torsion free. The identity is rejected.
func (p *G2) AssertValidity() error {
	if p.IsIdentity() {
		return fmt.Errorf("g2: %w", ErrInvalidInfinity)
	}

	if !p.IsOnCurve() {
		return fmt.Errorf("g2: not on curve: %w", ErrInvalidPoint)
	}

	if !p.IsTorsionFree() {
		return fmt.Errorf("g2: %w", ErrSubgroup)
	}

	return nil
}

// Compress returns the 96 byte compressed encoding x1 || x0 of p.
func (p *G2) Compress() []byte {
	out := make([]byte, G2CompressedSize)

	if p.IsIdentity() {
		out[0] = flagCompressed | flagInfinity
		return out
	}

	x, y := p.Affine()
	xb := x.Bytes()

	copy(out, xb[:])
	out[0] |= flagCompressed

	if y.LexicographicallyLargest() {
		out[0] |= flagSign
	}

	return out
}

// Bytes returns the 192 byte uncompressed encoding x1 || x0 || y1 || y0 of p.
func (p *G2) Bytes() []byte {
	out := make([]byte, G2UncompressedSize)

	if p.IsIdentity() {
		out[0] = flagInfinity
		return out
	}

	x, y := p.Affine()
	xb, yb := x.Bytes(), y.Bytes()

	copy(out, xb[:])
	copy(out[Fp2Size:], yb[:])

	return out
}

// SetBytes decodes a compressed (96 bytes), uncompressed (192 bytes) or SEC1 uncompressed
// (0x04 || x || y, 193 bytes) point and checks that it lies in G2.
func (z *G2) SetBytes(in []byte) (*G2, error) {
	var p G2

	if err := p.decode(in); err != nil {
		return nil, err
	}

	if !p.IsIdentity() && !p.IsTorsionFree() {
		return nil, fmt.Errorf("g2: %w", ErrSubgroup)
	}

	return z.Set(&p), nil
}

func (z *G2) decode(in []byte) error {
	switch len(in) {
	case G2CompressedSize:
		return z.decodeCompressed(in)
	case G2UncompressedSize:
		return z.decodeUncompressed(in)
	case G2UncompressedSize + 1:
		if in[0] != sec1Uncompressed {
			return fmt.Errorf("g2: unknown prefix 0x%02x: %w", in[0], ErrInvalidPoint)
		}

		return z.decodeAffine(in[1:Fp2Size+1], in[Fp2Size+1:])
	default:
		return fmt.Errorf("g2: invalid encoding length %d: %w", len(in), ErrInvalidPoint)
	}
}

func (z *G2) decodeCompressed(in []byte) error {
	flags := in[0] & flagMask
	if flags&flagCompressed == 0 {
		return fmt.Errorf("g2: compression flag missing: %w", ErrInvalidPoint)
	}

	if flags&flagInfinity != 0 {
		if flags&flagSign != 0 || !isZeroPayload(in) {
			return fmt.Errorf("g2: %w", ErrInvalidInfinity)
		}

		z.SetIdentity()

		return nil
	}

	buf := make([]byte, Fp2Size)
	copy(buf, in)
	buf[0] &^= flagMask

	var x, y, rhs Fp2

	if _, err := x.SetBytes(buf); err != nil {
		return fmt.Errorf("g2: x coordinate: %w", ErrInvalidPoint)
	}

	rhs.Square(&x)
	rhs.Mul(&rhs, &x)
	rhs.Add(&rhs, &g2B)

	if _, err := y.Sqrt(&rhs); err != nil {
		return fmt.Errorf("g2: x is not on the curve: %w", ErrInvalidPoint)
	}

	if y.LexicographicallyLargest() != (flags&flagSign != 0) {
		y.Neg(&y)
	}

	g2Curve.fromAffine(&z.p, &x, &y)

	return nil
}

func (z *G2) decodeUncompressed(in []byte) error {
	flags := in[0] & flagMask
	if flags&(flagCompressed|flagSign) != 0 {
		return fmt.Errorf("g2: unexpected flags 0x%02x: %w", flags, ErrInvalidPoint)
	}

	if flags&flagInfinity != 0 {
		if !isZeroPayload(in) {
			return fmt.Errorf("g2: %w", ErrInvalidInfinity)
		}

		z.SetIdentity()

		return nil
	}

	return z.decodeAffine(in[:Fp2Size], in[Fp2Size:])
}

func (z *G2) decodeAffine(xb, yb []byte) error {
	var x, y Fp2

	if _, err := x.SetBytes(xb); err != nil {
		return fmt.Errorf("g2: x coordinate: %w", ErrInvalidPoint)
	}

	if _, err := y.SetBytes(yb); err != nil {
		return fmt.Errorf("g2: y coordinate: %w", ErrInvalidPoint)
	}

	g2Curve.fromAffine(&z.p, &x, &y)

	if !z.IsOnCurve() {
		return fmt.Errorf("g2: not on curve: %w", ErrInvalidPoint)
	}

	return nil
}

func (p *G2) String() string {
	if p.IsIdentity() {
		return "G2(infinity)"
	}

	x, y := p.Affine()

	return fmt.Sprintf("G2(%s, %s)", x.String(), y.String())
}

// PrecomputedG2 owns the window table of a long-lived point. It is immutable once built and
// safe for concurrent use.
type PrecomputedG2 struct {
	base  G2
	table *wnafTable[Fp2]
}

// PrecomputeG2 builds the table of p for window w.
func PrecomputeG2(p *G2, w uint) *PrecomputedG2 {
	return &PrecomputedG2{
		base:  *p,
		table: g2Curve.precompute(&p.p, w),
	}
}

// Point returns a copy of the precomputed point.
func (t *PrecomputedG2) Point() *G2 {
	p := t.base
	return &p
}

// Mul sets z = k * P in constant time. k must be non-zero.
func (t *PrecomputedG2) Mul(z *G2, k *Fr) (*G2, error) {
	if k.IsZero() {
		return nil, ErrInvalidScalar
	}

	g2Curve.mulConstTime(&z.p, t.table, k)

	return z, nil
}

// MulUnsafe sets z = k * P in variable time. k may be zero.
func (t *PrecomputedG2) MulUnsafe(z *G2, k *Fr) *G2 {
	g2Curve.mulVarTime(&z.p, t.table, k)
	return z
}

func g2Base() *PrecomputedG2 {
	g2BaseOnce.Do(func() {
		g2BaseTable = PrecomputeG2(G2Generator(), WindowLongLived)
	})

	return g2BaseTable
}
