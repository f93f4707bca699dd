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
	// G1CompressedSize is the length of a compressed G1 point.
	G1CompressedSize = FpSize
	// G1UncompressedSize is the length of an uncompressed G1 point.
	G1UncompressedSize = 2 * FpSize
)

// nolint:gochecknoglobals
var (
	g1Curve *curve[Fp, *Fp]

	g1BaseOnce  sync.Once
	g1BaseTable *PrecomputedG1
)

// G1 is a point of the prime order subgroup of E1(Fp), or any point of E1 before validation.
type G1 struct {
	p point[Fp]
}

// G1Generator returns the standard generator of G1.
func G1Generator() *G1 {
	g := &G1{}
	g1Curve.fromAffine(&g.p, &g1GenX, &g1GenY)

	return g
}

// G1Identity returns the point at infinity.
func G1Identity() *G1 {
	g := &G1{}
	g1Curve.identity(&g.p)

	return g
}

// NewG1FromAffine builds a point from affine coordinates without validating it.
func NewG1FromAffine(x, y *Fp) *G1 {
	g := &G1{}
	g1Curve.fromAffine(&g.p, x, y)

	return g
}

// Set sets z = p.
func (z *G1) Set(p *G1) *G1 {
	*z = *p
	return z
}

// SetIdentity sets z to the point at infinity.
func (z *G1) SetIdentity() *G1 {
	g1Curve.identity(&z.p)
	return z
}

// IsIdentity reports whether p is the point at infinity.
func (p *G1) IsIdentity() bool {
	return g1Curve.isIdentity(&p.p)
}

// Add sets z = p + q.
func (z *G1) Add(p, q *G1) *G1 {
	g1Curve.add(&z.p, &p.p, &q.p)
	return z
}

// Double sets z = 2p.
func (z *G1) Double(p *G1) *G1 {
	g1Curve.double(&z.p, &p.p)
	return z
}

// Neg sets z = -p.
func (z *G1) Neg(p *G1) *G1 {
	g1Curve.neg(&z.p, &p.p)
	return z
}

// Sub sets z = p - q.
func (z *G1) Sub(p, q *G1) *G1 {
	g1Curve.sub(&z.p, &p.p, &q.p)
	return z
}

// Equal reports whether p and q are the same point.
func (p *G1) Equal(q *G1) bool {
	return g1Curve.equal(&p.p, &q.p)
}

// IsOnCurve reports whether p satisfies y^2 = x^3 + 4.
func (p *G1) IsOnCurve() bool {
	return g1Curve.isOnCurve(&p.p)
}

// Affine returns the affine coordinates of p, (0, 0) for the identity.
func (p *G1) Affine() (Fp, Fp) {
	return g1Curve.affine(&p.p)
}

// Mul sets z = k * p in constant time. k must be non-zero.
func (z *G1) Mul(p *G1, k *Fr) (*G1, error) {
	if k.IsZero() {
		return nil, ErrInvalidScalar
	}

	t := g1Curve.precompute(&p.p, WindowDefault)
	g1Curve.mulConstTime(&z.p, t, k)

	return z, nil
}

// MulUnsafe sets z = k * p in variable time, for public inputs only. Any integer is accepted
// and reduced mod r.
func (z *G1) MulUnsafe(p *G1, k *big.Int) *G1 {
	g1Curve.mulBig(&z.p, &p.p, k)
	return z
}

// MulBase sets z = k * G using the shared table of the generator.
func (z *G1) MulBase(k *Fr) (*G1, error) {
	return g1Base().Mul(z, k)
}

// ClearCofactor sets z = h_eff * p with h_eff = 1 - x = |x| + 1.
func (z *G1) ClearCofactor(p *G1) *G1 {
	var t point[Fp]

	g1Curve.mulUint64(&t, &p.p, blsX)
	g1Curve.add(&z.p, &t, &p.p)

	return z
}

// phi sets z = (beta * X : Y : Z).
func (z *G1) phi(p *G1) *G1 {
	z.p.x.Mul(&p.p.x, &g1Beta)
	z.p.y.Set(&p.p.y)
	z.p.z.Set(&p.p.z)

	return z
}

// IsTorsionFree reports whether p lies in the order r subgroup: phi(p) == -x^2 * p.
func (p *G1) IsTorsionFree() bool {
	var t, ph G1

	g1Curve.mulUint64(&t.p, &p.p, blsX)
	t.Neg(&t)
	g1Curve.mulUint64(&t.p, &t.p, blsX)

	ph.phi(p)

	return t.Equal(&ph)
}

// AssertValidity checks that p is on the curve and torsion free. The identity is rejected.
func (p *G1) AssertValidity() error {
	if p.IsIdentity() {
		return fmt.Errorf("g1: %w", ErrInvalidInfinity)
	}

	if !p.IsOnCurve() {
		return fmt.Errorf("g1: not on curve: %w", ErrInvalidPoint)
	}

	if !p.IsTorsionFree() {
		return fmt.Errorf("g1: %w", ErrSubgroup)
	}

	return nil
}

// Compress returns the 48 byte compressed encoding of p.
func (p *G1) Compress() []byte {
	out := make([]byte, G1CompressedSize)

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

// Bytes returns the 96 byte uncompressed encoding x || y of p.
func (p *G1) Bytes() []byte {
	out := make([]byte, G1UncompressedSize)

	if p.IsIdentity() {
		out[0] = flagInfinity
		return out
	}

	x, y := p.Affine()
	xb, yb := x.Bytes(), y.Bytes()

	copy(out, xb[:])
	copy(out[FpSize:], yb[:])

	return out
}

// SetBytes decodes a compressed (48 bytes), uncompressed (96 bytes) or SEC1 uncompressed
// (0x04 || x || y, 97 bytes) point and checks that it lies in G1.
func (z *G1) SetBytes(in []byte) (*G1, error) {
	var p G1

	if err := p.decode(in); err != nil {
		return nil, err
	}

	if !p.IsIdentity() && !p.IsTorsionFree() {
		return nil, fmt.Errorf("g1: %w", ErrSubgroup)
	}

	return z.Set(&p), nil
}

func (z *G1) decode(in []byte) error {
	switch len(in) {
	case G1CompressedSize:
		return z.decodeCompressed(in)
	case G1UncompressedSize:
		return z.decodeUncompressed(in)
	case G1UncompressedSize + 1:
		if in[0] != sec1Uncompressed {
			return fmt.Errorf("g1: unknown prefix 0x%02x: %w", in[0], ErrInvalidPoint)
		}

		return z.decodeAffine(in[1:FpSize+1], in[FpSize+1:])
	default:
		return fmt.Errorf("g1: invalid encoding length %d: %w", len(in), ErrInvalidPoint)
	}
}

func (z *G1) decodeCompressed(in []byte) error {
	flags := in[0] & flagMask
	if flags&flagCompressed == 0 {
		return fmt.Errorf("g1: compression flag missing: %w", ErrInvalidPoint)
	}

	if flags&flagInfinity != 0 {
		if flags&flagSign != 0 || !isZeroPayload(in) {
			return fmt.Errorf("g1: %w", ErrInvalidInfinity)
		}

		z.SetIdentity()

		return nil
	}

	buf := make([]byte, FpSize)
	copy(buf, in)
	buf[0] &^= flagMask

	var x, y Fp

	if _, err := x.SetBytes(buf); err != nil {
		return fmt.Errorf("g1: x coordinate: %w", ErrInvalidPoint)
	}

	var rhs Fp

	rhs.Square(&x)
	rhs.Mul(&rhs, &x)
	rhs.Add(&rhs, &g1B)

	if _, err := y.Sqrt(&rhs); err != nil {
		return fmt.Errorf("g1: x is not on the curve: %w", ErrInvalidPoint)
	}

	if y.LexicographicallyLargest() != (flags&flagSign != 0) {
		y.Neg(&y)
	}

	g1Curve.fromAffine(&z.p, &x, &y)

	return nil
}

func (z *G1) decodeUncompressed(in []byte) error {
	flags := in[0] & flagMask
	if flags&(flagCompressed|flagSign) != 0 {
		return fmt.Errorf("g1: unexpected flags 0x%02x: %w", flags, ErrInvalidPoint)
	}

	if flags&flagInfinity != 0 {
		if !isZeroPayload(in) {
			return fmt.Errorf("g1: %w", ErrInvalidInfinity)
		}

		z.SetIdentity()

		return nil
	}

	return z.decodeAffine(in[:FpSize], in[FpSize:])
}

func (z *G1) decodeAffine(xb, yb []byte) error {
	var x, y Fp

	if _, err := x.SetBytes(xb); err != nil {
		return fmt.Errorf("g1: x coordinate: %w", ErrInvalidPoint)
	}

	if _, err := y.SetBytes(yb); err != nil {
		return fmt.Errorf("g1: y coordinate: %w", ErrInvalidPoint)
	}

	g1Curve.fromAffine(&z.p, &x, &y)

	if !z.IsOnCurve() {
		return fmt.Errorf("g1: not on curve: %w", ErrInvalidPoint)
	}

	return nil
}

func (p *G1) String() string {
	if p.IsIdentity() {
		return "G1(infinity)"
	}

	x, y := p.Affine()

	return fmt.Sprintf("G1(%s, %s)", x.String(), y.String())
}

// PrecomputedG1 owns the window table of a long-lived point. It is immutable once built and
// safe for concurrent use.
type PrecomputedG1 struct {
	base  G1
	table *wnafTable[Fp]
}

// PrecomputeG1 builds the table of p for window w (WindowLongLived or WindowDefault).
func PrecomputeG1(p *G1, w uint) *PrecomputedG1 {
	return &PrecomputedG1{
		base:  *p,
		table: g1Curve.precompute(&p.p, w),
	}
}

// Point returns a copy of the precomputed point.
func (t *PrecomputedG1) Point() *G1 {
	p := t.base
	return &p
}

// Mul sets z = k * P in constant time. k must be non-zero.
func (t *PrecomputedG1) Mul(z *G1, k *Fr) (*G1, error) {
	if k.IsZero() {
		return nil, ErrInvalidScalar
	}

	g1Curve.mulConstTime(&z.p, t.table, k)

	return z, nil
}

// MulUnsafe sets z = k * P in variable time. k may be zero.
func (t *PrecomputedG1) MulUnsafe(z *G1, k *Fr) *G1 {
	g1Curve.mulVarTime(&z.p, t.table, k)
	return z
}

func g1Base() *PrecomputedG1 {
	g1BaseOnce.Do(func() {
		g1BaseTable = PrecomputeG1(G1Generator(), WindowLongLived)
	})

	return g1BaseTable
}
