/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"fmt"
	"io"
	"math/big"
)

// FpSize is the byte length of an encoded base field element.
const FpSize = 48

// Fp is an element of the BLS12-381 base field, held in Montgomery form.
type Fp [6]uint64

// nolint:gochecknoglobals
var (
	fpModulusBig = mustBigHex("0x1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab")

	fpModulus = fpFromBigRaw(fpModulusBig)
	fpInv     = montInverse(fpModulus[0])
	fpOne     = fpFromBigRaw(montR(fpModulusBig, 6))
	fpR2      = fpFromBigRaw(montR2(fpModulusBig, 6))

	fpHalfPlusOne = fpFromBigRaw(new(big.Int).Rsh(new(big.Int).Add(fpModulusBig, big.NewInt(1)), 1))
	fpInvExp      = new(big.Int).Sub(fpModulusBig, big.NewInt(2))
	fpLegendreExp = new(big.Int).Rsh(new(big.Int).Sub(fpModulusBig, big.NewInt(1)), 1)

	fpSqrt sqrtFunc[Fp]
)

func fpFromBigRaw(v *big.Int) Fp {
	var z Fp

	limbsFromBig(z[:], v)

	return z
}

// montR returns 2^(64*n) mod m.
func montR(m *big.Int, n uint) *big.Int {
	r := new(big.Int).Lsh(big.NewInt(1), 64*n) //nolint:gomnd
	return r.Mod(r, m)
}

// montR2 returns 2^(128*n) mod m.
func montR2(m *big.Int, n uint) *big.Int {
	r := montR(m, n)
	return r.Mul(r, r).Mod(r, m)
}

// fpFromHex parses a canonical hexadecimal constant. It panics on malformed input and is meant for
// package level constants only.
func fpFromHex(s string) Fp {
	var z Fp

	z.SetBigInt(mustBigHex(s))

	return z
}

// Set sets z = x.
func (z *Fp) Set(x *Fp) *Fp {
	*z = *x
	return z
}

// SetZero sets z = 0.
func (z *Fp) SetZero() *Fp {
	*z = Fp{}
	return z
}

// SetOne sets z = 1.
func (z *Fp) SetOne() *Fp {
	*z = fpOne
	return z
}

// SetUint64 sets z = v.
func (z *Fp) SetUint64(v uint64) *Fp {
	*z = Fp{v}
	return z.toMont()
}

// SetBigInt sets z = v mod p.
func (z *Fp) SetBigInt(v *big.Int) *Fp {
	t := new(big.Int).Mod(v, fpModulusBig)
	limbsFromBig(z[:], t)

	return z.toMont()
}

// BigInt returns the canonical value of x.
func (x *Fp) BigInt() *big.Int {
	t := x.canonical()
	return bigFromLimbs(t[:])
}

// SetBytes decodes a 48 byte big-endian value, rejecting values not lower than p.
func (z *Fp) SetBytes(b []byte) (*Fp, error) {
	if len(b) != FpSize {
		return nil, fmt.Errorf("fp: expected %d bytes, got %d: %w", FpSize, len(b), ErrInvalidFieldElement)
	}

	var t Fp

	limbsFromBytes(t[:], b)

	if !lessThan(t[:], fpModulus[:]) {
		return nil, ErrInvalidFieldElement
	}

	*z = t

	return z.toMont(), nil
}

// SetBytesWide interprets b as a big-endian integer of any length and reduces it mod p.
func (z *Fp) SetBytesWide(b []byte) *Fp {
	return z.SetBigInt(new(big.Int).SetBytes(b))
}

// SetRandom samples a uniformly distributed element.
func (z *Fp) SetRandom(rng io.Reader) (*Fp, error) {
	buf := make([]byte, FpSize+16) //nolint:gomnd

	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, fmt.Errorf("fp: read random bytes: %w", err)
	}

	return z.SetBytesWide(buf), nil
}

// Bytes returns the 48 byte big-endian encoding of x.
func (x *Fp) Bytes() [FpSize]byte {
	var b [FpSize]byte

	t := x.canonical()
	limbsToBytes(b[:], t[:])

	return b
}

// Add sets z = x + y.
func (z *Fp) Add(x, y *Fp) *Fp {
	addMod(z[:], x[:], y[:], fpModulus[:])
	return z
}

// Double sets z = 2x.
func (z *Fp) Double(x *Fp) *Fp {
	addMod(z[:], x[:], x[:], fpModulus[:])
	return z
}

// Sub sets z = x - y.
func (z *Fp) Sub(x, y *Fp) *Fp {
	subMod(z[:], x[:], y[:], fpModulus[:])
	return z
}

// Neg sets z = -x.
func (z *Fp) Neg(x *Fp) *Fp {
	negMod(z[:], x[:], fpModulus[:])
	return z
}

// Mul sets z = x * y.
func (z *Fp) Mul(x, y *Fp) *Fp {
	montMul(z[:], x[:], y[:], fpModulus[:], fpInv)
	return z
}

// Square sets z = x^2.
func (z *Fp) Square(x *Fp) *Fp {
	montMul(z[:], x[:], x[:], fpModulus[:], fpInv)
	return z
}

// Exp sets z = x^e for a non-negative exponent. It is variable time in e.
func (z *Fp) Exp(x *Fp, e *big.Int) *Fp {
	return exp(z, x, e)
}

// Inverse sets z = 1/x, the inverse of zero is zero.
func (z *Fp) Inverse(x *Fp) *Fp {
	return z.Exp(x, fpInvExp)
}

// Invert sets z = 1/x and fails with ErrDivisionByZero when x is zero.
func (z *Fp) Invert(x *Fp) (*Fp, error) {
	if x.IsZero() {
		return nil, ErrDivisionByZero
	}

	return z.Inverse(x), nil
}

// Sqrt sets z to a square root of x or fails with ErrNotASquare.
func (z *Fp) Sqrt(x *Fp) (*Fp, error) {
	return fpSqrt(z, x)
}

// Legendre returns the Legendre symbol of x: 1, -1 or 0.
func (x *Fp) Legendre() int {
	return legendre(x, fpLegendreExp)
}

// IsZero reports x == 0.
func (x *Fp) IsZero() bool {
	return isZeroLimbs(x[:])
}

// IsOne reports x == 1.
func (x *Fp) IsOne() bool {
	return equalLimbs(x[:], fpOne[:])
}

// Equal reports x == y.
func (x *Fp) Equal(y *Fp) bool {
	return equalLimbs(x[:], y[:])
}

// CMov sets z = y when c is true and z = x otherwise, in constant time.
func (z *Fp) CMov(x, y *Fp, c bool) *Fp {
	cmovLimbs(z[:], x[:], y[:], c)
	return z
}

// Sgn0 returns the parity of the canonical value of x.
func (x *Fp) Sgn0() int {
	t := x.canonical()
	return int(t[0] & 1)
}

// LexicographicallyLargest reports whether x > (p-1)/2.
func (x *Fp) LexicographicallyLargest() bool {
	t := x.canonical()
	return !lessThan(t[:], fpHalfPlusOne[:])
}

// String returns the hexadecimal canonical value.
func (x *Fp) String() string {
	return "0x" + x.BigInt().Text(16) //nolint:gomnd
}

func (z *Fp) toMont() *Fp {
	montMul(z[:], z[:], fpR2[:], fpModulus[:], fpInv)
	return z
}

func (x *Fp) canonical() Fp {
	var t Fp

	one := Fp{1}
	montMul(t[:], x[:], one[:], fpModulus[:], fpInv)

	return t
}
