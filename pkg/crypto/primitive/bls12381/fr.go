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

const (
	// FrSize is the byte length of an encoded scalar.
	FrSize = 32

	// frBits is the bit length of the group order r.
	frBits = 255
)

// Fr is an element of the scalar field of G1, G2 and GT, held in Montgomery form.
type Fr [4]uint64

// nolint:gochecknoglobals
var (
	frModulusBig = mustBigHex("0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001")

	frModulus = frFromBigRaw(frModulusBig)
	frInv     = montInverse(frModulus[0])
	frOne     = frFromBigRaw(montR(frModulusBig, 4))
	frR2      = frFromBigRaw(montR2(frModulusBig, 4))

	frInvExp      = new(big.Int).Sub(frModulusBig, big.NewInt(2))
	frLegendreExp = new(big.Int).Rsh(new(big.Int).Sub(frModulusBig, big.NewInt(1)), 1)

	frSqrt sqrtFunc[Fr]
)

func frFromBigRaw(v *big.Int) Fr {
	var z Fr

	limbsFromBig(z[:], v)

	return z
}

// Order returns the prime order r of the groups.
func Order() *big.Int {
	return new(big.Int).Set(frModulusBig)
}

// Set sets z = x.
func (z *Fr) Set(x *Fr) *Fr {
	*z = *x
	return z
}

// SetZero sets z = 0.
func (z *Fr) SetZero() *Fr {
	*z = Fr{}
	return z
}

// SetOne sets z = 1.
func (z *Fr) SetOne() *Fr {
	*z = frOne
	return z
}

// SetUint64 sets z = v.
func (z *Fr) SetUint64(v uint64) *Fr {
	*z = Fr{v}
	return z.toMont()
}

// SetBigInt sets z = v mod r.
func (z *Fr) SetBigInt(v *big.Int) *Fr {
	t := new(big.Int).Mod(v, frModulusBig)
	limbsFromBig(z[:], t)

	return z.toMont()
}

// BigInt returns the canonical value of x.
func (x *Fr) BigInt() *big.Int {
	t := x.canonical()
	return bigFromLimbs(t[:])
}

// SetBytes decodes a 32 byte big-endian scalar. Values not lower than r are rejected with
// ErrInvalidScalar.
func (z *Fr) SetBytes(b []byte) (*Fr, error) {
	if len(b) != FrSize {
		return nil, fmt.Errorf("fr: expected %d bytes, got %d: %w", FrSize, len(b), ErrInvalidScalar)
	}

	var t Fr

	limbsFromBytes(t[:], b)

	if !lessThan(t[:], frModulus[:]) {
		return nil, ErrInvalidScalar
	}

	*z = t

	return z.toMont(), nil
}

// SetBytesWide interprets b as a big-endian integer of any length and reduces it mod r.
func (z *Fr) SetBytesWide(b []byte) *Fr {
	return z.SetBigInt(new(big.Int).SetBytes(b))
}

// SetRandom samples a uniformly distributed scalar from 48 bytes of rng output.
func (z *Fr) SetRandom(rng io.Reader) (*Fr, error) {
	buf := make([]byte, FrSize+16) //nolint:gomnd

	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, fmt.Errorf("fr: read random bytes: %w", err)
	}

	return z.SetBytesWide(buf), nil
}

// Bytes returns the 32 byte big-endian encoding of x.
func (x *Fr) Bytes() [FrSize]byte {
	var b [FrSize]byte

	t := x.canonical()
	limbsToBytes(b[:], t[:])

	return b
}

// Add sets z = x + y.
func (z *Fr) Add(x, y *Fr) *Fr {
	addMod(z[:], x[:], y[:], frModulus[:])
	return z
}

// Double sets z = 2x.
func (z *Fr) Double(x *Fr) *Fr {
	addMod(z[:], x[:], x[:], frModulus[:])
	return z
}

// Sub sets z = x - y.
func (z *Fr) Sub(x, y *Fr) *Fr {
	subMod(z[:], x[:], y[:], frModulus[:])
	return z
}

// Neg sets z = -x.
func (z *Fr) Neg(x *Fr) *Fr {
	negMod(z[:], x[:], frModulus[:])
	return z
}

// Mul sets z = x * y.
func (z *Fr) Mul(x, y *Fr) *Fr {
	montMul(z[:], x[:], y[:], frModulus[:], frInv)
	return z
}

// Square sets z = x^2.
func (z *Fr) Square(x *Fr) *Fr {
	montMul(z[:], x[:], x[:], frModulus[:], frInv)
	return z
}

// Exp sets z = x^e for a non-negative exponent. It is variable time in e.
func (z *Fr) Exp(x *Fr, e *big.Int) *Fr {
	return exp(z, x, e)
}

// Inverse sets z = 1/x, the inverse of zero is zero.
func (z *Fr) Inverse(x *Fr) *Fr {
	return z.Exp(x, frInvExp)
}

// Invert sets z = 1/x and fails with ErrDivisionByZero when x is zero.
func (z *Fr) Invert(x *Fr) (*Fr, error) {
	if x.IsZero() {
		return nil, ErrDivisionByZero
	}

	return z.Inverse(x), nil
}

// Sqrt sets z to a square root of x or fails with ErrNotASquare.
func (z *Fr) Sqrt(x *Fr) (*Fr, error) {
	return frSqrt(z, x)
}

// Legendre returns the Legendre symbol of x: 1, -1 or 0.
func (x *Fr) Legendre() int {
	return legendre(x, frLegendreExp)
}

// IsZero reports x == 0.
func (x *Fr) IsZero() bool {
	return isZeroLimbs(x[:])
}

// IsOne reports x == 1.
func (x *Fr) IsOne() bool {
	return equalLimbs(x[:], frOne[:])
}

// Equal reports x == y.
func (x *Fr) Equal(y *Fr) bool {
	return equalLimbs(x[:], y[:])
}

// CMov sets z = y when c is true and z = x otherwise, in constant time.
func (z *Fr) CMov(x, y *Fr, c bool) *Fr {
	cmovLimbs(z[:], x[:], y[:], c)
	return z
}

// String returns the hexadecimal canonical value.
func (x *Fr) String() string {
	return "0x" + x.BigInt().Text(16) //nolint:gomnd
}

func (z *Fr) toMont() *Fr {
	montMul(z[:], z[:], frR2[:], frModulus[:], frInv)
	return z
}

// canonical returns the little-endian limbs of the integer value of x.
func (x *Fr) canonical() Fr {
	var t Fr

	one := Fr{1}
	montMul(t[:], x[:], one[:], frModulus[:], frInv)

	return t
}

// bit returns the i-th bit of a canonical scalar representation.
func (x *Fr) bit(i int) uint64 {
	return (x[i/64] >> (uint(i) % 64)) & 1 //nolint:gomnd
}
