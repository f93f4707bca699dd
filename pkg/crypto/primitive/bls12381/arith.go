/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"encoding/binary"
	"math/big"
	"math/bits"
	"strings"
)

// Multi-precision helpers over little-endian 64-bit limbs. All of them work for up to six limbs,
// which covers both the base field and the scalar field, and allow the output to alias the inputs.

const maxLimbs = 6

// addMod sets z = x + y mod m for x, y < m.
func addMod(z, x, y, m []uint64) {
	var t, s [maxLimbs]uint64

	var carry, borrow uint64

	for i := range m {
		t[i], carry = bits.Add64(x[i], y[i], carry)
	}

	for i := range m {
		s[i], borrow = bits.Sub64(t[i], m[i], borrow)
	}

	// keep t only when t < m, i.e. the subtraction borrowed and the addition did not carry.
	mask := -(borrow &^ carry)
	for i := range m {
		z[i] = s[i] ^ (mask & (s[i] ^ t[i]))
	}
}

// subMod sets z = x - y mod m for x, y < m.
func subMod(z, x, y, m []uint64) {
	var t [maxLimbs]uint64

	var borrow, carry uint64

	for i := range m {
		t[i], borrow = bits.Sub64(x[i], y[i], borrow)
	}

	mask := -borrow
	for i := range m {
		z[i], carry = bits.Add64(t[i], m[i]&mask, carry)
	}
}

// negMod sets z = -x mod m for x < m.
func negMod(z, x, m []uint64) {
	var t [maxLimbs]uint64

	var borrow, acc uint64

	for i := range m {
		t[i], borrow = bits.Sub64(m[i], x[i], borrow)
		acc |= x[i]
	}

	mask := -((acc | -acc) >> 63) //nolint:gomnd
	for i := range m {
		z[i] = t[i] & mask
	}
}

// montMul sets z = x*y*R^-1 mod m (CIOS), inv = -m^-1 mod 2^64.
func montMul(z, x, y, m []uint64, inv uint64) {
	var t [maxLimbs + 2]uint64

	n := len(m)

	for i := 0; i < n; i++ {
		var c, cc uint64

		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(x[i], y[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}

		t[n], cc = bits.Add64(t[n], c, 0)
		t[n+1] = cc

		q := t[0] * inv
		hi, lo := bits.Mul64(q, m[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc

		for j := 1; j < n; j++ {
			hi, lo = bits.Mul64(q, m[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}

		t[n-1], cc = bits.Add64(t[n], c, 0)
		t[n] = t[n+1] + cc
		t[n+1] = 0
	}

	var s [maxLimbs]uint64

	var borrow uint64

	for i := 0; i < n; i++ {
		s[i], borrow = bits.Sub64(t[i], m[i], borrow)
	}

	_, borrow = bits.Sub64(t[n], 0, borrow)

	mask := -borrow
	for i := 0; i < n; i++ {
		z[i] = s[i] ^ (mask & (s[i] ^ t[i]))
	}
}

// cmovLimbs sets z = y if c, z = x otherwise, without branching on c.
func cmovLimbs(z, x, y []uint64, c bool) {
	mask := -uint64(b2u(c))
	for i := range z {
		z[i] = x[i] ^ (mask & (x[i] ^ y[i]))
	}
}

func isZeroLimbs(x []uint64) bool {
	var acc uint64
	for i := range x {
		acc |= x[i]
	}

	return acc == 0
}

func equalLimbs(x, y []uint64) bool {
	var acc uint64
	for i := range x {
		acc |= x[i] ^ y[i]
	}

	return acc == 0
}

// lessThan reports x < m.
func lessThan(x, m []uint64) bool {
	var borrow uint64
	for i := range m {
		_, borrow = bits.Sub64(x[i], m[i], borrow)
	}

	return borrow == 1
}

// limbsFromBytes decodes a big-endian byte string of exactly 8*len(z) bytes.
func limbsFromBytes(z []uint64, b []byte) {
	n := len(z)
	for i := 0; i < n; i++ {
		z[i] = binary.BigEndian.Uint64(b[8*(n-1-i):])
	}
}

// limbsToBytes encodes x big-endian into b, len(b) must be 8*len(x).
func limbsToBytes(b []byte, x []uint64) {
	n := len(x)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint64(b[8*(n-1-i):], x[i])
	}
}

func limbsFromBig(z []uint64, v *big.Int) {
	buf := make([]byte, 8*len(z))
	v.FillBytes(buf)
	limbsFromBytes(z, buf)
}

func bigFromLimbs(x []uint64) *big.Int {
	buf := make([]byte, 8*len(x))
	limbsToBytes(buf, x)

	return new(big.Int).SetBytes(buf)
}

// montInverse returns -m0^-1 mod 2^64 for odd m0.
func montInverse(m0 uint64) uint64 {
	inv := uint64(1)
	for i := 0; i < 6; i++ {
		inv *= 2 - m0*inv
	}

	return -inv
}

func b2u(c bool) uint64 {
	if c {
		return 1
	}

	return 0
}

func mustBigHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16) //nolint:gomnd
	if !ok {
		panic("bls12381: invalid constant " + s)
	}

	return v
}
