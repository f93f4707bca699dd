/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import "math/big"

const (
	// WindowLongLived is the window used for points multiplied many times: the base points,
	// the ciphersuite P1 and the message generators.
	WindowLongLived = 8
	// WindowDefault is the window used for one-off multiplications.
	WindowDefault = 1

	maxWindow = 16
)

// wnafTable holds, for every window i, the multiples 1..2^(w-1) of p*2^(w*i).
type wnafTable[F any] struct {
	w       uint
	windows int
	size    int
	points  []point[F]
}

func (c *curve[F, PF]) precompute(p *point[F], w uint) *wnafTable[F] {
	if w < 1 {
		w = 1
	}

	if w > maxWindow {
		w = maxWindow
	}

	t := &wnafTable[F]{
		w:       w,
		windows: (frBits+int(w)-1)/int(w) + 1,
		size:    1 << (w - 1),
	}

	t.points = make([]point[F], 0, t.windows*t.size)

	base := *p

	for i := 0; i < t.windows; i++ {
		acc := base
		t.points = append(t.points, acc)

		for j := 1; j < t.size; j++ {
			c.add(&acc, &acc, &base)
			t.points = append(t.points, acc)
		}

		c.double(&base, &acc)
	}

	c.batchNormalize(t.points)

	return t
}

// scalarBits returns w bits of the little-endian limbs k starting at pos.
func scalarBits(k *Fr, pos, w uint) uint64 {
	var v uint64

	for j := uint(0); j < w; j++ {
		i := pos + j
		if i >= 256 { //nolint:gomnd
			break
		}

		v |= ((k[i/64] >> (i % 64)) & 1) << j //nolint:gomnd
	}

	return v
}

// mulConstTime sets r = k * P using the table of P. Every window performs one table scan and
// one addition; zero digits are added to a fake accumulator.
func (c *curve[F, PF]) mulConstTime(r *point[F], t *wnafTable[F], k *Fr) *point[F] {
	n := k.canonical()

	var acc, fake, sel, entry, tmp point[F]

	c.identity(&acc)
	c.identity(&fake)

	maxNumber := uint64(1) << t.w
	half := uint64(t.size)
	carry := uint64(0)

	for window := 0; window < t.windows; window++ {
		wbits := scalarBits(&n, uint(window)*t.w, t.w) + carry

		// digits above 2^(w-1) become negative and push a carry into the next window.
		carry = (half - wbits) >> 63 //nolint:gomnd
		wbits -= carry * maxNumber

		neg := wbits>>63 == 1 //nolint:gomnd
		abs := wbits
		mask := -(wbits >> 63) //nolint:gomnd
		abs = (abs ^ mask) - mask

		isZero := abs == 0
		idx := abs - 1 + b2u(isZero)

		offset := window * t.size
		c.identity(&sel)

		for j := 0; j < t.size; j++ {
			c.cmov(&sel, &sel, &t.points[offset+j], uint64(j) == idx)
		}

		c.neg(&entry, &sel)
		c.cmov(&sel, &sel, &entry, neg)

		c.cmov(&tmp, &acc, &fake, isZero)
		c.add(&tmp, &tmp, &sel)
		c.cmov(&acc, &acc, &tmp, !isZero)
		c.cmov(&fake, &tmp, &fake, !isZero)
	}

	*r = acc

	return r
}

// mulVarTime sets r = k * P using the table of P, skipping zero digits.
func (c *curve[F, PF]) mulVarTime(r *point[F], t *wnafTable[F], k *Fr) *point[F] {
	n := k.canonical()

	var acc, entry point[F]

	c.identity(&acc)

	maxNumber := int64(1) << t.w
	half := int64(t.size)
	carry := int64(0)

	for window := 0; window < t.windows; window++ {
		d := int64(scalarBits(&n, uint(window)*t.w, t.w)) + carry
		carry = 0

		if d > half {
			d -= maxNumber
			carry = 1
		}

		if d == 0 {
			continue
		}

		if d > 0 {
			c.add(&acc, &acc, &t.points[window*t.size+int(d)-1])
			continue
		}

		c.neg(&entry, &t.points[window*t.size+int(-d)-1])
		c.add(&acc, &acc, &entry)
	}

	*r = acc

	return r
}

// mulBig sets r = k * P by variable time double and add over k mod r.
func (c *curve[F, PF]) mulBig(r, p *point[F], k *big.Int) *point[F] {
	n := new(big.Int).Mod(k, frModulusBig)

	var acc, base point[F]

	c.identity(&acc)
	base = *p

	for i := 0; i < n.BitLen(); i++ {
		if n.Bit(i) == 1 {
			c.add(&acc, &acc, &base)
		}

		c.double(&base, &base)
	}

	*r = acc

	return r
}
