/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import (
	"fmt"
	"math/bits"
)

// pippengerThreshold is the term count from which the bucket method beats per-term multiplication.
const pippengerThreshold = 32

// multiExp computes sum(scalars[i] * points[i]) in variable time.
func (c *curve[F, PF]) multiExp(r *point[F], points []point[F], scalars []Fr) *point[F] {
	canon := make([]Fr, len(scalars))
	for i := range scalars {
		canon[i] = scalars[i].canonical()
	}

	if len(points) < pippengerThreshold {
		return c.multiExpNaive(r, points, canon)
	}

	window := uint(bits.Len(uint(len(points)))) - 2 //nolint:gomnd
	if window < 2 {                                  //nolint:gomnd
		window = 2
	}

	nBuckets := (1 << window) - 1
	buckets := make([]point[F], nBuckets)

	var acc, sum, running point[F]

	c.identity(&acc)

	windows := (frBits + int(window) - 1) / int(window)

	for w := windows - 1; w >= 0; w-- {
		for i := uint(0); i < window; i++ {
			c.double(&acc, &acc)
		}

		for i := range buckets {
			c.identity(&buckets[i])
		}

		for i := range points {
			d := scalarBits(&canon[i], uint(w)*window, window)
			if d == 0 {
				continue
			}

			c.add(&buckets[d-1], &buckets[d-1], &points[i])
		}

		c.identity(&sum)
		c.identity(&running)

		for i := nBuckets - 1; i >= 0; i-- {
			c.add(&running, &running, &buckets[i])
			c.add(&sum, &sum, &running)
		}

		c.add(&acc, &acc, &sum)
	}

	*r = acc

	return r
}

func (c *curve[F, PF]) multiExpNaive(r *point[F], points []point[F], canon []Fr) *point[F] {
	var acc point[F]

	c.identity(&acc)

	for i := frBits - 1; i >= 0; i-- {
		c.double(&acc, &acc)

		for j := range points {
			if (canon[j][i/64]>>(uint(i)%64))&1 == 1 { //nolint:gomnd
				c.add(&acc, &acc, &points[j])
			}
		}
	}

	*r = acc

	return r
}

// MultiExpG1 returns sum(scalars[i] * points[i]) in variable time. It must only be used with
// public scalars, for instance by verifiers.
func MultiExpG1(points []*G1, scalars []*Fr) (*G1, error) {
	if len(points) != len(scalars) {
		return nil, fmt.Errorf("multiexp: %d points for %d scalars", len(points), len(scalars))
	}

	ps := make([]point[Fp], len(points))
	ss := make([]Fr, len(scalars))

	for i := range points {
		ps[i] = points[i].p
		ss[i] = *scalars[i]
	}

	out := &G1{}
	g1Curve.multiExp(&out.p, ps, ss)

	return out, nil
}

// MultiExpG2 is MultiExpG1 for G2.
func MultiExpG2(points []*G2, scalars []*Fr) (*G2, error) {
	if len(points) != len(scalars) {
		return nil, fmt.Errorf("multiexp: %d points for %d scalars", len(points), len(scalars))
	}

	ps := make([]point[Fp2], len(points))
	ss := make([]Fr, len(scalars))

	for i := range points {
		ps[i] = points[i].p
		ss[i] = *scalars[i]
	}

	out := &G2{}
	g2Curve.multiExp(&out.p, ps, ss)

	return out, nil
}
