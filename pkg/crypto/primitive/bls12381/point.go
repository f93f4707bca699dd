/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

// point is a projective point (X : Y : Z) on a short Weierstrass curve y^2 = x^3 + b. The
// identity is (0 : 1 : 0).
type point[F any] struct {
	x, y, z F
}

// curve carries the coefficients of y^2 = x^3 + b over F and implements the complete
// Renes-Costello-Batina formulas for a = 0.
type curve[F any, PF CurveField[F]] struct {
	b, b3 F
}

func newCurve[F any, PF CurveField[F]](b *F) *curve[F, PF] {
	c := &curve[F, PF]{}

	PF(&c.b).Set(b)
	PF(&c.b3).Double(b)
	PF(&c.b3).Add(&c.b3, b)

	return c
}

func (c *curve[F, PF]) identity(r *point[F]) *point[F] {
	PF(&r.x).SetZero()
	PF(&r.y).SetOne()
	PF(&r.z).SetZero()

	return r
}

func (c *curve[F, PF]) isIdentity(p *point[F]) bool {
	return PF(&p.z).IsZero()
}

func (c *curve[F, PF]) fromAffine(r *point[F], x, y *F) *point[F] {
	PF(&r.x).Set(x)
	PF(&r.y).Set(y)
	PF(&r.z).SetOne()

	return r
}

// add sets r = p + q for any p, q, including the identity and p == q.
func (c *curve[F, PF]) add(r, p, q *point[F]) *point[F] {
	var t0, t1, t2, t3, t4, t5, s0, s1 F

	PF(&t0).Mul(&p.x, &q.x)
	PF(&t1).Mul(&p.y, &q.y)
	PF(&t2).Mul(&p.z, &q.z)

	PF(&s0).Add(&p.x, &p.y)
	PF(&s1).Add(&q.x, &q.y)
	PF(&t3).Mul(&s0, &s1)
	PF(&t3).Sub(&t3, &t0)
	PF(&t3).Sub(&t3, &t1)

	PF(&s0).Add(&p.x, &p.z)
	PF(&s1).Add(&q.x, &q.z)
	PF(&t4).Mul(&s0, &s1)
	PF(&t4).Sub(&t4, &t0)
	PF(&t4).Sub(&t4, &t2)

	PF(&s0).Add(&p.y, &p.z)
	PF(&s1).Add(&q.y, &q.z)
	PF(&t5).Mul(&s0, &s1)
	PF(&t5).Sub(&t5, &t1)
	PF(&t5).Sub(&t5, &t2)

	PF(&t2).Mul(&t2, &c.b3)
	PF(&t4).Mul(&t4, &c.b3)

	var xm, zp, x3, y3, z3 F

	PF(&xm).Sub(&t1, &t2)
	PF(&zp).Add(&t1, &t2)

	PF(&s0).Double(&t0)
	PF(&t0).Add(&t0, &s0)

	PF(&y3).Mul(&xm, &zp)
	PF(&s0).Mul(&t0, &t4)
	PF(&y3).Add(&y3, &s0)

	PF(&x3).Mul(&t3, &xm)
	PF(&s0).Mul(&t5, &t4)
	PF(&x3).Sub(&x3, &s0)

	PF(&z3).Mul(&t5, &zp)
	PF(&s0).Mul(&t3, &t0)
	PF(&z3).Add(&z3, &s0)

	r.x, r.y, r.z = x3, y3, z3

	return r
}

// double sets r = 2p.
func (c *curve[F, PF]) double(r, p *point[F]) *point[F] {
	var t0, t1, t2, t3, zz, xm, yp, s, x3, y3, z3 F

	PF(&t0).Square(&p.x)
	PF(&t1).Square(&p.y)
	PF(&t2).Square(&p.z)
	PF(&t2).Mul(&t2, &c.b3)

	PF(&t3).Mul(&p.x, &p.y)
	PF(&t3).Double(&t3)

	PF(&zz).Mul(&p.x, &p.z)
	PF(&zz).Double(&zz)
	PF(&zz).Mul(&zz, &c.b3)

	PF(&xm).Sub(&t1, &t2)
	PF(&yp).Add(&t1, &t2)

	PF(&y3).Mul(&xm, &yp)
	PF(&s).Double(&t0)
	PF(&s).Add(&s, &t0)
	PF(&s).Mul(&s, &zz)
	PF(&y3).Add(&y3, &s)

	PF(&x3).Mul(&t3, &xm)
	PF(&s).Mul(&p.y, &p.z)
	PF(&s).Double(&s)
	PF(&s).Mul(&s, &zz)
	PF(&x3).Sub(&x3, &s)

	// Z3 = 8 * Y^3 * Z
	PF(&z3).Mul(&t1, &p.y)
	PF(&z3).Mul(&z3, &p.z)
	PF(&z3).Double(&z3)
	PF(&z3).Double(&z3)
	PF(&z3).Double(&z3)

	r.x, r.y, r.z = x3, y3, z3

	return r
}

func (c *curve[F, PF]) neg(r, p *point[F]) *point[F] {
	PF(&r.x).Set(&p.x)
	PF(&r.y).Neg(&p.y)
	PF(&r.z).Set(&p.z)

	return r
}

func (c *curve[F, PF]) sub(r, p, q *point[F]) *point[F] {
	var nq point[F]

	c.neg(&nq, q)

	return c.add(r, p, &nq)
}

// equal compares p and q as projective points.
func (c *curve[F, PF]) equal(p, q *point[F]) bool {
	pInf, qInf := c.isIdentity(p), c.isIdentity(q)
	if pInf || qInf {
		return pInf && qInf
	}

	var l, r F

	PF(&l).Mul(&p.x, &q.z)
	PF(&r).Mul(&q.x, &p.z)

	if !PF(&l).Equal(&r) {
		return false
	}

	PF(&l).Mul(&p.y, &q.z)
	PF(&r).Mul(&q.y, &p.z)

	return PF(&l).Equal(&r)
}

// isOnCurve checks Y^2 * Z == X^3 + b * Z^3. The identity is on the curve.
func (c *curve[F, PF]) isOnCurve(p *point[F]) bool {
	if c.isIdentity(p) {
		return PF(&p.x).IsZero() && !PF(&p.y).IsZero()
	}

	var l, r, z3 F

	PF(&l).Square(&p.y)
	PF(&l).Mul(&l, &p.z)

	PF(&r).Square(&p.x)
	PF(&r).Mul(&r, &p.x)

	PF(&z3).Square(&p.z)
	PF(&z3).Mul(&z3, &p.z)
	PF(&z3).Mul(&z3, &c.b)
	PF(&r).Add(&r, &z3)

	return PF(&l).Equal(&r)
}

// affine returns the affine coordinates of p. The identity maps to (0, 0).
func (c *curve[F, PF]) affine(p *point[F]) (x, y F) {
	if c.isIdentity(p) {
		return x, y
	}

	var zInv F

	PF(&zInv).Inverse(&p.z)
	PF(&x).Mul(&p.x, &zInv)
	PF(&y).Mul(&p.y, &zInv)

	return x, y
}

// normalize rewrites p with Z = 1, keeping the identity as (0 : 1 : 0).
func (c *curve[F, PF]) normalize(r, p *point[F]) *point[F] {
	if c.isIdentity(p) {
		return c.identity(r)
	}

	x, y := c.affine(p)

	return c.fromAffine(r, &x, &y)
}

// batchNormalize rewrites every point with Z = 1 using a single inversion.
func (c *curve[F, PF]) batchNormalize(ps []point[F]) {
	zs := make([]F, len(ps))
	for i := range ps {
		PF(&zs[i]).Set(&ps[i].z)
	}

	inv := batchInverse[F, PF](zs)

	for i := range ps {
		if c.isIdentity(&ps[i]) {
			c.identity(&ps[i])
			continue
		}

		PF(&ps[i].x).Mul(&ps[i].x, &inv[i])
		PF(&ps[i].y).Mul(&ps[i].y, &inv[i])
		PF(&ps[i].z).SetOne()
	}
}

// cmov sets r = q when cond is true and r = p otherwise, in constant time.
func (c *curve[F, PF]) cmov(r, p, q *point[F], cond bool) *point[F] {
	PF(&r.x).CMov(&p.x, &q.x, cond)
	PF(&r.y).CMov(&p.y, &q.y, cond)
	PF(&r.z).CMov(&p.z, &q.z, cond)

	return r
}

// mulUint64 sets r = p * k by variable time double and add. It is used with the public curve
// parameter.
func (c *curve[F, PF]) mulUint64(r, p *point[F], k uint64) *point[F] {
	var acc, base point[F]

	c.identity(&acc)
	base = *p

	for k > 0 {
		if k&1 == 1 {
			c.add(&acc, &acc, &base)
		}

		c.double(&base, &base)
		k >>= 1
	}

	*r = acc

	return r
}
