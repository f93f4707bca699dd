/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

import "errors"

var (
	// ErrInvalidPoint is returned for encodings that are malformed or do not lie on the curve.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrInvalidInfinity is returned when the infinity flag is set on a non-zero encoding.
	ErrInvalidInfinity = errors.New("invalid encoding of the point at infinity")

	// ErrSubgroup is returned for points outside of the prime order subgroup.
	ErrSubgroup = errors.New("point is not in the prime order subgroup")

	// ErrInvalidScalar is returned when a scalar is zero or not lower than the group order.
	ErrInvalidScalar = errors.New("invalid scalar")

	// ErrInvalidFieldElement is returned when an encoded field element is not lower than the modulus.
	ErrInvalidFieldElement = errors.New("invalid field element")

	// ErrDivisionByZero is returned on inversion of zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNotASquare is returned by square roots of quadratic non-residues.
	ErrNotASquare = errors.New("element is not a square")

	// ErrDegeneratePairing is returned when one of the pairing operands is the identity.
	ErrDegeneratePairing = errors.New("degenerate pairing")
)
