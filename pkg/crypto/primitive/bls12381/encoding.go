/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bls12381

// ZCash serialization flags, stored in the three most significant bits of the first byte.
const (
	flagCompressed = 0x80
	flagInfinity   = 0x40
	flagSign       = 0x20
	flagMask       = flagCompressed | flagInfinity | flagSign

	sec1Uncompressed = 0x04
)

// isZeroPayload reports whether every bit except the flags is zero.
func isZeroPayload(in []byte) bool {
	acc := in[0] &^ flagMask

	for _, b := range in[1:] {
		acc |= b
	}

	return acc == 0
}
