/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package hash2curve implements the expand_message functions of RFC 9380 section 5.3.
package hash2curve

import (
	"errors"
	"hash"

	"golang.org/x/crypto/sha3"
)

const (
	maxOutLen = 65535
	maxDSTLen = 255
	maxBlocks = 255

	// SecurityLevel is the target security k in bits used to size an oversized XOF tag.
	SecurityLevel = 128
)

// ErrInvalidLength is returned when the requested output is empty or too long for the expander.
var ErrInvalidLength = errors.New("invalid expand_message output length")

// nolint:gochecknoglobals
var oversizePrefix = []byte("H2C-OVERSIZE-DST-")

// ExpandFunc expands msg into outLen uniformly random bytes bound to dst.
type ExpandFunc func(msg, dst []byte, outLen int) ([]byte, error)

// XMD returns the expand_message_xmd ExpandFunc for hash function f.
func XMD(f func() hash.Hash) ExpandFunc {
	return func(msg, dst []byte, outLen int) ([]byte, error) {
		return ExpandMessageXMD(f, msg, dst, outLen)
	}
}

// XOF returns the expand_message_xof ExpandFunc for extendable output function f.
func XOF(f func() sha3.ShakeHash) ExpandFunc {
	return func(msg, dst []byte, outLen int) ([]byte, error) {
		return ExpandMessageXOF(f, msg, dst, outLen, SecurityLevel)
	}
}

// ExpandMessageXMD implements expand_message_xmd.
func ExpandMessageXMD(f func() hash.Hash, msg, dst []byte, outLen int) ([]byte, error) {
	h := f()

	ell := (outLen + h.Size() - 1) / h.Size()
	if outLen <= 0 || outLen > maxOutLen || ell > maxBlocks {
		return nil, ErrInvalidLength
	}

	if len(dst) > maxDSTLen {
		_, _ = h.Write(oversizePrefix)
		_, _ = h.Write(dst)
		dst = h.Sum(nil)
		h.Reset()
	}

	// DST_prime = DST || I2OSP(len(DST), 1)
	dstPrime := make([]byte, 0, len(dst)+1)
	dstPrime = append(dstPrime, dst...)
	dstPrime = append(dstPrime, byte(len(dst)))

	// b_0 = H(Z_pad || msg || l_i_b_str || I2OSP(0, 1) || DST_prime)
	_, _ = h.Write(make([]byte, h.BlockSize()))
	_, _ = h.Write(msg)
	_, _ = h.Write([]byte{byte(outLen >> 8), byte(outLen)})
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(dstPrime)
	b0 := h.Sum(nil)

	// b_1 = H(b_0 || I2OSP(1, 1) || DST_prime)
	h.Reset()
	_, _ = h.Write(b0)
	_, _ = h.Write([]byte{1})
	_, _ = h.Write(dstPrime)
	bi := h.Sum(nil)

	out := make([]byte, 0, ell*h.Size())
	out = append(out, bi...)

	tmp := make([]byte, h.Size())

	for i := 2; i <= ell; i++ {
		// b_i = H(strxor(b_0, b_(i - 1)) || I2OSP(i, 1) || DST_prime)
		for j := range tmp {
			tmp[j] = b0[j] ^ bi[j]
		}

		h.Reset()
		_, _ = h.Write(tmp)
		_, _ = h.Write([]byte{byte(i)})
		_, _ = h.Write(dstPrime)
		bi = h.Sum(nil)

		out = append(out, bi...)
	}

	return out[:outLen], nil
}

// ExpandMessageXOF implements expand_message_xof for a target security of k bits.
func ExpandMessageXOF(f func() sha3.ShakeHash, msg, dst []byte, outLen, k int) ([]byte, error) {
	if outLen <= 0 || outLen > maxOutLen {
		return nil, ErrInvalidLength
	}

	h := f()

	if len(dst) > maxDSTLen {
		_, _ = h.Write(oversizePrefix)
		_, _ = h.Write(dst)

		dst = make([]byte, (2*k+7)/8) //nolint:gomnd
		_, _ = h.Read(dst)

		h.Reset()
	}

	// msg_prime = msg || I2OSP(len_in_bytes, 2) || DST || I2OSP(len(DST), 1)
	_, _ = h.Write(msg)
	_, _ = h.Write([]byte{byte(outLen >> 8), byte(outLen)})
	_, _ = h.Write(dst)
	_, _ = h.Write([]byte{byte(len(dst))})

	out := make([]byte, outLen)
	_, _ = h.Read(out)

	return out, nil
}
