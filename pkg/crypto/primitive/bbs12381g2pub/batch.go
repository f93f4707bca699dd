/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"context"
	"crypto/rand"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

// Size in bytes of the random weights combining the pairing equations of a batch.
const batchWeightSize = 16

// nolint:gochecknoglobals
var defaultWorkers = runtime.NumCPU()

// ProofRequest is one proof to check with VerifyProofs.
type ProofRequest struct {
	PublicKey          []byte
	Proof              []byte
	Header             []byte
	PresentationHeader []byte
	DisclosedMessages  [][]byte
	DisclosedIndexes   []int
}

// BatchResult is the outcome of one ProofRequest. Err holds the reason when Valid is false.
type BatchResult struct {
	Valid bool
	Err   error
}

type batchEntry struct {
	index  int
	pubKey *PublicKey
	proof  *PoKOfSignatureProof
}

// VerifyProofs verifies many proofs at once. Challenges are checked per request, the pairing equations of the
// remaining requests are merged with random weights into one product whose Miller loops are spread over the
// configured workers. At most that many challenge checks run at once. When the merged check fails every request is checked alone to find the invalid ones.
func (bbs *BBSG2Pub) VerifyProofs(ctx context.Context, requests []*ProofRequest) ([]BatchResult, error) {
	results := make([]BatchResult, len(requests))
	entries := make([]*batchEntry, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bbs.workers)

	for i := range requests {
		i := i

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			entry, err := bbs.checkChallenge(i, requests[i])
			if err != nil {
				results[i] = BatchResult{Err: err}

				return nil
			}

			entries[i] = entry

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	pending := make([]*batchEntry, 0, len(entries))

	for _, e := range entries {
		if e != nil {
			pending = append(pending, e)
		}
	}

	if len(pending) == 0 {
		return results, nil
	}

	ok, err := bbs.batchPairing(ctx, pending)
	if err != nil {
		return nil, err
	}

	if ok {
		for _, e := range pending {
			results[e.index] = BatchResult{Valid: true}
		}

		return results, nil
	}

	logger.Debugf("batch pairing check of %d proofs failed, checking them one by one", len(pending))

	for _, e := range pending {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		if err = e.proof.verifyPairing(e.pubKey); err != nil {
			results[e.index] = BatchResult{Err: err}

			continue
		}

		results[e.index] = BatchResult{Valid: true}
	}

	return results, nil
}

func (bbs *BBSG2Pub) checkChallenge(index int, req *ProofRequest) (entry *batchEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entry, err = nil, fmt.Errorf("verify proof %d: %v", index, r)
		}
	}()

	pubKey, signatureProof, messagesFr, indexes, err := bbs.parseProofRequest(req.DisclosedMessages, req.Proof,
		req.PublicKey, req.DisclosedIndexes)
	if err != nil {
		return nil, err
	}

	err = bbs.cs.verifyChallenge(pubKey, signatureProof, req.Header, req.PresentationHeader, messagesFr, indexes)
	if err != nil {
		return nil, err
	}

	return &batchEntry{index: index, pubKey: pubKey, proof: signatureProof}, nil
}

// batchPairing checks prod e(rho_k*Abar_k, W_k) * e(-rho_k*Bbar_k, BP2) == 1.
func (bbs *BBSG2Pub) batchPairing(ctx context.Context, entries []*batchEntry) (bool, error) {
	// the BP2 terms share their G2 point and are merged into a single pair
	ps := make([]*bls12381.G1, 0, len(entries)+1)
	qs := make([]*bls12381.G2, 0, len(entries)+1)
	bBarSum := bls12381.G1Identity()

	for _, e := range entries {
		rho, err := batchWeight()
		if err != nil {
			return false, err
		}

		ps = append(ps, new(bls12381.G1).MulUnsafe(e.proof.aBar, rho.BigInt()))
		qs = append(qs, e.pubKey.PointG2)

		bBarSum.Add(bBarSum, new(bls12381.G1).MulUnsafe(e.proof.bBar, rho.BigInt()))
	}

	if bBarSum.IsIdentity() {
		return false, nil
	}

	ps = append(ps, bBarSum.Neg(bBarSum))
	qs = append(qs, bls12381.G2Generator())

	workers := bbs.workers
	if workers > len(ps) {
		workers = len(ps)
	}

	logger.Debugf("batch pairing of %d terms over %d workers", len(ps), workers)

	partials := make([]*bls12381.GT, workers)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		w := w
		lo, hi := w*len(ps)/workers, (w+1)*len(ps)/workers

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			f, err := bls12381.MillerLoop(ps[lo:hi], qs[lo:hi])
			if err != nil {
				return err
			}

			partials[w] = f

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		// degenerate terms make the merged equation meaningless
		return false, nil
	}

	acc := new(bls12381.GT).SetOne()
	for _, f := range partials {
		acc.Mul(acc, f)
	}

	return bls12381.FinalExponentiation(acc).IsOne(), nil
}

func batchWeight() (*bls12381.Fr, error) {
	var buf [batchWeightSize]byte

	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("batch weight: %w", err)
	}

	rho := new(bls12381.Fr).SetBytesWide(buf[:])
	if rho.IsZero() {
		rho.SetOne()
	}

	return rho, nil
}
