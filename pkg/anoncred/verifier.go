/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncred

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	bbs "github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bbs12381g2pub"
)

// Policy is what a verifier requires from a presentation.
type Policy struct {
	// Nonce the presentation must be bound to. Empty accepts any nonce.
	Nonce []byte
	// Expression is evaluated over the disclosed attributes, e.g. `$.age >= 18 && $.creditCategory == "good"`.
	// Empty accepts any disclosure.
	Expression string
}

// PresentationResult is the outcome for one presentation of Verifier.VerifyAll.
type PresentationResult struct {
	Attributes map[string]interface{}
	Err        error
}

// VerifierOpt configures a Verifier.
type VerifierOpt func(*Verifier)

// WithTrustedIssuer adds an issuer public key presentations may be signed with. Without any, every issuer
// is accepted.
func WithTrustedIssuer(pubKey []byte) VerifierOpt {
	return func(v *Verifier) {
		v.trusted = append(v.trusted, slices.Clone(pubKey))
	}
}

// WithBatchWorkers sets the number of goroutines VerifyAll spreads pairings over.
func WithBatchWorkers(n int) VerifierOpt {
	return func(v *Verifier) {
		v.workers = n
	}
}

// Verifier checks presentations and evaluates policies over their disclosed attributes.
type Verifier struct {
	trusted [][]byte
	workers int
	lang    gval.Language
}

// NewVerifier returns a Verifier.
func NewVerifier(opts ...VerifierOpt) *Verifier {
	v := &Verifier{
		lang: gval.Full(jsonpath.PlaceholderExtension()),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Verify checks p against policy and returns the disclosed attributes by name.
func (v *Verifier) Verify(ctx context.Context, p *Presentation, policy *Policy) (map[string]interface{}, error) {
	eval, err := v.compile(policy)
	if err != nil {
		return nil, err
	}

	attrs, cs, err := v.precheck(p, policy)
	if err != nil {
		return nil, err
	}

	ok, err := bbs.New(bbs.WithCiphersuite(cs)).VerifyProof(nil, p.Nonce, p.DisclosedAttributes, p.Proof,
		p.IssuerPublicKey, p.DisclosedIndexes)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPresentation, "%v", err)
	}

	if err = v.evaluate(ctx, eval, policy, attrs); err != nil {
		return nil, err
	}

	return attrs, nil
}

// VerifyAll checks many presentations against the same policy, verifying their proofs as a batch per
// ciphersuite. The error is set only when the batch itself could not run, for instance on cancellation.
func (v *Verifier) VerifyAll(ctx context.Context, presentations []*Presentation,
	policy *Policy) ([]PresentationResult, error) {
	eval, err := v.compile(policy)
	if err != nil {
		return nil, err
	}

	results := make([]PresentationResult, len(presentations))
	groups := make(map[*bbs.Ciphersuite][]int)

	for i, p := range presentations {
		attrs, cs, err := v.precheck(p, policy)
		if err != nil {
			results[i].Err = err

			continue
		}

		results[i].Attributes = attrs
		groups[cs] = append(groups[cs], i)
	}

	suites := maps.Keys(groups)
	slices.SortFunc(suites, func(a, b *bbs.Ciphersuite) int {
		return strings.Compare(a.Name(), b.Name())
	})

	for _, cs := range suites {
		indexes := groups[cs]
		requests := make([]*bbs.ProofRequest, len(indexes))

		for k, i := range indexes {
			p := presentations[i]
			requests[k] = &bbs.ProofRequest{
				PublicKey:          p.IssuerPublicKey,
				Proof:              p.Proof,
				PresentationHeader: p.Nonce,
				DisclosedMessages:  p.DisclosedAttributes,
				DisclosedIndexes:   p.DisclosedIndexes,
			}
		}

		batch, err := bbs.New(bbs.WithCiphersuite(cs), bbs.WithWorkers(v.workers)).VerifyProofs(ctx, requests)
		if err != nil {
			return nil, errors.Wrap(err, "verify presentation proofs")
		}

		for k, res := range batch {
			i := indexes[k]

			if !res.Valid {
				results[i] = PresentationResult{Err: errors.Wrapf(ErrInvalidPresentation, "%v", res.Err)}

				continue
			}

			if err = v.evaluate(ctx, eval, policy, results[i].Attributes); err != nil {
				results[i] = PresentationResult{Err: err}
			}
		}
	}

	logger.Debugf("verified %d presentations over %d ciphersuites", len(presentations), len(suites))

	return results, nil
}

func (v *Verifier) compile(policy *Policy) (gval.Evaluable, error) {
	if policy == nil || policy.Expression == "" {
		return nil, nil
	}

	eval, err := v.lang.NewEvaluable(policy.Expression)
	if err != nil {
		return nil, errors.Wrapf(err, "parse policy %q", policy.Expression)
	}

	return eval, nil
}

// precheck runs the checks that need no pairing and decodes the disclosed attributes.
func (v *Verifier) precheck(p *Presentation, policy *Policy) (map[string]interface{}, *bbs.Ciphersuite, error) {
	cs, err := bbs.CiphersuiteByName(p.Ciphersuite)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidPresentation, "%v", err)
	}

	if len(v.trusted) > 0 && !slices.ContainsFunc(v.trusted, func(k []byte) bool {
		return bytes.Equal(k, p.IssuerPublicKey)
	}) {
		return nil, nil, ErrUntrustedIssuer
	}

	if policy != nil && len(policy.Nonce) > 0 && !bytes.Equal(policy.Nonce, p.Nonce) {
		return nil, nil, errors.Wrap(ErrInvalidPresentation, "nonce mismatch")
	}

	attrs, err := disclosedAttributes(p)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidPresentation, "%v", err)
	}

	return attrs, cs, nil
}

func (v *Verifier) evaluate(ctx context.Context, eval gval.Evaluable, policy *Policy,
	attrs map[string]interface{}) error {
	if eval == nil {
		return nil
	}

	ok, err := eval.EvalBool(ctx, attrs)
	if err != nil {
		return errors.Wrapf(ErrPolicyNotSatisfied, "%q: %v", policy.Expression, err)
	}

	if !ok {
		return errors.Wrapf(ErrPolicyNotSatisfied, "%q", policy.Expression)
	}

	return nil
}

// disclosedAttributes maps the disclosed attributes by name, checking each sits at its signing position.
func disclosedAttributes(p *Presentation) (map[string]interface{}, error) {
	if len(p.DisclosedAttributes) != len(p.DisclosedIndexes) {
		return nil, errors.Errorf("%d disclosed attributes for %d indexes", len(p.DisclosedAttributes),
			len(p.DisclosedIndexes))
	}

	attrs := make(map[string]interface{}, len(p.DisclosedAttributes))

	for i, raw := range p.DisclosedAttributes {
		name, value, err := splitAttribute(raw)
		if err != nil {
			return nil, err
		}

		idx, err := AttributeIndex(name)
		if err != nil {
			return nil, err
		}

		if idx != p.DisclosedIndexes[i] {
			return nil, errors.Errorf("attribute %q disclosed at index %d", name, p.DisclosedIndexes[i])
		}

		if name == AttrAge {
			years, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Wrap(err, "parse age")
			}

			attrs[name] = float64(years)

			continue
		}

		attrs[name] = value
	}

	return attrs, nil
}
