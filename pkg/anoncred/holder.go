/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncred

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	bbs "github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bbs12381g2pub"
)

// Presentation is a selective disclosure proof over a credential.
type Presentation struct {
	Ciphersuite         string   `json:"ciphersuite"`
	IssuerPublicKey     []byte   `json:"issuerPublicKey"`
	Proof               []byte   `json:"proof"`
	Nonce               []byte   `json:"nonce"`
	DisclosedIndexes    []int    `json:"disclosedIndexes"`
	DisclosedAttributes [][]byte `json:"disclosedAttributes"`
}

// Holder derives presentations from credentials.
type Holder struct {
	opts []bbs.Opt
}

// NewHolder returns a Holder. opts tune the BBS prover, for instance its randomness source.
func NewHolder(opts ...bbs.Opt) *Holder {
	return &Holder{opts: opts}
}

// Present proves possession of cred while disclosing only the named attributes. The proof is bound to nonce.
func (h *Holder) Present(cred *Credential, disclose []string, nonce []byte) (*Presentation, error) {
	cs, err := bbs.CiphersuiteByName(cred.Ciphersuite)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(disclose))

	for _, name := range disclose {
		idx := slices.Index(cred.AttributeLabels, name)
		if idx < 0 || idx >= len(cred.Attributes) {
			return nil, errors.Wrapf(ErrUnknownAttribute, "attribute %q", name)
		}

		indexes = append(indexes, idx)
	}

	slices.Sort(indexes)
	indexes = slices.Compact(indexes)

	prover := bbs.New(append(slices.Clone(h.opts), bbs.WithCiphersuite(cs))...)

	proof, err := prover.DeriveProof(nil, nonce, cred.Attributes, cred.Signature, cred.IssuerPublicKey, indexes)
	if err != nil {
		return nil, errors.Wrap(err, "derive presentation proof")
	}

	disclosed := make([][]byte, len(indexes))
	for i, idx := range indexes {
		disclosed[i] = slices.Clone(cred.Attributes[idx])
	}

	logger.Debugf("presentation discloses %v of %d attributes", disclose, len(cred.Attributes))

	return &Presentation{
		Ciphersuite:         cs.Name(),
		IssuerPublicKey:     slices.Clone(cred.IssuerPublicKey),
		Proof:               proof,
		Nonce:               slices.Clone(nonce),
		DisclosedIndexes:    indexes,
		DisclosedAttributes: disclosed,
	}, nil
}
