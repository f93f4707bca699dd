/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anoncred issues BBS signed attribute credentials and checks selective disclosure presentations
// derived from them.
//
// An Issuer signs a fixed list of "name:value" attributes, a Holder discloses a subset of them bound to a
// verifier nonce, and a Verifier checks the proof and evaluates a policy expression over the disclosed values.
package anoncred

import (
	"crypto/ed25519"
	"strings"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// nolint:gochecknoglobals
var logger = log.New("anoncred")

// Attribute names, in signing order.
const (
	AttrAnonID            = "anonId"
	AttrCreditAccumulator = "creditAccumulator"
	AttrCreditCategory    = "creditCategory"
	AttrNameHash          = "nameHash"
	AttrLocationHash      = "locationHash"
	AttrSSNHash           = "ssnHash"
	AttrAge               = "age"
	AttrNonce             = "nonce"
)

// nolint:gochecknoglobals
var attributeLabels = []string{
	AttrAnonID,
	AttrCreditAccumulator,
	AttrCreditCategory,
	AttrNameHash,
	AttrLocationHash,
	AttrSSNHash,
	AttrAge,
	AttrNonce,
}

var (
	// ErrCredentialNotFound is returned when the issuer store has no record for an id.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrInvalidCreditScore is returned for negative credit scores.
	ErrInvalidCreditScore = errors.New("invalid credit score")

	// ErrUnknownAttribute is returned when a disclosure names an attribute the credential does not carry.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrInvalidPresentation is returned when a presentation proof does not verify.
	ErrInvalidPresentation = errors.New("invalid presentation")

	// ErrUntrustedIssuer is returned when a presentation is signed by a key the verifier does not trust.
	ErrUntrustedIssuer = errors.New("untrusted issuer")

	// ErrPolicyNotSatisfied is returned when the disclosed attributes do not satisfy the policy.
	ErrPolicyNotSatisfied = errors.New("policy not satisfied")
)

// AttributeLabels returns the attribute names in signing order.
func AttributeLabels() []string {
	return slices.Clone(attributeLabels)
}

// AttributeIndex returns the position of the named attribute in a credential.
func AttributeIndex(name string) (int, error) {
	idx := slices.Index(attributeLabels, name)
	if idx < 0 {
		return 0, errors.Wrapf(ErrUnknownAttribute, "attribute %q", name)
	}

	return idx, nil
}

// Credential is a BBS signature over the encoded attributes, owned by the holder.
type Credential struct {
	ID              string             `json:"id"`
	Ciphersuite     string             `json:"ciphersuite"`
	Signature       []byte             `json:"signature"`
	Attributes      [][]byte           `json:"attributes"`
	AttributeLabels []string           `json:"attributeLabels"`
	IssuerPublicKey []byte             `json:"issuerPublicKey"`
	IssuerName      string             `json:"issuerName"`
	IssuedAt        time.Time          `json:"issuedAt"`
	AnonID          string             `json:"anonId"`
	IdentityKey     ed25519.PrivateKey `json:"identityKey,omitempty"`
}

// Attribute returns the value of the named attribute.
func (c *Credential) Attribute(name string) (string, error) {
	idx := slices.Index(c.AttributeLabels, name)
	if idx < 0 || idx >= len(c.Attributes) {
		return "", errors.Wrapf(ErrUnknownAttribute, "attribute %q", name)
	}

	_, value, err := splitAttribute(c.Attributes[idx])

	return value, err
}

func encodeAttribute(name, value string) []byte {
	return []byte(name + ":" + value)
}

func splitAttribute(attr []byte) (string, string, error) {
	name, value, ok := strings.Cut(string(attr), ":")
	if !ok {
		return "", "", errors.Errorf("attribute %q is not name:value", attr)
	}

	return name, value, nil
}
