/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"fmt"

	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

const mapMsgToScalarDST = "MAP_MSG_TO_SCALAR_AS_HASH_"

// SignatureMessage defines a message to be used for a signature check.
type SignatureMessage struct {
	FR *bls12381.Fr
}

// ParseSignatureMessage maps a message represented in bytes to its scalar.
func (cs *Ciphersuite) ParseSignatureMessage(message []byte) (*SignatureMessage, error) {
	fr, err := cs.HashToScalar(message, cs.dst(mapMsgToScalarDST))
	if err != nil {
		return nil, fmt.Errorf("parse signature message: %w", err)
	}

	return &SignatureMessage{FR: fr}, nil
}

func (cs *Ciphersuite) messagesToScalars(messages [][]byte) ([]*SignatureMessage, error) {
	messagesFr := make([]*SignatureMessage, len(messages))

	for i := range messages {
		m, err := cs.ParseSignatureMessage(messages[i])
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}

		messagesFr[i] = m
	}

	return messagesFr, nil
}
