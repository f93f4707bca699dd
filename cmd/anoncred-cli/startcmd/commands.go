/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-bbs-credentials/pkg/anoncred"
	"github.com/hyperledger/aries-bbs-credentials/pkg/anoncred/store"
	bbs "github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bbs12381g2pub"
)

const (
	requestFlagName  = "request"
	requestEnvKey    = "ANONCRED_REQUEST"
	requestFlagUsage = "Issue request as a JSON object with name, surname, birthdate (YYYY-MM-DD), location, ssn" +
		" and creditScore." +
		" Alternatively, this can be set with the following environment variable: " + requestEnvKey

	issuerNameFlagName  = "issuer-name"
	issuerNameEnvKey    = "ANONCRED_ISSUER_NAME"
	issuerNameFlagUsage = "Issuer name written into credentials." +
		" Alternatively, this can be set with the following environment variable: " + issuerNameEnvKey

	databaseTypeFlagName      = "database-type"
	databaseTypeEnvKey        = "ANONCRED_DATABASE_TYPE"
	databaseTypeFlagShorthand = "q"
	databaseTypeFlagUsage     = "The type of database issuance records are kept in." +
		" Supported options: mem, leveldb. Defaults to mem if not set." +
		" Alternatively, this can be set with the following environment variable: " + databaseTypeEnvKey

	databasePathFlagName  = "database-path"
	databasePathEnvKey    = "ANONCRED_DATABASE_PATH"
	databasePathFlagUsage = "Directory of the leveldb database." +
		" Alternatively, this can be set with the following environment variable: " + databasePathEnvKey
)

type keyPairOutput struct {
	Ciphersuite string `json:"ciphersuite"`
	PrivateKey  string `json:"privateKey"`
	PublicKey   string `json:"publicKey"`
}

type validOutput struct {
	Valid bool `json:"valid"`
}

func createKeyGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a BBS key pair",
		Long:  `Generate a BBS key pair, from the given key material or from random bytes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getCommon(cmd)
			if err != nil {
				return err
			}

			seedValue, err := getUserSetVar(cmd, seedFlagName, seedEnvKey, true)
			if err != nil {
				return err
			}

			var seed []byte

			if seedValue != "" {
				seed, err = decodeMultibase(seedFlagName, seedValue)
				if err != nil {
					return err
				}
			}

			pubKey, privKey, err := c.cs.GenerateKeyPair(seed)
			if err != nil {
				return errors.Wrap(err, "generate key pair")
			}

			privKeyBytes, err := privKey.Marshal()
			if err != nil {
				return err
			}

			pubKeyBytes, err := pubKey.Marshal()
			if err != nil {
				return err
			}

			out := &keyPairOutput{Ciphersuite: c.cs.Name()}

			if out.PrivateKey, err = c.encode(privKeyBytes); err != nil {
				return err
			}

			if out.PublicKey, err = c.encode(pubKeyBytes); err != nil {
				return err
			}

			return printJSON(cmd, out)
		},
	}

	cmd.Flags().StringP(seedFlagName, "", "", seedFlagUsage)

	return cmd
}

func createSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign messages",
		Long:  `Sign an ordered list of messages with a BBS private key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getCommon(cmd)
			if err != nil {
				return err
			}

			privKey, err := getDecodedVar(cmd, privateKeyFlagName, privateKeyEnvKey)
			if err != nil {
				return err
			}

			header, err := getUserSetVar(cmd, headerFlagName, headerEnvKey, true)
			if err != nil {
				return err
			}

			messages, err := getMessages(cmd)
			if err != nil {
				return err
			}

			signature, err := c.bbs.Sign([]byte(header), messages, privKey)
			if err != nil {
				return errors.Wrap(err, "sign messages")
			}

			encoded, err := c.encode(signature)
			if err != nil {
				return err
			}

			logger.Debugf("signed %d messages", len(messages))

			return printJSON(cmd, map[string]string{"signature": encoded})
		},
	}

	cmd.Flags().StringP(privateKeyFlagName, privateKeyFlagShorthand, "", privateKeyFlagUsage)
	cmd.Flags().StringP(headerFlagName, "", "", headerFlagUsage)
	cmd.Flags().StringArrayP(messageFlagName, messageFlagShorthand, []string{}, messageFlagUsage)

	return cmd
}

func createVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature",
		Long:  `Verify a BBS signature over an ordered list of messages`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getCommon(cmd)
			if err != nil {
				return err
			}

			pubKey, err := getDecodedVar(cmd, publicKeyFlagName, publicKeyEnvKey)
			if err != nil {
				return err
			}

			signature, err := getDecodedVar(cmd, signatureFlagName, signatureEnvKey)
			if err != nil {
				return err
			}

			header, err := getUserSetVar(cmd, headerFlagName, headerEnvKey, true)
			if err != nil {
				return err
			}

			messages, err := getMessages(cmd)
			if err != nil {
				return err
			}

			ok, err := c.bbs.Verify([]byte(header), messages, signature, pubKey)
			if !ok {
				return errors.Errorf("signature is not valid: %v", err)
			}

			return printJSON(cmd, &validOutput{Valid: true})
		},
	}

	cmd.Flags().StringP(publicKeyFlagName, publicKeyFlagShorthand, "", publicKeyFlagUsage)
	cmd.Flags().StringP(signatureFlagName, signatureFlagShorthand, "", signatureFlagUsage)
	cmd.Flags().StringP(headerFlagName, "", "", headerFlagUsage)
	cmd.Flags().StringArrayP(messageFlagName, messageFlagShorthand, []string{}, messageFlagUsage)

	return cmd
}

func createProveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prove",
		Short: "Derive a selective disclosure proof",
		Long:  `Derive a BBS proof of a signature that discloses only the messages at the given indexes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getCommon(cmd)
			if err != nil {
				return err
			}

			pubKey, err := getDecodedVar(cmd, publicKeyFlagName, publicKeyEnvKey)
			if err != nil {
				return err
			}

			signature, err := getDecodedVar(cmd, signatureFlagName, signatureEnvKey)
			if err != nil {
				return err
			}

			header, ph, err := getHeaders(cmd)
			if err != nil {
				return err
			}

			messages, err := getMessages(cmd)
			if err != nil {
				return err
			}

			indexes, err := getDisclosedIndexes(cmd)
			if err != nil {
				return err
			}

			proof, err := c.bbs.DeriveProof(header, ph, messages, signature, pubKey, indexes)
			if err != nil {
				return errors.Wrap(err, "derive proof")
			}

			encoded, err := c.encode(proof)
			if err != nil {
				return err
			}

			return printJSON(cmd, map[string]string{"proof": encoded})
		},
	}

	cmd.Flags().StringP(publicKeyFlagName, publicKeyFlagShorthand, "", publicKeyFlagUsage)
	cmd.Flags().StringP(signatureFlagName, signatureFlagShorthand, "", signatureFlagUsage)
	cmd.Flags().StringP(headerFlagName, "", "", headerFlagUsage)
	cmd.Flags().StringP(presentationHeaderFlagName, "", "", presentationHeaderFlagUsage)
	cmd.Flags().StringArrayP(messageFlagName, messageFlagShorthand, []string{}, messageFlagUsage)
	cmd.Flags().StringSliceP(discloseFlagName, discloseFlagShorthand, []string{}, discloseFlagUsage)

	return cmd
}

func createVerifyProofCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-proof",
		Short: "Verify a selective disclosure proof",
		Long:  `Verify a BBS proof against the disclosed messages, given in the order of their indexes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getCommon(cmd)
			if err != nil {
				return err
			}

			pubKey, err := getDecodedVar(cmd, publicKeyFlagName, publicKeyEnvKey)
			if err != nil {
				return err
			}

			proof, err := getDecodedVar(cmd, proofFlagName, proofEnvKey)
			if err != nil {
				return err
			}

			header, ph, err := getHeaders(cmd)
			if err != nil {
				return err
			}

			messages, err := getMessages(cmd)
			if err != nil {
				return err
			}

			indexes, err := getDisclosedIndexes(cmd)
			if err != nil {
				return err
			}

			ok, err := c.bbs.VerifyProof(header, ph, messages, proof, pubKey, indexes)
			if !ok {
				return errors.Errorf("proof is not valid: %v", err)
			}

			return printJSON(cmd, &validOutput{Valid: true})
		},
	}

	cmd.Flags().StringP(publicKeyFlagName, publicKeyFlagShorthand, "", publicKeyFlagUsage)
	cmd.Flags().StringP(proofFlagName, "", "", proofFlagUsage)
	cmd.Flags().StringP(headerFlagName, "", "", headerFlagUsage)
	cmd.Flags().StringP(presentationHeaderFlagName, "", "", presentationHeaderFlagUsage)
	cmd.Flags().StringArrayP(messageFlagName, messageFlagShorthand, []string{}, messageFlagUsage)
	cmd.Flags().StringSliceP(discloseFlagName, discloseFlagShorthand, []string{}, discloseFlagUsage)

	return cmd
}

func createIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a credential",
		Long:  `Issue a BBS signed attribute credential and record it in the issuer database`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getCommon(cmd)
			if err != nil {
				return err
			}

			req, err := getIssueRequest(cmd)
			if err != nil {
				return err
			}

			opts, err := getIssuerOpts(cmd, c)
			if err != nil {
				return err
			}

			dbType, err := getUserSetVar(cmd, databaseTypeFlagName, databaseTypeEnvKey, true)
			if err != nil {
				return err
			}

			dbPath, err := getUserSetVar(cmd, databasePathFlagName, databasePathEnvKey, true)
			if err != nil {
				return err
			}

			provider, err := store.NewProvider(dbType, dbPath)
			if err != nil {
				return err
			}

			defer func() {
				if errClose := provider.Close(); errClose != nil {
					logger.Warnf("failed to close storage provider: %s", errClose)
				}
			}()

			issuer, err := anoncred.NewIssuer(provider, opts...)
			if err != nil {
				return err
			}

			cred, err := issuer.Issue(cmd.Context(), req)
			if err != nil {
				return errors.Wrap(err, "issue credential")
			}

			return printJSON(cmd, cred)
		},
	}

	cmd.Flags().StringP(requestFlagName, "", "", requestFlagUsage)
	cmd.Flags().StringP(privateKeyFlagName, privateKeyFlagShorthand, "", privateKeyFlagUsage)
	cmd.Flags().StringP(issuerNameFlagName, "", "", issuerNameFlagUsage)
	cmd.Flags().StringP(databaseTypeFlagName, databaseTypeFlagShorthand, "", databaseTypeFlagUsage)
	cmd.Flags().StringP(databasePathFlagName, "", "", databasePathFlagUsage)

	return cmd
}

func getHeaders(cmd *cobra.Command) ([]byte, []byte, error) {
	header, err := getUserSetVar(cmd, headerFlagName, headerEnvKey, true)
	if err != nil {
		return nil, nil, err
	}

	ph, err := getUserSetVar(cmd, presentationHeaderFlagName, presentationHeaderEnvKey, true)
	if err != nil {
		return nil, nil, err
	}

	return []byte(header), []byte(ph), nil
}

func getIssueRequest(cmd *cobra.Command) (*anoncred.IssueRequest, error) {
	rawRequest, err := getUserSetVar(cmd, requestFlagName, requestEnvKey, false)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}

	if err = json.Unmarshal([]byte(rawRequest), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse issue request: %w", err)
	}

	return anoncred.DecodeIssueRequest(raw)
}

func getIssuerOpts(cmd *cobra.Command, c *common) ([]anoncred.IssuerOpt, error) {
	opts := []anoncred.IssuerOpt{anoncred.WithCiphersuite(c.cs)}

	name, err := getUserSetVar(cmd, issuerNameFlagName, issuerNameEnvKey, true)
	if err != nil {
		return nil, err
	}

	if name != "" {
		opts = append(opts, anoncred.WithIssuerName(name))
	}

	encodedKey, err := getUserSetVar(cmd, privateKeyFlagName, privateKeyEnvKey, true)
	if err != nil {
		return nil, err
	}

	if encodedKey == "" {
		logger.Warnf("no issuer private key given, a fresh key pair is generated")

		return opts, nil
	}

	keyBytes, err := decodeMultibase(privateKeyFlagName, encodedKey)
	if err != nil {
		return nil, err
	}

	privKey, err := bbs.UnmarshalPrivateKey(keyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal issuer private key")
	}

	return append(opts, anoncred.WithPrivateKey(privKey)), nil
}
