/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/multiformats/go-multibase"
	"github.com/spf13/cobra"

	bbs "github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bbs12381g2pub"
)

const (
	// ciphersuite flag.
	ciphersuiteFlagName  = "ciphersuite"
	ciphersuiteEnvKey    = "ANONCRED_CIPHERSUITE"
	ciphersuiteFlagUsage = "BBS ciphersuite. Possible values [BLS12-381-SHA-256] [BLS12-381-SHAKE-256]." +
		" Defaults to BLS12-381-SHAKE-256 if not set." +
		" Alternatively, this can be set with the following environment variable: " + ciphersuiteEnvKey

	// encoding flag.
	encodingFlagName  = "encoding"
	encodingEnvKey    = "ANONCRED_ENCODING"
	encodingFlagUsage = "Multibase encoding of printed keys, signatures and proofs. Defaults to base58btc if not set." +
		" Input values may use any multibase encoding." +
		" Alternatively, this can be set with the following environment variable: " + encodingEnvKey

	// log level.
	logLevelFlagName  = "log-level"
	logLevelEnvKey    = "ANONCRED_LOG_LEVEL"
	logLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + logLevelEnvKey

	privateKeyFlagName      = "private-key"
	privateKeyEnvKey        = "ANONCRED_PRIVATE_KEY" // nolint:gosec
	privateKeyFlagShorthand = "k"
	privateKeyFlagUsage     = "Multibase encoded BBS private key." +
		" Alternatively, this can be set with the following environment variable: " + privateKeyEnvKey

	publicKeyFlagName      = "public-key"
	publicKeyEnvKey        = "ANONCRED_PUBLIC_KEY"
	publicKeyFlagShorthand = "p"
	publicKeyFlagUsage     = "Multibase encoded BBS public key." +
		" Alternatively, this can be set with the following environment variable: " + publicKeyEnvKey

	signatureFlagName      = "signature"
	signatureEnvKey        = "ANONCRED_SIGNATURE"
	signatureFlagShorthand = "s"
	signatureFlagUsage     = "Multibase encoded BBS signature." +
		" Alternatively, this can be set with the following environment variable: " + signatureEnvKey

	proofFlagName  = "proof"
	proofEnvKey    = "ANONCRED_PROOF"
	proofFlagUsage = "Multibase encoded BBS proof." +
		" Alternatively, this can be set with the following environment variable: " + proofEnvKey

	headerFlagName  = "header"
	headerEnvKey    = "ANONCRED_HEADER"
	headerFlagUsage = "Header bound to the signature, as text. Defaults to empty." +
		" Alternatively, this can be set with the following environment variable: " + headerEnvKey

	presentationHeaderFlagName  = "presentation-header"
	presentationHeaderEnvKey    = "ANONCRED_PRESENTATION_HEADER"
	presentationHeaderFlagUsage = "Presentation header (verifier nonce) bound to the proof, as text." +
		" Alternatively, this can be set with the following environment variable: " + presentationHeaderEnvKey

	messageFlagName      = "message"
	messageFlagShorthand = "m"
	messageFlagUsage     = "Message, as text. This flag can be repeated; order is significant."

	discloseFlagName      = "disclose"
	discloseEnvKey        = "ANONCRED_DISCLOSE"
	discloseFlagShorthand = "d"
	discloseFlagUsage     = "Zero based index of a disclosed message. This flag can be repeated." +
		" Alternatively, this can be set with the following environment variable (in CSV format): " + discloseEnvKey

	seedFlagName  = "seed"
	seedEnvKey    = "ANONCRED_SEED"
	seedFlagUsage = "Multibase encoded key material of at least 32 bytes. Random if not set." +
		" Alternatively, this can be set with the following environment variable: " + seedEnvKey

	defaultCiphersuite = "BLS12-381-SHAKE-256"
	defaultEncoding    = "base58btc"
)

// nolint:gochecknoglobals
var logger = log.New("anoncred/cli")

// Cmds returns the anoncred-cli sub commands.
func Cmds() []*cobra.Command {
	cmds := []*cobra.Command{
		createKeyGenCmd(),
		createSignCmd(),
		createVerifyCmd(),
		createProveCmd(),
		createVerifyProofCmd(),
		createIssueCmd(),
	}

	for _, cmd := range cmds {
		createCommonFlags(cmd)
	}

	return cmds
}

func createCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(ciphersuiteFlagName, "", "", ciphersuiteFlagUsage)
	cmd.Flags().StringP(encodingFlagName, "", "", encodingFlagUsage)
	cmd.Flags().StringP(logLevelFlagName, "", "", logLevelFlagUsage)
}

// common holds the settings every sub command shares.
type common struct {
	bbs      *bbs.BBSG2Pub
	cs       *bbs.Ciphersuite
	encoding multibase.Encoding
}

func getCommon(cmd *cobra.Command) (*common, error) {
	logLevel, err := getUserSetVar(cmd, logLevelFlagName, logLevelEnvKey, true)
	if err != nil {
		return nil, err
	}

	if err = setLogLevel(logLevel); err != nil {
		return nil, err
	}

	csName, err := getUserSetVar(cmd, ciphersuiteFlagName, ciphersuiteEnvKey, true)
	if err != nil {
		return nil, err
	}

	if csName == "" {
		csName = defaultCiphersuite
	}

	cs, err := bbs.CiphersuiteByName(csName)
	if err != nil {
		return nil, err
	}

	encodingName, err := getUserSetVar(cmd, encodingFlagName, encodingEnvKey, true)
	if err != nil {
		return nil, err
	}

	if encodingName == "" {
		encodingName = defaultEncoding
	}

	encoding, ok := multibase.Encodings[encodingName]
	if !ok {
		return nil, fmt.Errorf("unsupported multibase encoding %q", encodingName)
	}

	return &common{
		bbs:      bbs.New(bbs.WithCiphersuite(cs)),
		cs:       cs,
		encoding: encoding,
	}, nil
}

func (c *common) encode(data []byte) (string, error) {
	return multibase.Encode(c.encoding, data)
}

func decodeMultibase(name, value string) ([]byte, error) {
	_, data, err := multibase.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return data, nil
}

// getDecodedVar reads a required multibase encoded flag or environment variable.
func getDecodedVar(cmd *cobra.Command, flagName, envKey string) ([]byte, error) {
	value, err := getUserSetVar(cmd, flagName, envKey, false)
	if err != nil {
		return nil, err
	}

	return decodeMultibase(flagName, value)
}

func getMessages(cmd *cobra.Command) ([][]byte, error) {
	values, err := cmd.Flags().GetStringArray(messageFlagName)
	if err != nil {
		return nil, fmt.Errorf(messageFlagName+" flag not found: %s", err)
	}

	messages := make([][]byte, len(values))
	for i, v := range values {
		messages[i] = []byte(v)
	}

	return messages, nil
}

func getDisclosedIndexes(cmd *cobra.Command) ([]int, error) {
	values, err := getUserSetVars(cmd, discloseFlagName, discloseEnvKey, true)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(values))

	for _, v := range values {
		idx, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("failed to parse disclosed index %s: %w", v, err)
		}

		indexes = append(indexes, idx)
	}

	return indexes, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return err
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func getUserSetVars(cmd *cobra.Command, flagName, envKey string, isOptional bool) ([]string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetStringSlice(flagName)
		if err != nil {
			return nil, fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	var values []string

	if isSet && value != "" {
		values = strings.Split(value, ",")
	}

	if isOptional || isSet {
		return values, nil
	}

	return nil, fmt.Errorf(" %s not set. "+
		"It must be set via either command line or environment variable", flagName)
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}
