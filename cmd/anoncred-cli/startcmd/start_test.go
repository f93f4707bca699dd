/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	testSeed    = "f746869732d49532d6a7573742d616e2d546573742d494b4d2d746f2d67656e65726174652d246528724074232d6b6579"
	testRequest = `{"name":"Sara","surname":"Smith","birthdate":"1990-05-15","location":"Berlin",` +
		`"ssn":"123-45-6789","creditScore":"720"}`
)

func execute(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()

	rootCmd := &cobra.Command{Use: "anoncred-cli", SilenceUsage: true, SilenceErrors: true}
	rootCmd.AddCommand(Cmds()...)

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	result := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	return result, nil
}

func TestCmdsContents(t *testing.T) {
	uses := make([]string, 0)

	for _, cmd := range Cmds() {
		uses = append(uses, cmd.Use)

		require.NotNil(t, cmd.Flags().Lookup(ciphersuiteFlagName))
		require.NotNil(t, cmd.Flags().Lookup(logLevelFlagName))
		require.NotNil(t, cmd.Flags().Lookup(encodingFlagName))
	}

	require.Equal(t, []string{"keygen", "sign", "verify", "prove", "verify-proof", "issue"}, uses)
}

func TestSignAndProve(t *testing.T) {
	for _, cs := range []string{"BLS12-381-SHA-256", "BLS12-381-SHAKE-256"} {
		cs := cs
		t.Run(cs, func(t *testing.T) {
			keys, err := execute(t, "keygen", "--ciphersuite", cs, "--seed", testSeed)
			require.NoError(t, err)
			require.Equal(t, cs, keys["ciphersuite"])

			again, err := execute(t, "keygen", "--ciphersuite", cs, "--seed", testSeed)
			require.NoError(t, err)
			require.Equal(t, keys, again)

			privKey := keys["privateKey"].(string)
			pubKey := keys["publicKey"].(string)
			require.True(t, strings.HasPrefix(pubKey, "z"))

			sig, err := execute(t, "sign", "--ciphersuite", cs, "-k", privKey, "--header", "h",
				"-m", "age:30", "-m", "id:abc123")
			require.NoError(t, err)

			signature := sig["signature"].(string)

			valid, err := execute(t, "verify", "--ciphersuite", cs, "-p", pubKey, "-s", signature, "--header", "h",
				"-m", "age:30", "-m", "id:abc123")
			require.NoError(t, err)
			require.Equal(t, true, valid["valid"])

			_, err = execute(t, "verify", "--ciphersuite", cs, "-p", pubKey, "-s", signature, "--header", "h",
				"-m", "age:31", "-m", "id:abc123")
			require.Error(t, err)
			require.Contains(t, err.Error(), "signature is not valid")

			proof, err := execute(t, "prove", "--ciphersuite", cs, "-p", pubKey, "-s", signature, "--header", "h",
				"--presentation-header", "nonce", "-m", "age:30", "-m", "id:abc123", "-d", "1")
			require.NoError(t, err)

			proofValue := proof["proof"].(string)

			valid, err = execute(t, "verify-proof", "--ciphersuite", cs, "-p", pubKey, "--proof", proofValue,
				"--header", "h", "--presentation-header", "nonce", "-m", "id:abc123", "-d", "1")
			require.NoError(t, err)
			require.Equal(t, true, valid["valid"])

			_, err = execute(t, "verify-proof", "--ciphersuite", cs, "-p", pubKey, "--proof", proofValue,
				"--header", "h", "--presentation-header", "nonce", "-m", "id:abc123", "-d", "0")
			require.Error(t, err)
			require.Contains(t, err.Error(), "proof is not valid")
		})
	}
}

func TestEnvironmentFallback(t *testing.T) {
	keys, err := execute(t, "keygen", "--encoding", "base64url")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(keys["publicKey"].(string), "u"))

	t.Setenv(privateKeyEnvKey, keys["privateKey"].(string))
	t.Setenv(publicKeyEnvKey, keys["publicKey"].(string))
	t.Setenv(ciphersuiteEnvKey, "BLS12-381-SHAKE-256")

	sig, err := execute(t, "sign", "-m", "a", "-m", "b", "-m", "c")
	require.NoError(t, err)

	t.Setenv(signatureEnvKey, sig["signature"].(string))
	t.Setenv(discloseEnvKey, "0,2")
	t.Setenv(presentationHeaderEnvKey, "nonce")

	proof, err := execute(t, "prove", "-m", "a", "-m", "b", "-m", "c")
	require.NoError(t, err)

	t.Setenv(proofEnvKey, proof["proof"].(string))

	valid, err := execute(t, "verify-proof", "-m", "a", "-m", "c")
	require.NoError(t, err)
	require.Equal(t, true, valid["valid"])

	t.Setenv(ciphersuiteEnvKey, "BLS12-381-SHA-256")

	_, err = execute(t, "verify-proof", "-m", "a", "-m", "c")
	require.Error(t, err)
}

func TestInvalidInput(t *testing.T) {
	t.Run("missing public key", func(t *testing.T) {
		_, err := execute(t, "verify", "-s", "z1", "-m", "a")
		require.EqualError(t, err, "Neither public-key (command line flag) nor ANONCRED_PUBLIC_KEY"+
			" (environment variable) have been set.")
	})

	t.Run("invalid multibase", func(t *testing.T) {
		_, err := execute(t, "verify", "-p", "!!", "-s", "z1", "-m", "a")
		require.Error(t, err)
		require.Contains(t, err.Error(), "decode public-key")
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := execute(t, "keygen", "--log-level", "LOUD")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse log level 'LOUD'")

		_, err = execute(t, "keygen", "--log-level", "DEBUG")
		require.NoError(t, err)
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		_, err := execute(t, "keygen", "--encoding", "base1000")
		require.EqualError(t, err, `unsupported multibase encoding "base1000"`)
	})

	t.Run("unsupported ciphersuite", func(t *testing.T) {
		_, err := execute(t, "keygen", "--ciphersuite", "BLS12-381-SHA-512")
		require.Error(t, err)
	})

	t.Run("short seed", func(t *testing.T) {
		_, err := execute(t, "keygen", "--seed", "f00")
		require.Error(t, err)
		require.Contains(t, err.Error(), "generate key pair")
	})

	t.Run("invalid disclosed index", func(t *testing.T) {
		_, err := execute(t, "prove", "-p", "z1", "-s", "z1", "-d", "first")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse disclosed index first")
	})
}

func TestIssueCmd(t *testing.T) {
	keys, err := execute(t, "keygen", "--seed", testSeed)
	require.NoError(t, err)

	t.Run("mem", func(t *testing.T) {
		cred, err := execute(t, "issue", "--request", testRequest, "-k", keys["privateKey"].(string),
			"--issuer-name", "CLI Authority")
		require.NoError(t, err)
		require.Equal(t, "CLI Authority", cred["issuerName"])
		require.Equal(t, "BLS12-381-SHAKE-256", cred["ciphersuite"])
		require.Len(t, cred["attributes"], 8)
		require.NotEmpty(t, cred["id"])
	})

	t.Run("leveldb from environment", func(t *testing.T) {
		t.Setenv(databaseTypeEnvKey, "leveldb")
		t.Setenv(databasePathEnvKey, t.TempDir())
		t.Setenv(requestEnvKey, testRequest)

		cred, err := execute(t, "issue")
		require.NoError(t, err)
		require.Equal(t, "Government Identity Authority", cred["issuerName"])
	})

	t.Run("invalid request", func(t *testing.T) {
		_, err := execute(t, "issue", "--request", "{")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse issue request")

		_, err = execute(t, "issue", "--request", `{"name":"Sara","age":30}`)
		require.Error(t, err)

		_, err = execute(t, "issue", "--request", `{"name":"Sara"}`)
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing fields in issue request")
	})

	t.Run("unsupported database", func(t *testing.T) {
		_, err := execute(t, "issue", "--request", testRequest, "-q", "couchdb")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not supported")
	})

	t.Run("invalid private key", func(t *testing.T) {
		_, err := execute(t, "issue", "--request", testRequest, "-k", "f00")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unmarshal issuer private key")
	})
}
