/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is the anoncred command line tool: BBS keys, signatures, selective disclosure proofs and
// credential issuance.
package main

import (
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-bbs-credentials/cmd/anoncred-cli/startcmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use: "anoncred-cli",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	logger := log.New("anoncred/cli")

	rootCmd.AddCommand(startcmd.Cmds()...)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Failed to run anoncred-cli: %s", err)
	}
}
