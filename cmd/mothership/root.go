/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/suparena/mothership"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mothership",
		Short: "Topic ownership directory for a fleet of nodes",
		Long: `mothership records which node owns each topic and answers lookups for it.
Run "mothership serve <config>" to start the directory server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newRegisterCmd(),
		newResolveCmd(),
		newAuditCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	if version != "" {
		mothership.Version = version
	}
	if commit != "" {
		mothership.GitCommit = commit
	}
	if date != "" {
		mothership.BuildDate = date
	}
	return newRootCmd().Execute()
}
