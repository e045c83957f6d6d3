/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/mothership/regclient"
)

const defaultLocation = "http://localhost:8080"

func newRegisterCmd() *cobra.Command {
	var (
		location string
		nodeID   string
		port     int
	)

	cmd := &cobra.Command{
		Use:   "register <topic>",
		Short: "Register this host as the owner of a topic",
		Long: `Register this host as the owner of <topic>. The mothership records the
address it sees the request coming from, joined with --port.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := regclient.NewClient(&regclient.Config{Location: location})
			if err := c.Register(cmd.Context(), args[0], nodeID, port); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s as owner of %s\n", nodeID, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", defaultLocation, "Mothership base URL")
	cmd.Flags().StringVar(&nodeID, "node-id", "", "Id of the registering node")
	cmd.Flags().IntVar(&port, "port", 0, "Port the node listens on")
	cmd.MarkFlagRequired("node-id")
	cmd.MarkFlagRequired("port")
	return cmd
}

func newResolveCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "resolve <topic>",
		Short: "Print the current owner of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := regclient.NewClient(&regclient.Config{Location: location})
			res, err := c.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&location, "location", defaultLocation, "Mothership base URL")
	return cmd
}
