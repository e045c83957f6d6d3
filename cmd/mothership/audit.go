/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/suparena/mothership"
	"github.com/suparena/mothership/config"
	"github.com/suparena/mothership/registry"
)

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit <config>",
		Short: "Report stored records that cannot be decoded",
		Long: `Scan every stored record of the store configured in <config> and report the
ones that do not decode. Nothing is modified. A Badger store is locked by a
running server, so audit it while the server is stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			log.SetLevel(logrus.WarnLevel)

			store, err := mothership.OpenStore(cmd.Context(), cfg.Store, log)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, store.Close())
			}()

			report, err := registry.New(store, registry.WithLogger(log)).Audit(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range report.Corrupt {
				fmt.Fprintf(out, "corrupt %s: %s (%s)\n", strconv.Quote(c.Topic), printable(c.Raw), c.Reason)
			}
			fmt.Fprintf(out, "%d records, %d valid, %d corrupt\n", report.Total, report.Valid, len(report.Corrupt))

			if len(report.Corrupt) > 0 {
				return fmt.Errorf("%d corrupt records", len(report.Corrupt))
			}
			return nil
		},
	}
}

func printable(raw []byte) string {
	if utf8.Valid(raw) {
		return strconv.Quote(string(raw))
	}
	return fmt.Sprintf("%x", raw)
}
