/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/mothership"
	"github.com/suparena/mothership/api"
	"github.com/suparena/mothership/config"
	"github.com/suparena/mothership/logging"
	"github.com/suparena/mothership/registry"
)

func newServeCmd() *cobra.Command {
	var auditInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve <config>",
		Short: "Run the directory server",
		Long: `Run the directory server with the YAML configuration at <config>.
Settings can be overridden from .env and MOTHERSHIP_* / AWS_* environment variables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, auditInterval)
		},
	}
	cmd.Flags().DurationVar(&auditInterval, "audit-interval", 0, "Periodically audit stored records and log corrupt ones (0 disables)")
	return cmd
}

// serve runs the server until ctx is cancelled or it fails, then releases the
// store and log file.
func serve(ctx context.Context, cfg *config.Config, auditInterval time.Duration) (err error) {
	logger, logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	nodeID := uuid.NewString()
	log := logger.WithField("node_id", nodeID)
	defer func() {
		err = multierr.Append(err, logCloser.Close())
	}()

	store, err := mothership.OpenStore(ctx, cfg.Store, log)
	if err != nil {
		log.WithError(err).Error("failed to open mothership db")
		return err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	svc := registry.New(store, registry.WithLogger(log))
	srv := api.New(svc,
		api.WithLogger(log),
		api.WithNodeID(nodeID),
		api.WithVersion(mothership.Version),
	)

	log.WithFields(logrus.Fields{
		"backend": cfg.Store.Backend,
		"version": mothership.Version,
	}).Info("mothership starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.ListenAddr())
	})
	if auditInterval > 0 {
		g.Go(func() error {
			auditLoop(gctx, svc, log, auditInterval)
			return nil
		})
	}
	return g.Wait()
}

func auditLoop(ctx context.Context, svc *registry.Service, log logrus.FieldLogger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Audit(ctx); err != nil && ctx.Err() == nil {
				log.WithError(err).Warn("audit failed")
			}
		}
	}
}
