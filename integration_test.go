/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mothership_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/mothership"
	"github.com/suparena/mothership/api"
	"github.com/suparena/mothership/config"
	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/regclient"
	"github.com/suparena/mothership/registry"
)

// startServer runs the full stack over a Badger store at path
func startServer(t *testing.T, path string) (*regclient.Client, func()) {
	t.Helper()
	logger, _ := test.NewNullLogger()

	cfg := config.Default().Store
	cfg.Path = path
	store, err := mothership.OpenStore(context.Background(), cfg, logger)
	require.NoError(t, err)

	svc := registry.New(store, registry.WithLogger(logger))
	srv := httptest.NewServer(api.New(svc, api.WithLogger(logger)).Handler())

	stop := func() {
		srv.Close()
		require.NoError(t, store.Close())
	}
	return regclient.NewClient(&regclient.Config{Location: srv.URL}), stop
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mothership_db")

	client, stop := startServer(t, path)

	_, err := client.Resolve(ctx, "sensor-a")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, client.Register(ctx, "sensor-a", "n1", 9000))
	require.NoError(t, client.Register(ctx, "sensor-a", "n2", 9100))

	res, err := client.Resolve(ctx, "sensor-a")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", res.Address)
	assert.Equal(t, "n2", res.NodeID)
	stop()

	// registrations survive a restart
	client, stop = startServer(t, path)
	defer stop()

	res, err = client.Resolve(ctx, "sensor-a")
	require.NoError(t, err)
	assert.Equal(t, "n2", res.NodeID)
}

func TestConcurrentClients(t *testing.T) {
	ctx := context.Background()
	client, stop := startServer(t, filepath.Join(t.TempDir(), "mothership_db"))
	defer stop()

	nodes := []string{"n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8"}
	var wg sync.WaitGroup
	for i, node := range nodes {
		wg.Add(1)
		go func(node string, port int) {
			defer wg.Done()
			assert.NoError(t, client.Register(ctx, "shared", node, port))
		}(node, 9000+i)
	}
	wg.Wait()

	res, err := client.Resolve(ctx, "shared")
	require.NoError(t, err)
	assert.Contains(t, nodes, res.NodeID)
}
