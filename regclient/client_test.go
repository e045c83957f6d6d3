/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package regclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/mothership/api"
	"github.com/suparena/mothership/datastore/mock"
	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/registry"
)

type testRunner struct {
	Store  *mock.DataStore
	Server *httptest.Server
	Client *Client
}

func newTestRunner(t *testing.T) *testRunner {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := mock.New()
	svc := registry.New(store, registry.WithLogger(logger))
	srv := httptest.NewServer(api.New(svc, api.WithLogger(logger)).Handler())
	t.Cleanup(srv.Close)

	return &testRunner{
		Store:  store,
		Server: srv,
		Client: NewClient(&Config{Location: srv.URL}),
	}
}

func TestRegisterAndResolve(t *testing.T) {
	tr := newTestRunner(t)
	ctx := context.Background()

	require.NoError(t, tr.Client.Register(ctx, "sensor-a", "n1", 9000))

	res, err := tr.Client.Resolve(ctx, "sensor-a")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", res.Address)
	assert.Equal(t, "n1", res.NodeID)
	assert.Equal(t, "sensor-a", res.Topic)
}

func TestResolveTopicWithSlash(t *testing.T) {
	tr := newTestRunner(t)
	ctx := context.Background()

	require.NoError(t, tr.Client.Register(ctx, "fleet/north", "n1", 9000))
	res, err := tr.Client.Resolve(ctx, "fleet/north")
	require.NoError(t, err)
	assert.Equal(t, "fleet/north", res.Topic)
}

func TestResolveErrors(t *testing.T) {
	tr := newTestRunner(t)
	ctx := context.Background()

	_, err := tr.Client.Resolve(ctx, "missing")
	assert.True(t, errors.IsNotFound(err), "got %v", err)

	tr.Store.SetRaw("bad", []byte("no-separator"))
	_, err = tr.Client.Resolve(ctx, "bad")
	assert.True(t, errors.IsCorrupt(err), "got %v", err)

	tr.Store.WithGetError(fmt.Errorf("io error"))
	_, err = tr.Client.Resolve(ctx, "any")
	assert.True(t, errors.IsUnavailable(err), "got %v", err)

	_, err = tr.Client.Resolve(ctx, "")
	assert.True(t, errors.IsValidationError(err), "got %v", err)
}

func TestRegisterErrors(t *testing.T) {
	tr := newTestRunner(t)
	ctx := context.Background()

	err := tr.Client.Register(ctx, "t", "a|b", 80)
	assert.True(t, errors.IsValidationError(err), "got %v", err)

	err = tr.Client.Register(ctx, "t", "n1", 0)
	assert.True(t, errors.IsValidationError(err), "got %v", err)

	tr.Store.WithPutError(fmt.Errorf("disk full"))
	err = tr.Client.Register(ctx, "t", "n1", 80)
	assert.True(t, errors.IsUnavailable(err), "got %v", err)
}

func TestNoLocation(t *testing.T) {
	c := NewClient(&Config{})
	assert.Equal(t, ErrNoLocation, c.Register(context.Background(), "t", "n1", 80))
	_, err := c.Resolve(context.Background(), "t")
	assert.Equal(t, ErrNoLocation, err)
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(&Config{Location: url})
	_, err := c.Resolve(context.Background(), "t")
	assert.True(t, errors.IsUnavailable(err), "got %v", err)
}
