/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mothership

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/suparena/mothership/config"
	"github.com/suparena/mothership/datastore"
	"github.com/suparena/mothership/datastore/badgerdb"
	"github.com/suparena/mothership/datastore/ddb"
	"github.com/suparena/mothership/datastore/mock"
)

// Opener builds a DataStore from the store section of the configuration.
type Opener func(ctx context.Context, cfg config.Store, log logrus.FieldLogger) (datastore.DataStore, error)

// backendRegistry is a thread-safe map of backend name to Opener.
type backendRegistry struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

var backends = &backendRegistry{openers: make(map[string]Opener)}

func init() {
	mustRegister(config.BackendBadger, openBadger)
	mustRegister(config.BackendDynamoDB, openDynamoDB)
	mustRegister(config.BackendMemory, openMemory)
}

func mustRegister(name string, open Opener) {
	if err := RegisterBackend(name, open); err != nil {
		panic(err)
	}
}

// RegisterBackend makes a store backend available to OpenStore under name.
func RegisterBackend(name string, open Opener) error {
	backends.mu.Lock()
	defer backends.mu.Unlock()

	if _, exists := backends.openers[name]; exists {
		return fmt.Errorf("backend %q already registered", name)
	}
	backends.openers[name] = open
	return nil
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	backends.mu.RLock()
	defer backends.mu.RUnlock()

	names := make([]string, 0, len(backends.openers))
	for name := range backends.openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenStore opens the backend named by cfg.Backend. The caller owns the
// returned store and must Close it.
func OpenStore(ctx context.Context, cfg config.Store, log logrus.FieldLogger) (datastore.DataStore, error) {
	backends.mu.RLock()
	open, exists := backends.openers[cfg.Backend]
	backends.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %q not registered", cfg.Backend)
	}
	return open(ctx, cfg, log)
}

func openBadger(_ context.Context, cfg config.Store, log logrus.FieldLogger) (datastore.DataStore, error) {
	bcfg := badgerdb.DefaultConfig(cfg.Path)
	bcfg.SyncWrites = cfg.SyncWritesEnabled()
	if cfg.GCInterval > 0 {
		bcfg.GCInterval = cfg.GCInterval
	}
	bcfg.Logger = log

	store, err := badgerdb.New(bcfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func openDynamoDB(ctx context.Context, cfg config.Store, log logrus.FieldLogger) (datastore.DataStore, error) {
	store, err := ddb.NewDynamodbDataStore(ctx, ddb.Options{
		AccessKey: cfg.DynamoDB.AccessKey,
		SecretKey: cfg.DynamoDB.SecretKey,
		Region:    cfg.DynamoDB.Region,
		TableName: cfg.DynamoDB.Table,
		Endpoint:  cfg.DynamoDB.Endpoint,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func openMemory(context.Context, config.Store, logrus.FieldLogger) (datastore.DataStore, error) {
	return mock.New(), nil
}
