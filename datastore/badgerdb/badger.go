/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package badgerdb

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/storagemodels"
)

// BackendName identifies this store in errors and configuration.
const BackendName = "badger"

// maxConflictRetries bounds how often Put re-runs a transaction that lost a
// same-key race.
const maxConflictRetries = 100

// ErrClosed is returned by operations on a closed store
var ErrClosed = stderrors.New("badger store closed")

// Config configures the BadgerDB store
type Config struct {
	// Path is the database directory (required)
	Path string

	// SyncWrites fsyncs every write before Put returns
	SyncWrites bool

	// GCInterval is how often value-log garbage collection runs; zero disables it
	GCInterval time.Duration

	// GCDiscardRatio is passed to RunValueLogGC
	GCDiscardRatio float64

	// Logger receives BadgerDB's internal logging; nil silences it
	Logger logrus.FieldLogger
}

// DefaultConfig returns a durable configuration rooted at path
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Path == "" {
		return errors.NewValidationError("path", "must not be empty")
	}
	if c.GCDiscardRatio < 0 || c.GCDiscardRatio >= 1 {
		return errors.NewValidationError("gc_discard_ratio", "must be in [0, 1)")
	}
	return nil
}

// Store implements datastore.DataStore on top of BadgerDB.
type Store struct {
	db     *badger.DB
	config Config
	closed atomic.Bool

	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
}

// New opens (or creates) the database described by cfg.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", cfg.Path, err)
	}

	db, err := badger.Open(buildBadgerOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", cfg.Path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:       db,
		config:   cfg,
		gcCancel: cancel,
	}

	if cfg.GCInterval > 0 {
		s.startGC(ctx)
	}

	return s, nil
}

func buildBadgerOptions(cfg Config) badger.Options {
	opts := badger.DefaultOptions(cfg.Path).
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	return opts
}

// badgerLogger adapts a logrus logger to badger.Logger. Badger is chatty at
// info level, so those messages are demoted to debug.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warningf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (s *Store) startGC(ctx context.Context) {
	s.gcWg.Add(1)
	go func() {
		defer s.gcWg.Done()

		ticker := time.NewTicker(s.config.GCInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runGC()
			}
		}
	}()
}

// runGC collects until badger reports nothing left to rewrite
func (s *Store) runGC() {
	for !s.closed.Load() {
		if err := s.db.RunValueLogGC(s.config.GCDiscardRatio); err != nil {
			return
		}
	}
}

// Put writes value under key and returns the value it replaced.
func (s *Store) Put(ctx context.Context, key, value []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.NewValidationError("key", "must not be empty")
	}
	if s.closed.Load() {
		return nil, errors.NewStoreError(errors.OpWrite, BackendName, ErrClosed)
	}

	for attempt := 0; ; attempt++ {
		var previous []byte
		err := s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			switch {
			case err == nil:
				previous, err = item.ValueCopy(nil)
				if err != nil {
					return err
				}
			case stderrors.Is(err, badger.ErrKeyNotFound):
			default:
				return err
			}
			return txn.Set(key, value)
		})

		if stderrors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, errors.NewStoreError(errors.OpWrite, BackendName, ctxErr)
			}
			continue
		}
		if err != nil {
			return nil, errors.NewStoreError(errors.OpWrite, BackendName, err)
		}
		return previous, nil
	}
}

// Get returns the value under key.
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.NewValidationError("key", "must not be empty")
	}
	if s.closed.Load() {
		return nil, errors.NewStoreError(errors.OpRead, BackendName, ErrClosed)
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.NewNotFoundError("key", string(key))
	}
	if err != nil {
		return nil, errors.NewStoreError(errors.OpRead, BackendName, err)
	}
	return value, nil
}

// Stream iterates every key in byte order from a single read snapshot.
func (s *Store) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult {
	options := storagemodels.ApplyStreamOptions(opts...)
	resultCh := make(chan storagemodels.StreamResult, options.BufferSize)

	go s.streamWorker(ctx, options, resultCh)

	return resultCh
}

func (s *Store) streamWorker(ctx context.Context, options storagemodels.StreamOptions, resultCh chan<- storagemodels.StreamResult) {
	defer close(resultCh)

	if s.closed.Load() {
		resultCh <- storagemodels.StreamResult{Error: errors.NewStoreError(errors.OpScan, BackendName, ErrClosed)}
		return
	}

	start := time.Now()
	var index int64
	var lastKey []byte
	pageSize := int64(options.PageSize)

	err := s.db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.PrefetchSize = int(options.PageSize)
		it := txn.NewIterator(itOpts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			result := storagemodels.StreamResult{
				Entry: storagemodels.Entry{Key: key, Value: value},
				Meta: storagemodels.StreamMeta{
					Index:      index,
					PageNumber: int(index/pageSize) + 1,
					Timestamp:  time.Now(),
				},
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case resultCh <- result:
			}

			index++
			lastKey = key
			if index%pageSize == 0 && options.ProgressHandler != nil {
				options.ProgressHandler(storagemodels.NewProgress(index, int(index/pageSize), lastKey, start))
			}
		}
		return nil
	})

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		resultCh <- storagemodels.StreamResult{
			Error: errors.NewStoreError(errors.OpScan, BackendName, err),
			Meta:  storagemodels.StreamMeta{Index: index, Timestamp: time.Now()},
		}
		return
	}

	if options.ProgressHandler != nil {
		pages := int((index + pageSize - 1) / pageSize)
		options.ProgressHandler(storagemodels.NewProgress(index, pages, lastKey, start))
	}
}

// Sync flushes pending writes to disk. Only needed when SyncWrites is off.
func (s *Store) Sync() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Sync()
}

// Close stops garbage collection, flushes unsynced writes and closes the
// database
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	s.gcCancel()
	s.gcWg.Wait()

	var err error
	if !s.config.SyncWrites {
		err = s.db.Sync()
	}
	return multierr.Append(err, s.db.Close())
}
