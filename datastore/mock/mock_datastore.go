/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the DataStore interface
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/storagemodels"
)

// BackendName identifies this store in errors and configuration.
const BackendName = "memory"

// DataStore is an in-memory datastore.DataStore for tests
type DataStore struct {
	mu          sync.RWMutex
	data        map[string][]byte
	putError    error
	getError    error
	streamError error
	puts        int
	gets        int
}

// New creates a new mock DataStore
func New() *DataStore {
	return &DataStore{
		data: make(map[string][]byte),
	}
}

// WithPutError makes Put operations fail with a write StoreError wrapping err
func (m *DataStore) WithPutError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putError = err
	return m
}

// WithGetError makes Get operations fail with a read StoreError wrapping err
func (m *DataStore) WithGetError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
	return m
}

// WithStreamError makes Stream end with a scan StoreError wrapping err
func (m *DataStore) WithStreamError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamError = err
	return m
}

// Put stores value under key
func (m *DataStore) Put(ctx context.Context, key, value []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.NewValidationError("key", "must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putError != nil {
		return nil, errors.NewStoreError(errors.OpWrite, BackendName, m.putError)
	}

	m.puts++
	previous, existed := m.data[string(key)]
	m.data[string(key)] = clone(value)
	if !existed {
		return nil, nil
	}
	return previous, nil
}

// Get retrieves the value under key
func (m *DataStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.NewValidationError("key", "must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, errors.NewStoreError(errors.OpRead, BackendName, m.getError)
	}

	m.gets++
	if value, exists := m.data[string(key)]; exists {
		return clone(value), nil
	}
	return nil, errors.NewNotFoundError("key", string(key))
}

// Stream returns every entry in key order
func (m *DataStore) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult {
	options := storagemodels.ApplyStreamOptions(opts...)
	resultChan := make(chan storagemodels.StreamResult, options.BufferSize)

	m.mu.RLock()
	entries := make([]storagemodels.Entry, 0, len(m.data))
	for k, v := range m.data {
		entries = append(entries, storagemodels.Entry{Key: []byte(k), Value: clone(v)})
	}
	streamErr := m.streamError
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return string(entries[i].Key) < string(entries[j].Key)
	})

	go func() {
		defer close(resultChan)

		start := time.Now()
		for i, e := range entries {
			select {
			case <-ctx.Done():
				return
			case resultChan <- storagemodels.StreamResult{
				Entry: e,
				Meta: storagemodels.StreamMeta{
					Index:      int64(i),
					PageNumber: 1,
					Timestamp:  time.Now(),
				},
			}:
			}
		}

		if streamErr != nil {
			select {
			case <-ctx.Done():
			case resultChan <- storagemodels.StreamResult{
				Error: errors.NewStoreError(errors.OpScan, BackendName, streamErr),
			}:
			}
			return
		}

		if options.ProgressHandler != nil {
			var last []byte
			if len(entries) > 0 {
				last = entries[len(entries)-1].Key
			}
			options.ProgressHandler(storagemodels.NewProgress(int64(len(entries)), 1, last, start))
		}
	}()

	return resultChan
}

// Close is a no-op
func (m *DataStore) Close() error {
	return nil
}

// Helper methods for testing

// SetRaw writes a value directly, bypassing error injection
func (m *DataStore) SetRaw(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = clone(value)
}

// GetData returns a copy of the internal data map (for testing)
func (m *DataStore) GetData() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		result[k] = clone(v)
	}
	return result
}

// Count returns the number of stored entries
func (m *DataStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Calls returns how many Put and Get calls reached the map
func (m *DataStore) Calls() (puts, gets int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts, m.gets
}

// Clear removes all data
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
