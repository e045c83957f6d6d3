/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/mothership/storagemodels"
)

// DataStore is a durable map from byte-string keys to byte-string values.
// Implementations must be safe for concurrent use and linearizable per key.
type DataStore interface {
	// Put replaces the value under key and returns the value it overwrote,
	// or nil if there was none. The write is durable once Put returns.
	Put(ctx context.Context, key, value []byte) ([]byte, error)

	// Get returns the current value under key. A missing key yields an
	// error matching errors.ErrNotFound; I/O failures match errors.ErrStoreRead.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Stream enumerates every entry. The channel is closed when the stream
	// ends; a failure is delivered as a final result with Error set.
	Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult

	Close() error
}
