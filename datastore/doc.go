/*
Package datastore defines the contract of the directory store.

The store is a single shared handle used by every request goroutine:

	type DataStore interface {
	    Put(ctx context.Context, key, value []byte) ([]byte, error)
	    Get(ctx context.Context, key []byte) ([]byte, error)
	    Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult
	    Close() error
	}

All operations are single-key. Put must be durable before it returns, and a Get
issued after a Put completes observes that value or a newer one.

Implementations:
  - badgerdb: embedded BadgerDB on local disk (default)
  - ddb: DynamoDB table with strongly consistent reads
  - mock: in-memory store for tests and throwaway instances
*/
package datastore
