/*
Package badgerdb provides the default directory store, backed by an embedded
BadgerDB database on local disk.

Writes are synchronous by default, so a successful Put survives a crash. Put
reads the previous value and writes the new one inside a single read-write
transaction. Two concurrent Puts to the same key make one of the transactions
fail with badger.ErrConflict; the store retries that transaction, so both
writes succeed in some order and the last committed one wins.

Usage:

	store, err := badgerdb.New(badgerdb.DefaultConfig("mothership_db"))
	if err != nil {
	    return err
	}
	defer store.Close()

	prev, err := store.Put(ctx, []byte("telemetry"), []byte("10.0.0.5:9000|node-abc"))
*/
package badgerdb
