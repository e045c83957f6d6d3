/*
Package mothership is a registration and discovery directory for a fleet of
nodes. Each node claims ownership of a named topic; other nodes ask which
address and node id currently own a topic.

A topic has at most one owner. A later registration replaces the earlier one
and nothing is ever deleted. Every lookup reads the store, so a new owner is
visible as soon as its registration returns.

The packages are layered:
  - datastore: the durable key/value Directory Store, with BadgerDB,
    DynamoDB and in-memory backends
  - registry: Register, Resolve and Audit over a DataStore
  - api: the HTTP surface
  - regclient: the client nodes use to talk to api
  - cmd/mothership: the server and operator CLI

Basic Usage:

	cfg, _ := config.Load("mothership.yaml")
	store, _ := mothership.OpenStore(ctx, cfg.Store, logger)
	defer store.Close()

	svc := registry.New(store, registry.WithLogger(logger))
	srv := api.New(svc, api.WithLogger(logger))
	err := srv.ListenAndServe(ctx, cfg.ListenAddr())

Stored values have the form "<address>|<node id>". Records written by other
tools that do not parse are reported as corrupt on lookup and by Audit, and
are never repaired.
*/
package mothership
