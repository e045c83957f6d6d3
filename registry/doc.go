/*
Package registry implements the mothership directory service.

Nodes register "I own topic T, reach me on port P" and the service records
the owner as "<observed host>:<port>|<node id>", taking the host from the
transport rather than from the caller. Anyone may then resolve a topic to its
current owner.

	svc := registry.New(store, registry.WithLogger(log))

	err := svc.Register(ctx, registry.RegisterParams{
	    Topic:        "telemetry",
	    NodeID:       "node-abc",
	    Port:         9000,
	    ObservedHost: "10.0.0.5",
	})

	res, err := svc.Resolve(ctx, "telemetry")
	// res.Address == "10.0.0.5:9000", res.NodeID == "node-abc"

Every registration unconditionally replaces the previous owner (last write
wins) and every resolve reads the store afresh. The service keeps no state of
its own and takes no locks; concurrency is the store's concern.
*/
package registry
