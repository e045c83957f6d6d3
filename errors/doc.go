/*
Package errors provides semantic error types for the mothership directory.

Errors fall into three groups. Store-level failures (StoreError) come from a
backend and are tagged as reads or writes. Service-level outcomes are what
callers of the registry see: ErrNotFound for a topic that was never
registered, ErrCorruptRecord for a stored value that cannot be decoded, and
ErrUnavailable when the store failed underneath. ErrInvalidInput covers
malformed requests.

Common Errors:

	var (
	    ErrNotFound      = errors.New("topic not found")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrCorruptRecord = errors.New("corrupt owner record")
	    ErrUnavailable   = errors.New("directory unavailable")
	    ErrStoreRead     = errors.New("store read failed")
	    ErrStoreWrite    = errors.New("store write failed")
	)

Usage:

	res, err := svc.Resolve(ctx, "telemetry")
	if err != nil {
	    switch {
	    case errors.IsNotFound(err):
	        // never registered; back off and ask again later
	    case errors.IsUnavailable(err):
	        // storage trouble; retry
	    }
	}

UnavailableError wraps the originating StoreError, so errors.Is(err, ErrStoreWrite)
still holds on a failed registration.
*/
package errors
