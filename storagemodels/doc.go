/*
Package storagemodels defines the data structures shared by the directory
stores and the registry service.

OwnerRecord:
The value stored for a topic. It is persisted as a single UTF-8 string with
one separator and no escaping:

	rec := OwnerRecord{Address: "10.0.0.5:9000", NodeID: "node-abc"}
	rec.Encode() // "10.0.0.5:9000|node-abc"

DecodeOwnerRecord rejects anything that is not valid UTF-8 or does not split
into exactly two fields. Empty fields are accepted.

StreamResult:
Entries enumerated by a datastore, with metadata:

	opts := []StreamOption{
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithMaxRetries(3),
	    WithProgressHandler(progressFunc),
	}
*/
package storagemodels
