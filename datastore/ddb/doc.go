/*
Package ddb provides a DynamoDB implementation of the directory store.

Each topic is a single item in a single table. The key layout comes from an
index map whose macros are replaced by the topic:

	indexMap := map[string]string{
	    "PK": "TOPIC#{topic}",   // Becomes "TOPIC#telemetry"
	    "SK": "TOPIC#{topic}",   // Same as PK: a single object key
	}

Items carry the raw stored bytes in Value (binary), the topic in Topic and the
write time in UpdatedAt (an RFC 3339 date-time).

Consistency:
Reads use ConsistentRead so a Get issued after a Put returns observes it.
Put asks for ALL_OLD return values, which gives the overwritten value in the
same round trip as the write.

Streaming:
Stream scans the table page by page with retry on throttling:

	results := store.Stream(ctx,
	    storagemodels.WithPageSize(25),
	    storagemodels.WithMaxRetries(3),
	)
*/
package ddb
