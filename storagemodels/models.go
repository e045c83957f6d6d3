/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Separator splits the address and node id in a stored owner record.
const Separator = "|"

var (
	// ErrNotText is returned by DecodeOwnerRecord when the value is not valid UTF-8
	ErrNotText = errors.New("value is not valid UTF-8 text")
	// ErrFieldCount is returned when the value does not hold exactly two fields
	ErrFieldCount = errors.New("value does not split into exactly two fields")
)

// OwnerRecord is the value stored for a topic: where the owning node can be
// reached and which node instance registered it.
type OwnerRecord struct {
	Address string
	NodeID  string
}

// Encode renders the record as "<address>|<nodeId>". Callers must ensure
// neither field contains Separator.
func (r OwnerRecord) Encode() []byte {
	return []byte(r.Address + Separator + r.NodeID)
}

// String returns the encoded form.
func (r OwnerRecord) String() string {
	return string(r.Encode())
}

// DecodeOwnerRecord parses a stored value. Either field may be empty; only
// the separator count is checked. No partial parse is ever returned.
func DecodeOwnerRecord(raw []byte) (OwnerRecord, error) {
	if !utf8.Valid(raw) {
		return OwnerRecord{}, ErrNotText
	}
	parts := strings.Split(string(raw), Separator)
	if len(parts) != 2 {
		return OwnerRecord{}, ErrFieldCount
	}
	return OwnerRecord{Address: parts[0], NodeID: parts[1]}, nil
}

// Resolution is the answer to "who currently owns this topic?".
type Resolution struct {
	Address string `json:"node_address"`
	NodeID  string `json:"node_id"`
	Topic   string `json:"node_topic"`
}

// Entry is a raw key/value pair as held by a datastore.
type Entry struct {
	Key   []byte
	Value []byte
}
