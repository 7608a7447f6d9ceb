// Package codec serializes tree node payloads.
//
// The wire schema is positional, shared by every codec:
//
//	list node: [leaf, counts, children]
//	map node:  [leaf, counts, keys, children]
//
// Children travel in their canonical CID string form for portability across
// codecs; all other fields use the codec's native representations. A codec
// MUST be deterministic: equal payloads encode to equal bytes.
package codec

import "errors"

// Payload is the decoded tuple of one tree node.
type Payload struct {
	Leaf     bool
	Counts   []uint32
	Keys     []string
	Children []string

	// Keyed distinguishes an empty map node from an empty list node: the
	// 4-tuple schema applies whenever Keyed is true, even with no entries.
	Keyed bool
}

// ErrMalformed reports bytes that do not decode to the node schema.
// Shape violations beyond this (count/key/children arity) are the tree
// package's concern.
var ErrMalformed = errors.New("codec: malformed node payload")

// Codec encodes and decodes node payloads.
type Codec interface {
	// Name is the multicodec name, e.g. "dag-cbor".
	Name() string
	// Code is the multicodec code, e.g. 0x71.
	Code() uint64
	Encode(p Payload) ([]byte, error)
	Decode(b []byte) (Payload, error)
}

// ByCode resolves a bundled codec from its multicodec code.
func ByCode(code uint64) (Codec, bool) {
	switch code {
	case DagCBOR().Code():
		return DagCBOR(), true
	case DagJSON().Code():
		return DagJSON(), true
	default:
		return nil, false
	}
}
