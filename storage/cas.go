package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable storage interface.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written; each adapter owns a
//   cidutil.Deriver fixing the (codec, multihash) pair it addresses with.
// - Get MUST return ErrNotFound when the CID is absent.
//
// The tree packages treat the CAS as the sole shared resource: they never
// lock around it, and they rely on Put idempotence to make whole-operation
// retries safe.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
