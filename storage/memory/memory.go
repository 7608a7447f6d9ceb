// Package memory provides an in-process CAS, primarily for tests and tools.
package memory

import (
	"sync"

	"github.com/ipfs/go-cid"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/storage"
)

// CAS is a map-backed content-addressable store.
//
// Safe for concurrent use. Objects are immutable once written; a Put of the
// same bytes is a no-op returning the same CID.
type CAS struct {
	mu      sync.RWMutex
	blocks  map[string][]byte
	deriver cidutil.Deriver
}

// New constructs an empty in-memory CAS addressing bytes through deriver.
func New(deriver cidutil.Deriver) *CAS {
	return &CAS{blocks: map[string][]byte{}, deriver: deriver}
}

func (c *CAS) Put(bytes []byte) (cid.Cid, error) {
	id, err := c.deriver.Sum(bytes)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := id.KeyString()
	if _, ok := c.blocks[key]; !ok {
		cp := make([]byte, len(bytes))
		copy(cp, bytes)
		c.blocks[key] = cp
	}
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	c.mu.RLock()
	b, ok := c.blocks[id.KeyString()]
	c.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	c.mu.RLock()
	_, ok := c.blocks[id.KeyString()]
	c.mu.RUnlock()
	return ok
}

// Len reports the number of stored blocks.
func (c *CAS) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}
