package tree

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/prolly/codec"
	"xdao.co/prolly/storage"
)

// nodeStore moves nodes between their decoded form and the block store.
// Encoding is the configured codec's; the store assigns CIDs.
type nodeStore struct {
	cas storage.CAS
	cod codec.Codec
}

// write encodes n and puts the block, returning its CID.
func (ns nodeStore) write(n *node) (cid.Cid, error) {
	children := make([]string, len(n.children))
	for i, c := range n.children {
		children[i] = c.String()
	}
	b, err := ns.cod.Encode(codec.Payload{
		Leaf:     n.leaf,
		Counts:   n.counts,
		Keys:     n.keys,
		Children: children,
		Keyed:    n.keyed,
	})
	if err != nil {
		return cid.Undef, err
	}
	return ns.cas.Put(b)
}

// readAs is read plus a check that the node is of the expected kind, so a
// list root handed to a Map (or vice versa) fails loudly instead of
// misreading the tuple.
func (ns nodeStore) readAs(id cid.Cid, keyed bool) (*node, error) {
	n, err := ns.read(id)
	if err != nil {
		return nil, err
	}
	if n.keyed != keyed {
		return nil, fmt.Errorf("%w: %s: keyed flag mismatch", ErrInvalidNode, id)
	}
	return n, nil
}

// read fetches and decodes the node at id, validating the shape
// invariants. Store errors pass through untouched; a payload the codec
// cannot decode is reported as ErrInvalidNode, with the codec's message
// carried only in the error text.
func (ns nodeStore) read(id cid.Cid) (*node, error) {
	b, err := ns.cas.Get(id)
	if err != nil {
		return nil, err
	}
	p, err := ns.cod.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidNode, id, err)
	}
	if len(p.Counts) != len(p.Children) {
		return nil, fmt.Errorf("%w: %s: %d counts vs %d children", ErrInvalidNode, id, len(p.Counts), len(p.Children))
	}
	if p.Keyed && len(p.Keys) != len(p.Children) {
		return nil, fmt.Errorf("%w: %s: %d keys vs %d children", ErrInvalidNode, id, len(p.Keys), len(p.Children))
	}

	children := make([]cid.Cid, len(p.Children))
	for i, s := range p.Children {
		c, err := cid.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: child %d: %v", ErrInvalidNode, id, i, err)
		}
		children[i] = c
	}
	return &node{
		leaf:     p.Leaf,
		keyed:    p.Keyed,
		counts:   p.Counts,
		keys:     p.Keys,
		children: children,
	}, nil
}
