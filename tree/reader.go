package tree

import "github.com/ipfs/go-cid"

// Size returns the number of elements. One block read.
func (l List) Size() (uint64, error) {
	ns, err := l.cfg.store()
	if err != nil {
		return 0, err
	}
	root, err := ns.readAs(l.root, false)
	if err != nil {
		return 0, err
	}
	return root.total(), nil
}

// At returns the element at rank i.
func (l List) At(i uint64) (cid.Cid, error) {
	ns, err := l.cfg.store()
	if err != nil {
		return cid.Undef, err
	}
	n, rank, err := descendRank(ns, l.root, false, i)
	if err != nil {
		return cid.Undef, err
	}
	return n.children[rank], nil
}

// Size returns the number of entries. One block read.
func (m Map) Size() (uint64, error) {
	ns, err := m.cfg.store()
	if err != nil {
		return 0, err
	}
	root, err := ns.readAs(m.root, true)
	if err != nil {
		return 0, err
	}
	return root.total(), nil
}

// At returns the entry at rank i, or ok=false when i is past the size.
func (m Map) At(i uint64) (Entry, bool, error) {
	ns, err := m.cfg.store()
	if err != nil {
		return Entry{}, false, err
	}
	n, rank, err := descendRank(ns, m.root, true, i)
	if err == ErrOutOfBounds {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Key: n.keys[rank], Value: n.children[rank]}, true, nil
}

// Eq returns the value stored under key, or ok=false when absent.
func (m Map) Eq(key string) (cid.Cid, bool, error) {
	ns, err := m.cfg.store()
	if err != nil {
		return cid.Undef, false, err
	}
	cmp := m.cfg.compare()

	n, err := ns.readAs(m.root, true)
	if err != nil {
		return cid.Undef, false, err
	}
	for {
		i := findPred(n.keys, key, cmp)
		if i < 0 {
			return cid.Undef, false, nil
		}
		if n.leaf {
			if cmp(n.keys[i], key) != 0 {
				return cid.Undef, false, nil
			}
			return n.children[i], true, nil
		}
		n, err = ns.readAs(n.children[i], true)
		if err != nil {
			return cid.Undef, false, err
		}
	}
}

// descendRank walks to the leaf holding rank i and returns it together
// with the residual index within the leaf.
func descendRank(ns nodeStore, root cid.Cid, keyed bool, i uint64) (*node, uint64, error) {
	n, err := ns.readAs(root, keyed)
	if err != nil {
		return nil, 0, err
	}
	for {
		idx, rem := n.seekRank(i)
		if idx < 0 {
			return nil, 0, ErrOutOfBounds
		}
		if n.leaf {
			return n, uint64(idx), nil
		}
		n, err = ns.readAs(n.children[idx], keyed)
		if err != nil {
			return nil, 0, err
		}
		i = rem
	}
}
